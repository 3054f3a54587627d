// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mirrorlab/mirror-tui/internal/gemini"
	"github.com/mirrorlab/mirror-tui/internal/model"
	"github.com/mirrorlab/mirror-tui/internal/store"
	"github.com/mirrorlab/mirror-tui/internal/ui/styles"
)

// =============================================================================
// EDITOR STATE
// =============================================================================

// editorState tracks what the editor is doing.
type editorState int

const (
	editorEditing    editorState = iota // Accepting field input
	editorExtracting                    // Style extraction in flight
	editorAlert                         // Blocking alert until dismissed
)

// Field indices for focus cycling.
const (
	fieldName = iota
	fieldAvatar
	fieldScreenshots
	fieldSample
	fieldTheme
	fieldCount
)

// =============================================================================
// EDITOR MODEL
// =============================================================================

// Editor is the persona form view. It edits a working copy; nothing touches
// the store until save.
type Editor struct {
	theme *styles.Theme
	store *store.Store
	gen   *gemini.Client

	// working is the persona being edited. For a new persona it exists only
	// here until the first save.
	working *model.Persona
	isNew   bool

	state editorState
	focus int

	nameInput       textinput.Model
	avatarInput     textinput.Model
	screenshotInput textinput.Model
	sampleInput     textarea.Model
	themeIndex      int

	spinner  spinner.Model
	alertMsg string
	status   string

	width  int
	height int
}

// NewEditor creates the editor for a persona. A nil persona opens the form
// for a new one, preselecting the configured default chat theme.
func NewEditor(theme *styles.Theme, st *store.Store, gen *gemini.Client, p *model.Persona, defaultTheme model.ThemeID) Editor {
	e := Editor{
		theme: theme,
		store: st,
		gen:   gen,
	}

	if p == nil {
		e.working = model.NewPersona()
		e.working.ThemeID = model.ThemeByID(defaultTheme).ID
		e.isNew = true
	} else {
		e.working = p.Clone()
	}

	e.nameInput = textinput.New()
	e.nameInput.Placeholder = "Persona name"
	e.nameInput.CharLimit = 64
	e.nameInput.SetValue(e.working.Name)
	e.nameInput.Focus()

	e.avatarInput = textinput.New()
	e.avatarInput.Placeholder = "Avatar image path (optional)"

	e.screenshotInput = textinput.New()
	e.screenshotInput.Placeholder = "Chat screenshot paths, comma separated (optional)"

	e.sampleInput = textarea.New()
	e.sampleInput.Placeholder = "Paste chat samples written by the person to mirror..."
	e.sampleInput.SetHeight(8)

	for i, id := range model.ThemeOrder {
		if id == e.working.ThemeID {
			e.themeIndex = i
			break
		}
	}

	e.spinner = spinner.New()
	e.spinner.Spinner = spinner.Dot
	e.spinner.Style = theme.Spinner

	return e
}

// SetClient swaps the extraction client so a reloaded configuration takes
// effect on the next extraction.
func (e *Editor) SetClient(gen *gemini.Client) {
	e.gen = gen
}

// SetSize updates the layout dimensions.
func (e *Editor) SetSize(width, height int) {
	e.width = width
	e.height = height
	e.sampleInput.SetWidth(width - 8)
}

// Extracting reports whether an extraction call is in flight.
func (e *Editor) Extracting() bool {
	return e.state == editorExtracting
}

// =============================================================================
// EXTRACTION COMMAND
// =============================================================================

// extractCmd reads the screenshot files, encodes them, and runs a style
// extraction. All file IO happens inside the command, off the update loop.
func (e *Editor) extractCmd() tea.Cmd {
	personaID := e.working.ID
	name := strings.TrimSpace(e.nameInput.Value())
	sample := e.sampleInput.Value()
	paths := splitPaths(e.screenshotInput.Value())
	gen := e.gen

	return func() tea.Msg {
		images := make([]string, 0, len(paths))
		for _, p := range paths {
			data, err := os.ReadFile(p)
			if err != nil {
				return ExtractResultMsg{PersonaID: personaID, Err: fmt.Errorf("read screenshot %s: %w", p, err)}
			}
			images = append(images, base64.StdEncoding.EncodeToString(data))
		}

		start := time.Now()
		partial, usage, err := gen.ExtractStyle(context.Background(), images, sample, name)
		return ExtractResultMsg{
			PersonaID: personaID,
			Partial:   partial,
			Usage:     usage,
			Duration:  time.Since(start).Milliseconds(),
			Err:       err,
		}
	}
}

// splitPaths parses the comma-separated screenshot field.
func splitPaths(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles editor input.
func (e Editor) Update(msg tea.Msg) (Editor, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if e.state == editorExtracting {
			var cmd tea.Cmd
			e.spinner, cmd = e.spinner.Update(msg)
			return e, cmd
		}
		return e, nil

	case ExtractResultMsg:
		if msg.PersonaID != e.working.ID {
			return e, nil
		}
		e.state = editorEditing
		if msg.Err != nil {
			e.state = editorAlert
			e.alertMsg = extractionAlertText(msg.Err)
			return e, nil
		}
		// Merge stamps the analysis date; the profile only changes on success.
		msg.Partial.Merge(&e.working.Style)
		e.status = "Style extracted."
		return e, nil

	case tea.KeyMsg:
		return e.handleKey(msg)
	}

	return e, nil
}

// handleKey routes a key press according to the current state.
func (e Editor) handleKey(msg tea.KeyMsg) (Editor, tea.Cmd) {
	// The alert blocks everything until dismissed; the working profile has
	// already been left untouched.
	if e.state == editorAlert {
		switch msg.String() {
		case "enter", "esc":
			e.state = editorEditing
			e.alertMsg = ""
		}
		return e, nil
	}

	// While extracting, only allow quitting the program.
	if e.state == editorExtracting {
		if msg.String() == "ctrl+c" {
			return e, tea.Quit
		}
		return e, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return e, tea.Quit

	case "esc":
		return e, func() tea.Msg { return ShowDashboardMsg{} }

	case "tab":
		e.setFocus((e.focus + 1) % fieldCount)
		return e, nil

	case "shift+tab":
		e.setFocus((e.focus + fieldCount - 1) % fieldCount)
		return e, nil

	case "ctrl+e":
		if strings.TrimSpace(e.sampleInput.Value()) == "" && strings.TrimSpace(e.screenshotInput.Value()) == "" {
			e.state = editorAlert
			e.alertMsg = "Provide sample text or screenshot paths before extracting."
			return e, nil
		}
		e.state = editorExtracting
		e.status = ""
		return e, tea.Batch(e.spinner.Tick, e.extractCmd())

	case "ctrl+s":
		return e.save()

	case "left", "right":
		if e.focus == fieldTheme {
			delta := 1
			if msg.String() == "left" {
				delta = len(model.ThemeOrder) - 1
			}
			e.themeIndex = (e.themeIndex + delta) % len(model.ThemeOrder)
			return e, nil
		}
	}

	// Forward remaining input to the focused field.
	var cmd tea.Cmd
	switch e.focus {
	case fieldName:
		e.nameInput, cmd = e.nameInput.Update(msg)
	case fieldAvatar:
		e.avatarInput, cmd = e.avatarInput.Update(msg)
	case fieldScreenshots:
		e.screenshotInput, cmd = e.screenshotInput.Update(msg)
	case fieldSample:
		e.sampleInput, cmd = e.sampleInput.Update(msg)
	}
	return e, cmd
}

// setFocus moves input focus to a field.
func (e *Editor) setFocus(field int) {
	e.focus = field
	e.nameInput.Blur()
	e.avatarInput.Blur()
	e.screenshotInput.Blur()
	e.sampleInput.Blur()

	switch field {
	case fieldName:
		e.nameInput.Focus()
	case fieldAvatar:
		e.avatarInput.Focus()
	case fieldScreenshots:
		e.screenshotInput.Focus()
	case fieldSample:
		e.sampleInput.Focus()
	}
}

// save commits the working copy to the store and returns to the dashboard.
func (e Editor) save() (Editor, tea.Cmd) {
	name := strings.TrimSpace(e.nameInput.Value())
	if name == "" {
		e.state = editorAlert
		e.alertMsg = "Persona name must not be empty."
		return e, nil
	}
	e.working.Name = name
	e.working.Style.Name = name + "'s Style"
	e.working.ThemeID = model.ThemeOrder[e.themeIndex]

	if path := strings.TrimSpace(e.avatarInput.Value()); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			e.state = editorAlert
			e.alertMsg = fmt.Sprintf("Cannot read avatar image: %v", err)
			return e, nil
		}
		e.working.ProfileImage = base64.StdEncoding.EncodeToString(data)
	}

	if e.isNew {
		created := e.store.Create()
		e.working.ID = created.ID
		e.isNew = false
	}
	e.store.Update(e.working)

	return e, func() tea.Msg { return ShowDashboardMsg{} }
}

// extractionAlertText maps an extraction failure to the alert body.
func extractionAlertText(err error) string {
	var exErr *gemini.ExtractionError
	if errors.As(err, &exErr) {
		switch exErr.Kind {
		case gemini.ErrKindNoInput:
			return "Provide sample text or screenshots before extracting."
		case gemini.ErrKindConnection, gemini.ErrKindTimeout:
			return "Could not reach the analysis service. Check your connection and try again."
		case gemini.ErrKindUnparseable:
			return "The analysis returned an unusable profile. Try again with more sample text."
		}
	}
	return fmt.Sprintf("Style extraction failed: %v", err)
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the editor form.
func (e Editor) View() string {
	var sb strings.Builder

	header := "Edit Persona"
	if e.isNew {
		header = "New Persona"
	}
	sb.WriteString(e.theme.Header.Render(e.theme.HeaderTitle.Render(header)))
	sb.WriteString("\n\n")

	if e.state == editorAlert {
		alert := e.theme.AlertTitle.Render("Extraction Failed") + "\n\n" +
			e.theme.AlertMessage.Render(e.alertMsg) + "\n\n" +
			e.theme.ShortcutDesc.Render("press Enter to continue")
		sb.WriteString(e.theme.AlertBox.Render(alert))
		return e.theme.Container.Render(sb.String())
	}

	sb.WriteString(e.fieldLabel("Name", fieldName))
	sb.WriteString("\n" + e.nameInput.View() + "\n\n")

	sb.WriteString(e.fieldLabel("Avatar image", fieldAvatar))
	sb.WriteString("\n" + e.avatarInput.View() + "\n\n")

	sb.WriteString(e.fieldLabel("Screenshots", fieldScreenshots))
	sb.WriteString("\n" + e.screenshotInput.View() + "\n\n")

	sb.WriteString(e.fieldLabel("Sample text", fieldSample))
	sb.WriteString("\n" + e.sampleInput.View() + "\n\n")

	sb.WriteString(e.fieldLabel("Theme", fieldTheme))
	sb.WriteString("\n" + e.renderThemePicker() + "\n\n")

	sb.WriteString(e.renderProfileSummary())
	sb.WriteString("\n")

	if e.state == editorExtracting {
		sb.WriteString(e.spinner.View() + " " + e.theme.ExtractingText.Render("Extracting communication style..."))
		sb.WriteString("\n")
	} else if e.status != "" {
		sb.WriteString(e.theme.StatsValue.Render(e.status))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(e.renderShortcuts())

	return e.theme.Container.Render(sb.String())
}

// fieldLabel renders a field label, highlighted when focused.
func (e Editor) fieldLabel(label string, field int) string {
	if e.focus == field {
		return e.theme.FieldLabelFocused.Render("▸ " + label)
	}
	return e.theme.FieldLabel.Render("  " + label)
}

// renderThemePicker renders the theme carousel with a swatch per theme.
func (e Editor) renderThemePicker() string {
	id := model.ThemeOrder[e.themeIndex]
	ct := model.ThemeByID(id)

	swatch := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ct.Text)).
		Background(lipgloss.Color(ct.Bubble)).
		Padding(0, 1).
		Render(ct.Name)

	return fmt.Sprintf("  ◂ %s ▸  %s", swatch,
		e.theme.PersonaMeta.Render(fmt.Sprintf("(%d/%d)", e.themeIndex+1, len(model.ThemeOrder))))
}

// renderProfileSummary shows the current extracted dimensions, if any.
func (e Editor) renderProfileSummary() string {
	s := e.working.Style
	if s.Tone == "" && s.LanguageMix == "" && len(s.SlangAndWords) == 0 {
		return e.theme.PersonaMeta.Render("No style extracted yet.")
	}

	var sb strings.Builder
	sb.WriteString(e.theme.FieldLabel.Render("Extracted style") + "\n")
	if s.Tone != "" {
		sb.WriteString("  tone: " + e.theme.FieldValue.Render(s.Tone) + "\n")
	}
	if s.LanguageMix != "" {
		sb.WriteString("  language: " + e.theme.FieldValue.Render(s.LanguageMix) + "\n")
	}
	if len(s.SlangAndWords) > 0 {
		sb.WriteString("  slang: " + e.theme.FieldValue.Render(strings.Join(s.SlangAndWords, ", ")) + "\n")
	}
	sb.WriteString("  emoji: " + e.theme.FieldValue.Render(string(s.EmojiUsage.Frequency)))
	return sb.String()
}

// renderShortcuts renders the key help line.
func (e Editor) renderShortcuts() string {
	pairs := [][2]string{
		{"Tab", "next field"},
		{"C-e", "extract style"},
		{"C-s", "save"},
		{"Esc", "back"},
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, e.theme.ShortcutKey.Render(p[0])+" "+e.theme.ShortcutDesc.Render(p[1]))
	}
	return e.theme.StatusBar.Render(strings.Join(parts, "  "))
}
