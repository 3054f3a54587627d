// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mirrorlab/mirror-tui/internal/export"
	"github.com/mirrorlab/mirror-tui/internal/model"
	"github.com/mirrorlab/mirror-tui/internal/session"
	"github.com/mirrorlab/mirror-tui/internal/ui/styles"
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Chat is the conversation view over an active session.
type Chat struct {
	theme *styles.Theme
	sess  *session.Session
	gen   session.Generator

	chatTheme model.ChatTheme

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	confirmClear bool
	status       string

	width  int
	height int
	ready  bool
}

// exportedMsg reports the outcome of a transcript export.
type exportedMsg struct {
	path string
	err  error
}

// NewChat creates the chat view for a session.
func NewChat(theme *styles.Theme, sess *session.Session, gen session.Generator) Chat {
	c := Chat{
		theme:     theme,
		sess:      sess,
		gen:       gen,
		chatTheme: model.ThemeByID(sess.Persona().ThemeID),
	}

	c.input = textinput.New()
	c.input.Placeholder = "Message " + sess.Persona().Name + "..."
	c.input.Focus()

	c.spinner = spinner.New()
	c.spinner.Spinner = spinner.Dot
	c.spinner.Style = theme.Spinner

	return c
}

// SetGenerator swaps the reply generator so a reloaded configuration takes
// effect mid-conversation.
func (c *Chat) SetGenerator(gen session.Generator) {
	c.gen = gen
}

// SetSize updates the layout dimensions and rebuilds the viewport.
func (c *Chat) SetSize(width, height int) {
	c.width = width
	c.height = height

	// Header, input line, and status bar take fixed rows.
	vpHeight := height - 6
	if vpHeight < 3 {
		vpHeight = 3
	}

	if !c.ready {
		c.viewport = viewport.New(width, vpHeight)
		c.ready = true
	} else {
		c.viewport.Width = width
		c.viewport.Height = vpHeight
	}
	c.input.Width = width - 6
	c.refreshTranscript()
}

// refreshTranscript re-renders the transcript into the viewport and scrolls
// to the latest message.
func (c *Chat) refreshTranscript() {
	if !c.ready {
		return
	}
	c.viewport.SetContent(c.renderTranscript())
	c.viewport.GotoBottom()
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles chat input and reply resolution.
func (c Chat) Update(msg tea.Msg) (Chat, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if c.sess.Awaiting() {
			var cmd tea.Cmd
			c.spinner, cmd = c.spinner.Update(msg)
			return c, cmd
		}
		return c, nil

	case session.ReplyResultMsg:
		if msg.PersonaID != c.sess.Persona().ID {
			return c, nil
		}
		if msg.Err != nil {
			c.sess.ResolveFailure(msg.Err)
		} else {
			c.sess.ResolveSuccess(msg.Reply)
		}
		c.refreshTranscript()
		return c, nil

	case exportedMsg:
		if msg.err != nil {
			c.status = fmt.Sprintf("Export failed: %v", msg.err)
		} else {
			c.status = "Exported to " + msg.path
		}
		return c, nil

	case tea.KeyMsg:
		return c.handleKey(msg)
	}

	return c, nil
}

// handleKey routes a key press.
func (c Chat) handleKey(msg tea.KeyMsg) (Chat, tea.Cmd) {
	if c.confirmClear {
		switch msg.String() {
		case "y", "Y", "enter":
			c.sess.Clear()
			c.confirmClear = false
			c.refreshTranscript()
		case "n", "N", "esc":
			c.confirmClear = false
		}
		return c, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return c, tea.Quit

	case "esc":
		return c, func() tea.Msg { return ShowDashboardMsg{} }

	case "enter":
		text := c.input.Value()
		if !c.sess.Submit(text) {
			return c, nil
		}
		c.input.Reset()
		c.status = ""
		c.refreshTranscript()
		return c, tea.Batch(c.spinner.Tick, c.sess.GenerateCmd(c.gen))

	case "ctrl+l":
		if len(c.sess.Messages()) > 0 {
			c.confirmClear = true
		}
		return c, nil

	case "ctrl+x":
		return c, c.exportCmd()

	case "pgup":
		c.viewport.HalfViewUp()
		return c, nil

	case "pgdown":
		c.viewport.HalfViewDown()
		return c, nil
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

// exportCmd writes the transcript as Markdown next to the working directory.
func (c Chat) exportCmd() tea.Cmd {
	persona := c.sess.Persona()
	return func() tea.Msg {
		data, err := export.Markdown(persona, nil)
		if err != nil {
			return exportedMsg{err: err}
		}
		name := fmt.Sprintf("%s_%s.md",
			sanitizeFilename(persona.Name), time.Now().Format("20060102_150405"))
		path := filepath.Join(".", name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return exportedMsg{err: err}
		}
		return exportedMsg{path: path}
	}
}

// sanitizeFilename keeps export filenames shell-friendly.
func sanitizeFilename(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			sb.WriteRune('_')
		}
	}
	if sb.Len() == 0 {
		return "persona"
	}
	return sb.String()
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the chat screen.
func (c Chat) View() string {
	var sb strings.Builder

	persona := c.sess.Persona()
	accent := c.theme.PersonaAccent(c.chatTheme)
	header := accent.Render(persona.Name)
	if tone := persona.Style.Tone; tone != "" {
		header += " " + c.theme.HeaderSubtitle.Render(tone)
	}
	sb.WriteString(c.theme.Header.Render(header))
	sb.WriteString("\n")

	if c.confirmClear {
		sb.WriteString(c.theme.ConfirmBox.Render("Clear this conversation? (y/n)"))
		sb.WriteString("\n")
		return c.theme.Container.Render(sb.String())
	}

	sb.WriteString(c.viewport.View())
	sb.WriteString("\n")

	if c.sess.Awaiting() {
		sb.WriteString(c.spinner.View() + " " + c.theme.ThinkingText.Render(persona.Name+" is typing..."))
	} else {
		sb.WriteString(c.theme.InputContainer.Render(c.theme.InputPrompt.Render("> ") + c.input.View()))
	}
	sb.WriteString("\n")

	if c.status != "" {
		sb.WriteString(c.theme.StatusBar.Render(c.status))
	} else {
		sb.WriteString(c.renderShortcuts())
	}

	return c.theme.Container.Render(sb.String())
}

// renderTranscript renders all messages as themed bubbles.
func (c Chat) renderTranscript() string {
	msgs := c.sess.Messages()
	if len(msgs) == 0 {
		return c.theme.PersonaMeta.Render("No messages yet. Say something.")
	}

	maxBubble := c.width * 3 / 4
	if maxBubble < 20 {
		maxBubble = 20
	}

	personaBubble := c.theme.PersonaBubble(c.chatTheme).MaxWidth(maxBubble)
	partnerBubble := c.theme.PartnerBubble.MaxWidth(maxBubble)
	errorBubble := lipgloss.NewStyle().
		Foreground(styles.Rose).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Rose).
		Padding(0, 2).
		MarginRight(4).
		MaxWidth(maxBubble)

	var sb strings.Builder
	for _, m := range msgs {
		stamp := c.theme.Timestamp.Render(m.Time().Format("15:04"))
		switch {
		case m.IsError:
			sb.WriteString(errorBubble.Render(m.Text) + " " + stamp)
		case m.Role == model.RoleIncoming:
			// Incoming messages sit on the right, partner-style.
			line := partnerBubble.Render(m.Text) + " " + stamp
			sb.WriteString(lipgloss.PlaceHorizontal(c.width, lipgloss.Right, line))
		default:
			sb.WriteString(personaBubble.Render(m.Text) + " " + stamp)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderShortcuts renders the key help line.
func (c Chat) renderShortcuts() string {
	pairs := [][2]string{
		{"Enter", "send"},
		{"C-l", "clear"},
		{"C-x", "export"},
		{"Esc", "back"},
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, c.theme.ShortcutKey.Render(p[0])+" "+c.theme.ShortcutDesc.Render(p[1]))
	}
	return c.theme.StatusBar.Render(strings.Join(parts, "  "))
}
