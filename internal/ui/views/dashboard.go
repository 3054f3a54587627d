// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/mirrorlab/mirror-tui/internal/model"
	"github.com/mirrorlab/mirror-tui/internal/store"
	"github.com/mirrorlab/mirror-tui/internal/telemetry"
	"github.com/mirrorlab/mirror-tui/internal/ui/styles"
)

// =============================================================================
// DASHBOARD KEY MAP
// =============================================================================

// DashboardKeyMap defines the keyboard bindings for the dashboard.
type DashboardKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	New    key.Binding
	Edit   key.Binding
	Delete key.Binding
	Quit   key.Binding
}

// DefaultDashboardKeyMap returns the default dashboard bindings.
func DefaultDashboardKeyMap() DashboardKeyMap {
	return DashboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "previous persona"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "next persona"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "open chat"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new persona"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit persona"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete persona"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// =============================================================================
// DASHBOARD MODEL
// =============================================================================

// Dashboard is the persona list view.
type Dashboard struct {
	theme *styles.Theme
	store *store.Store

	personas []*model.Persona
	cursor   int

	// usage totals shown in the stats bar; refreshed by the root model
	usage    telemetry.Totals
	hasUsage bool

	// delete confirmation
	confirmDelete bool
	deleteTarget  *model.Persona

	keyMap DashboardKeyMap

	width  int
	height int
}

// NewDashboard creates the dashboard view over a persona store.
func NewDashboard(theme *styles.Theme, st *store.Store) Dashboard {
	d := Dashboard{
		theme:  theme,
		store:  st,
		keyMap: DefaultDashboardKeyMap(),
	}
	d.Refresh()
	return d
}

// Refresh reloads the persona list from the store, keeping the cursor in
// bounds.
func (d *Dashboard) Refresh() {
	d.personas = d.store.List()
	if d.cursor >= len(d.personas) {
		d.cursor = len(d.personas) - 1
	}
	if d.cursor < 0 {
		d.cursor = 0
	}
}

// SetUsage updates the stats bar totals.
func (d *Dashboard) SetUsage(t telemetry.Totals) {
	d.usage = t
	d.hasUsage = true
}

// SetSize updates the layout dimensions.
func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// Selected returns the persona under the cursor, or nil.
func (d *Dashboard) Selected() *model.Persona {
	if len(d.personas) == 0 {
		return nil
	}
	return d.personas[d.cursor]
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles dashboard input and returns navigation commands.
func (d Dashboard) Update(msg tea.Msg) (Dashboard, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil
	}

	// Delete confirmation swallows all input until resolved.
	if d.confirmDelete {
		switch keyMsg.String() {
		case "y", "Y", "enter":
			var cmd tea.Cmd
			if d.deleteTarget != nil {
				id := d.deleteTarget.ID
				d.store.Delete(id)
				cmd = func() tea.Msg { return PersonaDeletedMsg{PersonaID: id} }
			}
			d.confirmDelete = false
			d.deleteTarget = nil
			d.Refresh()
			return d, cmd
		case "n", "N", "esc":
			d.confirmDelete = false
			d.deleteTarget = nil
		}
		return d, nil
	}

	switch {
	case key.Matches(keyMsg, d.keyMap.Up):
		if d.cursor > 0 {
			d.cursor--
		}

	case key.Matches(keyMsg, d.keyMap.Down):
		if d.cursor < len(d.personas)-1 {
			d.cursor++
		}

	case key.Matches(keyMsg, d.keyMap.Open):
		if p := d.Selected(); p != nil {
			d.store.SetActive(p.ID)
			return d, func() tea.Msg { return ShowChatMsg{PersonaID: p.ID} }
		}

	case key.Matches(keyMsg, d.keyMap.New):
		return d, func() tea.Msg { return ShowEditorMsg{} }

	case key.Matches(keyMsg, d.keyMap.Edit):
		if p := d.Selected(); p != nil {
			return d, func() tea.Msg { return ShowEditorMsg{Persona: p} }
		}

	case key.Matches(keyMsg, d.keyMap.Delete):
		if p := d.Selected(); p != nil {
			d.confirmDelete = true
			d.deleteTarget = p
		}

	case key.Matches(keyMsg, d.keyMap.Quit):
		return d, tea.Quit
	}

	return d, nil
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the dashboard.
func (d Dashboard) View() string {
	var sb strings.Builder

	title := d.theme.HeaderTitle.Render("MIRROR") + " " +
		d.theme.HeaderSubtitle.Render("persona dashboard")
	sb.WriteString(d.theme.Header.Render(title))
	sb.WriteString("\n\n")

	if d.confirmDelete && d.deleteTarget != nil {
		prompt := fmt.Sprintf("Delete %s and its transcript? (y/n)", d.deleteTarget.Name)
		sb.WriteString(d.theme.ConfirmBox.Render(prompt))
		sb.WriteString("\n")
		return d.theme.Container.Render(sb.String())
	}

	if len(d.personas) == 0 {
		sb.WriteString(d.theme.PersonaMeta.Render("No personas yet. Press 'n' to create one."))
		sb.WriteString("\n")
	} else {
		for i, p := range d.personas {
			sb.WriteString(d.renderItem(p, i == d.cursor))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(d.renderStatsBar())
	sb.WriteString("\n")
	sb.WriteString(d.renderShortcuts())

	return d.theme.Container.Render(sb.String())
}

// renderItem renders one persona row: theme swatch, name, message count,
// and transcript preview.
func (d Dashboard) renderItem(p *model.Persona, selected bool) string {
	ct := model.ThemeByID(p.ThemeID)
	swatch := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ct.Accent)).
		Render("●")

	name := runewidth.Truncate(p.Name, 24, "…")
	meta := fmt.Sprintf("%d msgs", p.MessageCount())

	line := fmt.Sprintf("%s %s  %s", swatch, runewidth.FillRight(name, 24), meta)
	if preview := p.Preview(); preview != "" {
		line += "  " + d.theme.PersonaMeta.Render(runewidth.Truncate(preview, 40, "…"))
	}

	if selected {
		return d.theme.PersonaItemSelected.Render("> " + line)
	}
	return d.theme.PersonaItem.Render("  " + line)
}

// renderStatsBar renders the persona count and usage totals.
func (d Dashboard) renderStatsBar() string {
	parts := []string{
		d.theme.StatsLabel.Render("personas ") + d.theme.StatsValue.Render(fmt.Sprintf("%d", len(d.personas))),
	}
	if d.hasUsage {
		parts = append(parts,
			d.theme.StatsLabel.Render("calls ")+d.theme.StatsValue.Render(fmt.Sprintf("%d", d.usage.Calls)),
			d.theme.StatsLabel.Render("tokens ")+d.theme.StatsValue.Render(fmt.Sprintf("%d", d.usage.PromptTokens+d.usage.OutputTokens)),
		)
		if d.usage.Failures > 0 {
			parts = append(parts,
				d.theme.StatsLabel.Render("failures ")+d.theme.StatsValue.Render(fmt.Sprintf("%d", d.usage.Failures)))
		}
	}
	return d.theme.StatsBar.Render(strings.Join(parts, "  |  "))
}

// renderShortcuts renders the key help line.
func (d Dashboard) renderShortcuts() string {
	pairs := [][2]string{
		{"Enter", "chat"},
		{"n", "new"},
		{"e", "edit"},
		{"d", "delete"},
		{"q", "quit"},
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, d.theme.ShortcutKey.Render(p[0])+" "+d.theme.ShortcutDesc.Render(p[1]))
	}
	return d.theme.StatusBar.Render(strings.Join(parts, "  "))
}
