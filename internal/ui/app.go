// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui contains the root Bubble Tea model for the mirror TUI.
//
// The root model owns the view state machine: exactly one of the dashboard,
// editor, and chat views is active at a time. Views request transitions by
// emitting the navigation messages defined in the views package; all other
// messages are forwarded to the active view.
package ui

import (
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mirrorlab/mirror-tui/internal/config"
	"github.com/mirrorlab/mirror-tui/internal/gemini"
	"github.com/mirrorlab/mirror-tui/internal/model"
	"github.com/mirrorlab/mirror-tui/internal/session"
	"github.com/mirrorlab/mirror-tui/internal/store"
	"github.com/mirrorlab/mirror-tui/internal/telemetry"
	"github.com/mirrorlab/mirror-tui/internal/ui/styles"
	"github.com/mirrorlab/mirror-tui/internal/ui/views"
)

// =============================================================================
// VIEW STATE
// =============================================================================

// view identifies the active screen.
type view int

const (
	viewDashboard view = iota
	viewEditor
	viewChat
)

// ConfigReloadedMsg delivers a hot-reloaded configuration into the event
// loop. Sent from outside Bubble Tea via Program.Send.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// =============================================================================
// APP MODEL
// =============================================================================

// App is the root model.
type App struct {
	cfg    *config.Config
	store  *store.Store
	client *gemini.Client
	usage  *telemetry.Recorder
	theme  *styles.Theme
	logger *log.Logger

	view      view
	dashboard views.Dashboard
	editor    views.Editor
	chat      views.Chat
	session   *session.Session

	width  int
	height int
}

// NewApp assembles the root model. The telemetry recorder may be nil when
// the usage database could not be opened; recording is then skipped.
func NewApp(cfg *config.Config, st *store.Store, client *gemini.Client, usage *telemetry.Recorder, logger *log.Logger) *App {
	if logger == nil {
		logger = log.Default()
	}
	theme := styles.NewTheme()

	app := &App{
		cfg:    cfg,
		store:  st,
		client: client,
		usage:  usage,
		theme:  theme,
		logger: logger,
		view:   viewDashboard,
	}
	app.dashboard = views.NewDashboard(theme, st)
	app.refreshDashboard()
	return app
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return nil
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.dashboard.SetSize(msg.Width, msg.Height)
		// Editor and chat are rebuilt on entry with the current size; only
		// resize them while they are live.
		switch a.view {
		case viewEditor:
			a.editor.SetSize(msg.Width, msg.Height)
		case viewChat:
			a.chat.SetSize(msg.Width, msg.Height)
		}
		return a, nil

	case ConfigReloadedMsg:
		a.applyConfig(msg.Config)
		return a, nil

	// Navigation
	case views.ShowDashboardMsg:
		a.view = viewDashboard
		a.session = nil
		a.refreshDashboard()
		return a, nil

	case views.ShowEditorMsg:
		a.editor = views.NewEditor(a.theme, a.store, a.client, msg.Persona, a.cfg.DefaultThemeID())
		a.editor.SetSize(a.width, a.height)
		a.view = viewEditor
		return a, nil

	case views.ShowChatMsg:
		return a, a.openChat(msg.PersonaID)

	case views.PersonaDeletedMsg:
		if a.usage != nil {
			if err := a.usage.DeleteForPersona(msg.PersonaID); err != nil {
				a.logger.Printf("usage cleanup: %v", err)
			}
		}
		a.refreshDashboard()
		return a, nil

	// Telemetry taps: record, then forward to the owning view.
	case views.ExtractResultMsg:
		a.recordUsage(telemetry.OpExtract, a.cfg.Models.Extract, msg.PersonaID,
			msg.Usage, time.Duration(msg.Duration)*time.Millisecond, msg.Err)
		var cmd tea.Cmd
		a.editor, cmd = a.editor.Update(msg)
		return a, cmd

	case session.ReplyResultMsg:
		a.recordUsage(telemetry.OpReply, a.cfg.Models.Reply, msg.PersonaID,
			msg.Usage, time.Duration(msg.Duration)*time.Millisecond, msg.Err)
		var cmd tea.Cmd
		a.chat, cmd = a.chat.Update(msg)
		return a, cmd
	}

	// Everything else goes to the active view.
	var cmd tea.Cmd
	switch a.view {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	case viewEditor:
		a.editor, cmd = a.editor.Update(msg)
	case viewChat:
		a.chat, cmd = a.chat.Update(msg)
	}
	return a, cmd
}

// openChat builds a session over the persona and switches views.
func (a *App) openChat(personaID string) tea.Cmd {
	p, err := a.store.Get(personaID)
	if err != nil {
		a.logger.Printf("open chat: %v", err)
		return nil
	}

	a.session = session.New(p, a.logger)
	a.session.SetPersistCallback(func(id string, history []model.ChatMessage) {
		a.store.UpdateHistory(id, history)
	})

	a.chat = views.NewChat(a.theme, a.session, a.client)
	a.chat.SetSize(a.width, a.height)
	a.view = viewChat
	return nil
}

// refreshDashboard reloads the persona list and usage totals.
func (a *App) refreshDashboard() {
	a.dashboard.Refresh()
	if a.usage == nil {
		return
	}
	totals, err := a.usage.TotalsAll()
	if err != nil {
		a.logger.Printf("usage totals: %v", err)
		return
	}
	a.dashboard.SetUsage(totals)
}

// applyConfig swaps in a hot-reloaded configuration. Only the client-facing
// settings take effect at runtime; storage paths stay as loaded at startup.
func (a *App) applyConfig(cfg *config.Config) {
	a.cfg = cfg
	a.client = gemini.NewClientWithConfig(&gemini.ClientConfig{
		APIKey:            cfg.API.Key,
		BaseURL:           cfg.API.BaseURL,
		ExtractModel:      cfg.Models.Extract,
		ReplyModel:        cfg.Models.Reply,
		Timeout:           cfg.Timeout(),
		RequestsPerMinute: cfg.API.RequestsPerMinute,
	})

	// Live views hold their own client reference; without this a rotated
	// API key would only apply after re-entering the view.
	a.editor.SetClient(a.client)
	a.chat.SetGenerator(a.client)
	a.logger.Printf("configuration reloaded")
}

// recordUsage writes a telemetry row for a settled remote call.
func (a *App) recordUsage(op telemetry.Operation, modelName, personaID string, usage *gemini.UsageMetadata, dur time.Duration, callErr error) {
	if a.usage == nil {
		return
	}
	rec := telemetry.Record{
		Timestamp: time.Now(),
		PersonaID: personaID,
		Operation: op,
		Model:     modelName,
		Duration:  dur,
	}
	if usage != nil {
		rec.PromptTokens = usage.PromptTokenCount
		rec.OutputTokens = usage.CandidatesTokenCount
	}
	if callErr != nil {
		rec.ErrorKind = gemini.KindOf(callErr).String()
	}
	if err := a.usage.Add(rec); err != nil {
		a.logger.Printf("usage record: %v", err)
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (a *App) View() string {
	switch a.view {
	case viewEditor:
		return a.editor.View()
	case viewChat:
		return a.chat.View()
	default:
		return a.dashboard.View()
	}
}
