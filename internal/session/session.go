// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mirrorlab/mirror-tui/internal/gemini"
	"github.com/mirrorlab/mirror-tui/internal/model"
)

// ErrorPlaceholderText is the fixed stand-in appended when generation fails,
// whatever the underlying cause.
const ErrorPlaceholderText = "DNA mismatch detected. Adjusting mirror frequencies..."

// =============================================================================
// STATE
// =============================================================================

// State is the session's position in the conversation-turn cycle.
type State int

const (
	// StateIdle accepts new submissions.
	StateIdle State = iota
	// StateAwaitingReply has one generation outstanding; submissions are
	// rejected until it settles.
	StateAwaitingReply
)

// String returns a log-friendly name for the state.
func (s State) String() string {
	if s == StateAwaitingReply {
		return "awaiting-reply"
	}
	return "idle"
}

// =============================================================================
// GENERATOR INTERFACE
// =============================================================================

// Generator produces one in-character reply. Satisfied by *gemini.Client.
type Generator interface {
	GenerateReply(ctx context.Context, profile *model.StyleProfile, incoming string, contextWindow []string) (string, *gemini.UsageMetadata, error)
}

// =============================================================================
// SESSION
// =============================================================================

// Session drives the transcript of one active persona.
//
// Safe for concurrent use; the mutex serializes transcript mutation so the
// persist callback always sees a consistent snapshot.
type Session struct {
	mu sync.Mutex

	persona *model.Persona
	state   State

	// pending is the incoming text of the outstanding generation.
	pending string

	// onPersist receives the persona ID and a transcript snapshot after
	// every mutation.
	onPersist func(personaID string, history []model.ChatMessage)

	logger *log.Logger
}

// New creates a session over the given persona. The session keeps its own
// copy; callers must not mutate the persona afterwards.
func New(persona *model.Persona, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Default()
	}
	return &Session{
		persona: persona.Clone(),
		state:   StateIdle,
		logger:  logger,
	}
}

// SetPersistCallback sets the function invoked after every transcript
// mutation.
func (s *Session) SetPersistCallback(fn func(personaID string, history []model.ChatMessage)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onPersist = fn
}

// =============================================================================
// STATE ACCESS
// =============================================================================

// State returns the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Awaiting reports whether a generation is outstanding.
func (s *Session) Awaiting() bool {
	return s.State() == StateAwaitingReply
}

// Persona returns a clone of the session's persona, transcript included.
func (s *Session) Persona() *model.Persona {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persona.Clone()
}

// Messages returns a snapshot of the transcript.
func (s *Session) Messages() []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.ChatMessage(nil), s.persona.History...)
}

// UpdatePersona replaces the session's persona record (name, style, theme)
// while keeping the current transcript. Used when the editor saves changes
// mid-session.
func (s *Session) UpdatePersona(p *model.Persona) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.persona.History
	s.persona = p.Clone()
	s.persona.History = history
}

// =============================================================================
// TRANSITIONS
// =============================================================================

// Submit appends an incoming message and moves to awaiting-reply.
//
// Returns false without mutating anything when the text is blank or a
// generation is already outstanding: at most one generation per session.
func (s *Session) Submit(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateAwaitingReply {
		return false
	}

	s.persona.History = append(s.persona.History, model.NewIncomingMessage(text))
	s.state = StateAwaitingReply
	s.pending = text
	s.persistLocked()
	return true
}

// ResolveSuccess appends the generated reply and returns to idle.
func (s *Session) ResolveSuccess(reply string) model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := model.NewGeneratedMessage(reply)
	s.persona.History = append(s.persona.History, msg)
	s.state = StateIdle
	s.pending = ""
	s.persistLocked()
	return msg
}

// ResolveFailure appends the fixed error stand-in and returns to idle. The
// distinct failure kind goes to the log only; the transcript always shows
// the same placeholder.
func (s *Session) ResolveFailure(err error) model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ge *gemini.GenerationError
	if errors.As(err, &ge) {
		s.logger.Printf("session: generation failed for %s (kind=%s): %v", s.persona.ID, ge.Kind, err)
	} else {
		s.logger.Printf("session: generation failed for %s: %v", s.persona.ID, err)
	}

	msg := model.NewErrorMessage(ErrorPlaceholderText)
	s.persona.History = append(s.persona.History, msg)
	s.state = StateIdle
	s.pending = ""
	s.persistLocked()
	return msg
}

// Clear resets the transcript to empty. The UI gates this behind an explicit
// confirmation; the session itself just performs the reset.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.persona.History = []model.ChatMessage{}
	s.persistLocked()
}

// persistLocked invokes the persist callback with a snapshot. Caller must
// hold the mutex.
func (s *Session) persistLocked() {
	if s.onPersist == nil {
		return
	}
	snapshot := append([]model.ChatMessage(nil), s.persona.History...)
	s.onPersist(s.persona.ID, snapshot)
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// ReplyResultMsg delivers a settled generation back into the event loop.
type ReplyResultMsg struct {
	PersonaID string
	Reply     string
	Usage     *gemini.UsageMetadata
	Duration  int64 // milliseconds
	Err       error
}

// GenerateCmd returns a command that runs the outstanding generation and
// delivers a ReplyResultMsg. It snapshots the profile and context window up
// front, so later transcript mutations cannot race the request.
//
// The request is issued without a deadline: once in flight it blocks new
// submissions until it settles, matching the one-outstanding-call design.
func (s *Session) GenerateCmd(gen Generator) tea.Cmd {
	s.mu.Lock()
	personaID := s.persona.ID
	incoming := s.pending
	profile := s.persona.Style
	window := s.persona.ContextWindow()
	s.mu.Unlock()

	return func() tea.Msg {
		start := time.Now()
		reply, usage, err := gen.GenerateReply(context.Background(), &profile, incoming, window)
		return ReplyResultMsg{
			PersonaID: personaID,
			Reply:     reply,
			Usage:     usage,
			Duration:  time.Since(start).Milliseconds(),
			Err:       err,
		}
	}
}
