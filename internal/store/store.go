// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store provides persona collection persistence.
//
// The whole collection lives in process memory and is mirrored to a single
// JSON file after every mutation. There is no incremental diffing and no
// multi-writer coordination: one in-process writer, full overwrite, atomic
// relative to readers via rename.
package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/mirrorlab/mirror-tui/internal/model"
	"github.com/mirrorlab/mirror-tui/internal/util"
)

// SchemaVersion is the current persisted envelope version. Version 0 is the
// legacy bare-array format, still accepted on load.
const SchemaVersion = 1

// =============================================================================
// ERRORS
// =============================================================================

// ErrPersonaNotFound is returned when a persona ID has no record.
// Use errors.Is(err, ErrPersonaNotFound) to check for this error.
var ErrPersonaNotFound = &StoreError{Message: "persona not found"}

// StoreError represents a persona store error.
type StoreError struct {
	Message string
	Cause   error
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is support.
func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// =============================================================================
// PERSISTED ENVELOPE
// =============================================================================

// envelope is the on-disk shape of the collection.
type envelope struct {
	SchemaVersion int              `json:"schema_version"`
	Personas      []*model.Persona `json:"personas"`
}

// =============================================================================
// PERSONA STORE
// =============================================================================

// Store holds the persona collection and mirrors it to disk.
//
// All methods are safe for concurrent use; a single mutex serializes both
// collection mutation and persistence so each overwrite is atomic relative
// to other mutations.
type Store struct {
	mu sync.Mutex

	path     string
	personas []*model.Persona
	activeID string

	logger *log.Logger
}

// New creates a store backed by the given file path. The file is not read
// until Load is called.
func New(path string, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	return &Store{
		path:     path,
		personas: []*model.Persona{},
		logger:   logger,
	}
}

// =============================================================================
// LOAD / PERSIST
// =============================================================================

// Load hydrates the collection from disk. Called once at startup.
//
// A missing file means a fresh install; a corrupt or unreadable payload is
// treated the same way — logged, never surfaced, empty collection.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Printf("store: read %s failed, starting empty: %v", s.path, err)
		}
		s.personas = []*model.Persona{}
		return nil
	}

	personas, err := decodeCollection(data)
	if err != nil {
		s.logger.Printf("store: corrupt collection at %s, starting empty: %v", s.path, err)
		s.personas = []*model.Persona{}
		return nil
	}

	for _, p := range personas {
		p.Normalize()
	}
	s.personas = personas
	return nil
}

// decodeCollection parses either the versioned envelope or the legacy bare
// array format. An envelope written by a newer build is refused rather than
// read as the current version; the file on disk stays untouched.
func decodeCollection(data []byte) ([]*model.Persona, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err == nil && env.Personas != nil {
		if env.SchemaVersion > SchemaVersion {
			return nil, fmt.Errorf("schema version %d is newer than supported version %d", env.SchemaVersion, SchemaVersion)
		}
		return env.Personas, nil
	}

	var legacy []*model.Persona
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, err
	}
	if legacy == nil {
		legacy = []*model.Persona{}
	}
	return legacy, nil
}

// persist writes the full collection. Caller must hold the mutex.
//
// Matching the shipped behavior, an empty collection is never written: the
// last non-empty snapshot stays on disk.
func (s *Store) persist() {
	if len(s.personas) == 0 {
		return
	}

	data, err := json.MarshalIndent(envelope{
		SchemaVersion: SchemaVersion,
		Personas:      s.personas,
	}, "", "  ")
	if err != nil {
		s.logger.Printf("store: marshal failed: %v", err)
		return
	}

	if err := util.AtomicWriteFile(s.path, data, 0644); err != nil {
		// Fatal to this write only; no retry.
		s.logger.Printf("store: write %s failed: %v", s.path, err)
	}
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Create allocates a new persona with defaults, appends it to the collection,
// makes it the active persona, and persists. Returns a clone of the record.
func (s *Store) Create() *model.Persona {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := model.NewPersona()
	s.personas = append(s.personas, p)
	s.activeID = p.ID
	s.persist()
	return p.Clone()
}

// Update replaces the stored record matching the given persona's ID and
// persists. Unknown IDs are a silent no-op: the only callers supply IDs
// obtained from the store itself.
func (s *Store) Update(p *model.Persona) {
	if p == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.personas {
		if existing.ID == p.ID {
			s.personas[i] = p.Clone()
			s.persist()
			return
		}
	}
}

// UpdateHistory replaces only the transcript of the persona with the given
// ID and persists. Unknown IDs are a no-op.
func (s *Store) UpdateHistory(id string, history []model.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.personas {
		if existing.ID == id {
			existing.History = append([]model.ChatMessage(nil), history...)
			s.persist()
			return
		}
	}
}

// Delete removes the persona with the given ID and persists. Deleting the
// active persona clears the active selection. Unknown IDs are a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.personas {
		if p.ID == id {
			s.personas = append(s.personas[:i], s.personas[i+1:]...)
			if s.activeID == id {
				s.activeID = ""
			}
			s.persist()
			return
		}
	}
}

// =============================================================================
// QUERIES
// =============================================================================

// Get returns a clone of the persona with the given ID.
func (s *Store) Get(id string) (*model.Persona, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.personas {
		if p.ID == id {
			return p.Clone(), nil
		}
	}
	return nil, ErrPersonaNotFound
}

// List returns clones of all personas in collection order.
func (s *Store) List() []*model.Persona {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*model.Persona, len(s.personas))
	for i, p := range s.personas {
		out[i] = p.Clone()
	}
	return out
}

// Count returns the number of personas.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.personas)
}

// =============================================================================
// ACTIVE SELECTION
// =============================================================================

// SetActive marks the persona with the given ID as active. Unknown IDs
// clear the selection. Selection is identified by ID, never by object
// identity.
func (s *Store) SetActive(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.personas {
		if p.ID == id {
			s.activeID = id
			return
		}
	}
	s.activeID = ""
}

// Active returns a clone of the active persona, or nil when no selection.
func (s *Store) Active() *model.Persona {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.personas {
		if p.ID == s.activeID {
			return p.Clone()
		}
	}
	return nil
}

// ActiveID returns the active persona's ID, or empty string.
func (s *Store) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}
