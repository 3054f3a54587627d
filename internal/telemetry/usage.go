// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package telemetry provides token usage tracking for remote generation calls.
//
// Every extraction and reply call records one row: persona, operation, model,
// token counts, duration, and the error kind when the call failed. The store
// is SQLite-backed so history survives restarts and the dashboard can show
// aggregates. Telemetry is best-effort: failures are logged and dropped,
// never surfaced to the user.
package telemetry

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// USAGE RECORD
// =============================================================================

// Operation names the remote call shape a record belongs to.
type Operation string

const (
	OpExtract Operation = "extract"
	OpReply   Operation = "reply"
)

// Record is one remote-call usage row.
type Record struct {
	Timestamp    time.Time
	PersonaID    string
	Operation    Operation
	Model        string
	PromptTokens int
	OutputTokens int
	Duration     time.Duration

	// ErrorKind is empty on success. The UI collapses failure kinds into
	// one message; this column keeps them distinguishable for diagnosis.
	ErrorKind string
}

// Totals aggregates usage over a set of records.
type Totals struct {
	Calls        int
	Failures     int
	PromptTokens int
	OutputTokens int
}

// =============================================================================
// RECORDER
// =============================================================================

// Recorder persists usage records to a SQLite database.
type Recorder struct {
	db *sql.DB
}

// Open creates or opens the usage database at the given path and ensures
// the schema exists.
func Open(path string) (*Recorder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open usage database: %w", err)
	}

	// SQLite supports one writer at a time; keep the pool at one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS usage (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			ts            INTEGER NOT NULL,
			persona_id    TEXT NOT NULL,
			operation     TEXT NOT NULL,
			model         TEXT NOT NULL,
			prompt_tokens INTEGER NOT NULL,
			output_tokens INTEGER NOT NULL,
			duration_ms   INTEGER NOT NULL,
			error_kind    TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_usage_persona ON usage(persona_id);
		CREATE INDEX IF NOT EXISTS idx_usage_ts ON usage(ts);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create usage schema: %w", err)
	}

	return &Recorder{db: db}, nil
}

// Close releases the database handle.
func (r *Recorder) Close() error {
	return r.db.Close()
}

// Add inserts one usage record.
func (r *Recorder) Add(rec Record) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	_, err := r.db.Exec(
		`INSERT INTO usage (ts, persona_id, operation, model, prompt_tokens, output_tokens, duration_ms, error_kind)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Timestamp.UnixMilli(),
		rec.PersonaID,
		string(rec.Operation),
		rec.Model,
		rec.PromptTokens,
		rec.OutputTokens,
		rec.Duration.Milliseconds(),
		rec.ErrorKind,
	)
	if err != nil {
		return fmt.Errorf("failed to insert usage record: %w", err)
	}
	return nil
}

// =============================================================================
// AGGREGATES
// =============================================================================

// TotalsAll returns usage totals across all personas.
func (r *Recorder) TotalsAll() (Totals, error) {
	return r.totalsWhere("", nil)
}

// TotalsForPersona returns usage totals for one persona.
func (r *Recorder) TotalsForPersona(personaID string) (Totals, error) {
	return r.totalsWhere("WHERE persona_id = ?", []interface{}{personaID})
}

func (r *Recorder) totalsWhere(where string, args []interface{}) (Totals, error) {
	var t Totals
	row := r.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN error_kind != '' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(prompt_tokens), 0),
		       COALESCE(SUM(output_tokens), 0)
		FROM usage `+where, args...)
	if err := row.Scan(&t.Calls, &t.Failures, &t.PromptTokens, &t.OutputTokens); err != nil {
		return Totals{}, fmt.Errorf("failed to query usage totals: %w", err)
	}
	return t, nil
}

// DayTotals aggregates usage for one calendar day (UTC).
type DayTotals struct {
	Day string // YYYY-MM-DD
	Totals
}

// TotalsByDay returns per-day usage totals, newest day first. Days are bucketed
// in UTC so aggregates stay stable across timezone changes.
func (r *Recorder) TotalsByDay(limit int) ([]DayTotals, error) {
	rows, err := r.db.Query(`
		SELECT strftime('%Y-%m-%d', ts / 1000, 'unixepoch') AS day,
		       COUNT(*),
		       COALESCE(SUM(CASE WHEN error_kind != '' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(prompt_tokens), 0),
		       COALESCE(SUM(output_tokens), 0)
		FROM usage GROUP BY day ORDER BY day DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily usage: %w", err)
	}
	defer rows.Close()

	var out []DayTotals
	for rows.Next() {
		var d DayTotals
		if err := rows.Scan(&d.Day, &d.Calls, &d.Failures, &d.PromptTokens, &d.OutputTokens); err != nil {
			return nil, fmt.Errorf("failed to scan daily usage row: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Recent returns the newest records, most recent first.
func (r *Recorder) Recent(limit int) ([]Record, error) {
	rows, err := r.db.Query(`
		SELECT ts, persona_id, operation, model, prompt_tokens, output_tokens, duration_ms, error_kind
		FROM usage ORDER BY ts DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent usage: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var ts, durMs int64
		var op string
		if err := rows.Scan(&ts, &rec.PersonaID, &op, &rec.Model, &rec.PromptTokens, &rec.OutputTokens, &durMs, &rec.ErrorKind); err != nil {
			return nil, fmt.Errorf("failed to scan usage row: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ts)
		rec.Operation = Operation(op)
		rec.Duration = time.Duration(durMs) * time.Millisecond
		out = append(out, rec)
	}
	return out, rows.Err()
}

// DeleteForPersona removes all usage rows for a deleted persona.
func (r *Recorder) DeleteForPersona(personaID string) error {
	_, err := r.db.Exec(`DELETE FROM usage WHERE persona_id = ?`, personaID)
	if err != nil {
		return fmt.Errorf("failed to delete usage rows: %w", err)
	}
	return nil
}
