// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestRecorder(t *testing.T) *Recorder {
	t.Helper()
	r, err := Open(filepath.Join(t.TempDir(), "usage.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRecorder_AddAndTotals(t *testing.T) {
	r := newTestRecorder(t)

	recs := []Record{
		{PersonaID: "p1", Operation: OpReply, Model: "m", PromptTokens: 100, OutputTokens: 20},
		{PersonaID: "p1", Operation: OpExtract, Model: "m", PromptTokens: 300, OutputTokens: 50},
		{PersonaID: "p2", Operation: OpReply, Model: "m", PromptTokens: 10, OutputTokens: 0, ErrorKind: "timeout"},
	}
	for _, rec := range recs {
		if err := r.Add(rec); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	all, err := r.TotalsAll()
	if err != nil {
		t.Fatalf("TotalsAll failed: %v", err)
	}
	if all.Calls != 3 || all.Failures != 1 {
		t.Errorf("TotalsAll = %+v", all)
	}
	if all.PromptTokens != 410 || all.OutputTokens != 70 {
		t.Errorf("Token totals = %+v", all)
	}

	p1, err := r.TotalsForPersona("p1")
	if err != nil {
		t.Fatalf("TotalsForPersona failed: %v", err)
	}
	if p1.Calls != 2 || p1.Failures != 0 || p1.PromptTokens != 400 {
		t.Errorf("TotalsForPersona = %+v", p1)
	}
}

func TestRecorder_Recent(t *testing.T) {
	r := newTestRecorder(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		rec := Record{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			PersonaID: "p1",
			Operation: OpReply,
			Model:     "m",
		}
		if err := r.Add(rec); err != nil {
			t.Fatal(err)
		}
	}

	recent, err := r.Recent(3)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("Recent = %d rows, want 3", len(recent))
	}
	if !recent[0].Timestamp.After(recent[2].Timestamp) {
		t.Error("Recent must be ordered newest first")
	}
}

func TestRecorder_TotalsByDay(t *testing.T) {
	r := newTestRecorder(t)

	day1 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)
	r.Add(Record{Timestamp: day1, PersonaID: "p1", Operation: OpReply, Model: "m", PromptTokens: 10})
	r.Add(Record{Timestamp: day1, PersonaID: "p1", Operation: OpReply, Model: "m", ErrorKind: "timeout"})
	r.Add(Record{Timestamp: day2, PersonaID: "p1", Operation: OpExtract, Model: "m", OutputTokens: 5})

	days, err := r.TotalsByDay(10)
	if err != nil {
		t.Fatalf("TotalsByDay failed: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("TotalsByDay = %d rows, want 2", len(days))
	}
	if days[0].Day != "2025-03-02" {
		t.Errorf("first day = %q, want newest first", days[0].Day)
	}
	if days[1].Calls != 2 || days[1].Failures != 1 || days[1].PromptTokens != 10 {
		t.Errorf("day1 totals = %+v", days[1])
	}
}

func TestRecorder_DeleteForPersona(t *testing.T) {
	r := newTestRecorder(t)
	r.Add(Record{PersonaID: "p1", Operation: OpReply, Model: "m"})
	r.Add(Record{PersonaID: "p2", Operation: OpReply, Model: "m"})

	if err := r.DeleteForPersona("p1"); err != nil {
		t.Fatalf("DeleteForPersona failed: %v", err)
	}
	all, _ := r.TotalsAll()
	if all.Calls != 1 {
		t.Errorf("Calls = %d, want 1", all.Calls)
	}
}

func TestRecorder_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.db")
	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	r.Add(Record{PersonaID: "p1", Operation: OpReply, Model: "m", PromptTokens: 7})
	r.Close()

	r2, err := Open(path)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer r2.Close()

	all, _ := r2.TotalsAll()
	if all.Calls != 1 || all.PromptTokens != 7 {
		t.Errorf("Totals after reopen = %+v", all)
	}
}
