// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/mirrorlab/mirror-tui/internal/config"
	"github.com/mirrorlab/mirror-tui/internal/export"
	"github.com/mirrorlab/mirror-tui/internal/model"
	"github.com/mirrorlab/mirror-tui/internal/store"
	"github.com/mirrorlab/mirror-tui/internal/telemetry"
	"github.com/mirrorlab/mirror-tui/internal/util"
)

// =============================================================================
// COMMAND HANDLERS
// =============================================================================

// loadStore opens and hydrates the persona store for one-shot commands.
func loadStore(cfg *config.Config) (*store.Store, error) {
	st := store.New(cfg.PersonasPath(), nil)
	if err := st.Load(); err != nil {
		return nil, fmt.Errorf("load personas: %w", err)
	}
	return st, nil
}

// HandleList prints the persona table.
func HandleList(cfg *config.Config) error {
	st, err := loadStore(cfg)
	if err != nil {
		return err
	}

	personas := st.List()
	if len(personas) == 0 {
		fmt.Println("No personas saved. Run `mirror` to create one.")
		return nil
	}

	fmt.Printf("%-38s %-24s %-12s %8s  %s\n", "ID", "NAME", "THEME", "MESSAGES", "ANALYZED")
	for _, p := range personas {
		analyzed := "-"
		if p.Style.LastAnalysisDate > 0 {
			analyzed = time.UnixMilli(p.Style.LastAnalysisDate).Format("2006-01-02")
		}
		fmt.Printf("%-38s %s %-12s %8d  %s\n",
			p.ID, util.PadRight(util.TruncateRunes(p.Name, 24), 24), p.ThemeID, p.MessageCount(), analyzed)
	}
	fmt.Printf("\n%d persona(s)\n", len(personas))
	return nil
}

// HandleExport prints a persona transcript as Markdown (or, with --json,
// the raw persona record) to stdout.
func HandleExport(cfg *config.Config, args Args) error {
	if len(args.Raw) == 0 {
		return fmt.Errorf("usage: mirror export <persona-id>")
	}
	id := args.Raw[0]

	st, err := loadStore(cfg)
	if err != nil {
		return err
	}

	p, err := st.Get(id)
	if err != nil {
		// Allow name-based lookup as a convenience.
		p = findByName(st, id)
		if p == nil {
			return fmt.Errorf("no persona with id or name %q", id)
		}
	}

	var data []byte
	if args.JSON {
		data, err = p.ExportJSON()
	} else {
		opts := export.DefaultOptions()
		if args.NoMetadata {
			opts.IncludeMetadata = false
		}
		data, err = export.Markdown(p, opts)
	}
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

// findByName returns the first persona whose name matches exactly.
func findByName(st *store.Store, name string) *model.Persona {
	for _, p := range st.List() {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// HandleUsage prints aggregate remote-call totals, scoped to one persona
// when an id or name argument is given.
func HandleUsage(cfg *config.Config, args Args) error {
	rec, err := telemetry.Open(cfg.UsageDBPath())
	if err != nil {
		return fmt.Errorf("open usage database: %w", err)
	}
	defer rec.Close()

	if len(args.Raw) > 0 {
		return usageForPersona(cfg, rec, args.Raw[0])
	}

	totals, err := rec.TotalsAll()
	if err != nil {
		return fmt.Errorf("read usage totals: %w", err)
	}

	fmt.Println("Remote call usage")
	fmt.Printf("  %-16s %d\n", "calls:", totals.Calls)
	fmt.Printf("  %-16s %d\n", "failures:", totals.Failures)
	fmt.Printf("  %-16s %d\n", "prompt tokens:", totals.PromptTokens)
	fmt.Printf("  %-16s %d\n", "output tokens:", totals.OutputTokens)

	if days, err := rec.TotalsByDay(7); err == nil && len(days) > 0 {
		fmt.Println("\nLast days")
		for _, d := range days {
			fmt.Printf("  %s  %4d calls  %2d failed  %8d tokens\n",
				d.Day, d.Calls, d.Failures, d.PromptTokens+d.OutputTokens)
		}
	}

	recent, err := rec.Recent(10)
	if err != nil || len(recent) == 0 {
		return nil
	}

	fmt.Println("\nRecent calls")
	for _, r := range recent {
		status := "ok"
		if r.ErrorKind != "" {
			status = r.ErrorKind
		}
		fmt.Printf("  %s  %-8s %-24s %6d tok  %s\n",
			r.Timestamp.Format("2006-01-02 15:04"), r.Operation, r.Model,
			r.PromptTokens+r.OutputTokens, status)
	}
	return nil
}

// usageForPersona prints totals scoped to one persona, resolved by id or name.
func usageForPersona(cfg *config.Config, rec *telemetry.Recorder, idOrName string) error {
	st, err := loadStore(cfg)
	if err != nil {
		return err
	}
	p, err := st.Get(idOrName)
	if err != nil {
		p = findByName(st, idOrName)
		if p == nil {
			return fmt.Errorf("no persona with id or name %q", idOrName)
		}
	}

	totals, err := rec.TotalsForPersona(p.ID)
	if err != nil {
		return fmt.Errorf("read usage totals: %w", err)
	}
	fmt.Printf("Remote call usage for %s\n", p.Name)
	fmt.Printf("  %-16s %d\n", "calls:", totals.Calls)
	fmt.Printf("  %-16s %d\n", "failures:", totals.Failures)
	fmt.Printf("  %-16s %d\n", "prompt tokens:", totals.PromptTokens)
	fmt.Printf("  %-16s %d\n", "output tokens:", totals.OutputTokens)
	return nil
}
