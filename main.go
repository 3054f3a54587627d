// mirror TUI - chat with a persona mirrored from a real person's style.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mirrorlab/mirror-tui/internal/cli"
	"github.com/mirrorlab/mirror-tui/internal/config"
	"github.com/mirrorlab/mirror-tui/internal/gemini"
	"github.com/mirrorlab/mirror-tui/internal/store"
	"github.com/mirrorlab/mirror-tui/internal/telemetry"
	"github.com/mirrorlab/mirror-tui/internal/ui"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	// Commands that need no configuration.
	switch cmd {
	case cli.CmdVersion:
		cli.PrintVersion()
		return
	case cli.CmdHelp:
		cli.PrintUsage()
		return
	}

	cfg, err := loadConfig(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch cmd {
	case cli.CmdList:
		exitOnError(cli.HandleList(cfg))
	case cli.CmdExport:
		exitOnError(cli.HandleExport(cfg, args))
	case cli.CmdUsage:
		exitOnError(cli.HandleUsage(cfg, args))
	default:
		runTUI(cfg)
	}
}

// loadConfig loads configuration, honoring the --data-dir override, and
// makes sure the data directory exists.
func loadConfig(args cli.Args) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if args.DataDir != "" {
		cfg, err = config.LoadFromDir(args.DataDir)
		if err == nil {
			cfg.Storage.DataDir = args.DataDir
		}
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.Storage.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return cfg, nil
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runTUI wires the full application and runs the Bubble Tea program.
func runTUI(cfg *config.Config) {
	// The TUI owns the terminal, so the process log goes to a file.
	logFile, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := log.New(logFile, "", log.LstdFlags)
	logger.Printf("mirror %s starting, config at %s", Version, cfg.ConfigPath())

	if cfg.API.Key == "" {
		fmt.Fprintln(os.Stderr, "Warning: no API key configured. Set MIRROR_API_KEY or api.key in config.toml;")
		fmt.Fprintln(os.Stderr, "extraction and replies will fail until one is provided.")
	}

	st := store.New(cfg.PersonasPath(), logger)
	if err := st.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: load personas: %v\n", err)
		os.Exit(1)
	}

	// Usage telemetry is best-effort: a broken database never blocks chat.
	usage, err := telemetry.Open(cfg.UsageDBPath())
	if err != nil {
		logger.Printf("usage database unavailable: %v", err)
		usage = nil
	}
	if usage != nil {
		defer usage.Close()
	}

	client := gemini.NewClientWithConfig(&gemini.ClientConfig{
		APIKey:            cfg.API.Key,
		BaseURL:           cfg.API.BaseURL,
		ExtractModel:      cfg.Models.Extract,
		ReplyModel:        cfg.Models.Reply,
		Timeout:           cfg.Timeout(),
		RequestsPerMinute: cfg.API.RequestsPerMinute,
	})

	app := ui.NewApp(cfg, st, client, usage, logger)

	opts := []tea.ProgramOption{}
	if cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	p := tea.NewProgram(app, opts...)

	// Hot-reload config edits into the running program.
	watcher, err := config.NewWatcher(cfg.Storage.DataDir, func(next *config.Config) {
		p.Send(ui.ConfigReloadedMsg{Config: next})
	}, logger)
	if err != nil {
		logger.Printf("config watcher unavailable: %v", err)
	} else if err := watcher.Watch(); err != nil {
		logger.Printf("config watcher failed to start: %v", err)
	} else {
		defer watcher.Close()
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
