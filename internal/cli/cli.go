// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command handlers for mirror.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdList
	CmdExport
	CmdUsage
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// DataDir overrides the config data directory (--data-dir).
	DataDir string

	// NoMetadata strips the metadata block from exports (--no-metadata).
	NoMetadata bool

	// JSON switches export output to raw persona JSON (--json).
	JSON bool

	// Raw args remaining after flag parsing.
	Raw []string
}

const usageText = `mirror - persona-mirroring chat for the terminal

Mirror builds a style profile from chat samples of a real person and lets
you hold a simulated conversation with that persona.

Usage:
  mirror                     Start the TUI (default)
  mirror list                List saved personas
  mirror export <id>         Print a persona transcript as Markdown
    --no-metadata            Omit the frontmatter and session block
    --json                   Emit the raw persona record as JSON
  mirror usage [persona]     Show remote-call usage totals
  mirror version             Show version information
  mirror help                Show this help

Global flags:
  --data-dir DIR             Override the data directory (default ~/.mirror)

Environment:
  MIRROR_API_KEY             Generative Language API key
  GEMINI_API_KEY             Fallback API key variable
  MIRROR_DATA_DIR            Data directory override
`

// Parse reads os.Args and returns the command to run plus its arguments.
func Parse() (Command, Args) {
	return parse(os.Args[1:])
}

func parse(argv []string) (Command, Args) {
	var args Args

	remaining := make([]string, 0, len(argv))
	for i := 0; i < len(argv); i++ {
		switch argv[i] {
		case "--data-dir":
			if i+1 < len(argv) {
				i++
				args.DataDir = argv[i]
			}
		case "--no-metadata":
			args.NoMetadata = true
		case "--json":
			args.JSON = true
		case "--help", "-h":
			return CmdHelp, args
		case "--version", "-v":
			return CmdVersion, args
		default:
			remaining = append(remaining, argv[i])
		}
	}

	if len(remaining) == 0 {
		return CmdTUI, args
	}

	cmd := strings.ToLower(remaining[0])
	args.Raw = remaining[1:]

	switch cmd {
	case "tui":
		return CmdTUI, args
	case "list", "ls":
		return CmdList, args
	case "export":
		return CmdExport, args
	case "usage", "stats":
		return CmdUsage, args
	case "version":
		return CmdVersion, args
	case "help":
		return CmdHelp, args
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		return CmdHelp, args
	}
}

// PrintUsage writes the usage text to stdout.
func PrintUsage() {
	fmt.Print(usageText)
}

// PrintVersion writes version information to stdout.
func PrintVersion() {
	fmt.Printf("mirror %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
}
