// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want Command
	}{
		{"no args defaults to TUI", nil, CmdTUI},
		{"explicit tui", []string{"tui"}, CmdTUI},
		{"list", []string{"list"}, CmdList},
		{"ls alias", []string{"ls"}, CmdList},
		{"export", []string{"export", "abc"}, CmdExport},
		{"usage", []string{"usage"}, CmdUsage},
		{"stats alias", []string{"stats"}, CmdUsage},
		{"version", []string{"version"}, CmdVersion},
		{"version flag", []string{"-v"}, CmdVersion},
		{"help", []string{"help"}, CmdHelp},
		{"help flag", []string{"--help"}, CmdHelp},
		{"unknown falls back to help", []string{"bogus"}, CmdHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := parse(tt.argv)
			if got != tt.want {
				t.Errorf("parse(%v) = %v, want %v", tt.argv, got, tt.want)
			}
		})
	}
}

func TestParse_Flags(t *testing.T) {
	cmd, args := parse([]string{"--data-dir", "/tmp/m", "export", "abc", "--no-metadata"})
	if cmd != CmdExport {
		t.Fatalf("cmd = %v, want CmdExport", cmd)
	}
	if args.DataDir != "/tmp/m" {
		t.Errorf("DataDir = %q, want /tmp/m", args.DataDir)
	}
	if !args.NoMetadata {
		t.Error("NoMetadata should be set")
	}
	if len(args.Raw) != 1 || args.Raw[0] != "abc" {
		t.Errorf("Raw = %v, want [abc]", args.Raw)
	}
}

func TestParse_JSONFlag(t *testing.T) {
	cmd, args := parse([]string{"export", "abc", "--json"})
	if cmd != CmdExport {
		t.Fatalf("cmd = %v, want CmdExport", cmd)
	}
	if !args.JSON {
		t.Error("JSON should be set")
	}
}
