// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export renders persona transcripts as Markdown.
// Used by the chat view's export shortcut and the `mirror export` command.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/mirrorlab/mirror-tui/internal/model"
)

// =============================================================================
// MARKDOWN EXPORT
// =============================================================================

// Options configures transcript rendering.
type Options struct {
	// IncludeMetadata includes the frontmatter and session information block.
	IncludeMetadata bool

	// IncludeTimestamps includes per-message timestamps.
	IncludeTimestamps bool
}

// DefaultOptions returns the default export options.
func DefaultOptions() *Options {
	return &Options{
		IncludeMetadata:   true,
		IncludeTimestamps: true,
	}
}

// Markdown renders a persona's transcript as a Markdown document.
func Markdown(p *model.Persona, opts *Options) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("persona is nil")
	}
	if len(p.History) == 0 {
		return nil, fmt.Errorf("persona %q has no messages", p.Name)
	}
	if opts == nil {
		opts = DefaultOptions()
	}

	var sb strings.Builder

	if opts.IncludeMetadata {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("persona: %s\n", escapeYAML(p.Name)))
		sb.WriteString(fmt.Sprintf("messages: %d\n", len(p.History)))
		if p.Style.LastAnalysisDate > 0 {
			sb.WriteString(fmt.Sprintf("analyzed: %s\n", formatMillis(p.Style.LastAnalysisDate)))
		}
		sb.WriteString(fmt.Sprintf("exported: %s\n", time.Now().Format(time.RFC3339)))
		sb.WriteString("generator: mirror-tui\n")
		sb.WriteString("---\n\n")
	}

	sb.WriteString(fmt.Sprintf("# Conversation with %s\n\n", escapeMarkdown(p.Name)))

	if opts.IncludeMetadata {
		sb.WriteString("## Session Information\n\n")
		sb.WriteString(fmt.Sprintf("- **Persona**: %s\n", p.Name))
		sb.WriteString(fmt.Sprintf("- **Tone**: %s\n", orUnknown(p.Style.Tone)))
		sb.WriteString(fmt.Sprintf("- **Emoji Frequency**: %s\n", p.Style.EmojiUsage.Frequency))
		sb.WriteString(fmt.Sprintf("- **Messages**: %d\n", len(p.History)))
		sb.WriteString("\n---\n\n")
	}

	sb.WriteString("## Transcript\n\n")

	for _, msg := range p.History {
		label := model.PartnerLabel
		if msg.Role == model.RoleOutgoing {
			label = p.Name
		}
		if msg.IsError {
			label += " (error)"
		}
		if opts.IncludeTimestamps {
			sb.WriteString(fmt.Sprintf("**%s** <sub>%s</sub>\n\n", escapeMarkdown(label), formatMillis(msg.Timestamp)))
		} else {
			sb.WriteString(fmt.Sprintf("**%s**\n\n", escapeMarkdown(label)))
		}
		sb.WriteString(msg.Text)
		sb.WriteString("\n\n")
	}

	return []byte(sb.String()), nil
}

// =============================================================================
// HELPERS
// =============================================================================

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).Format("2006-01-02 15:04")
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

// escapeYAML quotes values that would break frontmatter parsing.
func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":#'\"\n") {
		return fmt.Sprintf("%q", strings.ReplaceAll(s, "\n", " "))
	}
	return s
}

// escapeMarkdown neutralizes heading and emphasis markers in names.
func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"*", "\\*",
		"_", "\\_",
		"#", "\\#",
		"[", "\\[",
		"]", "\\]",
	)
	return replacer.Replace(s)
}
