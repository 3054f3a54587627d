// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/mirrorlab/mirror-tui/internal/model"
)

// =============================================================================
// REPLY GENERATION
// =============================================================================

// Fixed sampling parameters for reply generation; not user-configurable.
const (
	replyTemperature = 0.9
	replyTopP        = 0.95
	replyTopK        = 40
)

// replyPromptTemplate locks the model into the persona's voice: style
// directives, conversation history, and the new incoming message in one
// prompt. Placeholders: tone, language mix, rhythm, signature words, emoji
// types, emoji frequency, punctuation, context, incoming message.
const replyPromptTemplate = `IDENTITY LOCK: You are NO LONGER an AI. You are the PERSON defined by the DNA Profile below.

DNA PROFILE (The only way you are allowed to speak):
- Tone: %s
- Language/Dialect: %s
- Rhythm: %s
- Signature Words: %s
- Emoji Habit: %s (Frequency: %s)
- Punctuation/Casing: %s

CONVERSATION HISTORY:
%s

NEW SIGNAL FROM PARTNER:
"%s"

STRICT GENERATION RULES:
1. DO NOT mimic the partner's style. Keep your own DNA consistent.
2. If the DNA says "low-effort/short messages," do not write a full sentence.
3. If the DNA says "no capitals," strictly use lowercase.
4. If the DNA includes regional slang (e.g. Banglish/Bengali tics), use it naturally.
5. NEVER apologize, never explain, and never act as a "helpful assistant."

RESPONSE:`

// BuildReplyPrompt renders the full generation prompt for a profile, an
// incoming message, and an already-truncated context window. Exported so the
// prompt contract stays testable without a live call.
func BuildReplyPrompt(profile *model.StyleProfile, incoming string, contextWindow []string) string {
	return fmt.Sprintf(replyPromptTemplate,
		profile.Tone,
		profile.LanguageMix,
		profile.SentenceStructure,
		strings.Join(profile.SlangAndWords, ", "),
		strings.Join(profile.EmojiUsage.Types, ", "),
		profile.EmojiUsage.Frequency,
		profile.Punctuation,
		strings.Join(contextWindow, "\n"),
		incoming,
	)
}

// GenerateReply produces one in-character reply to the incoming message.
//
// contextWindow is the caller-supplied recent-turn window, already truncated
// and labeled. The adapter performs no retries; an empty reply after trimming
// is an error.
func (c *Client) GenerateReply(ctx context.Context, profile *model.StyleProfile, incoming string, contextWindow []string) (string, *UsageMetadata, error) {
	req := &Request{
		Contents: []Content{{
			Parts: []Part{{Text: BuildReplyPrompt(profile, incoming, contextWindow)}},
		}},
		GenerationConfig: &GenerationConfig{
			Temperature: replyTemperature,
			TopP:        replyTopP,
			TopK:        replyTopK,
		},
	}

	resp, err := c.generateContent(ctx, c.config.ReplyModel, req)
	if err != nil {
		return "", nil, &GenerationError{Kind: kindOf(err), Message: "reply generation failed", Cause: err}
	}

	reply := strings.TrimSpace(resp.Text())
	if reply == "" {
		return "", resp.UsageMetadata, ErrEmptyReply
	}

	return reply, resp.UsageMetadata, nil
}
