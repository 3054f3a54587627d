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
// STYLE EXTRACTION
// =============================================================================

// extractPromptTemplate instructs the model to isolate one target author and
// extract the six style dimensions. Persona consistency lives in the prompt,
// not in code.
const extractPromptTemplate = `CRITICAL PROTOCOL: COMMUNICATION DNA EXTRACTION

TASK: You are a forensic linguist. Your goal is to isolate and extract the communication profile of ONE specific person (the "TARGET") from the provided data.

IDENTIFYING THE TARGET:
1. If a name is provided ("%s"), focus ONLY on the messages sent by them.
2. If no name is provided, identify the author of the most distinctive or frequent messages in the dataset.
3. IGNORE the messages of anyone chatting WITH the Target. Do not let their style influence the extracted profile.

EXTRACTION FIELDS:
- Language Mix: Regional dialects, Banglish, slang, or formal vocabulary.
- Sentence Structure: Message length (staccato vs. flowy), paragraph breaks, word choice complexity.
- Verbal Tics: Signature phrases, recurring typos, specific abbreviations.
- Emoji Signature: Habitual emojis and their placement (e.g., "always ends with 💀").
- Emotional Tone: Precise emotional frequency (e.g., "aloof and sarcastic" vs "overly apologetic").
- Punctuation Logic: Use of lowercase, excessive punctuation, or total lack thereof.

INPUT DATA:
Text History Sample: "%s"

OUTPUT: Return a JSON object representing the DNA of ONLY the Target author.`

// ExtractStyle sends images and/or raw text to the extraction model and
// returns the parsed partial style profile.
//
// At least one of images or text must be non-empty. Images are base64 JPEG
// payloads; a data-URL prefix is tolerated and stripped. The returned usage
// is nil when the call never reached the API.
func (c *Client) ExtractStyle(ctx context.Context, images []string, text string, nameHint string) (*model.StyleProfilePartial, *UsageMetadata, error) {
	if len(images) == 0 && strings.TrimSpace(text) == "" {
		return nil, nil, ErrNoInput
	}

	if nameHint == "" {
		nameHint = "Unknown"
	}

	// Image attachments first, then the instruction + sample as one text part.
	parts := make([]Part, 0, len(images)+1)
	for _, img := range images {
		parts = append(parts, Part{
			InlineData: &InlineData{
				MimeType: "image/jpeg",
				Data:     stripDataURL(img),
			},
		})
	}
	parts = append(parts, Part{Text: fmt.Sprintf(extractPromptTemplate, nameHint, text)})

	req := &Request{
		Contents: []Content{{Parts: parts}},
		GenerationConfig: &GenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   styleProfileSchema(),
		},
	}

	resp, err := c.generateContent(ctx, c.config.ExtractModel, req)
	if err != nil {
		return nil, nil, &ExtractionError{Kind: kindOf(err), Message: "style extraction failed", Cause: err}
	}

	partial, err := decodeStylePartial(resp.Text())
	if err != nil {
		return nil, resp.UsageMetadata, err
	}

	return partial, resp.UsageMetadata, nil
}

// stripDataURL removes a "data:...;base64," prefix when present.
func stripDataURL(s string) string {
	if i := strings.Index(s, ","); i >= 0 && strings.HasPrefix(s, "data:") {
		return s[i+1:]
	}
	return s
}
