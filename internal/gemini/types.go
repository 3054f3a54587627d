// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

// =============================================================================
// REQUEST TYPES
// =============================================================================

// Request is the generateContent request body.
type Request struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

// Content is one turn of request content.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part is a single content part: text or an inline image attachment.
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

// InlineData carries a base64-encoded attachment.
type InlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

// GenerationConfig holds sampling parameters and the optional
// structured-output declaration.
type GenerationConfig struct {
	Temperature      float64                `json:"temperature,omitempty"`
	TopP             float64                `json:"topP,omitempty"`
	TopK             int                    `json:"topK,omitempty"`
	ResponseMimeType string                 `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]interface{} `json:"responseSchema,omitempty"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// Response is the generateContent response body.
type Response struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text,omitempty"`
			} `json:"parts"`
			Role string `json:"role"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`

	UsageMetadata *UsageMetadata `json:"usageMetadata,omitempty"`

	Error *APIError `json:"error,omitempty"`
}

// Text concatenates the text parts of the first candidate.
func (r *Response) Text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var out string
	for _, p := range r.Candidates[0].Content.Parts {
		out += p.Text
	}
	return out
}

// UsageMetadata reports token accounting for one call.
type UsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// APIError is the provider's error envelope.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// =============================================================================
// STRUCTURED OUTPUT SCHEMA
// =============================================================================

// styleProfileSchema declares the expected extraction response shape: the six
// named style dimensions, all required.
func styleProfileSchema() map[string]interface{} {
	strType := map[string]interface{}{"type": "STRING"}
	strArray := map[string]interface{}{"type": "ARRAY", "items": strType}

	return map[string]interface{}{
		"type": "OBJECT",
		"properties": map[string]interface{}{
			"languageMix":       strType,
			"sentenceStructure": strType,
			"slangAndWords":     strArray,
			"emojiUsage": map[string]interface{}{
				"type": "OBJECT",
				"properties": map[string]interface{}{
					"types": strArray,
					"frequency": map[string]interface{}{
						"type":        "STRING",
						"description": "One of: Rare, Moderate, High",
					},
				},
				"required": []string{"types", "frequency"},
			},
			"tone":        strType,
			"punctuation": strType,
		},
		"required": []string{
			"languageMix", "sentenceStructure", "slangAndWords",
			"emojiUsage", "tone", "punctuation",
		},
	}
}
