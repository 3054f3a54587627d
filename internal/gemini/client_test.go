// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mirrorlab/mirror-tui/internal/model"
)

// newTestClient points a client at a test server with rate limiting loosened.
func newTestClient(serverURL string) *Client {
	return NewClientWithConfig(&ClientConfig{
		APIKey:            "test-key",
		BaseURL:           serverURL,
		RequestsPerMinute: 100000,
	})
}

// textResponse builds a minimal generateContent response body.
func textResponse(text string) string {
	resp := map[string]interface{}{
		"candidates": []map[string]interface{}{{
			"content": map[string]interface{}{
				"parts": []map[string]string{{"text": text}},
				"role":  "model",
			},
			"finishReason": "STOP",
		}},
		"usageMetadata": map[string]int{
			"promptTokenCount":     12,
			"candidatesTokenCount": 5,
			"totalTokenCount":      17,
		},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func testProfile() *model.StyleProfile {
	p := model.NewStyleProfile()
	p.Tone = "sarcastic"
	p.Punctuation = "lowercase only"
	p.SlangAndWords = []string{"lol"}
	p.EmojiUsage = model.EmojiUsage{Types: []string{"💀"}, Frequency: model.FrequencyHigh}
	return &p
}

// =============================================================================
// REPLY GENERATION TESTS
// =============================================================================

func TestGenerateReply_Success(t *testing.T) {
	var gotReq Request
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write([]byte(textResponse("nah lol 💀")))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	reply, usage, err := client.GenerateReply(context.Background(), testProfile(), "hey you up?", []string{"Partner: hey you up?"})
	if err != nil {
		t.Fatalf("GenerateReply failed: %v", err)
	}
	if reply != "nah lol 💀" {
		t.Errorf("reply = %q", reply)
	}
	if usage == nil || usage.TotalTokenCount != 17 {
		t.Errorf("usage = %+v", usage)
	}

	if !strings.Contains(gotPath, "gemini-3-flash-preview:generateContent") {
		t.Errorf("path = %q, want reply model", gotPath)
	}

	// Fixed sampling parameters travel with the request.
	cfg := gotReq.GenerationConfig
	if cfg == nil || cfg.Temperature != 0.9 || cfg.TopP != 0.95 || cfg.TopK != 40 {
		t.Errorf("GenerationConfig = %+v", cfg)
	}

	// The prompt embeds identity lock, style directives, context, and signal.
	prompt := gotReq.Contents[0].Parts[0].Text
	for _, want := range []string{
		"IDENTITY LOCK",
		"Tone: sarcastic",
		"Punctuation/Casing: lowercase only",
		"Signature Words: lol",
		"Partner: hey you up?",
		`"hey you up?"`,
		"NEVER apologize",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Prompt missing %q", want)
		}
	}
}

func TestGenerateReply_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(textResponse("   \n  ")))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, _, err := client.GenerateReply(context.Background(), testProfile(), "hi", nil)
	if !errors.Is(err, ErrEmptyReply) {
		t.Errorf("err = %v, want ErrEmptyReply", err)
	}
}

func TestGenerateReply_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, _, err := client.GenerateReply(context.Background(), testProfile(), "hi", nil)

	var ge *GenerationError
	if !errors.As(err, &ge) {
		t.Fatalf("err = %v, want GenerationError", err)
	}
	if ge.Kind != ErrKindAPI {
		t.Errorf("Kind = %v, want api", ge.Kind)
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("Error text should carry the provider message, got %q", err.Error())
	}
}

func TestGenerateReply_ConnectionRefused(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")
	_, _, err := client.GenerateReply(context.Background(), testProfile(), "hi", nil)

	var ge *GenerationError
	if !errors.As(err, &ge) {
		t.Fatalf("err = %v, want GenerationError", err)
	}
	if ge.Kind != ErrKindConnection {
		t.Errorf("Kind = %v, want connection", ge.Kind)
	}
}

// =============================================================================
// STYLE EXTRACTION TESTS
// =============================================================================

func TestExtractStyle_Success(t *testing.T) {
	profileJSON := `{"languageMix":"Banglish","sentenceStructure":"short","slangAndWords":["bhai"],"emojiUsage":{"types":["😂"],"frequency":"Moderate"},"tone":"warm","punctuation":"no caps"}`

	var gotReq Request
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write([]byte(textResponse(profileJSON)))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	images := []string{"data:image/jpeg;base64,AAAA", "BBBB"}
	partial, usage, err := client.ExtractStyle(context.Background(), images, "sample chat text", "Alex")
	require.NoError(t, err)

	require.NotNil(t, partial.LanguageMix)
	require.Equal(t, "Banglish", *partial.LanguageMix)
	require.NotNil(t, partial.SentenceStructure)
	require.Equal(t, "short", *partial.SentenceStructure)
	require.Equal(t, []string{"bhai"}, partial.SlangAndWords)
	require.NotNil(t, partial.EmojiUsage)
	require.Equal(t, model.EmojiUsage{Types: []string{"😂"}, Frequency: model.FrequencyModerate}, *partial.EmojiUsage)
	require.NotNil(t, usage, "Expected usage metadata")

	require.Contains(t, gotPath, "gemini-3-pro-preview:generateContent", "extraction must hit the extract model")

	// Ordered content parts: images first, then the instruction text.
	parts := gotReq.Contents[0].Parts
	require.Len(t, parts, 3)
	require.NotNil(t, parts[0].InlineData)
	require.Equal(t, "AAAA", parts[0].InlineData.Data, "data-URL prefix must be stripped")
	require.NotNil(t, parts[1].InlineData)
	require.Equal(t, "BBBB", parts[1].InlineData.Data)
	require.Contains(t, parts[2].Text, `("Alex")`, "prompt carries the name hint")
	require.Contains(t, parts[2].Text, "sample chat text")

	// Structured output is declared on the request.
	cfg := gotReq.GenerationConfig
	require.NotNil(t, cfg)
	require.Equal(t, "application/json", cfg.ResponseMimeType)
	require.NotNil(t, cfg.ResponseSchema)
}

func TestExtractStyle_NoInput(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")
	_, _, err := client.ExtractStyle(context.Background(), nil, "   ", "")
	if !errors.Is(err, ErrNoInput) {
		t.Errorf("err = %v, want ErrNoInput", err)
	}
}

func TestExtractStyle_FencedResponse(t *testing.T) {
	fenced := "```json\n{\"tone\":\"dry\"}\n```"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(textResponse(fenced)))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	partial, _, err := client.ExtractStyle(context.Background(), nil, "text", "")
	if err != nil {
		t.Fatalf("ExtractStyle failed: %v", err)
	}
	if partial.Tone == nil || *partial.Tone != "dry" {
		t.Errorf("partial = %+v", partial)
	}
}

func TestExtractStyle_UnparseableResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(textResponse("I cannot determine a profile from this data.")))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, _, err := client.ExtractStyle(context.Background(), nil, "text", "")
	if !errors.Is(err, ErrBadProfile) {
		t.Errorf("err = %v, want ErrBadProfile", err)
	}
}

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestNewClientWithConfig_Defaults(t *testing.T) {
	client := NewClientWithConfig(&ClientConfig{APIKey: "k"})

	if client.config.BaseURL == "" {
		t.Error("BaseURL default missing")
	}
	if client.config.ExtractModel != "gemini-3-pro-preview" {
		t.Errorf("ExtractModel = %q", client.config.ExtractModel)
	}
	if client.config.ReplyModel != "gemini-3-flash-preview" {
		t.Errorf("ReplyModel = %q", client.config.ReplyModel)
	}
	if client.config.RequestsPerMinute != 15 {
		t.Errorf("RequestsPerMinute = %d", client.config.RequestsPerMinute)
	}
}

func TestErrorKind_String(t *testing.T) {
	if ErrKindEmptyReply.String() != "empty_reply" {
		t.Errorf("String = %q", ErrKindEmptyReply.String())
	}
	if ErrKindUnknown.String() != "unknown" {
		t.Errorf("String = %q", ErrKindUnknown.String())
	}
}
