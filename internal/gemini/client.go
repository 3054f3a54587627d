// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorKind categorizes client errors. The UI collapses most of these into a
// single user-visible message; the kind stays available for logging.
type ErrorKind int

const (
	ErrKindUnknown ErrorKind = iota
	ErrKindNoInput
	ErrKindConnection
	ErrKindTimeout
	ErrKindAPI
	ErrKindUnparseable
	ErrKindEmptyReply
)

// String returns a log-friendly name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrKindNoInput:
		return "no_input"
	case ErrKindConnection:
		return "connection"
	case ErrKindTimeout:
		return "timeout"
	case ErrKindAPI:
		return "api"
	case ErrKindUnparseable:
		return "unparseable"
	case ErrKindEmptyReply:
		return "empty_reply"
	default:
		return "unknown"
	}
}

// ExtractionError is returned when style extraction fails: no usable input,
// remote failure, or a response that cannot be parsed into the expected shape.
type ExtractionError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// Is matches extraction errors by kind.
func (e *ExtractionError) Is(target error) bool {
	t, ok := target.(*ExtractionError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// GenerationError is returned when reply generation fails: remote failure or
// an empty response after trimming.
type GenerationError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is matches generation errors by kind.
func (e *GenerationError) Is(target error) bool {
	t, ok := target.(*GenerationError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinel errors for easy checking.
var (
	ErrNoInput    = &ExtractionError{Kind: ErrKindNoInput, Message: "no images or text supplied"}
	ErrBadProfile = &ExtractionError{Kind: ErrKindUnparseable, Message: "response is not a usable style profile"}
	ErrEmptyReply = &GenerationError{Kind: ErrKindEmptyReply, Message: "mirror engine returned an empty response"}
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the Gemini client.
type ClientConfig struct {
	// APIKey authenticates against the Generative Language API.
	APIKey string

	// BaseURL is the API base (default: Google's v1beta endpoint).
	BaseURL string

	// ExtractModel handles style extraction; it needs vision support.
	ExtractModel string

	// ReplyModel handles reply generation.
	ReplyModel string

	// Timeout for a single request round trip (default: 60s).
	Timeout time.Duration

	// RequestsPerMinute paces outgoing calls (default: 15, free-tier rate).
	RequestsPerMinute int
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:           "https://generativelanguage.googleapis.com/v1beta",
		ExtractModel:      "gemini-3-pro-preview",
		ReplyModel:        "gemini-3-flash-preview",
		Timeout:           60 * time.Second,
		RequestsPerMinute: 15,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the Generative Language API.
//
// The Client is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client with the given API key and defaults elsewhere.
func NewClient(apiKey string) *Client {
	cfg := DefaultConfig()
	cfg.APIKey = apiKey
	return NewClientWithConfig(cfg)
}

// NewClientWithConfig creates a client with custom configuration, filling in
// defaults for any zero values.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	defaults := DefaultConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.ExtractModel == "" {
		config.ExtractModel = defaults.ExtractModel
	}
	if config.ReplyModel == "" {
		config.ReplyModel = defaults.ReplyModel
	}
	if config.Timeout == 0 {
		config.Timeout = defaults.Timeout
	}
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = defaults.RequestsPerMinute
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(float64(config.RequestsPerMinute)/60.0), 1),
	}
}

// =============================================================================
// LOW-LEVEL CALL
// =============================================================================

// generateContent posts one request to the given model and decodes the
// response envelope. It waits on the rate limiter first; the wait respects
// the caller's context.
func (c *Client) generateContent(ctx context.Context, model string, req *Request) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.config.BaseURL + "/models/" + model + ":generateContent"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.config.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &connError{kind: ErrKindTimeout, msg: "request timed out", cause: err}
		}
		return nil, &connError{kind: ErrKindConnection, msg: "request failed", cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &connError{kind: ErrKindConnection, msg: "failed to read response", cause: err}
	}

	var out Response
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &connError{kind: ErrKindAPI, msg: "unexpected response: " + resp.Status, cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		msg := "API error: " + resp.Status
		if out.Error != nil && out.Error.Message != "" {
			msg = "API error: " + out.Error.Message
		}
		return nil, &connError{kind: ErrKindAPI, msg: msg}
	}

	return &out, nil
}

// connError is the transport-level error shared by both call shapes; the
// public adapters rewrap it as ExtractionError or GenerationError.
type connError struct {
	kind  ErrorKind
	msg   string
	cause error
}

func (e *connError) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

func (e *connError) Unwrap() error {
	return e.cause
}

// kindOf extracts the error kind from a transport error.
func kindOf(err error) ErrorKind {
	var ce *connError
	if errors.As(err, &ce) {
		return ce.kind
	}
	return ErrKindUnknown
}

// KindOf extracts the error kind from any error produced by this package.
func KindOf(err error) ErrorKind {
	var ee *ExtractionError
	if errors.As(err, &ee) {
		return ee.Kind
	}
	var ge *GenerationError
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return kindOf(err)
}
