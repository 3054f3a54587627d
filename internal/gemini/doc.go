// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gemini provides the HTTP client for the remote generation
// capability (Google's Generative Language API).
//
// Two call shapes are exposed:
//
//   - ExtractStyle: images and/or sample text in, partial style profile out,
//     using a structured-output response schema plus defensive parsing of
//     whatever text actually comes back.
//   - GenerateReply: style profile, incoming message, and a bounded context
//     window in, one free-text in-character reply out.
//
// The client performs no retries and holds no conversational state; both
// operations are single request/response calls. Requests are paced by a
// token-bucket limiter so free-tier quota errors stay rare.
package gemini
