// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gemini provides the HTTP client for the Gemini generateContent API.
package gemini

import (
	"strings"

	"github.com/morganforge/termute/internal/model"
)

// =============================================================================
// WIRE TYPES
// =============================================================================

// part is one text fragment inside a content element.
type part struct {
	Text string `json:"text"`
}

// content is one turn on the wire: a role and its parts.
type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

// generateRequest is the request body for generateContent and
// streamGenerateContent.
type generateRequest struct {
	Contents          []content `json:"contents"`
	SystemInstruction *content  `json:"system_instruction,omitempty"`
}

// candidate is one response candidate.
type candidate struct {
	Content content `json:"content"`
}

// generateResponse is the response body for generateContent and each SSE
// event of streamGenerateContent.
type generateResponse struct {
	Candidates []candidate `json:"candidates"`
	Error      *apiError   `json:"error,omitempty"`
}

// apiError is the provider's error envelope.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// =============================================================================
// REQUEST ENCODING
// =============================================================================

// wireRole maps chat roles onto the provider's roles.
func wireRole(r model.Role) string {
	if r == model.RoleAssistant {
		return "model"
	}
	return "user"
}

// encodeRequest converts the engine's request contract to the wire format.
func encodeRequest(req model.Request) generateRequest {
	out := generateRequest{
		Contents: make([]content, 0, len(req.Messages)),
	}

	for _, msg := range req.Messages {
		out.Contents = append(out.Contents, content{
			Role:  wireRole(msg.Role),
			Parts: []part{{Text: msg.Content}},
		})
	}

	if req.System != "" {
		out.SystemInstruction = &content{
			Parts: []part{{Text: req.System}},
		}
	}

	return out
}

// responseText concatenates the text parts of the first candidate.
func (r *generateResponse) responseText() string {
	if len(r.Candidates) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}
