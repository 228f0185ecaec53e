// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gemini provides the HTTP client for the Gemini generateContent API.
package gemini

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/morganforge/termute/internal/model"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the Gemini client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeMissingCredential
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrMissingCredential = &ClientError{Type: ErrTypeMissingCredential, Message: "GEMINI_API_KEY is not set"}
	ErrTimeout           = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
)

// IsMissingCredential checks if an error is a missing API key error.
func IsMissingCredential(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeMissingCredential
	}
	return false
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// DefaultModel is the model used when none is configured.
const DefaultModel = "gemini-2.0-flash"

// ClientConfig holds configuration options for the Gemini client.
type ClientConfig struct {
	// BaseURL is the API base URL (default: the public generativelanguage
	// endpoint). Overridable for tests.
	BaseURL string

	// Model is the model name (default: "gemini-2.0-flash")
	Model string

	// Timeout for non-streaming requests (default: 60s). Streaming requests
	// are bounded only by the caller's context.
	Timeout time.Duration

	// KeyEnv is the environment variable holding the API key
	// (default: "GEMINI_API_KEY"). The key is read at request time.
	KeyEnv string
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL: "https://generativelanguage.googleapis.com/v1beta",
		Model:   DefaultModel,
		Timeout: 60 * time.Second,
		KeyEnv:  "GEMINI_API_KEY",
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the Gemini API.
// Safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a new Gemini client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new Gemini client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	if config.BaseURL == "" {
		config.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	if config.KeyEnv == "" {
		config.KeyEnv = "GEMINI_API_KEY"
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.config.Model
}

// =============================================================================
// REQUESTS
// =============================================================================

// Generate sends a non-streaming request and returns the full response text.
func (c *Client) Generate(ctx context.Context, req model.Request) (string, error) {
	resp, err := c.post(ctx, "generateContent", false, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	return decoded.responseText(), nil
}

// Stream sends a streaming request and calls the callback for each text
// fragment, in arrival order, until the stream closes.
func (c *Client) Stream(ctx context.Context, req model.Request, callback func(fragment string)) error {
	resp, err := c.post(ctx, "streamGenerateContent", true, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return readSSE(ctx, resp.Body, callback)
}

// post issues the HTTP request shared by both modes.
func (c *Client) post(ctx context.Context, method string, streaming bool, req model.Request) (*http.Response, error) {
	apiKey := os.Getenv(c.config.KeyEnv)
	if apiKey == "" {
		return nil, ErrMissingCredential
	}

	body, err := json.Marshal(encodeRequest(req))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	endpoint := c.config.BaseURL + "/models/" + c.config.Model + ":" + method
	query := url.Values{"key": {apiKey}}
	if streaming {
		query.Set("alt", "sse")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"?"+query.Encode(), bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	// Streaming responses are bounded by the context, not a client timeout.
	client := c.httpClient
	if streaming {
		client = &http.Client{}
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, ErrTimeout
		}
		return nil, &ClientError{Type: ErrTypeConnection, Message: "request failed", Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, decodeHTTPError(resp)
	}

	return resp, nil
}

// decodeHTTPError extracts the provider's error message from a non-200
// response, falling back to the HTTP status.
func decodeHTTPError(resp *http.Response) error {
	var envelope generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error != nil {
		return &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: envelope.Error.Message,
		}
	}
	return &ClientError{
		Type:    ErrTypeInvalidResponse,
		Message: "request failed: " + resp.Status,
	}
}

// =============================================================================
// SSE READER
// =============================================================================

// readSSE reads "data:"-prefixed SSE events and delivers each event's text
// to the callback.
func readSSE(ctx context.Context, body io.Reader, callback func(fragment string)) error {
	reader := bufio.NewReader(body)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				// Process a final unterminated data line, then finish.
				if fragment, ok := decodeEvent(line); ok {
					callback(fragment)
				}
				return nil
			}
			return &ClientError{Type: ErrTypeConnection, Message: "stream read failed", Cause: err}
		}

		if fragment, ok := decodeEvent(line); ok {
			callback(fragment)
		}
	}
}

// decodeEvent parses one SSE line; non-data and malformed lines are skipped.
func decodeEvent(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "data:") {
		return "", false
	}

	payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
	if payload == "" {
		return "", false
	}

	var event generateResponse
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return "", false
	}

	text := event.responseText()
	if text == "" {
		return "", false
	}

	return text, true
}
