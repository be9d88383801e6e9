package reply

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/smart-bharat/backend/internal/config"
)

// Canned replies returned instead of errors for the two degradations the
// assistant is expected to absorb.
const (
	TookTooLongReply = "Sorry, the assistant took too long to respond. Please try again."
	OverloadedReply  = "Gemini AI is currently overloaded. Please try again in a few moments."
)

var ErrNotConfigured = errors.New("reply: Gemini API key or URL is not configured")

// Generator produces a free-text reply for a transcript. Satisfied by
// *Client; substituted in conversation tests.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// HTTPStatusError captures non-2xx upstream responses with status-aware context.
type HTTPStatusError struct {
	StatusCode int
	Message    string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("reply: unexpected status %d: %s", e.StatusCode, e.Message)
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// Client talks to the Gemini generateContent endpoint. One outstanding call
// per invocation; callers are responsible for not overlapping requests.
type Client struct {
	apiKey     string
	apiURL     string
	timeout    time.Duration
	httpClient *http.Client
}

// NewClient builds a Client from configuration. The timeout bounds the whole
// generation call; on expiry the caller gets TookTooLongReply, not an error.
func NewClient(cfg config.GeminiConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	return &Client{
		apiKey:  cfg.APIKey,
		apiURL:  cfg.APIURL,
		timeout: timeout,
		// No client-level timeout: the per-call context carries the bound.
		httpClient: &http.Client{},
	}
}

// WithHTTPClient overrides the transport, for tests.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	c.httpClient = httpClient
	return c
}

// Generate sends the prompt and returns the generated text. Timeouts and
// backend overload come back as canned replies; every other failure is an
// error for the caller to surface.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" || c.apiURL == "" {
		return "", ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("reply: marshal request: %w", err)
	}

	url := c.apiURL + "?key=" + c.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("reply: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return TookTooLongReply, nil
		}
		return "", fmt.Errorf("reply: request failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return TookTooLongReply, nil
		}
		return "", fmt.Errorf("reply: read response body: %w", err)
	}

	var payload generateResponse
	if decErr := json.Unmarshal(raw, &payload); decErr != nil && res.StatusCode >= 200 && res.StatusCode < 300 {
		return "", fmt.Errorf("reply: decode response: %w", decErr)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		message := fmt.Sprintf("request failed with status %d", res.StatusCode)
		if payload.Error != nil && payload.Error.Message != "" {
			message = payload.Error.Message
		}
		if isOverloaded(res.StatusCode, message) {
			return OverloadedReply, nil
		}
		return "", &HTTPStatusError{StatusCode: res.StatusCode, Message: message}
	}

	if len(payload.Candidates) == 0 || len(payload.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("reply: no response generated")
	}
	return payload.Candidates[0].Content.Parts[0].Text, nil
}

func isOverloaded(status int, message string) bool {
	if status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable {
		return true
	}
	return strings.Contains(strings.ToLower(message), "overloaded")
}
