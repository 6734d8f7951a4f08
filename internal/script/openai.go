package script

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Static errors for remote completion operations.
var (
	// ErrAPIKeyRequired is returned when no API key is provided.
	ErrAPIKeyRequired = errors.New("openai: API key is required")
	// ErrEmptyCompletion is returned when the response contains no choices.
	ErrEmptyCompletion = errors.New("openai: empty completion")
	// ErrRequestFailed is returned when the request fails with a non-2xx status code.
	ErrRequestFailed = errors.New("openai: request failed")
)

// Completer defines the interface for a remote text-generation backend.
type Completer interface {
	// Complete sends the prompts and returns the raw model output.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// OpenAIClient is an HTTP client for an OpenAI-compatible chat completions
// endpoint.
type OpenAIClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// ClientOption is a function that configures an OpenAIClient.
type ClientOption func(*OpenAIClient)

// WithBaseURL sets a custom base URL, e.g. for a local OpenAI-compatible server.
func WithBaseURL(url string) ClientOption {
	return func(c *OpenAIClient) {
		c.baseURL = url
	}
}

// WithModel sets the model name used for completions.
func WithModel(model string) ClientOption {
	return func(c *OpenAIClient) {
		c.model = model
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *OpenAIClient) {
		c.httpClient = hc
	}
}

// WithTimeout bounds each completion request. No call may block longer than
// this; on expiry the caller falls through to templates.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *OpenAIClient) {
		c.httpClient.Timeout = d
	}
}

// NewOpenAIClient creates a new client for an OpenAI-compatible endpoint.
func NewOpenAIClient(apiKey string, opts ...ClientOption) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	c := &OpenAIClient{
		apiKey:     apiKey,
		baseURL:    "https://api.openai.com/v1",
		model:      "gpt-4o-mini",
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// chatRequest is the request body for the chat completions endpoint.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the response body for the chat completions endpoint.
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete sends the prompts to the chat completions endpoint and returns the
// raw model output. Sampling is creative (high temperature, top-p) with a
// token ceiling sized for roughly 30 seconds of speech.
func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens:   150,
		Temperature: 1.0,
		TopP:        0.95,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("openai: marshal request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("openai: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai: do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("openai: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d: %s", ErrRequestFailed, resp.StatusCode, truncateBody(respBody))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("openai: decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("%w: %s", ErrRequestFailed, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	return parsed.Choices[0].Message.Content, nil
}

// truncateBody keeps error messages short when upstream returns a large body.
func truncateBody(b []byte) string {
	const max = 256
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
