package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"
)

// ErrEndpointRequired is returned when no synthesis endpoint is provided.
var ErrEndpointRequired = errors.New("speech: endpoint URL is required")

// Compile-time check that HTTPSynthesizer implements Synthesizer.
var _ Synthesizer = (*HTTPSynthesizer)(nil)

// HTTPSynthesizer posts text to a remote voice-synthesis service and writes
// the returned audio bytes to disk.
type HTTPSynthesizer struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option is a function that configures an HTTPSynthesizer.
type Option func(*HTTPSynthesizer)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *HTTPSynthesizer) {
		s.httpClient = c
	}
}

// WithLogger sets the logger used for degraded-path warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(s *HTTPSynthesizer) {
		s.logger = logger
	}
}

// NewHTTPSynthesizer creates a synthesizer client for the given endpoint.
func NewHTTPSynthesizer(endpoint string, opts ...Option) (*HTTPSynthesizer, error) {
	if endpoint == "" {
		return nil, ErrEndpointRequired
	}

	s := &HTTPSynthesizer{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// synthesizeRequest is the request body for the synthesis endpoint.
type synthesizeRequest struct {
	Text string `json:"text"`
}

// Synthesize posts the text to the synthesis backend and writes the audio
// response to outputPath. Any transport failure or non-success status is
// logged and reported as absent audio, never as an error.
func (s *HTTPSynthesizer) Synthesize(ctx context.Context, text, outputPath string) (string, error) {
	bodyBytes, err := json.Marshal(synthesizeRequest{Text: text})
	if err != nil {
		return "", fmt.Errorf("speech: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("speech: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Warn("speech synthesis request failed, continuing without audio",
			slog.String("error", err.Error()),
		)
		return "", nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Warn("speech synthesis returned non-success status, continuing without audio",
			slog.Int("status", resp.StatusCode),
		)
		return "", nil
	}

	f, err := os.OpenFile(outputPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600) // #nosec G304 - path built by trusted caller
	if err != nil {
		return "", fmt.Errorf("speech: create output file: %w", err)
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(outputPath)
		return "", fmt.Errorf("speech: write audio: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(outputPath)
		return "", fmt.Errorf("speech: close output file: %w", err)
	}

	return outputPath, nil
}
