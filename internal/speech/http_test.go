package speech

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPSynthesizer_RequiresEndpoint(t *testing.T) {
	_, err := NewHTTPSynthesizer("")
	assert.ErrorIs(t, err, ErrEndpointRequired)
}

func TestHTTPSynthesizer_Synthesize_Success(t *testing.T) {
	audio := []byte("fake-mp3-bytes")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req synthesizeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "no cap this clip goes crazy", req.Text)

		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write(audio)
	}))
	defer server.Close()

	synth, err := NewHTTPSynthesizer(server.URL)
	require.NoError(t, err)

	outputPath := filepath.Join(t.TempDir(), "audio.mp3")
	got, err := synth.Synthesize(context.Background(), "no cap this clip goes crazy", outputPath)
	require.NoError(t, err)
	assert.Equal(t, outputPath, got)

	written, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, audio, written)
}

func TestHTTPSynthesizer_Synthesize_ServerErrorDegrades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "voice model crashed", http.StatusInternalServerError)
	}))
	defer server.Close()

	synth, err := NewHTTPSynthesizer(server.URL)
	require.NoError(t, err)

	outputPath := filepath.Join(t.TempDir(), "audio.mp3")
	got, err := synth.Synthesize(context.Background(), "some text", outputPath)
	require.NoError(t, err, "backend failures must not surface as errors")
	assert.Empty(t, got)

	_, statErr := os.Stat(outputPath)
	assert.True(t, os.IsNotExist(statErr), "no audio file should be written on failure")
}

func TestHTTPSynthesizer_Synthesize_TransportErrorDegrades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // connection refused from here on

	synth, err := NewHTTPSynthesizer(server.URL)
	require.NoError(t, err)

	got, err := synth.Synthesize(context.Background(), "some text", filepath.Join(t.TempDir(), "audio.mp3"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHTTPSynthesizer_Synthesize_UnwritablePathErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("audio"))
	}))
	defer server.Close()

	synth, err := NewHTTPSynthesizer(server.URL)
	require.NoError(t, err)

	// Local file failures are real errors, unlike backend failures.
	_, err = synth.Synthesize(context.Background(), "some text", filepath.Join(t.TempDir(), "missing", "audio.mp3"))
	assert.Error(t, err)
}

func TestNoop_AlwaysAbsent(t *testing.T) {
	var n Noop

	got, err := n.Synthesize(context.Background(), "anything", "/tmp/out.mp3")
	require.NoError(t, err)
	assert.Empty(t, got)
}
