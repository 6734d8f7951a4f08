package script

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenAIClient_RequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIClient("")
	assert.ErrorIs(t, err, ErrAPIKeyRequired)
}

func TestOpenAIClient_Complete(t *testing.T) {
	var gotReq chatRequest
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		resp := chatResponse{}
		resp.Choices = []struct {
			Message chatMessage `json:"message"`
		}{
			{Message: chatMessage{Role: "assistant", Content: "deadass the wildest clip ever"}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client, err := NewOpenAIClient("sk-test", WithBaseURL(server.URL), WithModel("gpt-4o-mini"))
	require.NoError(t, err)

	got, err := client.Complete(context.Background(), "system prompt", "user prompt")
	require.NoError(t, err)
	assert.Equal(t, "deadass the wildest clip ever", got)

	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-4o-mini", gotReq.Model)
	assert.Equal(t, 150, gotReq.MaxTokens)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "user", gotReq.Messages[1].Role)
}

func TestOpenAIClient_Complete_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewOpenAIClient("sk-test", WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), "system", "user")
	assert.ErrorIs(t, err, ErrRequestFailed)
}

func TestOpenAIClient_Complete_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client, err := NewOpenAIClient("sk-test", WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), "system", "user")
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestOpenAIClient_Complete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error":{"message":"model overloaded"}}`))
	}))
	defer server.Close()

	client, err := NewOpenAIClient("sk-test", WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), "system", "user")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestOpenAIClient_Complete_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client, err := NewOpenAIClient("sk-test", WithBaseURL(server.URL))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = client.Complete(ctx, "system", "user")
	assert.Error(t, err)
}
