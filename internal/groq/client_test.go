package groq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChat_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.Equal(t, 1024, req.MaxTokens)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)

		resp := ChatResponse{}
		resp.Choices = []struct {
			Message Message `json:"message"`
		}{{Message: Message{Role: "assistant", Content: "jawaban"}}}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := NewClient("test-key", "test-model", 5*time.Second)
	client.apiURL = srv.URL

	got, err := client.Chat(context.Background(), "pertanyaan", "sistem")
	require.NoError(t, err)
	assert.Equal(t, "jawaban", got)
}

func TestChat_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient("test-key", "test-model", 5*time.Second)
	client.apiURL = srv.URL

	_, err := client.Chat(context.Background(), "pertanyaan", "")
	require.Error(t, err)
}

func TestChat_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ChatResponse{})
	}))
	defer srv.Close()

	client := NewClient("test-key", "test-model", 5*time.Second)
	client.apiURL = srv.URL

	_, err := client.Chat(context.Background(), "pertanyaan", "")
	require.Error(t, err)
}
