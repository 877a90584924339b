package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/heypico/waypoint/internal/llm"
)

func TestCompleteSendsNativeChatRequest(t *testing.T) {
	var captured map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":   "llama3.2",
			"message": map[string]string{"role": "assistant", "content": "hello there"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "llama3.2")
	resp, err := client.Complete(context.Background(), &llm.Request{
		Messages:    []llm.Message{{Role: "user", Content: "hi"}},
		Temperature: 0.7,
		MaxTokens:   256,
	})
	require.NoError(t, err)
	require.Equal(t, "hello there", resp.Content)

	require.Equal(t, "llama3.2", captured["model"])
	require.Equal(t, false, captured["stream"])
	opts, ok := captured["options"].(map[string]any)
	require.True(t, ok)
	require.InDelta(t, 0.7, opts["temperature"], 1e-9)
}

func TestCompleteNon200IsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "llama3.2")
	_, err := client.Complete(context.Background(), &llm.Request{
		Messages: []llm.Message{{Role: "user", Content: "hi"}},
	})

	var provErr *llm.ProviderError
	require.ErrorAs(t, err, &provErr)
	require.Equal(t, http.StatusInternalServerError, provErr.StatusCode)
}

func TestCheckHealthMatchesModelTags(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"models": []map[string]string{
				{"name": "llama3.2:latest"},
				{"name": "mistral:7b"},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "llama3.2")
	require.NoError(t, client.CheckHealth(context.Background()))

	client = NewClient(srv.URL, "phi3")
	require.Error(t, client.CheckHealth(context.Background()))
}
