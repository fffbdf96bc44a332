package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prompt-server/internal/models"
)

func TestRunOllamaSuccess(t *testing.T) {
	var gotPayload map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"model":    "llama3",
			"response": "generated text",
			"done":     true,
		})
	}))
	defer srv.Close()

	d := NewDispatcher(Defaults{}, nil)
	config := map[string]interface{}{"temperature": 0.2, "num_predict": 64}
	out, err := d.Execute(context.Background(), "ollama", "llama3", "hello", config, &Profile{BaseURL: srv.URL})

	require.NoError(t, err)
	assert.Equal(t, "generated text", out)

	assert.Equal(t, "llama3", gotPayload["model"])
	assert.Equal(t, "hello", gotPayload["prompt"])
	assert.Equal(t, false, gotPayload["stream"])
	// config keys are merged into the payload untouched
	assert.Equal(t, 0.2, gotPayload["temperature"])
	assert.Equal(t, float64(64), gotPayload["num_predict"])
}

func TestRunOllamaEmbeddingModelRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": `"nomic-embed-text" does not support generate`})
	}))
	defer srv.Close()

	d := NewDispatcher(Defaults{}, nil)
	_, err := d.Execute(context.Background(), "ollama", "nomic-embed-text", "hello", nil, &Profile{BaseURL: srv.URL})

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrWrongModelKind)
	assert.Contains(t, err.Error(), "embedding model")
}

func TestRunOllamaBadRequestPassthrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid option: top_x"})
	}))
	defer srv.Close()

	d := NewDispatcher(Defaults{}, nil)
	_, err := d.Execute(context.Background(), "ollama", "llama3", "hello", nil, &Profile{BaseURL: srv.URL})

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrUpstreamBadRequest)
	assert.Contains(t, err.Error(), "invalid option: top_x")
}

func TestRunOllamaUnreachable(t *testing.T) {
	// A closed server guarantees a connection error.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	d := NewDispatcher(Defaults{}, nil)
	_, err := d.Execute(context.Background(), "ollama", "llama3", "hello", nil, &Profile{BaseURL: srv.URL})

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrUpstreamUnreachable)
	// the error names the endpoint it tried
	assert.Contains(t, err.Error(), srv.URL)
}

func TestRunOllamaNonBadRequestError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := NewDispatcher(Defaults{}, nil)
	_, err := d.Execute(context.Background(), "ollama", "llama3", "hello", nil, &Profile{BaseURL: srv.URL})

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrUpstreamBadRequest)
}

func TestIsEmbeddingModel(t *testing.T) {
	assert.True(t, isEmbeddingModel("nomic-embed-text"))
	assert.True(t, isEmbeddingModel("mxbai-embed-large"))
	assert.True(t, isEmbeddingModel("Nomic-Embed"))
	assert.False(t, isEmbeddingModel("llama3"))
	assert.False(t, isEmbeddingModel("mistral"))
}
