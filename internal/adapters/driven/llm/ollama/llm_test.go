package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driven"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *LLMService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewLLMService(LLMConfig{BaseURL: srv.URL})
}

func TestNewLLMService_Defaults(t *testing.T) {
	svc := NewLLMService(LLMConfig{})

	assert.Equal(t, "mistral:7b-instruct", svc.ModelName())
	assert.Equal(t, domain.LLMVariantCompletion, svc.Variant())
	assert.InDelta(t, 0.1, svc.temperature, 1e-9)
	assert.Equal(t, 4096, svc.contextSize)
	assert.NoError(t, svc.Close())
}

func TestGenerate(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "mistral:7b-instruct", req.Model)
		assert.Equal(t, "prompt", req.Prompt)
		assert.False(t, req.Stream)
		assert.Equal(t, 512, req.Options.NumPredict)
		assert.Equal(t, 4096, req.Options.NumCtx)
		assert.InDelta(t, 0.1, req.Options.Temperature, 1e-9)
		_, _ = w.Write([]byte(`{"response":"{\"respuesta\":\"hola\"}","done":true}`))
	})

	out, err := svc.Generate(context.Background(), "prompt", driven.GenerateOptions{MaxTokens: 512})
	require.NoError(t, err)
	assert.Equal(t, `{"respuesta":"hola"}`, out)
}

func TestChat(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "other", req.Model)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.InDelta(t, 0.7, req.Options.Temperature, 1e-9)
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"ok"},"done":true}`))
	})

	out, err := svc.Chat(context.Background(),
		[]driven.ChatMessage{{Role: driven.RoleUser, Content: "hi"}},
		driven.ChatOptions{Model: "other", Temperature: 0.7})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}

func TestGenerate_Errors(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	})
	_, err := svc.Generate(context.Background(), "p", driven.GenerateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")

	down := NewLLMService(LLMConfig{BaseURL: "http://127.0.0.1:1"})
	_, err = down.Generate(context.Background(), "p", driven.GenerateOptions{})
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestPing(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[]}`))
	})
	assert.NoError(t, svc.Ping(context.Background()))
}
