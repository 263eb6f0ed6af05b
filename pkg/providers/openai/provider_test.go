package openaiprovider

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/openai/openai-go/v3/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinyland-inc/ticketclaw/pkg/providers/protocoltypes"
)

func newCompletionsServer(t *testing.T, requests *int32, choices []map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		atomic.AddInt32(requests, 1)
		if r.Header.Get("Authorization") != "Bearer test-key" {
			http.Error(w, `{"error":{"message":"bad key"}}`, http.StatusUnauthorized)
			return
		}

		var reqBody map[string]any
		json.NewDecoder(r.Body).Decode(&reqBody)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   reqBody["model"],
			"choices": choices,
		})
	}))
}

func TestProvider_CompleteRoundTrip(t *testing.T) {
	var requests int32
	server := newCompletionsServer(t, &requests, []map[string]any{{
		"index":         0,
		"finish_reason": "stop",
		"message":       map[string]any{"role": "assistant", "content": "  Try the reset link.  "},
	}})
	defer server.Close()

	p := NewProviderWithBaseURL("test-key", server.URL)
	got, err := p.Complete(t.Context(), CompletionRequest{System: "brief", User: "hello", Model: "gpt-4o-mini", MaxTokens: 50})
	require.NoError(t, err)
	assert.Equal(t, "Try the reset link.", got)
	assert.EqualValues(t, 1, atomic.LoadInt32(&requests))
}

func TestProvider_CompleteNoChoices(t *testing.T) {
	var requests int32
	server := newCompletionsServer(t, &requests, []map[string]any{})
	defer server.Close()

	p := NewProviderWithBaseURL("test-key", server.URL+"/v1")
	_, err := p.Complete(t.Context(), CompletionRequest{User: "hello", Model: "gpt-4o-mini"})
	assert.ErrorIs(t, err, protocoltypes.ErrMalformedResponse)
}

func TestProvider_CompleteEmptyContent(t *testing.T) {
	var requests int32
	server := newCompletionsServer(t, &requests, []map[string]any{{
		"index":         0,
		"finish_reason": "length",
		"message":       map[string]any{"role": "assistant", "content": ""},
	}})
	defer server.Close()

	p := NewProviderWithBaseURL("test-key", server.URL)
	_, err := p.Complete(t.Context(), CompletionRequest{User: "hello", Model: "gpt-4o-mini"})
	assert.ErrorIs(t, err, protocoltypes.ErrMalformedResponse)
}

func TestProvider_CompleteServiceErrorIsNotMalformed(t *testing.T) {
	var requests int32
	server := newCompletionsServer(t, &requests, nil)
	defer server.Close()

	p := NewProviderWithBaseURL("wrong-key", server.URL, option.WithMaxRetries(0))
	_, err := p.Complete(t.Context(), CompletionRequest{User: "hello", Model: "gpt-4o-mini"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, protocoltypes.ErrMalformedResponse))
	assert.EqualValues(t, 1, atomic.LoadInt32(&requests))
}

func TestBuildParams(t *testing.T) {
	temp := 0.3
	params := buildParams(CompletionRequest{System: "s", User: "u", Model: "m", MaxTokens: 10, Temperature: &temp})
	assert.Len(t, params.Messages, 2)
	assert.Equal(t, "m", string(params.Model))

	params = buildParams(CompletionRequest{User: "u", Model: "m"})
	assert.Len(t, params.Messages, 1)
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := map[string]string{
		"":                           defaultBaseURL,
		"https://api.openai.com":     "https://api.openai.com/v1/",
		"https://api.openai.com/v1":  "https://api.openai.com/v1/",
		"https://api.openai.com/v1/": "https://api.openai.com/v1/",
		"http://localhost:8080/":     "http://localhost:8080/v1/",
	}
	for in, want := range tests {
		assert.Equal(t, want, normalizeBaseURL(in), in)
	}
}
