package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAnthropicRequiresKey(t *testing.T) {
	_, err := NewAnthropic("  ", "")
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestAnthropicGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var req apiRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		if assert.Len(t, req.Messages, 1) {
			assert.Equal(t, "hello", req.Messages[0].Content)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":[{"type":"text","text":"{\"ok\":true}"}]}`))
	}))
	defer srv.Close()

	a, err := NewAnthropic("secret", "test-model", WithEndpoint(srv.URL))
	require.NoError(t, err)

	got, err := a.Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, got)
}

func TestAnthropicGenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"http status", http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`},
		{"api error body", http.StatusOK, `{"error":{"message":"bad key"}}`},
		{"empty content", http.StatusOK, `{"content":[]}`},
		{"not json", http.StatusOK, `<html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			a, err := NewAnthropic("secret", "", WithEndpoint(srv.URL))
			require.NoError(t, err)

			_, err = a.Generate(context.Background(), "hello")
			assert.Error(t, err)
		})
	}
}
