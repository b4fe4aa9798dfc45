package generation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"studio-service/internal/config"
	apperrors "studio-service/pkg/errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&config.GenerationConfig{URL: srv.URL, APIKey: "key", Timeout: time.Second})
}

func TestGenerate_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "noir", req.Style)
		assert.Equal(t, []string{"https://cdn/ref.png"}, req.ImageRefs)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","image_url":"https://cdn/out.png"}`))
	})

	res, err := client.Generate(context.Background(), Request{
		ImageRefs: []string{"https://cdn/ref.png"},
		Style:     "noir",
		Prompt:    "city at night",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/out.png", res.ImageURL)
}

func TestGenerate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload string
	}{
		{name: "error payload", status: http.StatusOK, payload: `{"status":"error","error":"nsfw"}`},
		{name: "server error", status: http.StatusBadGateway, payload: `{"status":"success","image_url":"x"}`},
		{name: "garbage body", status: http.StatusOK, payload: `not json`},
		{name: "missing url", status: http.StatusOK, payload: `{"status":"success"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.payload))
			})

			_, err := client.Generate(context.Background(), Request{Style: "s", Prompt: "p"})
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrExternalService)
		})
	}
}

func TestGenerate_ErrorStatusKeepsBoundedBody(t *testing.T) {
	tail := strings.Repeat("x", 4*errorSnippetBytes)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("model overloaded " + tail))
	})

	_, err := client.Generate(context.Background(), Request{Style: "s", Prompt: "p"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrExternalService)
	assert.Contains(t, err.Error(), "unexpected status 503: model overloaded")
	assert.Less(t, strings.Count(err.Error(), "x"), errorSnippetBytes)
}

func TestGenerate_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(&config.GenerationConfig{URL: srv.URL, Timeout: 20 * time.Millisecond})

	_, err := client.Generate(context.Background(), Request{Style: "s", Prompt: "p"})
	assert.ErrorIs(t, err, apperrors.ErrExternalService)
}

func TestGenerate_NotConfigured(t *testing.T) {
	client := NewClient(&config.GenerationConfig{Timeout: time.Second})

	_, err := client.Generate(context.Background(), Request{Style: "s", Prompt: "p"})
	assert.ErrorIs(t, err, apperrors.ErrExternalService)
}
