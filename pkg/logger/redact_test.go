package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedact(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"upstream said password=hunter2 nope", "upstream said password=[REDACTED] nope"},
		{"Authorization: Bearer eyJhbGciOi.x.y", "Authorization: Bearer [REDACTED]"},
		{"api_key: abc123", "api_key=[REDACTED]"},
		{"project not found", "project not found"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Redact(tt.in))
	}
}

func TestRedactMap(t *testing.T) {
	in := map[string]any{
		"title":           "Spring launch",
		"api_key":         "abc",
		"GenerationToken": "xyz",
		"nested":          map[string]any{"password": "p", "size": 3},
	}

	out := RedactMap(in)
	assert.Equal(t, "Spring launch", out["title"])
	assert.Equal(t, Redacted, out["api_key"])
	assert.Equal(t, Redacted, out["GenerationToken"])
	assert.Equal(t, map[string]any{"password": Redacted, "size": 3}, out["nested"])
	assert.Equal(t, "abc", in["api_key"], "input is not mutated")
	assert.Nil(t, RedactMap(nil))
}
