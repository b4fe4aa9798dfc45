// Package logger scrubs credentials out of text and maps before they reach
// a log sink.
package logger

import (
	"regexp"
	"strings"
)

var (
	passwordPattern = regexp.MustCompile(`(?i)(password|passwd|pwd)[\s:=]+[^\s]+`)
	bearerPattern   = regexp.MustCompile(`(?i)(bearer)\s+[^\s]+`)
	tokenPattern    = regexp.MustCompile(`(?i)(token|jwt)[\s:=]+[^\s]+`)
	apiKeyPattern   = regexp.MustCompile(`(?i)(api[_-]?key|apikey)[\s:=]+[^\s]+`)
	secretPattern   = regexp.MustCompile(`(?i)(secret|private[_-]?key)[\s:=]+[^\s]+`)
)

const Redacted = "[REDACTED]"

var sensitiveKeys = []string{
	"password", "passwd", "pwd",
	"token", "jwt", "bearer", "authorization",
	"api_key", "apikey", "api-key",
	"secret", "private_key", "private-key",
}

// Redact replaces credential-looking values in a free-form message.
func Redact(message string) string {
	message = passwordPattern.ReplaceAllString(message, "${1}="+Redacted)
	message = bearerPattern.ReplaceAllString(message, "${1} "+Redacted)
	message = tokenPattern.ReplaceAllString(message, "${1}="+Redacted)
	message = apiKeyPattern.ReplaceAllString(message, "${1}="+Redacted)
	message = secretPattern.ReplaceAllString(message, "${1}="+Redacted)
	return message
}

// RedactMap returns a copy of data with sensitive keys masked. Nested maps
// are walked. A nil map stays nil.
func RedactMap(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}

	out := make(map[string]any, len(data))
	for k, v := range data {
		switch {
		case isSensitive(k):
			out[k] = Redacted
		case isMap(v):
			out[k] = RedactMap(v.(map[string]any))
		default:
			out[k] = v
		}
	}
	return out
}

func isSensitive(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

func isMap(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}
