package llm

import (
	"context"
	"errors"
	"net"
	"net/url"
	"regexp"
	"strings"
	"syscall"
)

// Client is a generative model that answers a prompt with a JSON document.
// Implementations return the model's text untouched; callers clean and validate it.
type Client interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

// Provider names accepted by LLM_PROVIDER.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// DefaultModel returns the model used when LLM_MODEL is unset.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	default:
		return "gemini-flash-latest"
	}
}

var placeholderKey = regexp.MustCompile(`(?i)^your[-_].*[-_]here$`)

// IsPlaceholderKey reports whether key is empty or an obvious template value
// such as "your-gemini-api-key-here".
func IsPlaceholderKey(key string) bool {
	k := strings.TrimSpace(key)
	if k == "" {
		return true
	}
	if placeholderKey.MatchString(k) {
		return true
	}
	switch strings.ToLower(k) {
	case "changeme", "change-me", "replace-me", "todo", "xxx":
		return true
	}
	return false
}

// IsTransient reports whether err is a network failure worth retrying:
// a connection timeout, a refused connection, or a transport-level failure
// that never produced a response. Cancellation is never transient; callers
// stop retrying once their own context is done.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ETIMEDOUT) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{"etimedout", "econnrefused", "fetch failed", "connection refused", "timeout"} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
