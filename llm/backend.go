// Package llm talks to remote text-generation services.
package llm

import (
	"context"
	"net/http"
	"time"

	"uprate/backend/config"
)

// Backend completes one system + user prompt pair.
type Backend interface {
	Complete(ctx context.Context, system, user string) (string, error)
	Name() string
}

// UpstreamError carries the message a backend returned in its structured
// error body.
type UpstreamError struct {
	Backend string
	Message string
}

func (e *UpstreamError) Error() string { return e.Backend + ": " + e.Message }

var sharedHTTPClient = &http.Client{Timeout: 2 * time.Minute}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}

// FromConfig picks the configured backend: OpenAI first, then Gemini. It
// returns nil when no credential is set.
func FromConfig(cfg config.Config) Backend {
	if !cfg.GenerationConfigured() {
		return nil
	}
	switch {
	case cfg.OpenAIAPIKey != "":
		return NewOpenAI(cfg.OpenAIAPIURL, cfg.OpenAIModel, cfg.OpenAIAPIKey)
	case cfg.GeminiAPIKey != "":
		return NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel)
	}
	return nil
}
