// Package provider implements the AI text collaborators: commit message
// generation and code review over HTTP chat APIs.
package provider

import (
	"context"
	"fmt"

	"github.com/seshat-dev/seshat/internal/review"
)

// Options tunes commit message generation.
type Options struct {
	Language string
	Examples []string
}

// Provider is the AI text collaborator. Implementations are synchronous
// and never retry; retry policy belongs to the caller.
type Provider interface {
	// Identity names the provider/model pair for audit entries.
	Identity() string

	GenerateCommitMessage(ctx context.Context, diff string, opts Options) (string, error)

	// GenerateCodeReview reviews a staged diff. priorFindings is empty
	// for a first-pass review and carries the primary reviewer's
	// findings when acting as judge, in which case the response uses
	// the combined message + review format.
	GenerateCodeReview(ctx context.Context, diff string, priorFindings string) (string, error)
}

// Config selects and authenticates a provider.
type Config struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
}

// Default API endpoints per provider. Ollama speaks the OpenAI-compatible
// protocol locally.
var defaultBaseURLs = map[string]string{
	"claude":   "https://api.anthropic.com",
	"deepseek": "https://api.deepseek.com",
	"openai":   "https://api.openai.com/v1",
	"ollama":   "http://localhost:11434/v1",
}

// New builds a Provider from configuration.
func New(cfg Config) (Provider, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURLs[cfg.Provider]
	}
	switch cfg.Provider {
	case "claude":
		return newAnthropicClient(baseURL, cfg.APIKey, cfg.Model), nil
	case "deepseek", "openai", "ollama":
		return newOpenAIClient(cfg.Provider, baseURL, cfg.APIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}
}

// stripReview removes a trailing review section from a combined response
// so commit messages never carry the marker.
func stripReview(text string) string {
	message, _ := review.SplitResponse(text)
	return message
}
