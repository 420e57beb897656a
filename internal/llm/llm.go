// Package llm talks to hosted generative-language models.
//
// Every provider takes a single prompt and returns the model's text. There is
// no retry or fallback: any transport, status, or shape problem is returned as
// an ExternalCallFailed error and the caller decides what to abort.
package llm

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/HartBrook/penman/internal/config"
	"github.com/HartBrook/penman/internal/errors"
)

// Generator sends a prompt to a model and returns the generated text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)

	// Name returns the provider identifier (e.g., "gemini").
	Name() string

	// Model returns the model identifier requests are sent to.
	Model() string
}

// Settings configures a provider. APIKey is resolved by the caller once at startup.
type Settings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
}

// Option configures provider construction.
type Option func(*options)

type options struct {
	httpClient *http.Client
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// SettingsFromConfig builds provider settings from loaded configuration.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Provider: cfg.Provider,
		Model:    cfg.Model,
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
		Timeout:  cfg.TimeoutDuration(),
	}
}

// New creates the Generator named by s.Provider.
func New(s Settings, opts ...Option) (Generator, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.httpClient == nil {
		timeout := s.Timeout
		if timeout == 0 {
			timeout = 120 * time.Second
		}
		o.httpClient = &http.Client{Timeout: timeout}
	}

	switch s.Provider {
	case config.ProviderGemini, "":
		if s.APIKey == "" {
			return nil, errors.AuthMissing(config.ProviderGemini, "GOOGLE_API_KEY")
		}
		return newGemini(s, o.httpClient), nil
	case config.ProviderAnthropic:
		if s.APIKey == "" {
			return nil, errors.AuthMissing(config.ProviderAnthropic, "ANTHROPIC_API_KEY")
		}
		return newAnthropic(s, o.httpClient), nil
	case config.ProviderOpenAI:
		if s.APIKey == "" {
			return nil, errors.AuthMissing(config.ProviderOpenAI, "OPENAI_API_KEY")
		}
		return newOpenAI(s, o.httpClient), nil
	default:
		return nil, errors.ConfigInvalid("unknown provider " + s.Provider)
	}
}

// checkText trims model output and rejects an empty response.
func checkText(provider, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.ExternalCallFailed(provider, "empty response text", nil)
	}
	return text, nil
}
