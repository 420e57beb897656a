package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/HartBrook/penman/internal/errors"
)

const (
	defaultAnthropicBaseURL = "https://api.anthropic.com/v1"
	defaultAnthropicModel   = "claude-sonnet-4-20250514"
	defaultMaxTokens        = 4096
	anthropicAPIVersion     = "2023-06-01"
)

// anthropicProvider handles communication with the Claude messages API.
type anthropicProvider struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func newAnthropic(s Settings, client *http.Client) *anthropicProvider {
	p := &anthropicProvider{
		apiKey:     s.APIKey,
		baseURL:    s.BaseURL,
		model:      s.Model,
		httpClient: client,
	}
	if p.baseURL == "" {
		p.baseURL = defaultAnthropicBaseURL
	}
	if p.model == "" {
		p.model = defaultAnthropicModel
	}
	return p
}

func (p *anthropicProvider) Name() string  { return "anthropic" }
func (p *anthropicProvider) Model() string { return p.model }

// Message represents a message in the Claude API.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []Message `json:"messages"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type messagesResponse struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Role       string         `json:"role"`
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
}

type apiError struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends the prompt as a single user message.
func (p *anthropicProvider) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.sendRequest(ctx, messagesRequest{
		Model:     p.model,
		MaxTokens: defaultMaxTokens,
		Messages: []Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}

	var result strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			result.WriteString(block.Text)
		}
	}

	return checkText(p.Name(), result.String())
}

func (p *anthropicProvider) sendRequest(ctx context.Context, req messagesRequest) (*messagesResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.ExternalCallFailed(p.Name(), "failed to encode request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSuffix(p.baseURL, "/")+"/messages", bytes.NewReader(body))
	if err != nil {
		return nil, errors.ExternalCallFailed(p.Name(), "failed to create request", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", p.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicAPIVersion)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.ExternalCallFailed(p.Name(), "API request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.ExternalCallFailed(p.Name(), "failed to read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error.Message != "" {
			return nil, errors.ExternalCallFailed(p.Name(),
				fmt.Sprintf("API error (%d): %s", resp.StatusCode, apiErr.Error.Message), nil)
		}
		return nil, errors.ExternalCallFailed(p.Name(),
			fmt.Sprintf("API returned status %d", resp.StatusCode), nil)
	}

	var result messagesResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, errors.ExternalCallFailed(p.Name(), "failed to decode response", err)
	}

	return &result, nil
}
