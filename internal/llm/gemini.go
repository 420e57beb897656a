package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/HartBrook/penman/internal/errors"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	defaultGeminiModel   = "gemini-2.0-flash"
)

// geminiProvider calls POST /v1beta/models/{model}:generateContent.
type geminiProvider struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func newGemini(s Settings, client *http.Client) *geminiProvider {
	p := &geminiProvider{
		apiKey:     s.APIKey,
		baseURL:    s.BaseURL,
		model:      s.Model,
		httpClient: client,
	}
	if p.baseURL == "" {
		p.baseURL = defaultGeminiBaseURL
	}
	if p.model == "" {
		p.model = defaultGeminiModel
	}
	return p
}

func (p *geminiProvider) Name() string  { return "gemini" }
func (p *geminiProvider) Model() string { return p.model }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

type geminiResponse struct {
	Candidates     []geminiCandidate `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate sends a single-turn generateContent request.
func (p *geminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
	})
	if err != nil {
		return "", errors.ExternalCallFailed(p.Name(), "failed to encode request", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent",
		strings.TrimSuffix(p.baseURL, "/"), url.PathEscape(p.model))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", errors.ExternalCallFailed(p.Name(), "failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", errors.ExternalCallFailed(p.Name(), "API request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.ExternalCallFailed(p.Name(), "failed to read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr geminiError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error.Message != "" {
			return "", errors.ExternalCallFailed(p.Name(),
				fmt.Sprintf("API error (%d): %s", resp.StatusCode, apiErr.Error.Message), nil)
		}
		return "", errors.ExternalCallFailed(p.Name(),
			fmt.Sprintf("API returned status %d", resp.StatusCode), nil)
	}

	var result geminiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", errors.ExternalCallFailed(p.Name(), "failed to decode response", err)
	}

	if len(result.Candidates) == 0 {
		if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
			return "", errors.ExternalCallFailed(p.Name(), "prompt blocked: "+result.PromptFeedback.BlockReason, nil)
		}
		return "", errors.ExternalCallFailed(p.Name(), "no candidates returned", nil)
	}

	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}

	return checkText(p.Name(), text.String())
}
