package llm

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/HartBrook/penman/internal/errors"
	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultOpenAIModel = "gpt-4o-mini"

// openAIProvider uses the official openai-go SDK (chat completions).
type openAIProvider struct {
	model  string
	client openai.Client
}

func newOpenAI(s Settings, httpClient *http.Client) *openAIProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(s.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}
	if s.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(s.BaseURL))
	}

	model := s.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	return &openAIProvider{
		model:  model,
		client: openai.NewClient(opts...),
	}
}

func (p *openAIProvider) Name() string  { return "openai" }
func (p *openAIProvider) Model() string { return p.model }

// Generate sends the prompt as a single user message.
func (p *openAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		var apiErr *openai.Error
		if stderrors.As(err, &apiErr) {
			return "", errors.ExternalCallFailed(p.Name(),
				fmt.Sprintf("API returned status %d", apiErr.StatusCode), err)
		}
		return "", errors.ExternalCallFailed(p.Name(), "API request failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.ExternalCallFailed(p.Name(), "empty choices", nil)
	}

	return checkText(p.Name(), resp.Choices[0].Message.Content)
}
