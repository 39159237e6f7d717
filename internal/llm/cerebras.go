package llm

import (
	"context"
	"net/http"

	"github.com/Harshitk-cp/crag/internal/domain"
)

const (
	cerebrasAPIURL = "https://api.cerebras.ai/v1/chat/completions"
	cerebrasModel  = "llama-3.3-70b"
)

// CerebrasClient talks to Cerebras, which uses the OpenAI-compatible
// request/response format.
type CerebrasClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewCerebrasClient(apiKey, model string) *CerebrasClient {
	return &CerebrasClient{
		apiKey:     apiKey,
		model:      modelOr(model, cerebrasModel),
		baseURL:    cerebrasAPIURL,
		httpClient: &http.Client{},
	}
}

func (c *CerebrasClient) Generate(ctx context.Context, messages []domain.Message, opts domain.GenerateOpts) (string, error) {
	return completeChat(ctx, c.httpClient, c.baseURL, c.apiKey, "cerebras", chatRequest{
		Model:       c.model,
		Messages:    toChatMessages(messages),
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
}
