package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Harshitk-cp/crag/internal/domain"
)

const (
	openAIChatURL = "https://api.openai.com/v1/chat/completions"
	chatModel     = "gpt-4o-mini"
)

type OpenAIClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	return &OpenAIClient{
		apiKey:     apiKey,
		model:      modelOr(model, chatModel),
		baseURL:    openAIChatURL,
		httpClient: &http.Client{},
	}
}

// chat types for OpenAI-compatible APIs
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content json.RawMessage `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func toChatMessages(messages []domain.Message) []chatMessage {
	out := make([]chatMessage, len(messages))
	for i, m := range messages {
		out[i] = chatMessage{Role: string(m.Role), Content: m.Content}
	}
	return out
}

// completeChat posts an OpenAI-style chat completion and returns the first
// choice's content. Shared by every OpenAI-compatible provider.
func completeChat(ctx context.Context, hc *http.Client, url, apiKey, label string, reqBody chatRequest) (string, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal %s request: %w", label, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create %s request: %w", label, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s request failed: %w", label, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s response: %w", label, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s API returned status %d: %s", label, resp.StatusCode, string(respBody))
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("unmarshal %s response: %w", label, err)
	}

	if result.Error != nil {
		return "", fmt.Errorf("%s API error: %s", label, result.Error.Message)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%s API returned no choices", label)
	}

	return normalizeContent(result.Choices[0].Message.Content), nil
}

func (c *OpenAIClient) Generate(ctx context.Context, messages []domain.Message, opts domain.GenerateOpts) (string, error) {
	return completeChat(ctx, c.httpClient, c.baseURL, c.apiKey, "chat", chatRequest{
		Model:       c.model,
		Messages:    toChatMessages(messages),
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
}
