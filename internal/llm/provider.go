package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Harshitk-cp/crag/internal/domain"
)

// Provider constants
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderCerebras  = "cerebras"
	ProviderMock      = "mock"
)

// NewClient creates an LLM client based on the provider name. An empty model
// selects the provider default.
// Returns an error if the provider is unknown or the API key is empty (except for mock).
func NewClient(provider, apiKey, model string) (domain.LLMClient, error) {
	switch provider {
	case ProviderOpenAI:
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for OpenAI provider")
		}
		return NewOpenAIClient(apiKey, model), nil

	case ProviderAnthropic:
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is required for Anthropic provider")
		}
		return NewAnthropicClient(apiKey, model), nil

	case ProviderGemini:
		if apiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for Gemini provider")
		}
		return NewGeminiClient(apiKey, model), nil

	case ProviderCerebras:
		if apiKey == "" {
			return nil, fmt.Errorf("CEREBRAS_API_KEY is required for Cerebras provider")
		}
		return NewCerebrasClient(apiKey, model), nil

	case ProviderMock:
		return NewMockClient(), nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (valid options: openai, anthropic, gemini, cerebras, mock)", provider)
	}
}

// contentPart covers the list form some chat APIs use for message content.
type contentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// normalizeContent flattens a message content that is either a JSON string
// or a list of strings / text parts into one string.
func normalizeContent(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil {
		return ""
	}

	texts := make([]string, 0, len(parts))
	for _, p := range parts {
		var str string
		if err := json.Unmarshal(p, &str); err == nil {
			texts = append(texts, str)
			continue
		}
		var part contentPart
		if err := json.Unmarshal(p, &part); err == nil {
			texts = append(texts, part.Text)
		}
	}
	return strings.TrimSpace(strings.Join(texts, " "))
}

func modelOr(model, def string) string {
	if model == "" {
		return def
	}
	return model
}
