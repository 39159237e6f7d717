package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Harshitk-cp/crag/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMessages = []domain.Message{
	{Role: domain.RoleSystem, Content: "be faithful"},
	{Role: domain.RoleUser, Content: "hi"},
	{Role: domain.RoleAssistant, Content: "hello"},
	{Role: domain.RoleUser, Content: "what is a vector index?"},
}

func TestNormalizeContent(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"string", `"  answer  "`, "answer"},
		{"parts", `[{"type":"text","text":"a"},{"type":"text","text":"b"}]`, "a b"},
		{"mixed", `["a",{"text":"b"}]`, "a b"},
		{"null", `null`, ""},
		{"empty", ``, ""},
		{"number", `42`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeContent(json.RawMessage(tt.raw)))
		})
	}
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(ProviderOpenAI, "", "")
	assert.Error(t, err)

	_, err = NewClient("bogus", "k", "")
	assert.Error(t, err)

	c, err := NewClient(ProviderMock, "", "")
	require.NoError(t, err)
	assert.IsType(t, &MockClient{}, c)

	c, err = NewClient(ProviderAnthropic, "k", "claude-x")
	require.NoError(t, err)
	assert.Equal(t, "claude-x", c.(*AnthropicClient).model)
}

func TestOpenAIClient_Generate(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":[{"type":"text","text":"part one"},{"type":"text","text":"part two"}]}}]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("key", "")
	c.baseURL = srv.URL

	out, err := c.Generate(context.Background(), testMessages, domain.GenerateOpts{Temperature: 0.5, MaxTokens: 500})
	require.NoError(t, err)
	assert.Equal(t, "part one part two", out)
	assert.Equal(t, chatModel, got.Model)
	assert.Equal(t, 500, got.MaxTokens)
	assert.Len(t, got.Messages, 4)
	assert.Equal(t, "system", got.Messages[0].Role)
}

func TestOpenAIClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down"}}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("key", "")
	c.baseURL = srv.URL

	_, err := c.Generate(context.Background(), testMessages, domain.GenerateOpts{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestCerebrasClient_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewCerebrasClient("key", "")
	c.baseURL = srv.URL

	_, err := c.Generate(context.Background(), testMessages, domain.GenerateOpts{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestAnthropicClient_LiftsSystemPrompt(t *testing.T) {
	var got anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"first"},{"type":"tool_use"},{"type":"text","text":"second"}]}`))
	}))
	defer srv.Close()

	c := NewAnthropicClient("key", "")
	c.baseURL = srv.URL

	out, err := c.Generate(context.Background(), testMessages, domain.GenerateOpts{})
	require.NoError(t, err)
	assert.Equal(t, "first second", out)
	assert.Equal(t, "be faithful", got.System)
	assert.Equal(t, anthropicMaxTokens, got.MaxTokens)
	require.Len(t, got.Messages, 3)
	assert.Equal(t, "user", got.Messages[0].Role)
}

func TestGeminiClient_MapsRoles(t *testing.T) {
	var got geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/"+geminiModel+":generateContent"))
		assert.Equal(t, "key", r.URL.Query().Get("key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	}))
	defer srv.Close()

	c := NewGeminiClient("key", "")
	c.baseURL = srv.URL

	out, err := c.Generate(context.Background(), testMessages, domain.GenerateOpts{Temperature: 0.2, MaxTokens: 300})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	require.NotNil(t, got.SystemInstruction)
	assert.Equal(t, "be faithful", got.SystemInstruction.Parts[0].Text)
	require.Len(t, got.Contents, 3)
	assert.Equal(t, "model", got.Contents[1].Role)
	assert.Equal(t, 300, got.GenerationConfig.MaxOutputTokens)
}

func TestMockClient_ScriptedResponses(t *testing.T) {
	boom := errors.New("boom")
	c := NewMockClient("draft", "final")
	c.Errors = []error{nil, nil, boom}

	out, err := c.Generate(context.Background(), testMessages, domain.GenerateOpts{})
	require.NoError(t, err)
	assert.Equal(t, "draft", out)

	out, _ = c.Generate(context.Background(), testMessages, domain.GenerateOpts{})
	assert.Equal(t, "final", out)

	_, err = c.Generate(context.Background(), testMessages, domain.GenerateOpts{})
	assert.ErrorIs(t, err, boom)

	out, err = c.Generate(context.Background(), testMessages, domain.GenerateOpts{})
	require.NoError(t, err)
	assert.Equal(t, c.DefaultResponse, out)
	assert.Equal(t, 4, c.CallCount())

	c.Reset()
	assert.Equal(t, 0, c.CallCount())
}
