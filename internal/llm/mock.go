package llm

import (
	"context"
	"sync"

	"github.com/Harshitk-cp/crag/internal/domain"
)

// MockClient is a scripted LLM client for testing and local runs.
// Responses are served in order; once exhausted, DefaultResponse is returned.
type MockClient struct {
	Responses       []string
	DefaultResponse string
	// Errors is consulted by call index; a nil entry means success.
	Errors []error

	mu sync.Mutex
	// Call tracking for assertions
	Calls []MockCall
}

type MockCall struct {
	Messages []domain.Message
	Opts     domain.GenerateOpts
}

func NewMockClient(responses ...string) *MockClient {
	return &MockClient{
		Responses:       responses,
		DefaultResponse: `{"grounded": true, "needs_more_context": false, "queries": []}`,
	}
}

func (c *MockClient) Generate(ctx context.Context, messages []domain.Message, opts domain.GenerateOpts) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := len(c.Calls)
	c.Calls = append(c.Calls, MockCall{Messages: append([]domain.Message(nil), messages...), Opts: opts})

	if idx < len(c.Errors) && c.Errors[idx] != nil {
		return "", c.Errors[idx]
	}
	if idx < len(c.Responses) {
		return c.Responses[idx], nil
	}
	return c.DefaultResponse, nil
}

// CallCount returns the number of Generate calls made so far.
func (c *MockClient) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Calls)
}

// Reset clears all recorded calls.
func (c *MockClient) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls = nil
}
