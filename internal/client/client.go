// Package client is a small HTTP client for the crag API, used by cragctl.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Harshitk-cp/crag/internal/domain"
)

// APIError is a non-2xx reply from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

type chatRequest struct {
	ThreadID string `json:"thread_id,omitempty"`
	Message  string `json:"message"`
}

// Corrective asks with grounding evaluation.
func (c *Client) Corrective(ctx context.Context, threadID, message string) (*domain.Answer, error) {
	var ans domain.Answer
	if err := c.do(ctx, http.MethodPost, "/v1/chat/corrective", chatRequest{threadID, message}, &ans); err != nil {
		return nil, err
	}
	return &ans, nil
}

// Chat asks in a single pass with thread memory.
func (c *Client) Chat(ctx context.Context, threadID, message string) (*domain.Answer, error) {
	var ans domain.Answer
	if err := c.do(ctx, http.MethodPost, "/v1/chat", chatRequest{threadID, message}, &ans); err != nil {
		return nil, err
	}
	return &ans, nil
}

func (c *Client) Ask(ctx context.Context, message string) (*domain.RetrievedAnswer, error) {
	var ans domain.RetrievedAnswer
	if err := c.do(ctx, http.MethodPost, "/v1/ask", chatRequest{Message: message}, &ans); err != nil {
		return nil, err
	}
	return &ans, nil
}

func (c *Client) Thread(ctx context.Context, threadID string) (*domain.Thread, error) {
	var th domain.Thread
	if err := c.do(ctx, http.MethodGet, "/v1/threads/"+url.PathEscape(threadID)+"/messages", nil, &th); err != nil {
		return nil, err
	}
	return &th, nil
}

func (c *Client) DeleteThread(ctx context.Context, threadID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/threads/"+url.PathEscape(threadID), nil, nil)
}

func (c *Client) IndexDocument(ctx context.Context, doc domain.Document) (*domain.IndexedDocument, error) {
	var out domain.IndexedDocument
	if err := c.do(ctx, http.MethodPost, "/v1/documents", doc, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Version returns the server's build information.
func (c *Client) Version(ctx context.Context) (map[string]string, error) {
	var v map[string]string
	if err := c.do(ctx, http.MethodGet, "/version", nil, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(respBody))
		if json.Unmarshal(respBody, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
