package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Harshitk-cp/crag/internal/domain"
)

const azureSearchAPIVersion = "2023-11-01"

// AzureSearchClient queries an Azure AI Search index over its REST API.
type AzureSearchClient struct {
	endpoint   string
	index      string
	apiKey     string
	httpClient *http.Client
}

func NewAzureSearchClient(endpoint, index, apiKey string) *AzureSearchClient {
	return &AzureSearchClient{
		endpoint:   strings.TrimRight(endpoint, "/"),
		index:      index,
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
}

type azureSearchRequest struct {
	Search string `json:"search"`
	Top    int    `json:"top"`
	Select string `json:"select,omitempty"`
	Count  bool   `json:"count"`
}

type azureSearchResponse struct {
	Value []map[string]any `json:"value"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *AzureSearchClient) Retrieve(ctx context.Context, query string, opts domain.RetrieveOpts) ([]domain.EvidenceItem, error) {
	if query == "" {
		query = "*"
	}

	body, err := json.Marshal(azureSearchRequest{
		Search: query,
		Top:    topOrDefault(opts.Top),
		Select: strings.Join(opts.Select, ","),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	url := fmt.Sprintf("%s/indexes/%s/docs/search?api-version=%s", c.endpoint, c.index, azureSearchAPIVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result azureSearchResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("unmarshal search response: %w", err)
	}

	if result.Error != nil {
		return nil, fmt.Errorf("search API error: %s", result.Error.Message)
	}

	items := make([]domain.EvidenceItem, 0, len(result.Value))
	for _, raw := range result.Value {
		items = append(items, azureEvidence(raw))
	}
	return items, nil
}

// azureEvidence maps one search hit. Index fields are free-form, so only
// string values of the known document fields are kept.
func azureEvidence(raw map[string]any) domain.EvidenceItem {
	var item domain.EvidenceItem
	if score, ok := raw["@search.score"].(float64); ok {
		item.Score = score
	}

	str := func(key string) string {
		s, _ := raw[key].(string)
		return s
	}
	item.Document = domain.Document{
		ID:           str("id"),
		Key:          str("key"),
		Title:        str("title"),
		Name:         str("name"),
		Content:      str("content"),
		Text:         str("text"),
		Chunk:        str("chunk"),
		URL:          str("url"),
		SearchAction: str("@search.action"),
	}
	return item
}
