package retrieval

import (
	"fmt"

	"github.com/Harshitk-cp/crag/internal/domain"
)

// Provider constants
const (
	ProviderPGVector = "pgvector"
	ProviderAzure    = "azure"
	ProviderMock     = "mock"
)

const defaultTop = 5

// Options carries what each provider needs; unused fields are ignored.
type Options struct {
	Provider string

	Embedder  domain.EmbeddingClient
	Documents domain.DocumentStore

	AzureEndpoint string
	AzureIndex    string
	AzureAPIKey   string
}

// New creates a retriever for the configured provider.
func New(opts Options) (domain.Retriever, error) {
	switch opts.Provider {
	case ProviderPGVector:
		if opts.Embedder == nil || opts.Documents == nil {
			return nil, fmt.Errorf("pgvector retriever requires an embedding client and a document store")
		}
		return NewVectorRetriever(opts.Embedder, opts.Documents), nil

	case ProviderAzure:
		if opts.AzureEndpoint == "" || opts.AzureIndex == "" || opts.AzureAPIKey == "" {
			return nil, fmt.Errorf("missing Azure Search config: AZURE_SEARCH_ENDPOINT, AZURE_SEARCH_API_KEY, AZURE_SEARCH_INDEX")
		}
		return NewAzureSearchClient(opts.AzureEndpoint, opts.AzureIndex, opts.AzureAPIKey), nil

	case ProviderMock:
		return NewMockRetriever(), nil

	default:
		return nil, fmt.Errorf("unknown retriever provider: %s (valid options: pgvector, azure, mock)", opts.Provider)
	}
}

func topOrDefault(top int) int {
	if top <= 0 {
		return defaultTop
	}
	return top
}

// selectFields blanks the document fields not named in fields, mirroring a
// search API's select clause. An empty list keeps everything.
func selectFields(items []domain.EvidenceItem, fields []string) []domain.EvidenceItem {
	if len(fields) == 0 {
		return items
	}
	keep := make(map[string]bool, len(fields))
	for _, f := range fields {
		keep[f] = true
	}

	out := make([]domain.EvidenceItem, len(items))
	for i, it := range items {
		d := it.Document
		var sel domain.Document
		if keep["id"] {
			sel.ID = d.ID
		}
		if keep["key"] {
			sel.Key = d.Key
		}
		if keep["title"] {
			sel.Title = d.Title
		}
		if keep["name"] {
			sel.Name = d.Name
		}
		if keep["content"] {
			sel.Content = d.Content
		}
		if keep["text"] {
			sel.Text = d.Text
		}
		if keep["chunk"] {
			sel.Chunk = d.Chunk
		}
		if keep["url"] {
			sel.URL = d.URL
		}
		out[i] = domain.EvidenceItem{Score: it.Score, Document: sel}
	}
	return out
}
