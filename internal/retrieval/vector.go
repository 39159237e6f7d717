package retrieval

import (
	"context"
	"fmt"

	"github.com/Harshitk-cp/crag/internal/domain"
)

// VectorRetriever embeds the query and searches the pgvector document index.
type VectorRetriever struct {
	embedder domain.EmbeddingClient
	docs     domain.DocumentStore
}

func NewVectorRetriever(ec domain.EmbeddingClient, ds domain.DocumentStore) *VectorRetriever {
	return &VectorRetriever{embedder: ec, docs: ds}
}

func (r *VectorRetriever) Retrieve(ctx context.Context, query string, opts domain.RetrieveOpts) ([]domain.EvidenceItem, error) {
	emb, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	items, err := r.docs.Search(ctx, emb, topOrDefault(opts.Top))
	if err != nil {
		return nil, err
	}
	return selectFields(items, opts.Select), nil
}
