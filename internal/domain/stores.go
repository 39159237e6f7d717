package domain

import (
	"context"
	"time"
)

type RetrieveOpts struct {
	Top    int
	Select []string
}

// Retriever returns at most opts.Top evidence items ordered by descending
// score. An empty result is not an error.
type Retriever interface {
	Retrieve(ctx context.Context, query string, opts RetrieveOpts) ([]EvidenceItem, error)
}

type GenerateOpts struct {
	Temperature float32
	MaxTokens   int
}

// LLMClient is the text-generation service. Implementations normalise the
// provider reply into a single string.
type LLMClient interface {
	Generate(ctx context.Context, messages []Message, opts GenerateOpts) (string, error)
}

type EmbeddingClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// IndexedDocument is a document as stored in the vector index.
type IndexedDocument struct {
	Document
	Embedding []float32 `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type DocumentStore interface {
	Upsert(ctx context.Context, d *IndexedDocument) error
	Search(ctx context.Context, embedding []float32, limit int) ([]EvidenceItem, error)
}

// ConversationStore keeps per-thread history. Append commits one user and one
// assistant message together with the evidence behind the answer.
type ConversationStore interface {
	Append(ctx context.Context, threadID string, user, assistant Message, sources []SourceRef) error
	History(ctx context.Context, threadID string) ([]Message, error)
	Get(ctx context.Context, threadID string) (*Thread, error)
	Delete(ctx context.Context, threadID string) error
	DeleteIdle(ctx context.Context, olderThan time.Time) (int64, error)
}
