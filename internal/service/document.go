package service

import (
	"context"
	"strings"

	"github.com/Harshitk-cp/crag/internal/domain"
	"go.uber.org/zap"
)

// DocumentService adds documents to the vector index.
type DocumentService struct {
	embedder domain.EmbeddingClient
	docs     domain.DocumentStore
	logger   *zap.Logger
}

func NewDocumentService(ec domain.EmbeddingClient, ds domain.DocumentStore, logger *zap.Logger) *DocumentService {
	return &DocumentService{embedder: ec, docs: ds, logger: logger}
}

// Index embeds the document's title and body and upserts it.
func (s *DocumentService) Index(ctx context.Context, d domain.Document) (*domain.IndexedDocument, error) {
	if strings.TrimSpace(d.Content+d.Text+d.Chunk) == "" {
		return nil, invalidInput("content is required")
	}

	text := d.Body()
	if title := d.DisplayTitle(); title != "" {
		text = title + "\n" + text
	}

	emb, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, upstream("embed document", err)
	}

	indexed := &domain.IndexedDocument{Document: d, Embedding: emb}
	if err := s.docs.Upsert(ctx, indexed); err != nil {
		return nil, upstream("store document", err)
	}

	s.logger.Info("document indexed", zap.String("document_id", indexed.ID))
	return indexed, nil
}
