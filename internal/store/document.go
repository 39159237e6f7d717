package store

import (
	"context"
	"fmt"

	"github.com/Harshitk-cp/crag/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
)

// DocumentStore is the pgvector-backed document index.
type DocumentStore struct {
	db *pgxpool.Pool
}

func NewDocumentStore(db *pgxpool.Pool) *DocumentStore {
	return &DocumentStore{db: db}
}

// Upsert inserts the document or replaces the one with the same id.
// A missing id is generated.
func (s *DocumentStore) Upsert(ctx context.Context, d *domain.IndexedDocument) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if len(d.Embedding) == 0 {
		return fmt.Errorf("document %s has no embedding", d.ID)
	}

	return s.db.QueryRow(ctx,
		`INSERT INTO documents (id, doc_key, title, name, content, url, embedding)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET
			doc_key = EXCLUDED.doc_key,
			title = EXCLUDED.title,
			name = EXCLUDED.name,
			content = EXCLUDED.content,
			url = EXCLUDED.url,
			embedding = EXCLUDED.embedding,
			updated_at = NOW()
		 RETURNING created_at, updated_at`,
		d.ID, d.Key, d.Title, d.Name, d.Body(), d.URL, pgvector.NewVector(d.Embedding),
	).Scan(&d.CreatedAt, &d.UpdatedAt)
}

// Search returns the closest documents by cosine distance. The score is the
// cosine similarity, so higher is better.
func (s *DocumentStore) Search(ctx context.Context, embedding []float32, limit int) ([]domain.EvidenceItem, error) {
	if limit <= 0 {
		limit = 5
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, doc_key, title, name, content, url, 1 - (embedding <=> $1) AS score
		 FROM documents
		 WHERE embedding IS NOT NULL
		 ORDER BY embedding <=> $1
		 LIMIT $2`,
		pgvector.NewVector(embedding), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}
	defer rows.Close()

	var results []domain.EvidenceItem
	for rows.Next() {
		var item domain.EvidenceItem
		d := &item.Document
		if err := rows.Scan(&d.ID, &d.Key, &d.Title, &d.Name, &d.Content, &d.URL, &item.Score); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		results = append(results, item)
	}
	return results, rows.Err()
}
