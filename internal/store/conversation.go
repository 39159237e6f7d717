package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Harshitk-cp/crag/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ConversationStore persists thread history in Postgres.
type ConversationStore struct {
	db *pgxpool.Pool
}

func NewConversationStore(db *pgxpool.Pool) *ConversationStore {
	return &ConversationStore{db: db}
}

// Append writes the turn and the evidence behind it in one transaction.
func (s *ConversationStore) Append(ctx context.Context, threadID string, user, assistant domain.Message, sources []domain.SourceRef) error {
	if sources == nil {
		sources = []domain.SourceRef{}
	}
	sourcesJSON, err := json.Marshal(sources)
	if err != nil {
		return fmt.Errorf("marshal last_retrieved: %w", err)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO conversation_threads (id, last_retrieved)
		 VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET
			last_retrieved = EXCLUDED.last_retrieved,
			updated_at = NOW()`,
		threadID, sourcesJSON,
	)
	if err != nil {
		return fmt.Errorf("upsert thread: %w", err)
	}

	for _, m := range []domain.Message{user, assistant} {
		if _, err := tx.Exec(ctx,
			`INSERT INTO conversation_messages (thread_id, role, content) VALUES ($1, $2, $3)`,
			threadID, string(m.Role), m.Content,
		); err != nil {
			return fmt.Errorf("insert message: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (s *ConversationStore) History(ctx context.Context, threadID string) ([]domain.Message, error) {
	rows, err := s.db.Query(ctx,
		`SELECT role, content FROM conversation_messages
		 WHERE thread_id = $1
		 ORDER BY id`,
		threadID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.Role, &m.Content); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (s *ConversationStore) Get(ctx context.Context, threadID string) (*domain.Thread, error) {
	th := &domain.Thread{ID: threadID}
	var sourcesJSON []byte
	err := s.db.QueryRow(ctx,
		`SELECT last_retrieved, updated_at FROM conversation_threads WHERE id = $1`,
		threadID,
	).Scan(&sourcesJSON, &th.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if len(sourcesJSON) > 0 {
		if err := json.Unmarshal(sourcesJSON, &th.LastRetrieved); err != nil {
			return nil, fmt.Errorf("unmarshal last_retrieved: %w", err)
		}
	}

	th.Messages, err = s.History(ctx, threadID)
	if err != nil {
		return nil, err
	}
	return th, nil
}

func (s *ConversationStore) Delete(ctx context.Context, threadID string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM conversation_threads WHERE id = $1`, threadID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteIdle removes threads not updated since olderThan. Messages go with
// them through the foreign key cascade.
func (s *ConversationStore) DeleteIdle(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM conversation_threads WHERE updated_at < $1`, olderThan)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
