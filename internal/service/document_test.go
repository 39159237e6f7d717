package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Harshitk-cp/crag/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockEmbeddingClient struct {
	mock.Mock
}

func (m *mockEmbeddingClient) Embed(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

type mockDocumentStore struct {
	mock.Mock
}

func (m *mockDocumentStore) Upsert(ctx context.Context, d *domain.IndexedDocument) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *mockDocumentStore) Search(ctx context.Context, embedding []float32, limit int) ([]domain.EvidenceItem, error) {
	args := m.Called(ctx, embedding, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EvidenceItem), args.Error(1)
}

func TestDocumentService_Index(t *testing.T) {
	ec := new(mockEmbeddingClient)
	ds := new(mockDocumentStore)
	emb := []float32{0.1, 0.2}

	ec.On("Embed", mock.Anything, "Vector indexes\nHNSW builds a layered graph").Return(emb, nil).Once()
	ds.On("Upsert", mock.Anything, mock.MatchedBy(func(d *domain.IndexedDocument) bool {
		return d.ID == "doc-1" && len(d.Embedding) == 2
	})).Return(nil).Once()

	svc := NewDocumentService(ec, ds, zap.NewNop())
	got, err := svc.Index(context.Background(), domain.Document{
		ID:      "doc-1",
		Title:   "Vector indexes",
		Content: "HNSW builds a layered graph",
	})
	require.NoError(t, err)
	assert.Equal(t, emb, got.Embedding)

	ec.AssertExpectations(t)
	ds.AssertExpectations(t)
}

func TestDocumentService_IndexRequiresContent(t *testing.T) {
	ec := new(mockEmbeddingClient)
	ds := new(mockDocumentStore)
	svc := NewDocumentService(ec, ds, zap.NewNop())

	_, err := svc.Index(context.Background(), domain.Document{Title: "only a title"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	ec.AssertNotCalled(t, "Embed", mock.Anything, mock.Anything)
}

func TestDocumentService_IndexEmbedError(t *testing.T) {
	ec := new(mockEmbeddingClient)
	ds := new(mockDocumentStore)
	ec.On("Embed", mock.Anything, mock.Anything).Return(nil, errors.New("quota")).Once()
	svc := NewDocumentService(ec, ds, zap.NewNop())

	_, err := svc.Index(context.Background(), domain.Document{Text: "body"})
	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, "embed document", upErr.Op)
	ds.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}
