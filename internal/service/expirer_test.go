package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Harshitk-cp/crag/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockConversationStore struct {
	mock.Mock
}

func (m *mockConversationStore) Append(ctx context.Context, threadID string, user, assistant domain.Message, sources []domain.SourceRef) error {
	args := m.Called(ctx, threadID, user, assistant, sources)
	return args.Error(0)
}

func (m *mockConversationStore) History(ctx context.Context, threadID string) ([]domain.Message, error) {
	args := m.Called(ctx, threadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Message), args.Error(1)
}

func (m *mockConversationStore) Get(ctx context.Context, threadID string) (*domain.Thread, error) {
	args := m.Called(ctx, threadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Thread), args.Error(1)
}

func (m *mockConversationStore) Delete(ctx context.Context, threadID string) error {
	args := m.Called(ctx, threadID)
	return args.Error(0)
}

func (m *mockConversationStore) DeleteIdle(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

func TestExpirerService_RunUsesTTLCutoff(t *testing.T) {
	cs := new(mockConversationStore)
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	cs.On("DeleteIdle", mock.Anything, now.Add(-2*time.Hour)).Return(int64(3), nil).Once()

	svc := NewExpirerService(cs, 2*time.Hour, zap.NewNop())
	svc.now = func() time.Time { return now }
	svc.run(context.Background())

	cs.AssertExpectations(t)
}

func TestExpirerService_RunToleratesStoreError(t *testing.T) {
	cs := new(mockConversationStore)
	cs.On("DeleteIdle", mock.Anything, mock.Anything).Return(int64(0), errors.New("db down")).Once()

	svc := NewExpirerService(cs, time.Hour, zap.NewNop())
	assert.NotPanics(t, func() { svc.run(context.Background()) })
	cs.AssertExpectations(t)
}

func TestExpirerService_StartStop(t *testing.T) {
	m := NewConversationMemory(10)
	base := time.Now().Add(-48 * time.Hour)
	m.now = func() time.Time { return base }
	require.NoError(t, m.Append(context.Background(), "stale", userMsg("q"), assistantMsg("a"), nil))

	svc := NewExpirerService(m, time.Hour, zap.NewNop())
	svc.SetInterval(10 * time.Millisecond)
	svc.Start()

	assert.Eventually(t, func() bool { return m.Len() == 0 }, time.Second, 10*time.Millisecond)
	svc.Stop()
}

func TestNewExpirerService_DefaultTTL(t *testing.T) {
	svc := NewExpirerService(NewConversationMemory(1), 0, zap.NewNop())
	assert.Equal(t, defaultIdleTTL, svc.ttl)
}
