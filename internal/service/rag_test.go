package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Harshitk-cp/crag/internal/domain"
	"github.com/Harshitk-cp/crag/internal/llm"
	"github.com/Harshitk-cp/crag/internal/retrieval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRAGFixture() (*RAGService, *retrieval.MockRetriever, *llm.MockClient, *ConversationMemory) {
	r := retrieval.NewMockRetriever()
	client := llm.NewMockClient("first reply", "second reply")
	memory := NewConversationMemory(10)
	return NewRAGService(r, client, memory, DefaultAnswerConfig(), zap.NewNop()), r, client, memory
}

func TestRAGService_ChatForwardsHistory(t *testing.T) {
	svc, r, client, memory := newRAGFixture()
	r.Results["what is pgvector?"] = makeDocs("pg", 2)
	r.Results["and hnsw?"] = []domain.EvidenceItem{
		{Score: 0.4, Document: domain.Document{Key: "k-1", Name: "HNSW notes", Text: "layered graph"}},
	}
	ctx := context.Background()

	_, err := svc.Chat(ctx, "t1", "what is pgvector?")
	require.NoError(t, err)
	ans, err := svc.Chat(ctx, "t1", "and hnsw?")
	require.NoError(t, err)

	assert.Equal(t, "second reply", ans.Text)
	assert.Equal(t, []domain.SourceRef{
		{Score: 0.4, Document: domain.SourceDocument{ID: "k-1", Title: "HNSW notes"}},
	}, ans.Sources)

	msgs := client.Calls[1].Messages
	require.Len(t, msgs, 4)
	assert.Equal(t, domain.RoleSystem, msgs[0].Role)
	assert.Equal(t, userMsg("what is pgvector?"), msgs[1])
	assert.Equal(t, assistantMsg("first reply"), msgs[2])
	assert.Contains(t, msgs[3].Content, "layered graph")
	assert.NotContains(t, msgs[3].Content, "pg content 0")

	history, _ := memory.History(ctx, "t1")
	assert.Len(t, history, 4)
}

func TestRAGService_ChatDefaultThread(t *testing.T) {
	svc, _, _, memory := newRAGFixture()

	_, err := svc.Chat(context.Background(), "", "hello")
	require.NoError(t, err)

	_, err = memory.Get(context.Background(), domain.DefaultThreadID)
	assert.NoError(t, err)
}

func TestRAGService_ChatEmptyContextPlaceholder(t *testing.T) {
	svc, _, client, _ := newRAGFixture()

	_, err := svc.Chat(context.Background(), "t1", "anything?")
	require.NoError(t, err)
	assert.Contains(t, client.Calls[0].Messages[1].Content, "[no relevant results]")
}

func TestRAGService_ChatGenerateErrorCommitsNothing(t *testing.T) {
	svc, _, client, memory := newRAGFixture()
	client.Errors = []error{errors.New("boom")}

	_, err := svc.Chat(context.Background(), "t1", "q")
	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, "generate", upErr.Op)
	assert.Equal(t, 0, memory.Len())
}

func TestRAGService_ChatHistoryError(t *testing.T) {
	cs := new(mockConversationStore)
	cs.On("History", mock.Anything, "t1").Return(nil, errors.New("db down"))
	r := retrieval.NewMockRetriever()
	svc := NewRAGService(r, llm.NewMockClient(), cs, DefaultAnswerConfig(), zap.NewNop())

	_, err := svc.Chat(context.Background(), "t1", "q")
	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, "load history", upErr.Op)
	assert.Empty(t, r.Calls())
	cs.AssertNotCalled(t, "Append", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRAGService_AskIsStateless(t *testing.T) {
	svc, r, client, memory := newRAGFixture()
	r.Results["q"] = makeDocs("doc", 3)

	ans, err := svc.Ask(context.Background(), "q")
	require.NoError(t, err)

	assert.Equal(t, "first reply", ans.Text)
	assert.Equal(t, makeDocs("doc", 3), ans.Retrieved)
	assert.Len(t, client.Calls[0].Messages, 2)
	assert.Equal(t, 0, memory.Len())
}

func TestRAGService_AskEmptyRetrieval(t *testing.T) {
	svc, _, _, _ := newRAGFixture()

	ans, err := svc.Ask(context.Background(), "q")
	require.NoError(t, err)
	assert.NotNil(t, ans.Retrieved)
	assert.Empty(t, ans.Retrieved)
}

func TestRAGService_InvalidInput(t *testing.T) {
	svc, r, client, _ := newRAGFixture()

	_, err := svc.Chat(context.Background(), "t1", " ")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Ask(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Empty(t, r.Calls())
	assert.Equal(t, 0, client.CallCount())
}
