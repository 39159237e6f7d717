package service

import (
	"context"
	"strings"

	"github.com/Harshitk-cp/crag/internal/domain"
	"github.com/Harshitk-cp/crag/internal/prompt"
	"go.uber.org/zap"
)

// RAGService runs single-pass retrieval-augmented answering, with or
// without conversation memory.
type RAGService struct {
	retriever     domain.Retriever
	llmClient     domain.LLMClient
	conversations domain.ConversationStore
	cfg           AnswerConfig
	logger        *zap.Logger
}

func NewRAGService(r domain.Retriever, lc domain.LLMClient, cs domain.ConversationStore, cfg AnswerConfig, logger *zap.Logger) *RAGService {
	return &RAGService{
		retriever:     r,
		llmClient:     lc,
		conversations: cs,
		cfg:           cfg,
		logger:        logger,
	}
}

// Chat answers with the thread's prior turns forwarded to the model. Only the
// current question is enriched with retrieved context.
func (s *RAGService) Chat(ctx context.Context, threadID, question string) (*domain.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrMessageRequired
	}
	threadID = domain.NormalizeThreadID(threadID)

	prior, err := s.conversations.History(ctx, threadID)
	if err != nil {
		return nil, upstream("load history", err)
	}

	items, err := s.retrieve(ctx, question)
	if err != nil {
		return nil, upstream("retrieve", err)
	}

	msgs := make([]domain.Message, 0, len(prior)+2)
	msgs = append(msgs, domain.Message{Role: domain.RoleSystem, Content: prompt.System(s.cfg.Language)})
	msgs = append(msgs, prior...)
	msgs = append(msgs, domain.Message{Role: domain.RoleUser, Content: prompt.User(question, items)})

	text, err := s.llmClient.Generate(ctx, msgs, s.cfg.Answer)
	if err != nil {
		return nil, upstream("generate", err)
	}

	sources := make([]domain.SourceRef, len(items))
	for i, it := range items {
		sources[i] = it.ReduceWithFallbacks()
	}

	err = s.conversations.Append(ctx, threadID,
		domain.Message{Role: domain.RoleUser, Content: question},
		domain.Message{Role: domain.RoleAssistant, Content: text},
		sources,
	)
	if err != nil {
		return nil, upstream("save conversation", err)
	}

	s.logger.Debug("rag chat answered",
		zap.String("thread_id", threadID),
		zap.Int("history", len(prior)),
		zap.Int("sources", len(sources)))

	return &domain.Answer{Text: text, Sources: sources}, nil
}

// Ask answers a standalone question and returns the full retrieved evidence.
// Nothing is remembered.
func (s *RAGService) Ask(ctx context.Context, question string) (*domain.RetrievedAnswer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrMessageRequired
	}

	items, err := s.retrieve(ctx, question)
	if err != nil {
		return nil, upstream("retrieve", err)
	}

	text, err := s.llmClient.Generate(ctx, []domain.Message{
		{Role: domain.RoleSystem, Content: prompt.System(s.cfg.Language)},
		{Role: domain.RoleUser, Content: prompt.User(question, items)},
	}, s.cfg.Answer)
	if err != nil {
		return nil, upstream("generate", err)
	}

	if items == nil {
		items = []domain.EvidenceItem{}
	}
	return &domain.RetrievedAnswer{Text: text, Retrieved: items}, nil
}

func (s *RAGService) retrieve(ctx context.Context, query string) ([]domain.EvidenceItem, error) {
	return s.retriever.Retrieve(ctx, query, domain.RetrieveOpts{Top: s.cfg.TopN, Select: s.cfg.Select})
}
