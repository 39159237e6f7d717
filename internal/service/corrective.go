package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Harshitk-cp/crag/internal/domain"
	"github.com/Harshitk-cp/crag/internal/prompt"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultTopN is the number of evidence items fetched per query.
	DefaultTopN = 5
	// DefaultMaxSources caps the sources returned after a correction.
	DefaultMaxSources = 10
	// DefaultCorrectionPasses is the number of evaluate-and-correct rounds.
	DefaultCorrectionPasses = 1
	// DefaultLanguage is the answer language of the assistant persona.
	DefaultLanguage = "Brazilian Portuguese"
)

// DefaultAnswerOpts are the generation options for answering calls.
var DefaultAnswerOpts = domain.GenerateOpts{Temperature: 0.5, MaxTokens: 400}

// AnswerConfig tunes the answering flows.
type AnswerConfig struct {
	TopN       int
	MaxSources int
	// CorrectionPasses bounds how many times a turn is evaluated and
	// corrected. Zero skips evaluation and returns the draft.
	CorrectionPasses int
	Language         string
	Select           []string
	Answer           domain.GenerateOpts
}

func DefaultAnswerConfig() AnswerConfig {
	return AnswerConfig{
		TopN:             DefaultTopN,
		MaxSources:       DefaultMaxSources,
		CorrectionPasses: DefaultCorrectionPasses,
		Language:         DefaultLanguage,
		Select:           domain.DefaultSelectFields,
		Answer:           DefaultAnswerOpts,
	}
}

type cragState int

const (
	stateDrafting cragState = iota
	stateEvaluating
	stateExpanding
	stateRegenerating
	stateDone
)

func (s cragState) String() string {
	switch s {
	case stateDrafting:
		return "drafting"
	case stateEvaluating:
		return "evaluating"
	case stateExpanding:
		return "expanding"
	case stateRegenerating:
		return "regenerating"
	case stateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// turn is the working state of one corrective answer cycle.
type turn struct {
	question  string
	evidence  []domain.EvidenceItem
	answer    string
	verdict   domain.GroundingVerdict
	passes    int
	corrected bool
	queried   map[string]bool
}

// CorrectiveService answers a question, checks the draft for grounding and,
// when it falls short, retrieves more evidence and regenerates.
type CorrectiveService struct {
	retriever     domain.Retriever
	llmClient     domain.LLMClient
	evaluator     Evaluator
	conversations domain.ConversationStore
	cfg           AnswerConfig
	logger        *zap.Logger
}

func NewCorrectiveService(r domain.Retriever, lc domain.LLMClient, ev Evaluator, cs domain.ConversationStore, cfg AnswerConfig, logger *zap.Logger) *CorrectiveService {
	return &CorrectiveService{
		retriever:     r,
		llmClient:     lc,
		evaluator:     ev,
		conversations: cs,
		cfg:           cfg,
		logger:        logger,
	}
}

// Answer runs one corrective cycle for the thread. Memory is written once,
// after every upstream call has succeeded.
func (s *CorrectiveService) Answer(ctx context.Context, threadID, question string) (*domain.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrMessageRequired
	}
	threadID = domain.NormalizeThreadID(threadID)

	t := &turn{question: question, queried: make(map[string]bool)}
	state := stateDrafting
	for state != stateDone {
		next, err := s.step(ctx, state, t)
		if err != nil {
			s.logger.Warn("corrective cycle failed",
				zap.String("thread_id", threadID),
				zap.Stringer("state", state),
				zap.Error(err))
			return nil, err
		}
		state = next
	}

	var sources []domain.SourceRef
	if t.corrected {
		sources = domain.ReduceAll(t.evidence, s.cfg.MaxSources)
	} else {
		sources = domain.ReduceAll(t.evidence, 0)
	}

	err := s.conversations.Append(ctx, threadID,
		domain.Message{Role: domain.RoleUser, Content: question},
		domain.Message{Role: domain.RoleAssistant, Content: t.answer},
		sources,
	)
	if err != nil {
		return nil, upstream("save conversation", err)
	}

	s.logger.Info("corrective answer complete",
		zap.String("thread_id", threadID),
		zap.Bool("corrected", t.corrected),
		zap.Int("passes", t.passes),
		zap.Int("sources", len(sources)))

	return &domain.Answer{Text: t.answer, Sources: sources}, nil
}

func (s *CorrectiveService) step(ctx context.Context, state cragState, t *turn) (cragState, error) {
	switch state {
	case stateDrafting:
		items, err := s.retrieve(ctx, t, t.question)
		if err != nil {
			return stateDone, upstream("retrieve", err)
		}
		t.evidence = items

		if t.answer, err = s.generate(ctx, t.question, t.evidence); err != nil {
			return stateDone, upstream("generate draft", err)
		}
		if s.cfg.CorrectionPasses <= 0 {
			return stateDone, nil
		}
		return stateEvaluating, nil

	case stateEvaluating:
		verdict, err := s.evaluator.Evaluate(ctx, t.question, t.answer, t.evidence)
		if err != nil {
			return stateDone, upstream("evaluate", err)
		}
		t.verdict = verdict
		t.passes++
		if verdict.Accepts() {
			return stateDone, nil
		}
		return stateExpanding, nil

	case stateExpanding:
		more, err := s.expand(ctx, t, s.expansionQueries(t))
		if err != nil {
			return stateDone, err
		}
		t.evidence = Dedupe(append(t.evidence, more...))
		return stateRegenerating, nil

	case stateRegenerating:
		answer, err := s.generate(ctx, t.question, t.evidence)
		if err != nil {
			return stateDone, upstream("generate correction", err)
		}
		t.answer = answer
		t.corrected = true
		if t.passes < s.cfg.CorrectionPasses {
			return stateEvaluating, nil
		}
		return stateDone, nil
	}

	return stateDone, fmt.Errorf("unknown state %s", state)
}

func (s *CorrectiveService) retrieve(ctx context.Context, t *turn, query string) ([]domain.EvidenceItem, error) {
	t.queried[query] = true
	return s.retriever.Retrieve(ctx, query, domain.RetrieveOpts{Top: s.cfg.TopN, Select: s.cfg.Select})
}

func (s *CorrectiveService) generate(ctx context.Context, question string, items []domain.EvidenceItem) (string, error) {
	return s.llmClient.Generate(ctx, []domain.Message{
		{Role: domain.RoleSystem, Content: prompt.System(s.cfg.Language)},
		{Role: domain.RoleUser, Content: prompt.User(question, items)},
	}, s.cfg.Answer)
}

// expansionQueries takes the evaluator's queries, or the fallback set when it
// offered none that were not already searched this turn.
func (s *CorrectiveService) expansionQueries(t *turn) []string {
	if qs := s.unqueried(t, t.verdict.Queries); len(qs) > 0 {
		return qs
	}
	return s.unqueried(t, FallbackQueries(t.question))
}

func (s *CorrectiveService) unqueried(t *turn, queries []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, q := range queries {
		if q == "" || t.queried[q] || seen[q] {
			continue
		}
		seen[q] = true
		out = append(out, q)
		if len(out) == domain.MaxExpansionQueries {
			break
		}
	}
	return out
}

// expand retrieves every query concurrently. A failed query is logged and
// skipped; results keep query order.
func (s *CorrectiveService) expand(ctx context.Context, t *turn, queries []string) ([]domain.EvidenceItem, error) {
	results := make([][]domain.EvidenceItem, len(queries))
	for _, q := range queries {
		t.queried[q] = true
	}

	var g errgroup.Group
	for i, q := range queries {
		g.Go(func() error {
			items, err := s.retriever.Retrieve(ctx, q, domain.RetrieveOpts{Top: s.cfg.TopN, Select: s.cfg.Select})
			if err != nil {
				s.logger.Warn("expansion retrieval failed", zap.String("query", q), zap.Error(err))
				return nil
			}
			results[i] = items
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, upstream("expand", err)
	}

	var merged []domain.EvidenceItem
	for _, items := range results {
		merged = append(merged, items...)
	}
	return merged, nil
}

// FallbackQueries are the expansion queries used when the evaluator proposes
// none.
func FallbackQueries(question string) []string {
	return []string{
		"explain further: " + question,
		question + " technical details",
		question + " practical examples",
	}
}
