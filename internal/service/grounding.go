package service

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/Harshitk-cp/crag/internal/domain"
	"github.com/Harshitk-cp/crag/internal/prompt"
	"go.uber.org/zap"
)

var (
	groundedPattern     = regexp.MustCompile(`(?i)"grounded"\s*:\s*true`)
	needsContextPattern = regexp.MustCompile(`(?i)needs_more_context\s*:\s*true`)
)

// DefaultGraderOpts are the generation options for evaluation calls.
var DefaultGraderOpts = domain.GenerateOpts{Temperature: 0.2, MaxTokens: 300}

// Evaluator judges whether a draft answer is supported by its evidence.
type Evaluator interface {
	Evaluate(ctx context.Context, question, draft string, items []domain.EvidenceItem) (domain.GroundingVerdict, error)
}

type GroundingEvaluator struct {
	llmClient domain.LLMClient
	opts      domain.GenerateOpts
	logger    *zap.Logger
}

func NewGroundingEvaluator(lc domain.LLMClient, opts domain.GenerateOpts, logger *zap.Logger) *GroundingEvaluator {
	return &GroundingEvaluator{
		llmClient: lc,
		opts:      opts,
		logger:    logger,
	}
}

// Evaluate asks the generation service for a JSON verdict. A malformed reply
// never fails the call; only a failed generation does.
func (e *GroundingEvaluator) Evaluate(ctx context.Context, question, draft string, items []domain.EvidenceItem) (domain.GroundingVerdict, error) {
	msgs := []domain.Message{{Role: domain.RoleUser, Content: prompt.Grounding(question, draft, items)}}

	reply, err := e.llmClient.Generate(ctx, msgs, e.opts)
	if err != nil {
		return domain.GroundingVerdict{}, err
	}

	verdict := ParseVerdict(reply)
	if verdict.Degraded {
		e.logger.Warn("grounding reply was not JSON, using text heuristic",
			zap.Bool("grounded", verdict.Grounded),
			zap.Bool("needs_more_context", verdict.NeedsMoreContext))
	}
	return verdict, nil
}

// ParseVerdict reads an evaluator reply. Valid JSON is read field by field
// with truthy coercion; anything else falls back to pattern matching on the
// raw text and yields no queries.
func ParseVerdict(raw string) domain.GroundingVerdict {
	var parsed any
	if err := json.Unmarshal([]byte(stripFences(raw)), &parsed); err != nil || parsed == nil {
		return domain.GroundingVerdict{
			Grounded:         groundedPattern.MatchString(raw),
			NeedsMoreContext: needsContextPattern.MatchString(raw),
			Queries:          []string{},
			Degraded:         true,
		}
	}

	verdict := domain.GroundingVerdict{Queries: []string{}}
	obj, ok := parsed.(map[string]any)
	if !ok {
		return verdict
	}

	verdict.Grounded = truthy(obj["grounded"])
	verdict.NeedsMoreContext = truthy(obj["needs_more_context"])
	if qs, ok := obj["queries"].([]any); ok {
		for _, q := range qs {
			s, ok := q.(string)
			if !ok {
				continue
			}
			if s = strings.TrimSpace(s); s == "" {
				continue
			}
			verdict.Queries = append(verdict.Queries, s)
			if len(verdict.Queries) == domain.MaxExpansionQueries {
				break
			}
		}
	}
	return verdict
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	default:
		return true
	}
}
