// Package prompt builds the text sent to the generation service. Everything
// here is a pure function of its arguments.
package prompt

import (
	"fmt"
	"strings"

	"github.com/Harshitk-cp/crag/internal/domain"
)

const (
	// AnswerContextChars caps each evidence body in answering prompts.
	AnswerContextChars = 1500
	// GroundingContextChars caps each evidence body in evaluation prompts.
	GroundingContextChars = 1200

	emptyAnswerContext    = "[no relevant results]"
	emptyGroundingContext = "[empty]"
)

const systemTemplate = `You are an assistant that answers in %s. Answer clearly, objectively and helpfully. ` +
	`Stay faithful to the retrieved sources; if the answer is not in them, say you did not find it in the references. ` +
	`Be careful with assumptions and state limitations when necessary.`

const userTemplate = `Retrieved context:
%s

User question: %s

Answer only from the context above when possible.`

const groundingTemplate = `You are a groundedness verifier. Analyze whether the answer is well supported by the provided context.

Reply ONLY with JSON in the following format, no markdown, no explanation:
{"grounded": true|false, "needs_more_context": true|false, "queries": ["..."]}

When more context is needed, suggest up to 3 short search queries that would find it.

Question: %s

Answer: %s

Context:
%s`

// System returns the fixed assistant persona for the given answer language.
func System(language string) string {
	return fmt.Sprintf(systemTemplate, language)
}

// User builds the answering prompt from the question and its evidence.
func User(question string, items []domain.EvidenceItem) string {
	ctx := Context(items, AnswerContextChars)
	if ctx == "" {
		ctx = emptyAnswerContext
	}
	return fmt.Sprintf(userTemplate, ctx, question)
}

// Grounding builds the evaluation prompt for a draft answer.
func Grounding(question, draft string, items []domain.EvidenceItem) string {
	ctx := Context(items, GroundingContextChars)
	if ctx == "" {
		ctx = emptyGroundingContext
	}
	return fmt.Sprintf(groundingTemplate, question, draft, ctx)
}

// Context enumerates evidence as "Source i (score=S):" blocks separated by
// blank lines, each body cut to maxChars runes.
func Context(items []domain.EvidenceItem, maxChars int) string {
	blocks := make([]string, 0, len(items))
	for i, it := range items {
		blocks = append(blocks, fmt.Sprintf("Source %d (score=%.2f):\n%s", i+1, it.Score, summarize(it.Document, maxChars)))
	}
	return strings.Join(blocks, "\n\n")
}

func summarize(d domain.Document, maxChars int) string {
	var lines []string
	if title := d.DisplayTitle(); title != "" {
		lines = append(lines, title)
	}
	if body := domain.TruncateRunes(d.Body(), maxChars); body != "" {
		lines = append(lines, body)
	}
	return strings.Join(lines, "\n")
}
