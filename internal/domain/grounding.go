package domain

// MaxExpansionQueries caps the follow-up queries taken from one verdict.
const MaxExpansionQueries = 3

// GroundingVerdict is the evaluator's judgement of a draft answer.
type GroundingVerdict struct {
	Grounded         bool     `json:"grounded"`
	NeedsMoreContext bool     `json:"needs_more_context"`
	Queries          []string `json:"queries"`
	// Degraded is set when the reply was not valid JSON and the verdict came
	// from the textual fallback.
	Degraded bool `json:"-"`
}

// Accepts reports whether the draft can be returned without correction.
func (v GroundingVerdict) Accepts() bool {
	return v.Grounded && !v.NeedsMoreContext
}

// Answer is the result of one answering cycle.
type Answer struct {
	Text    string      `json:"text"`
	Sources []SourceRef `json:"sources"`
}

// RetrievedAnswer is returned by the stateless flow, which exposes the full
// evidence it used.
type RetrievedAnswer struct {
	Text      string         `json:"text"`
	Retrieved []EvidenceItem `json:"retrieved"`
}
