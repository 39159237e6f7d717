package domain

import (
	"encoding/json"
	"unicode/utf8"
)

// DefaultSelectFields are the document fields requested from the index when a
// caller does not name its own.
var DefaultSelectFields = []string{"id", "title", "content", "text", "chunk", "url"}

// Document is a single entry of the search index. Indexes differ in which of
// the body fields they populate, so readers go through Title and Body.
type Document struct {
	ID           string `json:"id,omitempty"`
	Key          string `json:"key,omitempty"`
	Title        string `json:"title,omitempty"`
	Name         string `json:"name,omitempty"`
	Content      string `json:"content,omitempty"`
	Text         string `json:"text,omitempty"`
	Chunk        string `json:"chunk,omitempty"`
	URL          string `json:"url,omitempty"`
	SearchAction string `json:"@search.action,omitempty"`
}

// DisplayTitle returns the title, falling back to name and then id.
func (d Document) DisplayTitle() string {
	switch {
	case d.Title != "":
		return d.Title
	case d.Name != "":
		return d.Name
	default:
		return d.ID
	}
}

// Body returns the first populated text field, or the serialized document
// when none is set.
func (d Document) Body() string {
	switch {
	case d.Content != "":
		return d.Content
	case d.Text != "":
		return d.Text
	case d.Chunk != "":
		return d.Chunk
	default:
		return d.serialized()
	}
}

// IdentityKey is the key used to recognise the same document across
// retrieval rounds.
func (d Document) IdentityKey() string {
	switch {
	case d.ID != "":
		return d.ID
	case d.Key != "":
		return d.Key
	case d.SearchAction != "":
		return d.SearchAction
	default:
		return truncateRunes(d.serialized(), 80)
	}
}

func (d Document) serialized() string {
	b, err := json.Marshal(d)
	if err != nil {
		return ""
	}
	return string(b)
}

// EvidenceItem is a scored document returned by one retrieval call.
type EvidenceItem struct {
	Score    float64  `json:"score"`
	Document Document `json:"document"`
}

// SourceDocument is the part of a document that is safe to hand back to
// callers. Content never leaves the engine.
type SourceDocument struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title,omitempty"`
	URL   string `json:"url,omitempty"`
}

type SourceRef struct {
	Score    float64        `json:"score"`
	Document SourceDocument `json:"document"`
}

// Reduce trims an evidence item to its caller-visible form.
func (e EvidenceItem) Reduce() SourceRef {
	return SourceRef{
		Score: e.Score,
		Document: SourceDocument{
			ID:    e.Document.ID,
			Title: e.Document.Title,
			URL:   e.Document.URL,
		},
	}
}

// ReduceWithFallbacks is Reduce but lets id fall back to key and title to name.
func (e EvidenceItem) ReduceWithFallbacks() SourceRef {
	ref := e.Reduce()
	if ref.Document.ID == "" {
		ref.Document.ID = e.Document.Key
	}
	if ref.Document.Title == "" {
		ref.Document.Title = e.Document.Name
	}
	return ref
}

// ReduceAll reduces at most limit items, keeping their order. A limit <= 0
// keeps every item.
func ReduceAll(items []EvidenceItem, limit int) []SourceRef {
	if limit <= 0 || limit > len(items) {
		limit = len(items)
	}
	refs := make([]SourceRef, 0, limit)
	for _, it := range items[:limit] {
		refs = append(refs, it.Reduce())
	}
	return refs
}

// TruncateRunes cuts s to at most n runes.
func TruncateRunes(s string, n int) string {
	return truncateRunes(s, n)
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
