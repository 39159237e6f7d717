package domain

import (
	"strings"
	"testing"
)

func TestDocument_DisplayTitle(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		want string
	}{
		{"title wins", Document{ID: "1", Title: "T", Name: "N"}, "T"},
		{"name fallback", Document{ID: "1", Name: "N"}, "N"},
		{"id fallback", Document{ID: "1"}, "1"},
		{"empty", Document{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.doc.DisplayTitle(); got != tt.want {
				t.Errorf("DisplayTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDocument_Body(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		want string
	}{
		{"content", Document{Content: "c", Text: "t", Chunk: "k"}, "c"},
		{"text", Document{Text: "t", Chunk: "k"}, "t"},
		{"chunk", Document{Chunk: "k"}, "k"},
		{"serialized", Document{ID: "x", URL: "u"}, `{"id":"x","url":"u"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.doc.Body(); got != tt.want {
				t.Errorf("Body() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDocument_IdentityKey(t *testing.T) {
	long := strings.Repeat("a", 200)

	tests := []struct {
		name string
		doc  Document
		want string
	}{
		{"id", Document{ID: "id-1", Key: "k"}, "id-1"},
		{"key", Document{Key: "k", SearchAction: "upload"}, "k"},
		{"search action", Document{SearchAction: "upload", Title: "t"}, "upload"},
		{"serialized prefix", Document{Content: long}, (`{"content":"` + long)[:80]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.doc.IdentityKey(); got != tt.want {
				t.Errorf("IdentityKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEvidenceItem_Reduce(t *testing.T) {
	item := EvidenceItem{
		Score:    1.5,
		Document: Document{ID: "d", Key: "k", Title: "T", Name: "N", Content: "secret", URL: "http://x"},
	}

	ref := item.Reduce()
	if ref.Score != 1.5 || ref.Document.ID != "d" || ref.Document.Title != "T" || ref.Document.URL != "http://x" {
		t.Errorf("unexpected reduction: %+v", ref)
	}

	bare := EvidenceItem{Document: Document{Key: "k", Name: "N"}}
	if r := bare.Reduce(); r.Document.ID != "" || r.Document.Title != "" {
		t.Errorf("Reduce should not fall back, got %+v", r)
	}
	if r := bare.ReduceWithFallbacks(); r.Document.ID != "k" || r.Document.Title != "N" {
		t.Errorf("ReduceWithFallbacks() = %+v", r)
	}
}

func TestReduceAll_Limit(t *testing.T) {
	items := make([]EvidenceItem, 12)
	for i := range items {
		items[i] = EvidenceItem{Score: float64(i), Document: Document{ID: string(rune('a' + i))}}
	}

	refs := ReduceAll(items, 10)
	if len(refs) != 10 {
		t.Fatalf("expected 10 refs, got %d", len(refs))
	}
	if refs[0].Document.ID != "a" || refs[9].Document.ID != "j" {
		t.Errorf("order not preserved: first=%s last=%s", refs[0].Document.ID, refs[9].Document.ID)
	}

	if got := ReduceAll(items[:3], 10); len(got) != 3 {
		t.Errorf("expected 3 refs, got %d", len(got))
	}
	if got := ReduceAll(items, 0); len(got) != 12 {
		t.Errorf("limit 0 should keep all, got %d", len(got))
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := TruncateRunes("ação", 2); got != "aç" {
		t.Errorf("TruncateRunes = %q", got)
	}
	if got := TruncateRunes("abc", 10); got != "abc" {
		t.Errorf("TruncateRunes = %q", got)
	}
}

func TestGroundingVerdict_Accepts(t *testing.T) {
	if !(GroundingVerdict{Grounded: true}).Accepts() {
		t.Error("grounded verdict should accept")
	}
	if (GroundingVerdict{Grounded: true, NeedsMoreContext: true}).Accepts() {
		t.Error("needs more context should not accept")
	}
	if (GroundingVerdict{}).Accepts() {
		t.Error("ungrounded verdict should not accept")
	}
}

func TestNormalizeThreadID(t *testing.T) {
	if NormalizeThreadID("") != DefaultThreadID {
		t.Error("empty thread id should map to default")
	}
	if NormalizeThreadID("t-1") != "t-1" {
		t.Error("thread id should pass through")
	}
}
