package retrieval

import (
	"context"
	"sync"

	"github.com/Harshitk-cp/crag/internal/domain"
)

// MockRetriever serves scripted results per query. Queries without a script
// get Default. Safe for concurrent use.
type MockRetriever struct {
	Results map[string][]domain.EvidenceItem
	Errors  map[string]error
	Default []domain.EvidenceItem

	mu    sync.Mutex
	calls []string
}

func NewMockRetriever() *MockRetriever {
	return &MockRetriever{
		Results: make(map[string][]domain.EvidenceItem),
		Errors:  make(map[string]error),
	}
}

func (r *MockRetriever) Retrieve(ctx context.Context, query string, opts domain.RetrieveOpts) ([]domain.EvidenceItem, error) {
	r.mu.Lock()
	r.calls = append(r.calls, query)
	err := r.Errors[query]
	items, ok := r.Results[query]
	if !ok {
		items = r.Default
	}
	r.mu.Unlock()

	if err != nil {
		return nil, err
	}
	top := topOrDefault(opts.Top)
	if len(items) > top {
		items = items[:top]
	}
	return append([]domain.EvidenceItem(nil), items...), nil
}

// Calls returns the queries seen so far, in arrival order.
func (r *MockRetriever) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}
