package service

import "github.com/Harshitk-cp/crag/internal/domain"

// Dedupe drops evidence whose document was already seen, keeping the first
// occurrence and the original order.
func Dedupe(items []domain.EvidenceItem) []domain.EvidenceItem {
	seen := make(map[string]struct{}, len(items))
	out := make([]domain.EvidenceItem, 0, len(items))
	for _, it := range items {
		key := it.Document.IdentityKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, it)
	}
	return out
}
