package fuzzy_ner

import (
	"sort"

	"github.com/turtacn/LexiFuzz-NER/pkg/types/ner"
)

// ResolveOverlaps keeps a pairwise disjoint subset of entities, preferring
// higher scores. Candidates are visited in score-descending order (ties keep
// their generation order) and accepted when their range shares no offset with
// an already accepted one. The result is in acceptance order; entities is not
// modified.
func ResolveOverlaps(entities []ner.Entity) []ner.Entity {
	if len(entities) == 0 {
		return []ner.Entity{}
	}

	sorted := append([]ner.Entity(nil), entities...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	kept := make([]ner.Entity, 0, len(sorted))
	for _, cand := range sorted {
		if !overlapsAny(cand.Index, kept) {
			kept = append(kept, cand)
		}
	}
	return kept
}

func overlapsAny(span ner.Span, accepted []ner.Entity) bool {
	for _, a := range accepted {
		if span.Overlaps(a.Index) {
			return true
		}
	}
	return false
}
