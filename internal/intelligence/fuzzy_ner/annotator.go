package fuzzy_ner

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/turtacn/LexiFuzz-NER/pkg/errors"
	"github.com/turtacn/LexiFuzz-NER/pkg/types/ner"
)

// StartMarker opens an annotated span.
const StartMarker = "["

// EndMarker closes an annotated span and carries the entity id.
func EndMarker(id string) string { return "]{" + id + "}" }

// AnnotateOrder selects how entities are spliced into the text.
type AnnotateOrder string

const (
	// AnnotateTextOrder splices entities at their recorded ranges in reading
	// order.
	AnnotateTextOrder AnnotateOrder = "text_order"

	// AnnotateResolverOrder walks entities in the order given, searching each
	// substring from a forward-only cursor over the working text. A substring
	// that is not found is spliced at offset 0.
	AnnotateResolverOrder AnnotateOrder = "resolver_order"
)

// ParseAnnotateOrder resolves a configured order. Empty selects
// AnnotateTextOrder.
func ParseAnnotateOrder(s string) (AnnotateOrder, error) {
	switch AnnotateOrder(s) {
	case "", AnnotateTextOrder:
		return AnnotateTextOrder, nil
	case AnnotateResolverOrder:
		return AnnotateResolverOrder, nil
	}
	return "", errors.New(errors.ErrCodeUnknownPolicy, "unknown annotate order").WithDetail("annotate_order=" + s)
}

// Annotate wraps every entity of text in StartMarker / EndMarker(id). It also
// returns how many entities could not be placed where their text occurs.
// With no entities the text is returned unchanged.
func Annotate(text string, entities []ner.Entity, order AnnotateOrder) (string, int) {
	if len(entities) == 0 {
		return text, 0
	}
	if order == AnnotateResolverOrder {
		return annotateWithCursor(text, entities)
	}
	return annotateBySpan(text, entities)
}

// annotateBySpan splices in a single left-to-right pass. Entities whose range
// is out of bounds, overlaps an earlier one, or does not cover their text are
// left unmarked.
func annotateBySpan(text string, entities []ner.Entity) (string, int) {
	sorted := append([]ner.Entity(nil), entities...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Index.Start < sorted[j].Index.Start
	})

	offsets := charToByte(text)
	nChars := len(offsets) - 1

	var (
		b        strings.Builder
		prev     int
		unplaced int
	)
	b.Grow(len(text) + len(entities)*48)

	for _, e := range sorted {
		if e.Index.Start < 0 || e.Index.End >= nChars || e.Index.Start > e.Index.End {
			unplaced++
			continue
		}
		start, end := offsets[e.Index.Start], offsets[e.Index.End+1]
		if start < prev || text[start:end] != e.Text {
			unplaced++
			continue
		}
		b.WriteString(text[prev:start])
		b.WriteString(StartMarker)
		b.WriteString(text[start:end])
		b.WriteString(EndMarker(e.ID))
		prev = end
	}
	b.WriteString(text[prev:])
	return b.String(), unplaced
}

// annotateWithCursor reproduces the search-and-splice walk over the working
// text. The cursor is a byte offset into the working text and moves to the
// first byte after each spliced region. A missing substring replaces as many
// runes at the head of the working text as it has.
func annotateWithCursor(text string, entities []ner.Entity) (string, int) {
	working := text
	cursor, unplaced := 0, 0

	for _, e := range entities {
		sub := e.Text
		start := -1
		if cursor <= len(working) {
			if idx := strings.Index(working[cursor:], sub); idx >= 0 {
				start = cursor + idx
			}
		}
		end := start + len(sub)
		if start < 0 {
			start = 0
			unplaced++
			end = advanceRunes(working, start, utf8.RuneCountInString(sub))
		}

		region := StartMarker + sub + EndMarker(e.ID)
		working = working[:start] + region + working[end:]
		cursor = start + len(region)
	}
	return working, unplaced
}

// advanceRunes returns the byte offset n runes after from, clamped to len(s).
func advanceRunes(s string, from, n int) int {
	i := from
	for ; n > 0 && i < len(s); n-- {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return i
}
