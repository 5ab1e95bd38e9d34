package fuzzy_ner

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/turtacn/LexiFuzz-NER/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/LexiFuzz-NER/pkg/errors"
	"github.com/turtacn/LexiFuzz-NER/pkg/types/ner"
)

// LocateMode selects how a matched n-gram is mapped back to a text range.
type LocateMode string

const (
	// LocateTokenOffset takes the range straight from the tokenizer offsets of
	// the window that produced the match.
	LocateTokenOffset LocateMode = "token_offset"

	// LocateForwardCursor searches the joined n-gram in the text from a cursor
	// shared by every n-gram length. When the search fails the start offset
	// falls back to 0, or generation fails in strict mode.
	LocateForwardCursor LocateMode = "forward_cursor"
)

// ParseLocateMode resolves a configured mode. Empty selects LocateTokenOffset.
func ParseLocateMode(s string) (LocateMode, error) {
	switch LocateMode(s) {
	case "", LocateTokenOffset:
		return LocateTokenOffset, nil
	case LocateForwardCursor:
		return LocateForwardCursor, nil
	}
	return "", errors.New(errors.ErrCodeUnknownPolicy, "unknown locate mode").WithDetail("locate_mode=" + s)
}

// GenerationStats summarises one generation pass.
type GenerationStats struct {
	Tokens       int
	MaxN         int
	NgramsScored int
	Candidates   int
	Unlocated    int
}

// CandidateGenerator turns text into scored candidate entities.
type CandidateGenerator struct {
	tokenizer Tokenizer
	matcher   *CategoryMatcher
	ids       IDGenerator
	locate    LocateMode
	strict    bool
	logger    logging.Logger
}

// NewCandidateGenerator wires a generator. Nil collaborators fall back to the
// whitespace tokenizer, the default matcher, UUID ids and a no-op logger.
func NewCandidateGenerator(tokenizer Tokenizer, matcher *CategoryMatcher, ids IDGenerator, locate LocateMode, logger logging.Logger) *CandidateGenerator {
	if tokenizer == nil {
		tokenizer = NewWhitespaceTokenizer()
	}
	if matcher == nil {
		matcher = NewCategoryMatcher(nil, MatchFirstSatisfying)
	}
	if ids == nil {
		ids = UUIDGenerator{}
	}
	if locate == "" {
		locate = LocateTokenOffset
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &CandidateGenerator{tokenizer: tokenizer, matcher: matcher, ids: ids, locate: locate, logger: logger}
}

// Generate enumerates every n-gram of text for n = 1..maxN, all 1-grams left
// to right first, then all 2-grams and so on, and emits one entity per window
// accepted by the category matcher. The context is checked between lengths.
func (g *CandidateGenerator) Generate(ctx context.Context, text string, dict ner.Dictionary, minRatio int) ([]ner.Entity, GenerationStats, error) {
	tokens := g.tokenizer.Tokenize(text)
	stats := GenerationStats{Tokens: len(tokens), MaxN: dict.MaxPhraseTokens()}

	var (
		entities []ner.Entity
		cursor   int // byte offset, forward-cursor mode only
	)

	for n := 1; n <= stats.MaxN && n <= len(tokens); n++ {
		if err := ctx.Err(); err != nil {
			code := errors.ErrCodeCancelled
			if err == context.DeadlineExceeded {
				code = errors.ErrCodeTimeout
			}
			return nil, stats, errors.Wrap(err, code, "candidate generation interrupted")
		}

		for i := 0; i+n <= len(tokens); i++ {
			window := tokens[i : i+n]
			joined := joinTokens(window)
			stats.NgramsScored++

			m, ok := g.matcher.Match(joined, dict, minRatio)
			if !ok {
				continue
			}

			var (
				span    ner.Span
				surface string
			)
			switch g.locate {
			case LocateForwardCursor:
				var found bool
				from := cursor
				span, cursor, found = locateFromCursor(text, joined, cursor)
				surface = joined
				if !found {
					if g.strict {
						return nil, stats, errors.FromCode(errors.ErrCodeEntityNotLocated).
							WithDetail(fmt.Sprintf("ngram=%q cursor=%d", joined, from))
					}
					stats.Unlocated++
					g.logger.Debug("n-gram not found after cursor, start defaults to 0",
						logging.String("ngram", joined),
						logging.String(logging.FieldCategory, m.Category),
						logging.Int("cursor", cursor))
				}
			default:
				first, last := window[0], window[len(window)-1]
				span = ner.Span{Start: first.CharStart, End: last.CharEnd - 1}
				surface = text[first.Start:last.End]
			}

			entities = append(entities, ner.Entity{
				ID:       g.ids.Next(),
				Text:     surface,
				Category: m.Category,
				Score:    m.Score,
				Index:    span,
				Phrase:   m.Phrase,
			})
		}

		g.logger.Debug("n-gram pass complete",
			logging.Int("n", n),
			logging.Int("candidates", len(entities)))
	}

	stats.Candidates = len(entities)
	return entities, stats, nil
}

// locateFromCursor finds needle in text at or after the byte cursor. When it
// is missing the start falls back to offset 0. The returned cursor skips the
// occurrence plus one delimiter and never moves backwards.
func locateFromCursor(text, needle string, cursor int) (ner.Span, int, bool) {
	startByte, found := 0, false
	if cursor <= len(text) {
		if idx := strings.Index(text[cursor:], needle); idx >= 0 {
			startByte, found = cursor+idx, true
		}
	}

	start := byteToChar(text, startByte)
	end := start + utf8.RuneCountInString(needle) - 1

	if next := startByte + len(needle) + 1; next > cursor {
		cursor = next
	}
	return ner.Span{Start: start, End: end}, cursor, found
}
