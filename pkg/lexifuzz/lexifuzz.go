// Package lexifuzz is the library entry point: dictionary-driven fuzzy entity
// extraction over plain text.
//
//	dict := lexifuzz.NewDictionary(
//		lexifuzz.Category{Name: "ORG", Phrases: []string{"Acme Corporation"}},
//		lexifuzz.Category{Name: "LOC", Phrases: []string{"New York City"}},
//	)
//	set, err := lexifuzz.FindEntity("I work at Acme Corp in New York", dict, 70)
package lexifuzz

import (
	"context"

	"github.com/turtacn/LexiFuzz-NER/internal/intelligence/fuzzy_ner"
	"github.com/turtacn/LexiFuzz-NER/pkg/types/ner"
)

type (
	Category   = ner.Category
	Dictionary = ner.Dictionary
	Entity     = ner.Entity
	EntitySet  = ner.EntitySet
	Span       = ner.Span
)

// NewDictionary returns a dictionary holding categories in the given order.
func NewDictionary(categories ...Category) Dictionary { return ner.NewDictionary(categories...) }

// LoadDictionary reads a YAML or JSON dictionary file.
func LoadDictionary(path string) (Dictionary, error) { return fuzzy_ner.LoadDictionaryFile(path) }

// Option adjusts the extractor configuration.
type Option func(*settings)

type settings struct {
	cfg fuzzy_ner.ExtractorConfig
	ids fuzzy_ner.IDGenerator
}

// WithMatchPolicy selects "first_satisfying" (default) or "best_overall".
func WithMatchPolicy(policy string) Option {
	return func(s *settings) { s.cfg.MatchPolicy = fuzzy_ner.MatchPolicy(policy) }
}

// WithLocateMode selects "token_offset" (default) or "forward_cursor".
func WithLocateMode(mode string) Option {
	return func(s *settings) { s.cfg.LocateMode = fuzzy_ner.LocateMode(mode) }
}

// WithAnnotateOrder selects "text_order" (default) or "resolver_order".
func WithAnnotateOrder(order string) Option {
	return func(s *settings) { s.cfg.AnnotateOrder = fuzzy_ner.AnnotateOrder(order) }
}

// WithStrictLocate makes FindEntity fail when a match cannot be located in
// the text instead of placing it at offset 0.
func WithStrictLocate() Option { return func(s *settings) { s.cfg.StrictLocate = true } }

// WithScorer selects "ratio" (default), "levenshtein" or "jaro_winkler".
func WithScorer(name string) Option { return func(s *settings) { s.cfg.Scorer = name } }

// WithProcessor selects "default", "nfkc", "ascii_fold" or "none".
func WithProcessor(name string) Option { return func(s *settings) { s.cfg.Processor = name } }

// WithSequentialIDs numbers entities "<prefix>-0001", "<prefix>-0002", ...
// instead of using random UUIDs.
func WithSequentialIDs(prefix string) Option {
	return func(s *settings) { s.ids = fuzzy_ner.NewSequenceGenerator(prefix) }
}

// FindEntity extracts the entities of dict from text. Every returned entity
// scores at least minRatio, no two entities overlap, and TextAnnotated wraps
// each one as "[text]{id}".
func FindEntity(text string, dict Dictionary, minRatio int, opts ...Option) (*EntitySet, error) {
	return FindEntityContext(context.Background(), text, dict, minRatio, opts...)
}

// FindEntityContext is FindEntity with a caller-supplied context.
func FindEntityContext(ctx context.Context, text string, dict Dictionary, minRatio int, opts ...Option) (*EntitySet, error) {
	s := settings{cfg: fuzzy_ner.DefaultExtractorConfig()}
	s.cfg.MinRatio = minRatio
	for _, opt := range opts {
		opt(&s)
	}

	var extractorOpts []fuzzy_ner.Option
	if s.ids != nil {
		extractorOpts = append(extractorOpts, fuzzy_ner.WithIDGenerator(s.ids))
	}
	e, err := fuzzy_ner.NewExtractor(s.cfg, extractorOpts...)
	if err != nil {
		return nil, err
	}
	return e.FindEntity(ctx, text, dict, minRatio)
}
