package fuzzy_ner

import (
	"context"
	"fmt"
	"time"

	"github.com/turtacn/LexiFuzz-NER/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/LexiFuzz-NER/pkg/errors"
	"github.com/turtacn/LexiFuzz-NER/pkg/types/ner"
)

// ---------------------------------------------------------------------------
// Configuration
// ---------------------------------------------------------------------------

// DefaultMinRatio is the threshold used when none is configured.
const DefaultMinRatio = 80

// ExtractorConfig holds tuneable parameters for the extraction pipeline.
type ExtractorConfig struct {
	MinRatio      int           `json:"min_ratio" yaml:"min_ratio"`
	MatchPolicy   MatchPolicy   `json:"match_policy" yaml:"match_policy"`
	LocateMode    LocateMode    `json:"locate_mode" yaml:"locate_mode"`
	AnnotateOrder AnnotateOrder `json:"annotate_order" yaml:"annotate_order"`
	Scorer        string        `json:"scorer" yaml:"scorer"`
	Processor     string        `json:"processor" yaml:"processor"`
	IDGenerator   string        `json:"id_generator" yaml:"id_generator"`
	IDPrefix      string        `json:"id_prefix" yaml:"id_prefix"`

	// StrictLocate turns the offset-0 fallback of the forward-cursor and
	// resolver-order modes into an ErrCodeEntityNotLocated error.
	StrictLocate bool `json:"strict_locate" yaml:"strict_locate"`
}

// DefaultExtractorConfig returns the recommended defaults.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		MinRatio:      DefaultMinRatio,
		MatchPolicy:   MatchFirstSatisfying,
		LocateMode:    LocateTokenOffset,
		AnnotateOrder: AnnotateTextOrder,
		Scorer:        ScorerRatio,
		Processor:     ProcessorDefault,
		IDGenerator:   IDGeneratorUUID,
	}
}

// Validate reports the first invalid field. Empty names are valid and select
// the defaults.
func (c ExtractorConfig) Validate() error {
	if err := ValidateMinRatio(c.MinRatio); err != nil {
		return err
	}
	if _, err := ParseMatchPolicy(string(c.MatchPolicy)); err != nil {
		return err
	}
	if _, err := ParseLocateMode(string(c.LocateMode)); err != nil {
		return err
	}
	if _, err := ParseAnnotateOrder(string(c.AnnotateOrder)); err != nil {
		return err
	}
	if _, err := ScorerFor(c.Scorer); err != nil {
		return err
	}
	if _, err := ProcessorFor(c.Processor); err != nil {
		return err
	}
	_, err := IDGeneratorFor(c.IDGenerator, c.IDPrefix)
	return err
}

// ValidateMinRatio rejects thresholds outside [0, 100].
func ValidateMinRatio(minRatio int) error {
	if minRatio < 0 || minRatio > 100 {
		return errors.New(errors.ErrCodeInvalidThreshold, "min ratio must be within [0, 100]").
			WithDetail(fmt.Sprintf("min_ratio=%d", minRatio))
	}
	return nil
}

// ---------------------------------------------------------------------------
// Dependency interfaces
// ---------------------------------------------------------------------------

// Metrics receives extraction telemetry.
type Metrics interface {
	RecordExtraction(ctx context.Context, status string, duration time.Duration)
	RecordCandidates(ctx context.Context, category string, count int)
	RecordEntities(ctx context.Context, category string, count int)
	RecordNgramsScored(ctx context.Context, count int)
}

// Extraction statuses reported to Metrics.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// EntityExtractor is the public contract of the pipeline.
type EntityExtractor interface {
	// FindEntity extracts entities of dict from text using an explicit
	// threshold.
	FindEntity(ctx context.Context, text string, dict ner.Dictionary, minRatio int) (*ner.EntitySet, error)

	// Extract is FindEntity with the configured threshold.
	Extract(ctx context.Context, text string, dict ner.Dictionary) (*ner.EntitySet, error)

	// FindEntityBatch runs Extract over texts in order.
	FindEntityBatch(ctx context.Context, texts []string, dict ner.Dictionary) ([]*ner.EntitySet, error)
}

// ---------------------------------------------------------------------------
// Extractor
// ---------------------------------------------------------------------------

// Extractor wires the generator, the resolver and the annotator.
type Extractor struct {
	config    ExtractorConfig
	generator *CandidateGenerator
	metrics   Metrics
	logger    logging.Logger
}

// Option customises an Extractor.
type Option func(*extractorOptions)

type extractorOptions struct {
	logger    logging.Logger
	metrics   Metrics
	ids       IDGenerator
	tokenizer Tokenizer
	scorer    SimilarityScorer
}

// WithLogger sets the logger. Default: logging.Default().
func WithLogger(l logging.Logger) Option { return func(o *extractorOptions) { o.logger = l } }

// WithMetrics sets the metrics sink. Default: no-op.
func WithMetrics(m Metrics) Option { return func(o *extractorOptions) { o.metrics = m } }

// WithIDGenerator overrides the generator named in the config.
func WithIDGenerator(g IDGenerator) Option { return func(o *extractorOptions) { o.ids = g } }

// WithTokenizer overrides the whitespace tokenizer.
func WithTokenizer(t Tokenizer) Option { return func(o *extractorOptions) { o.tokenizer = t } }

// WithScorer overrides the scorer and processor named in the config.
func WithScorer(s SimilarityScorer) Option { return func(o *extractorOptions) { o.scorer = s } }

// NewExtractor constructs a fully-wired extractor. Empty names in config take
// their defaults. MinRatio is used as given, so a zero value accepts every
// n-gram.
func NewExtractor(config ExtractorConfig, opts ...Option) (*Extractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	o := extractorOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.Default()
	}
	if o.metrics == nil {
		o.metrics = noopMetrics{}
	}

	policy, _ := ParseMatchPolicy(string(config.MatchPolicy))
	locate, _ := ParseLocateMode(string(config.LocateMode))
	order, _ := ParseAnnotateOrder(string(config.AnnotateOrder))
	config.MatchPolicy, config.LocateMode, config.AnnotateOrder = policy, locate, order

	if o.scorer == nil {
		s, err := NewFuzzyScorer(config.Scorer, config.Processor)
		if err != nil {
			return nil, err
		}
		o.scorer = s
	}
	if o.ids == nil {
		g, err := IDGeneratorFor(config.IDGenerator, config.IDPrefix)
		if err != nil {
			return nil, err
		}
		o.ids = g
	}

	logger := o.logger.Named("fuzzy_ner")
	matcher := NewCategoryMatcher(o.scorer, policy)
	generator := NewCandidateGenerator(o.tokenizer, matcher, o.ids, locate, logger)
	generator.strict = config.StrictLocate

	return &Extractor{
		config:    config,
		generator: generator,
		metrics:   o.metrics,
		logger:    logger,
	}, nil
}

// Config returns the resolved configuration.
func (e *Extractor) Config() ExtractorConfig { return e.config }

// FindEntity implements EntityExtractor.
//
// Entities in the result are pairwise disjoint, each scores at least minRatio
// and they are listed in acceptance order (highest score first). A text with
// no whitespace-delimited tokens yields an empty set and the text unchanged.
func (e *Extractor) FindEntity(ctx context.Context, text string, dict ner.Dictionary, minRatio int) (*ner.EntitySet, error) {
	start := time.Now()

	set, err := e.findEntity(ctx, text, dict, minRatio)
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	e.metrics.RecordExtraction(ctx, status, time.Since(start))
	return set, err
}

func (e *Extractor) findEntity(ctx context.Context, text string, dict ner.Dictionary, minRatio int) (*ner.EntitySet, error) {
	if err := ValidateMinRatio(minRatio); err != nil {
		return nil, err
	}
	if err := dict.Validate(); err != nil {
		return nil, err
	}

	candidates, stats, err := e.generator.Generate(ctx, text, dict, minRatio)
	if err != nil {
		return nil, err
	}
	e.metrics.RecordNgramsScored(ctx, stats.NgramsScored)
	for cat, n := range countByCategory(candidates) {
		e.metrics.RecordCandidates(ctx, cat, n)
	}
	if stats.Unlocated > 0 {
		e.logger.Warn("some candidates were not found after the cursor and start at offset 0",
			logging.Int("unlocated", stats.Unlocated))
	}

	entities := ResolveOverlaps(candidates)
	annotated, unplaced := Annotate(text, entities, e.config.AnnotateOrder)
	if unplaced > 0 {
		if e.config.StrictLocate {
			return nil, errors.Newf(errors.ErrCodeEntityNotLocated, "%d of %d entities could not be annotated", unplaced, len(entities)).
				WithDetail("annotate_order=" + string(e.config.AnnotateOrder))
		}
		e.logger.Warn("entities left unannotated",
			logging.Int("unplaced", unplaced),
			logging.String("annotate_order", string(e.config.AnnotateOrder)))
	}

	set := &ner.EntitySet{Entities: entities, Text: text, TextAnnotated: annotated}
	for cat, n := range set.CountByCategory() {
		e.metrics.RecordEntities(ctx, cat, n)
	}

	e.logger.Debug("extraction complete",
		logging.Int("tokens", stats.Tokens),
		logging.Int("max_n", stats.MaxN),
		logging.Int("ngrams_scored", stats.NgramsScored),
		logging.Int("candidates", stats.Candidates),
		logging.Int("entities", len(entities)))

	return set, nil
}

// Extract implements EntityExtractor.
func (e *Extractor) Extract(ctx context.Context, text string, dict ner.Dictionary) (*ner.EntitySet, error) {
	return e.FindEntity(ctx, text, dict, e.config.MinRatio)
}

// FindEntityBatch implements EntityExtractor. Texts are processed one after
// another; the first failure aborts the batch and is returned with its index.
func (e *Extractor) FindEntityBatch(ctx context.Context, texts []string, dict ner.Dictionary) ([]*ner.EntitySet, error) {
	results := make([]*ner.EntitySet, 0, len(texts))
	for i, t := range texts {
		set, err := e.Extract(ctx, t, dict)
		if err != nil {
			return results, errors.Wrap(err, errors.CodeUnknown, fmt.Sprintf("text %d", i))
		}
		results = append(results, set)
	}
	return results, nil
}

func countByCategory(entities []ner.Entity) map[string]int {
	out := make(map[string]int)
	for _, e := range entities {
		out[e.Category]++
	}
	return out
}

// ---------------------------------------------------------------------------
// No-op implementations
// ---------------------------------------------------------------------------

type noopMetrics struct{}

func (noopMetrics) RecordExtraction(context.Context, string, time.Duration) {}
func (noopMetrics) RecordCandidates(context.Context, string, int)           {}
func (noopMetrics) RecordEntities(context.Context, string, int)             {}
func (noopMetrics) RecordNgramsScored(context.Context, int)                 {}

var _ EntityExtractor = (*Extractor)(nil)
