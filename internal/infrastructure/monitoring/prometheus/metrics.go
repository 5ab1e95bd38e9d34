package prometheus

import (
	"context"
	"time"

	"github.com/turtacn/LexiFuzz-NER/pkg/types/ner"
)

// ExtractionMetrics records extractor telemetry. It satisfies the extractor's
// Metrics interface.
type ExtractionMetrics struct {
	ExtractionsTotal   CounterVec
	ExtractionDuration HistogramVec
	CandidatesTotal    CounterVec
	EntitiesTotal      CounterVec
	NgramsScoredTotal  CounterVec
	DictionaryPhrases  GaugeVec
	RunDuration        HistogramVec
}

// NewExtractionMetrics registers the extraction metrics on collector.
func NewExtractionMetrics(collector MetricsCollector) *ExtractionMetrics {
	return &ExtractionMetrics{
		ExtractionsTotal: collector.RegisterCounter("extraction_total",
			"Number of FindEntity calls by outcome.", "status"),
		ExtractionDuration: collector.RegisterHistogram("extraction_duration_seconds",
			"Wall time of a FindEntity call.", nil),
		CandidatesTotal: collector.RegisterCounter("candidates_total",
			"Candidate entities produced before overlap resolution.", "category"),
		EntitiesTotal: collector.RegisterCounter("entities_total",
			"Entities kept after overlap resolution.", "category"),
		NgramsScoredTotal: collector.RegisterCounter("ngrams_scored_total",
			"N-grams compared against the dictionary."),
		DictionaryPhrases: collector.RegisterGauge("dictionary_phrases",
			"Phrases per category of the loaded dictionary.", "category"),
		RunDuration: collector.RegisterHistogram("run_duration_seconds",
			"Wall time of one extract run over all input texts.", nil),
	}
}

// RecordExtraction counts one call and observes its duration.
func (m *ExtractionMetrics) RecordExtraction(_ context.Context, status string, duration time.Duration) {
	m.ExtractionsTotal.WithLabelValues(status).Inc()
	m.ExtractionDuration.WithLabelValues().Observe(duration.Seconds())
}

// RecordCandidates adds count candidates for category.
func (m *ExtractionMetrics) RecordCandidates(_ context.Context, category string, count int) {
	m.CandidatesTotal.WithLabelValues(category).Add(float64(count))
}

// RecordEntities adds count kept entities for category.
func (m *ExtractionMetrics) RecordEntities(_ context.Context, category string, count int) {
	m.EntitiesTotal.WithLabelValues(category).Add(float64(count))
}

// RecordNgramsScored adds count scored n-grams.
func (m *ExtractionMetrics) RecordNgramsScored(_ context.Context, count int) {
	m.NgramsScoredTotal.WithLabelValues().Add(float64(count))
}

// RecordDictionary sets the phrase gauge for every category of dict.
func (m *ExtractionMetrics) RecordDictionary(dict ner.Dictionary) {
	for _, c := range dict.Categories {
		m.DictionaryPhrases.WithLabelValues(c.Name).Set(float64(len(c.Phrases)))
	}
}

// StartRun starts a Timer that observes into RunDuration.
func (m *ExtractionMetrics) StartRun() *Timer {
	return NewTimer(m.RunDuration.WithLabelValues())
}
