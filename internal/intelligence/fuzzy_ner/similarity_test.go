package fuzzy_ner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/LexiFuzz-NER/pkg/errors"
)

// ---------------------------------------------------------------------------
// Processors
// ---------------------------------------------------------------------------

func TestDefaultProcess(t *testing.T) {
	cases := map[string]string{
		"Acme, Corp!":   "acme  corp",
		"  New York  ":  "new york",
		"O'Reilly":      "o reilly",
		"---":           "",
		"Zürich 2024":   "zürich 2024",
		"ALREADY lower": "already lower",
	}
	for in, want := range cases {
		assert.Equal(t, want, DefaultProcess(in), "input %q", in)
	}
}

func TestNFKCProcess_FullWidth(t *testing.T) {
	assert.Equal(t, "acme", NFKCProcess("ＡＣＭＥ"))
}

func TestASCIIFoldProcess(t *testing.T) {
	assert.Equal(t, "zurich", ASCIIFoldProcess("Zürich"))
	assert.Equal(t, "sao paulo", ASCIIFoldProcess("São Paulo"))
}

func TestProcessorFor(t *testing.T) {
	for _, name := range []string{"", ProcessorDefault, ProcessorNFKC, ProcessorASCIIFold, ProcessorNone} {
		p, err := ProcessorFor(name)
		require.NoError(t, err, name)
		require.NotNil(t, p)
	}

	none, _ := ProcessorFor(ProcessorNone)
	assert.Equal(t, " Acme! ", none(" Acme! "))

	_, err := ProcessorFor("stem")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnknownPolicy))
}

// ---------------------------------------------------------------------------
// Scorers
// ---------------------------------------------------------------------------

func TestRatio(t *testing.T) {
	assert.Equal(t, 100, Ratio("acme", "acme"))
	assert.Equal(t, 72, Ratio("acme corp", "acme corporation"))
	assert.Equal(t, 76, Ratio("new york", "new york city"))
	assert.Equal(t, 62, Ratio("kitten", "sitting"))
	assert.Equal(t, 0, Ratio("", "acme"))
	assert.Equal(t, 0, Ratio("acme", ""))
}

func TestRatio_RoundsHalfToEven(t *testing.T) {
	// 2*1/16 = 12.5%
	assert.Equal(t, 12, Ratio("a", "abbbbbbbbbbbbbbb"))
}

func TestLevenshteinRatio(t *testing.T) {
	assert.Equal(t, 100, LevenshteinRatio("paris", "paris"))
	assert.Equal(t, 57, LevenshteinRatio("kitten", "sitting"))
	assert.Equal(t, 0, LevenshteinRatio("", "paris"))
}

func TestJaroWinklerRatio(t *testing.T) {
	assert.Equal(t, 100, JaroWinklerRatio("london", "london"))
	assert.Equal(t, 0, JaroWinklerRatio("london", ""))
	sim := JaroWinklerRatio("london", "londn")
	assert.Greater(t, sim, 80)
	assert.Less(t, sim, 100)
}

func TestScorerFor(t *testing.T) {
	for _, name := range []string{"", ScorerRatio, ScorerLevenshtein, ScorerJaroWinkler} {
		s, err := ScorerFor(name)
		require.NoError(t, err, name)
		assert.Equal(t, 100, s("same", "same"))
	}

	_, err := ScorerFor("cosine")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeScorerUnsupported))
}

// ---------------------------------------------------------------------------
// FuzzyScorer
// ---------------------------------------------------------------------------

func TestFuzzyScorer_ScoreAppliesProcessor(t *testing.T) {
	s := NewDefaultScorer()
	assert.Equal(t, 100, s.Score("ACME!", "acme"))
	assert.Equal(t, 72, s.Score("Acme Corp", "Acme Corporation"))
}

func TestFuzzyScorer_BestMatch(t *testing.T) {
	s := NewDefaultScorer()

	best, score, ok := s.BestMatch("New York", []string{"Boston", "New York City", "York"})
	require.True(t, ok)
	assert.Equal(t, "New York City", best)
	assert.Equal(t, 76, score)
}

func TestFuzzyScorer_BestMatchTieKeepsFirst(t *testing.T) {
	s := NewDefaultScorer()

	best, score, ok := s.BestMatch("ab", []string{"ax", "ay"})
	require.True(t, ok)
	assert.Equal(t, "ax", best)
	assert.Equal(t, 50, score)
}

func TestFuzzyScorer_BestMatchEmptyChoices(t *testing.T) {
	_, _, ok := NewDefaultScorer().BestMatch("acme", nil)
	assert.False(t, ok)
}

func TestFuzzyScorer_ZeroScoreStillReported(t *testing.T) {
	best, score, ok := NewDefaultScorer().BestMatch("!!!", []string{"acme"})
	require.True(t, ok)
	assert.Equal(t, "acme", best)
	assert.Equal(t, 0, score)
}

func TestNewFuzzyScorer(t *testing.T) {
	s, err := NewFuzzyScorer(ScorerRatio, ProcessorASCIIFold)
	require.NoError(t, err)
	assert.Equal(t, 100, s.Score("Zürich", "zurich"))

	_, err = NewFuzzyScorer("cosine", "")
	assert.True(t, errors.IsCode(err, errors.ErrCodeScorerUnsupported))

	_, err = NewFuzzyScorer("", "stem")
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnknownPolicy))
}
