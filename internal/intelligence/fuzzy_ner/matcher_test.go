package fuzzy_ner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/LexiFuzz-NER/pkg/errors"
	"github.com/turtacn/LexiFuzz-NER/pkg/types/ner"
)

func sampleDictionary() ner.Dictionary {
	return ner.NewDictionary(
		ner.Category{Name: "ORG", Phrases: []string{"Acme Corporation"}},
		ner.Category{Name: "LOC", Phrases: []string{"New York City"}},
	)
}

func TestParseMatchPolicy(t *testing.T) {
	p, err := ParseMatchPolicy("")
	require.NoError(t, err)
	assert.Equal(t, MatchFirstSatisfying, p)

	p, err = ParseMatchPolicy("best_overall")
	require.NoError(t, err)
	assert.Equal(t, MatchBestOverall, p)

	_, err = ParseMatchPolicy("longest")
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnknownPolicy))
}

func TestCategoryMatcher_Match(t *testing.T) {
	m := NewCategoryMatcher(nil, "")
	dict := sampleDictionary()

	got, ok := m.Match("Acme Corp", dict, 70)
	require.True(t, ok)
	assert.Equal(t, Match{Category: "ORG", Phrase: "Acme Corporation", Score: 72}, got)

	got, ok = m.Match("New York", dict, 70)
	require.True(t, ok)
	assert.Equal(t, "LOC", got.Category)
	assert.Equal(t, 76, got.Score)

	_, ok = m.Match("work", dict, 70)
	assert.False(t, ok)
}

func TestCategoryMatcher_ThresholdIsInclusive(t *testing.T) {
	m := NewCategoryMatcher(nil, MatchFirstSatisfying)
	dict := sampleDictionary()

	_, ok := m.Match("Acme Corp", dict, 72)
	assert.True(t, ok)
	_, ok = m.Match("Acme Corp", dict, 73)
	assert.False(t, ok)
}

func TestCategoryMatcher_Policies(t *testing.T) {
	dict := ner.NewDictionary(
		ner.Category{Name: "X", Phrases: []string{"acmex"}},
		ner.Category{Name: "Y", Phrases: []string{"acme"}},
	)

	first, ok := NewCategoryMatcher(nil, MatchFirstSatisfying).Match("acme", dict, 80)
	require.True(t, ok)
	assert.Equal(t, "X", first.Category)
	assert.Equal(t, 89, first.Score)

	best, ok := NewCategoryMatcher(nil, MatchBestOverall).Match("acme", dict, 80)
	require.True(t, ok)
	assert.Equal(t, "Y", best.Category)
	assert.Equal(t, 100, best.Score)
	assert.Equal(t, MatchBestOverall, NewCategoryMatcher(nil, MatchBestOverall).Policy())
}

func TestCategoryMatcher_BestOverallTieKeepsEarlierCategory(t *testing.T) {
	dict := ner.NewDictionary(
		ner.Category{Name: "A", Phrases: []string{"paris"}},
		ner.Category{Name: "B", Phrases: []string{"paris"}},
	)
	got, ok := NewCategoryMatcher(nil, MatchBestOverall).Match("Paris", dict, 50)
	require.True(t, ok)
	assert.Equal(t, "A", got.Category)
}

type stubScorer map[string]int

func (s stubScorer) BestMatch(_ string, choices []string) (string, int, bool) {
	if len(choices) == 0 {
		return "", 0, false
	}
	return choices[0], s[choices[0]], true
}

func TestCategoryMatcher_UsesInjectedScorer(t *testing.T) {
	dict := ner.NewDictionary(
		ner.Category{Name: "A", Phrases: []string{"a"}},
		ner.Category{Name: "B", Phrases: []string{"b"}},
	)
	m := NewCategoryMatcher(stubScorer{"a": 40, "b": 90}, MatchFirstSatisfying)

	got, ok := m.Match("anything", dict, 50)
	require.True(t, ok)
	assert.Equal(t, "B", got.Category)
}
