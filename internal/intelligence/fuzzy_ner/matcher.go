package fuzzy_ner

import (
	"github.com/turtacn/LexiFuzz-NER/pkg/errors"
	"github.com/turtacn/LexiFuzz-NER/pkg/types/ner"
)

// MatchPolicy decides which category wins when several clear the threshold.
type MatchPolicy string

const (
	// MatchFirstSatisfying returns the first category, in dictionary order,
	// whose best phrase scores at least minRatio.
	MatchFirstSatisfying MatchPolicy = "first_satisfying"

	// MatchBestOverall scores every category and returns the highest scoring
	// one that clears minRatio. Ties keep the earlier category.
	MatchBestOverall MatchPolicy = "best_overall"
)

// ParseMatchPolicy resolves a configured policy name. Empty selects
// MatchFirstSatisfying.
func ParseMatchPolicy(s string) (MatchPolicy, error) {
	switch MatchPolicy(s) {
	case "", MatchFirstSatisfying:
		return MatchFirstSatisfying, nil
	case MatchBestOverall:
		return MatchBestOverall, nil
	}
	return "", errors.New(errors.ErrCodeUnknownPolicy, "unknown match policy").WithDetail("match_policy=" + s)
}

// Match is an accepted dictionary match for one query string.
type Match struct {
	Category string
	Phrase   string
	Score    int
}

// CategoryMatcher runs the similarity scorer once per category.
type CategoryMatcher struct {
	scorer SimilarityScorer
	policy MatchPolicy
}

// NewCategoryMatcher returns a matcher. A nil scorer selects the default
// Ratio scorer; an empty policy selects MatchFirstSatisfying.
func NewCategoryMatcher(scorer SimilarityScorer, policy MatchPolicy) *CategoryMatcher {
	if scorer == nil {
		scorer = NewDefaultScorer()
	}
	if policy == "" {
		policy = MatchFirstSatisfying
	}
	return &CategoryMatcher{scorer: scorer, policy: policy}
}

// Policy returns the configured policy.
func (m *CategoryMatcher) Policy() MatchPolicy { return m.policy }

// Match compares query with every category of dict and reports the accepted
// match, if any. A score equal to minRatio is accepted.
func (m *CategoryMatcher) Match(query string, dict ner.Dictionary, minRatio int) (Match, bool) {
	var (
		best  Match
		found bool
	)
	for _, cat := range dict.Categories {
		phrase, score, ok := m.scorer.BestMatch(query, cat.Phrases)
		if !ok || score < minRatio {
			continue
		}
		if m.policy == MatchFirstSatisfying {
			return Match{Category: cat.Name, Phrase: phrase, Score: score}, true
		}
		if !found || score > best.Score {
			best = Match{Category: cat.Name, Phrase: phrase, Score: score}
			found = true
		}
	}
	return best, found
}
