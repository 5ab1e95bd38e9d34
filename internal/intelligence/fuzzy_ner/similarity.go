package fuzzy_ner

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/antzucaro/matchr"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/turtacn/LexiFuzz-NER/pkg/errors"
)

// ---------------------------------------------------------------------------
// Processors
// ---------------------------------------------------------------------------

// Processor prepares a string before it is scored.
type Processor func(string) string

const (
	ProcessorDefault   = "default"
	ProcessorNFKC      = "nfkc"
	ProcessorASCIIFold = "ascii_fold"
	ProcessorNone      = "none"
)

// DefaultProcess lowercases s, turns every rune that is neither a letter nor a
// number into a space and trims the result. Inner runs of spaces are kept.
func DefaultProcess(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.TrimSpace(mapped)
}

// NFKCProcess applies compatibility composition (full-width forms, ligatures)
// before DefaultProcess.
func NFKCProcess(s string) string {
	return DefaultProcess(norm.NFKC.String(s))
}

// ASCIIFoldProcess strips combining marks ("Zürich" -> "zurich") before
// DefaultProcess.
func ASCIIFoldProcess(s string) string {
	// transform.Chain is stateful; build one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return DefaultProcess(folded)
}

func identity(s string) string { return s }

// ProcessorFor resolves a processor by name. An empty name selects the default.
func ProcessorFor(name string) (Processor, error) {
	switch name {
	case "", ProcessorDefault:
		return DefaultProcess, nil
	case ProcessorNFKC:
		return NFKCProcess, nil
	case ProcessorASCIIFold:
		return ASCIIFoldProcess, nil
	case ProcessorNone:
		return identity, nil
	}
	return nil, errors.New(errors.ErrCodeUnknownPolicy, "unknown processor").WithDetail("processor=" + name)
}

// ---------------------------------------------------------------------------
// Scorers
// ---------------------------------------------------------------------------

// Scorer computes a 0..100 similarity of two processed strings.
type Scorer func(a, b string) int

const (
	ScorerRatio       = "ratio"
	ScorerLevenshtein = "levenshtein"
	ScorerJaroWinkler = "jaro_winkler"
)

// Ratio is the normalized Indel similarity: 100 * 2*LCS / (len(a)+len(b)),
// rounded half to even. Lengths are counted in runes.
func Ratio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	lcs := matchr.LongestCommonSubsequence(a, b)
	return toPercent(float64(2*lcs) / float64(total))
}

// LevenshteinRatio is 100 * (1 - distance/maxLen).
func LevenshteinRatio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	dist := matchr.Levenshtein(a, b)
	return toPercent(1 - float64(dist)/float64(maxLen))
}

// JaroWinklerRatio is 100 * Jaro-Winkler similarity.
func JaroWinklerRatio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	return toPercent(matchr.JaroWinkler(a, b, false))
}

func toPercent(sim float64) int {
	v := int(math.RoundToEven(sim * 100))
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ScorerFor resolves a scorer by name. An empty name selects Ratio.
func ScorerFor(name string) (Scorer, error) {
	switch name {
	case "", ScorerRatio:
		return Ratio, nil
	case ScorerLevenshtein:
		return LevenshteinRatio, nil
	case ScorerJaroWinkler:
		return JaroWinklerRatio, nil
	}
	return nil, errors.New(errors.ErrCodeScorerUnsupported, "unsupported scorer").WithDetail("scorer=" + name)
}

// ---------------------------------------------------------------------------
// SimilarityScorer
// ---------------------------------------------------------------------------

// SimilarityScorer finds the best-matching choice for a query.
type SimilarityScorer interface {
	// BestMatch returns the first highest-scoring choice in list order and its
	// ratio. ok is false only when choices is empty.
	BestMatch(query string, choices []string) (best string, score int, ok bool)
}

// FuzzyScorer applies a Processor to both sides and scores them with a Scorer.
// It is read-only after construction and safe for concurrent use.
type FuzzyScorer struct {
	process Processor
	score   Scorer
}

// NewFuzzyScorer builds a scorer from configured names.
func NewFuzzyScorer(scorer, processor string) (*FuzzyScorer, error) {
	s, err := ScorerFor(scorer)
	if err != nil {
		return nil, err
	}
	p, err := ProcessorFor(processor)
	if err != nil {
		return nil, err
	}
	return &FuzzyScorer{process: p, score: s}, nil
}

// NewDefaultScorer returns the Ratio scorer with the default processor.
func NewDefaultScorer() *FuzzyScorer {
	return &FuzzyScorer{process: DefaultProcess, score: Ratio}
}

// Score compares two raw strings.
func (s *FuzzyScorer) Score(a, b string) int {
	return s.score(s.process(a), s.process(b))
}

// BestMatch implements SimilarityScorer.
func (s *FuzzyScorer) BestMatch(query string, choices []string) (string, int, bool) {
	if len(choices) == 0 {
		return "", 0, false
	}
	q := s.process(query)
	best, bestScore := choices[0], -1
	for _, c := range choices {
		sc := s.score(q, s.process(c))
		if sc > bestScore {
			best, bestScore = c, sc
			if sc == 100 {
				break
			}
		}
	}
	return best, bestScore, true
}
