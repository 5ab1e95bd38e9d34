package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/turtacn/LexiFuzz-NER/pkg/types/ner"
)

// SampleText is the sentence used throughout the extractor tests.
const SampleText = "I work at Acme Corp in New York"

// SampleDictionaryYAML is the YAML form of SampleDictionary.
const SampleDictionaryYAML = `ORG:
  - Acme Corporation
LOC:
  - New York City
`

// SampleDictionary returns ORG and LOC, in that order.
func SampleDictionary() ner.Dictionary {
	return ner.NewDictionary(
		ner.Category{Name: "ORG", Phrases: []string{"Acme Corporation"}},
		ner.Category{Name: "LOC", Phrases: []string{"New York City"}},
	)
}

// WriteFile writes content to name inside a fresh temporary directory and
// returns the full path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
