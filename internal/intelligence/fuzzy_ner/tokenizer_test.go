package fuzzy_ner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhitespaceTokenizer_Offsets(t *testing.T) {
	tokens := NewWhitespaceTokenizer().Tokenize("  I work\tat  Acme ")
	require.Len(t, tokens, 4)

	assert.Equal(t, Token{Text: "I", Start: 2, End: 3, CharStart: 2, CharEnd: 3}, tokens[0])
	assert.Equal(t, Token{Text: "work", Start: 4, End: 8, CharStart: 4, CharEnd: 8}, tokens[1])
	assert.Equal(t, Token{Text: "at", Start: 9, End: 11, CharStart: 9, CharEnd: 11}, tokens[2])
	assert.Equal(t, Token{Text: "Acme", Start: 13, End: 17, CharStart: 13, CharEnd: 17}, tokens[3])
}

func TestWhitespaceTokenizer_MultiByte(t *testing.T) {
	tokens := NewWhitespaceTokenizer().Tokenize("Zürich ist schön")
	require.Len(t, tokens, 3)

	assert.Equal(t, Token{Text: "Zürich", Start: 0, End: 7, CharStart: 0, CharEnd: 6}, tokens[0])
	assert.Equal(t, Token{Text: "ist", Start: 8, End: 11, CharStart: 7, CharEnd: 10}, tokens[1])
	assert.Equal(t, Token{Text: "schön", Start: 12, End: 18, CharStart: 11, CharEnd: 16}, tokens[2])
}

func TestWhitespaceTokenizer_Empty(t *testing.T) {
	tok := NewWhitespaceTokenizer()
	assert.Empty(t, tok.Tokenize(""))
	assert.Empty(t, tok.Tokenize(" \t\n "))
}

func TestJoinTokens(t *testing.T) {
	tokens := NewWhitespaceTokenizer().Tokenize("New   York\tCity")
	assert.Equal(t, "New York City", joinTokens(tokens))
	assert.Equal(t, "York", joinTokens(tokens[1:2]))
}

func TestOffsetHelpers(t *testing.T) {
	assert.Equal(t, []int{0, 1, 3, 4, 5}, charToByte("aü b"))
	assert.Equal(t, 2, byteToChar("aü b", 3))
	assert.Equal(t, 4, byteToChar("aü b", 99))
}
