package fuzzy_ner

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ---------------------------------------------------------------------------
// Token with offsets
// ---------------------------------------------------------------------------

// Token is a maximal whitespace-delimited run of the input text.
// Start/End are byte offsets, CharStart/CharEnd are rune offsets; both ranges
// are half-open.
type Token struct {
	Text      string
	Start     int
	End       int
	CharStart int
	CharEnd   int
}

// Tokenizer splits text into ordered tokens carrying their source offsets.
type Tokenizer interface {
	Tokenize(text string) []Token
}

// WhitespaceTokenizer splits on Unicode whitespace, like strings.Fields, but
// keeps the position of every token.
type WhitespaceTokenizer struct{}

// NewWhitespaceTokenizer returns the default tokenizer.
func NewWhitespaceTokenizer() *WhitespaceTokenizer { return &WhitespaceTokenizer{} }

// Tokenize implements Tokenizer.
func (WhitespaceTokenizer) Tokenize(text string) []Token {
	var tokens []Token
	start, charStart := -1, 0
	charIdx := 0
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				tokens = append(tokens, Token{
					Text:      text[start:i],
					Start:     start,
					End:       i,
					CharStart: charStart,
					CharEnd:   charIdx,
				})
				start = -1
			}
		} else if start < 0 {
			start, charStart = i, charIdx
		}
		charIdx++
	}
	if start >= 0 {
		tokens = append(tokens, Token{
			Text:      text[start:],
			Start:     start,
			End:       len(text),
			CharStart: charStart,
			CharEnd:   charIdx,
		})
	}
	return tokens
}

// joinTokens joins a window of tokens with single spaces.
func joinTokens(window []Token) string {
	if len(window) == 1 {
		return window[0].Text
	}
	var b strings.Builder
	for i, t := range window {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t.Text)
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// Offset helpers
// ---------------------------------------------------------------------------

// charToByte maps rune offsets of text to byte offsets. The returned slice has
// one extra entry so that the exclusive end offset len(runes) is addressable.
func charToByte(text string) []int {
	idx := make([]int, 0, utf8.RuneCountInString(text)+1)
	for i := range text {
		idx = append(idx, i)
	}
	return append(idx, len(text))
}

// byteToChar converts a byte offset into text to a rune offset.
func byteToChar(text string, b int) int {
	if b > len(text) {
		b = len(text)
	}
	return utf8.RuneCountInString(text[:b])
}
