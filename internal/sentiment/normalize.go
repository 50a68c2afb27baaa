package sentiment

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalizer turns raw user text into the two forms the engine works on.
type Normalizer struct {
	tables *Tables
}

func NewNormalizer(tables *Tables) *Normalizer {
	return &Normalizer{tables: tables}
}

// NormalizeForLexicon produces the aggressive form used for scoring and
// negation detection: lowercase NFC, punctuation and symbols replaced by
// spaces, abbreviations expanded, whitespace collapsed.
//
// Punctuation is scrubbed before expansion so that "k." and "k" both expand;
// this keeps the function idempotent.
func (n *Normalizer) NormalizeForLexicon(text string) string {
	s := strings.TrimSpace(lowerNFC(text))
	s = strings.Map(func(r rune) rune {
		if keepRune(r) {
			return r
		}
		return ' '
	}, s)
	return n.expand(s)
}

// NormalizeForOracle produces the light form sent to the oracle. Punctuation
// and diacritics survive; only case, composition and abbreviations change.
func (n *Normalizer) NormalizeForOracle(text string) string {
	return n.expand(lowerNFC(text))
}

func (n *Normalizer) expand(s string) string {
	tokens := strings.Fields(s)
	for i, tok := range tokens {
		if exp, ok := n.tables.Expand(tok); ok {
			tokens[i] = exp
		}
	}
	return strings.Join(tokens, " ")
}

func lowerNFC(s string) string {
	return norm.NFC.String(strings.ToLower(s))
}

func keepRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r) || unicode.IsSpace(r)
}

func isScrubbed(s string) bool {
	for _, r := range s {
		if !keepRune(r) {
			return false
		}
	}
	return true
}

func mapDStroke(r rune) rune {
	switch r {
	case 'đ':
		return 'd'
	case 'Đ':
		return 'D'
	}
	return r
}

// StripAccents removes Vietnamese diacritics: tone and vowel marks are
// dropped after decomposition and đ/Đ become d/D. It is idempotent.
func StripAccents(text string) string {
	// transform.Transformer chains keep state, so build one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), runes.Map(mapDStroke), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return out
}
