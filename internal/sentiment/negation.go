package sentiment

import "strings"

// negationWindow is the cue token plus the four tokens after it.
const negationWindow = 5

// NegationDetector finds a negation cue followed closely by a sentiment word.
// It does not flip polarity; the engine defers negated text to the oracle.
type NegationDetector struct {
	tables *Tables
}

func NewNegationDetector(tables *Tables) *NegationDetector {
	return &NegationDetector{tables: tables}
}

// HasNegation reports whether any negation window in normalized text contains
// a positive or negative lexicon entry. The cue itself is part of its window.
// Multi-word entries match when the whole phrase falls inside the window.
func (d *NegationDetector) HasNegation(normalized string) bool {
	tokens := strings.Fields(strings.ToLower(normalized))
	var stripped []string

	for i, tok := range tokens {
		if !d.tables.IsNegationCue(tok) {
			continue
		}
		if stripped == nil {
			stripped = make([]string, len(tokens))
			for j, t := range tokens {
				stripped[j] = StripAccents(t)
			}
		}
		end := min(i+negationWindow, len(tokens))
		window := strings.Join(tokens[i:end], " ")
		if d.polar(window, strings.Join(stripped[i:end], " ")) {
			return true
		}
	}
	return false
}

func (d *NegationDetector) polar(lower, stripped string) bool {
	for _, e := range d.tables.positive {
		if e.matches(lower, stripped) {
			return true
		}
	}
	for _, e := range d.tables.negative {
		if e.matches(lower, stripped) {
			return true
		}
	}
	return false
}
