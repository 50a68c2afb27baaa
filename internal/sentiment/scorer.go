package sentiment

import "strings"

// Scores counts distinct lexicon entries matched per category.
type Scores struct {
	Positive int
	Negative int
	Neutral  int
}

// Ambiguous reports whether both polarities are present.
func (s Scores) Ambiguous() bool {
	return s.Positive > 0 && s.Negative > 0
}

type Scorer struct {
	tables *Tables
}

func NewScorer(tables *Tables) *Scorer {
	return &Scorer{tables: tables}
}

// Score counts each entry at most once, however often it occurs. Matching is
// by substring, not on token boundaries.
func (s *Scorer) Score(normalized string) Scores {
	lower := strings.ToLower(normalized)
	stripped := StripAccents(lower)

	return Scores{
		Positive: countMatches(s.tables.positive, lower, stripped),
		Negative: countMatches(s.tables.negative, lower, stripped),
		Neutral:  countMatches(s.tables.neutral, lower, stripped),
	}
}

func countMatches(entries []LexiconEntry, lower, stripped string) int {
	n := 0
	for _, e := range entries {
		if e.matches(lower, stripped) {
			n++
		}
	}
	return n
}
