package sentiment

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/pscheid92/vnsentiment/internal/domain"
)

//go:embed data/lexicon.yaml
var defaultLexicon []byte

// Category is the lexicon bucket an entry belongs to.
type Category = domain.Sentiment

// LexiconEntry is one sentiment-bearing word or phrase.
type LexiconEntry struct {
	SurfaceForm string
	Category    Category
	stripped    string
}

// matches reports whether the entry occurs in text, either as written or with
// accents stripped on both sides. lower and stripped are the same text.
func (e LexiconEntry) matches(lower, stripped string) bool {
	return strings.Contains(lower, e.SurfaceForm) || strings.Contains(stripped, e.stripped)
}

// Tables is the immutable bundle of lexicons, abbreviations and negation cues.
type Tables struct {
	positive      []LexiconEntry
	negative      []LexiconEntry
	neutral       []LexiconEntry
	abbreviations map[string]string
	negationCues  map[string]struct{}
}

type tablesFile struct {
	Lexicon struct {
		Positive []string `yaml:"positive"`
		Negative []string `yaml:"negative"`
		Neutral  []string `yaml:"neutral"`
	} `yaml:"lexicon"`
	Abbreviations map[string]string `yaml:"abbreviations"`
	NegationCues  []string          `yaml:"negation_cues"`
}

// DefaultTables returns the tables compiled into the binary.
func DefaultTables() (*Tables, error) {
	return ParseTables(defaultLexicon)
}

// LoadTables reads tables from path, or the embedded defaults if path is empty.
func LoadTables(path string) (*Tables, error) {
	if path == "" {
		return DefaultTables()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon file: %w", err)
	}
	tables, err := ParseTables(data)
	if err != nil {
		return nil, fmt.Errorf("invalid lexicon file %s: %w", path, err)
	}
	return tables, nil
}

// ParseTables decodes and validates YAML table data.
func ParseTables(data []byte) (*Tables, error) {
	var f tablesFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode lexicon: %w", err)
	}

	t := &Tables{
		abbreviations: make(map[string]string, len(f.Abbreviations)),
		negationCues:  make(map[string]struct{}, len(f.NegationCues)),
	}

	var err error
	if t.positive, err = buildEntries(domain.Positive, f.Lexicon.Positive); err != nil {
		return nil, err
	}
	if t.negative, err = buildEntries(domain.Negative, f.Lexicon.Negative); err != nil {
		return nil, err
	}
	if t.neutral, err = buildEntries(domain.Neutral, f.Lexicon.Neutral); err != nil {
		return nil, err
	}
	if len(t.positive) == 0 || len(t.negative) == 0 {
		return nil, errors.New("lexicon needs at least one positive and one negative entry")
	}

	for key, expansion := range f.Abbreviations {
		k := canonical(key)
		if k == "" || strings.ContainsFunc(k, unicode.IsSpace) || !isScrubbed(k) {
			return nil, fmt.Errorf("abbreviation key %q must be a single word", key)
		}
		if _, dup := t.abbreviations[k]; dup {
			return nil, fmt.Errorf("abbreviation key %q is defined twice", key)
		}
		v := strings.Join(strings.Fields(canonical(expansion)), " ")
		if v == "" || !isScrubbed(v) {
			return nil, fmt.Errorf("abbreviation %q has invalid expansion %q", key, expansion)
		}
		t.abbreviations[k] = v
	}
	// Expanding must be a fixed point, so no expansion may produce another key.
	for k, v := range t.abbreviations {
		for _, tok := range strings.Fields(v) {
			if _, ok := t.abbreviations[tok]; ok {
				return nil, fmt.Errorf("expansion of %q contains abbreviation key %q", k, tok)
			}
		}
	}

	for _, cue := range f.NegationCues {
		c := canonical(cue)
		if c == "" || strings.ContainsFunc(c, unicode.IsSpace) {
			return nil, fmt.Errorf("negation cue %q must be a single word", cue)
		}
		t.negationCues[c] = struct{}{}
	}

	return t, nil
}

func buildEntries(cat Category, forms []string) ([]LexiconEntry, error) {
	entries := make([]LexiconEntry, 0, len(forms))
	seen := make(map[string]struct{}, len(forms))
	for _, form := range forms {
		f := strings.Join(strings.Fields(canonical(form)), " ")
		if f == "" {
			return nil, fmt.Errorf("empty %s lexicon entry", strings.ToLower(string(cat)))
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		entries = append(entries, LexiconEntry{SurfaceForm: f, Category: cat, stripped: StripAccents(f)})
	}
	return entries, nil
}

// canonical is the form every table key and entry is stored in: NFC, lowercase, trimmed.
func canonical(s string) string {
	return strings.TrimSpace(norm.NFC.String(strings.ToLower(s)))
}

// Entries returns a copy of the entries in one category.
func (t *Tables) Entries(cat Category) []LexiconEntry {
	var src []LexiconEntry
	switch cat {
	case domain.Positive:
		src = t.positive
	case domain.Negative:
		src = t.negative
	case domain.Neutral:
		src = t.neutral
	}
	out := make([]LexiconEntry, len(src))
	copy(out, src)
	return out
}

// Expand returns the expansion for a lowercase token, if any.
func (t *Tables) Expand(token string) (string, bool) {
	v, ok := t.abbreviations[token]
	return v, ok
}

// IsNegationCue reports whether token is a negation cue.
func (t *Tables) IsNegationCue(token string) bool {
	_, ok := t.negationCues[token]
	return ok
}

// Size reports entry counts, used for startup logging.
func (t *Tables) Size() (lexicon, abbreviations, cues int) {
	return len(t.positive) + len(t.negative) + len(t.neutral), len(t.abbreviations), len(t.negationCues)
}
