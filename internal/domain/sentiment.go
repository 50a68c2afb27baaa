package domain

import (
	"fmt"
	"strings"
)

// Sentiment is one of the three classification labels.
type Sentiment string

const (
	Positive Sentiment = "POSITIVE"
	Negative Sentiment = "NEGATIVE"
	Neutral  Sentiment = "NEUTRAL"
)

// Sentiments lists all labels in display order.
var Sentiments = []Sentiment{Positive, Negative, Neutral}

// ParseSentiment accepts the canonical label names case-insensitively.
func ParseSentiment(s string) (Sentiment, error) {
	switch Sentiment(strings.ToUpper(strings.TrimSpace(s))) {
	case Positive:
		return Positive, nil
	case Negative:
		return Negative, nil
	case Neutral:
		return Neutral, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSentiment, s)
}

func (s Sentiment) String() string { return string(s) }

// Source names the evidence a result was decided from.
type Source string

const (
	SourceLexicon Source = "lexicon"
	SourceOracle  Source = "oracle"
	SourceDefault Source = "default"
)

// Branch names the decision path taken by the engine.
type Branch string

const (
	BranchLexicon   Branch = "lexicon"
	BranchNegation  Branch = "negation"
	BranchAmbiguous Branch = "ambiguous"
	BranchNoSignal  Branch = "no_signal"
)

// ClassificationResult pairs the caller's original text with the decided label.
// Source and Branch are diagnostics; they never change the label.
type ClassificationResult struct {
	Text      string    `json:"text"`
	Sentiment Sentiment `json:"sentiment"`
	Source    Source    `json:"-"`
	Branch    Branch    `json:"-"`
}

// ModelInfo is static, display-only metadata about the active classifier.
type ModelInfo struct {
	ModelName       string   `json:"model_name"`
	Method          string   `json:"method"`
	Mode            string   `json:"mode"`
	OracleAvailable bool     `json:"oracle_available"`
	Features        []string `json:"features"`
}
