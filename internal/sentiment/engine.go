package sentiment

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/pscheid92/vnsentiment/internal/domain"
)

// minTextRunes is the largest trimmed length that is still rejected.
const minTextRunes = 3

const (
	hybridModelName    = "Hybrid: Preprocessing + Rule-based + PhoBERT"
	ruleBasedModelName = "Rule-based only"
)

// Engine is the decision policy. It holds only immutable state; a nil oracle
// means rule-based mode, where every oracle-dependent branch yields NEUTRAL.
type Engine struct {
	normalizer *Normalizer
	scorer     *Scorer
	negation   *NegationDetector
	oracle     domain.Oracle
}

var _ domain.Classifier = (*Engine)(nil)

func NewEngine(tables *Tables, oracle domain.Oracle) *Engine {
	return &Engine{
		normalizer: NewNormalizer(tables),
		scorer:     NewScorer(tables),
		negation:   NewNegationDetector(tables),
		oracle:     oracle,
	}
}

// Classify returns the sentiment of text. The only error it returns is
// domain.ErrInvalidInput; oracle failures degrade to NEUTRAL.
func (e *Engine) Classify(ctx context.Context, text string) (domain.ClassificationResult, error) {
	if utf8.RuneCountInString(strings.TrimSpace(text)) <= minTextRunes {
		return domain.ClassificationResult{}, domain.ErrInvalidInput
	}

	result := domain.ClassificationResult{Text: text}
	normalized := e.normalizer.NormalizeForLexicon(text)

	if e.negation.HasNegation(normalized) {
		result.Branch = domain.BranchNegation
		result.Sentiment, result.Source = e.askOracle(ctx, text, result.Branch)
		return e.done(ctx, result), nil
	}

	scores := e.scorer.Score(normalized)
	switch {
	case scores.Ambiguous():
		result.Branch = domain.BranchAmbiguous
		result.Sentiment, result.Source = e.askOracle(ctx, text, result.Branch)
	case scores.Negative > 0:
		result.Branch, result.Source, result.Sentiment = domain.BranchLexicon, domain.SourceLexicon, domain.Negative
	case scores.Positive > 0:
		result.Branch, result.Source, result.Sentiment = domain.BranchLexicon, domain.SourceLexicon, domain.Positive
	case scores.Neutral > 0:
		result.Branch, result.Source, result.Sentiment = domain.BranchLexicon, domain.SourceLexicon, domain.Neutral
	default:
		result.Branch = domain.BranchNoSignal
		result.Sentiment, result.Source = e.askOracle(ctx, text, result.Branch)
	}

	return e.done(ctx, result), nil
}

func (e *Engine) done(ctx context.Context, r domain.ClassificationResult) domain.ClassificationResult {
	slog.DebugContext(ctx, "Classified text", "branch", r.Branch, "source", r.Source, "sentiment", r.Sentiment)
	return r
}

func (e *Engine) askOracle(ctx context.Context, text string, branch domain.Branch) (domain.Sentiment, domain.Source) {
	if e.oracle == nil {
		return domain.Neutral, domain.SourceDefault
	}

	label, err := e.oracle.Classify(ctx, e.normalizer.NormalizeForOracle(text))
	if err != nil {
		if errors.Is(err, domain.ErrOracleUnavailable) {
			slog.DebugContext(ctx, "Oracle unavailable, defaulting to neutral", "branch", branch)
		} else {
			slog.WarnContext(ctx, "Oracle call failed, defaulting to neutral", "branch", branch, "error", err)
		}
		return domain.Neutral, domain.SourceDefault
	}

	parsed, err := domain.ParseSentiment(string(label))
	if err != nil {
		slog.WarnContext(ctx, "Oracle returned unknown label, defaulting to neutral", "branch", branch, "label", label)
		return domain.Neutral, domain.SourceDefault
	}
	return parsed, domain.SourceOracle
}

// OracleAvailable reports whether the engine runs in hybrid mode.
func (e *Engine) OracleAvailable() bool {
	return e.oracle != nil
}

// ModelInfo describes the active configuration. It is display-only.
func (e *Engine) ModelInfo() domain.ModelInfo {
	features := []string{
		"Accent-insensitive lexicon matching",
		"Abbreviation and teencode expansion",
		"Negation scope detection",
		"Ambiguity deferral",
	}
	if e.oracle == nil {
		return domain.ModelInfo{
			ModelName: ruleBasedModelName,
			Method:    "Preprocessing + Rule-based",
			Mode:      "rule-based",
			Features:  features,
		}
	}
	return domain.ModelInfo{
		ModelName:       hybridModelName,
		Method:          "Preprocessing + Rule-based + Transformer",
		Mode:            "hybrid",
		OracleAvailable: true,
		Features:        append(features, "Transformer fallback"),
	}
}
