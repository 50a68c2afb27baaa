package sentiment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pscheid92/vnsentiment/internal/domain"
)

func TestEngine_Scenarios_OracleUnavailable(t *testing.T) {
	oracle := &mockOracle{}
	engine := NewEngine(newTestTables(t), oracle)

	tests := []struct {
		name       string
		text       string
		want       domain.Sentiment
		wantBranch domain.Branch
		wantSource domain.Source
	}{
		{"plain positive", "Hôm nay tôi rất vui", domain.Positive, domain.BranchLexicon, domain.SourceLexicon},
		{"plain negative", "Phim này dở quá", domain.Negative, domain.BranchLexicon, domain.SourceLexicon},
		{"negated positive", "Tôi không vui", domain.Neutral, domain.BranchNegation, domain.SourceDefault},
		{"mixed polarity", "Vui nhưng rớt môn", domain.Neutral, domain.BranchAmbiguous, domain.SourceDefault},
		{"no signal", "abcd", domain.Neutral, domain.BranchNoSignal, domain.SourceDefault},
		{"abbreviated negation", "Phim chán quá, k hay", domain.Neutral, domain.BranchNegation, domain.SourceDefault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.Classify(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.text, got.Text)
			assert.Equal(t, tt.want, got.Sentiment)
			assert.Equal(t, tt.wantBranch, got.Branch)
			assert.Equal(t, tt.wantSource, got.Source)
		})
	}
}

func TestEngine_InvalidLength(t *testing.T) {
	oracle := &mockOracle{}
	engine := NewEngine(newTestTables(t), oracle)

	for _, text := range []string{"", "ok", "   ", "  abc  ", "vui", "đẹp"} {
		t.Run(fmt.Sprintf("%q", text), func(t *testing.T) {
			_, err := engine.Classify(context.Background(), text)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Empty(t, oracle.Calls())
}

func TestEngine_LengthBoundary(t *testing.T) {
	engine := NewEngine(newTestTables(t), nil)

	got, err := engine.Classify(context.Background(), "abcd")
	require.NoError(t, err)
	assert.Equal(t, domain.Neutral, got.Sentiment)

	// Four runes, more than four bytes.
	got, err = engine.Classify(context.Background(), "  vui! ")
	require.NoError(t, err)
	assert.Equal(t, domain.Positive, got.Sentiment)
	assert.Equal(t, "  vui! ", got.Text)
}

func TestEngine_NegationTakesPrecedence(t *testing.T) {
	oracle := &mockOracle{classifyFn: returning(domain.Negative)}
	engine := NewEngine(newTestTables(t), oracle)

	got, err := engine.Classify(context.Background(), "Tôi không thích phim này")
	require.NoError(t, err)

	assert.Equal(t, domain.Negative, got.Sentiment)
	assert.Equal(t, domain.BranchNegation, got.Branch)
	assert.Equal(t, domain.SourceOracle, got.Source)
	assert.Equal(t, []string{"tôi không thích phim này"}, oracle.Calls())
}

func TestEngine_NegatedCompoundSkipsLexicon(t *testing.T) {
	engine := NewEngine(newTestTables(t), nil)

	for _, text := range []string{"Tôi không hài lòng", "Dự án không thành công", "Họ không hạnh phúc"} {
		t.Run(text, func(t *testing.T) {
			got, err := engine.Classify(context.Background(), text)
			require.NoError(t, err)

			assert.Equal(t, domain.Neutral, got.Sentiment)
			assert.Equal(t, domain.BranchNegation, got.Branch)
		})
	}
}

func TestEngine_OracleLabelIsCanonicalized(t *testing.T) {
	tests := []struct {
		name  string
		label domain.Sentiment
		want  domain.Sentiment
	}{
		{"lowercase", "positive", domain.Positive},
		{"mixed case", "Negative", domain.Negative},
		{"surrounding whitespace", " NEUTRAL\n", domain.Neutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine(newTestTables(t), &mockOracle{classifyFn: returning(tt.label)})

			got, err := engine.Classify(context.Background(), "Tôi không vui")
			require.NoError(t, err)

			assert.Equal(t, tt.want, got.Sentiment)
			assert.Equal(t, domain.SourceOracle, got.Source)
		})
	}
}

func TestEngine_OracleReceivesLightNormalization(t *testing.T) {
	oracle := &mockOracle{classifyFn: returning(domain.Negative)}
	engine := NewEngine(newTestTables(t), oracle)

	_, err := engine.Classify(context.Background(), "Phim chán quá, K hay!")
	require.NoError(t, err)

	assert.Equal(t, []string{"phim chán quá, không hay!"}, oracle.Calls())
}

func TestEngine_AmbiguousDefersToOracle(t *testing.T) {
	oracle := &mockOracle{classifyFn: returning(domain.Positive)}
	engine := NewEngine(newTestTables(t), oracle)

	got, err := engine.Classify(context.Background(), "vui nhưng rớt môn")
	require.NoError(t, err)

	assert.Equal(t, domain.Positive, got.Sentiment)
	assert.Equal(t, domain.BranchAmbiguous, got.Branch)
	assert.Len(t, oracle.Calls(), 1)
}

func TestEngine_LexiconBranchSkipsOracle(t *testing.T) {
	oracle := &mockOracle{classifyFn: returning(domain.Negative)}
	engine := NewEngine(newTestTables(t), oracle)

	for _, text := range []string{"Hôm nay tôi rất vui", "Tôi buồn vì thất bại", "Thời tiết bình thường"} {
		_, err := engine.Classify(context.Background(), text)
		require.NoError(t, err)
	}
	assert.Empty(t, oracle.Calls())
}

func TestEngine_NegativeBeatsNeutral(t *testing.T) {
	engine := NewEngine(newTestTables(t), nil)

	got, err := engine.Classify(context.Background(), "Mệt mỏi quá hôm nay")
	require.NoError(t, err)
	assert.Equal(t, domain.Negative, got.Sentiment)
}

func TestEngine_OracleFailuresDegradeToNeutral(t *testing.T) {
	tests := []struct {
		name string
		fn   func(context.Context, string) (domain.Sentiment, error)
	}{
		{"unavailable", func(context.Context, string) (domain.Sentiment, error) { return "", domain.ErrOracleUnavailable }},
		{"call failure", func(context.Context, string) (domain.Sentiment, error) { return "", errors.New("502 bad gateway") }},
		{"unknown label", returning(domain.Sentiment("MIXED"))},
		{"cancelled", func(ctx context.Context, _ string) (domain.Sentiment, error) { return "", ctx.Err() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine(newTestTables(t), &mockOracle{classifyFn: tt.fn})

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			got, err := engine.Classify(ctx, "xin chào các bạn")
			require.NoError(t, err)
			assert.Equal(t, domain.Neutral, got.Sentiment)
			assert.Equal(t, domain.SourceDefault, got.Source)
		})
	}
}

func TestEngine_RuleBasedMode(t *testing.T) {
	engine := NewEngine(newTestTables(t), nil)

	assert.False(t, engine.OracleAvailable())
	info := engine.ModelInfo()
	assert.Equal(t, "Rule-based only", info.ModelName)
	assert.Equal(t, "rule-based", info.Mode)
	assert.False(t, info.OracleAvailable)
	assert.NotContains(t, info.Features, "Transformer fallback")

	got, err := engine.Classify(context.Background(), "Tôi không vui")
	require.NoError(t, err)
	assert.Equal(t, domain.Neutral, got.Sentiment)
	assert.Equal(t, domain.SourceDefault, got.Source)
}

func TestEngine_HybridModelInfo(t *testing.T) {
	engine := NewEngine(newTestTables(t), &mockOracle{})

	info := engine.ModelInfo()
	assert.Equal(t, "Hybrid: Preprocessing + Rule-based + PhoBERT", info.ModelName)
	assert.Equal(t, "hybrid", info.Mode)
	assert.True(t, info.OracleAvailable)
	assert.Contains(t, info.Features, "Transformer fallback")
}

// Acceptance sentences; at least 65% must be right without any oracle.
func TestEngine_RegressionAccuracy(t *testing.T) {
	engine := NewEngine(newTestTables(t), nil)

	cases := []struct {
		text string
		want domain.Sentiment
	}{
		{"Hôm nay tôi rất vui", domain.Positive},
		{"Món ăn này dở quá", domain.Negative},
		{"Thời tiết bình thường", domain.Neutral},
		{"Rất vui hôm nay", domain.Positive},
		{"Công việc ổn định", domain.Neutral},
		{"Phim này hay lắm", domain.Positive},
		{"Tôi buồn vì thất bại", domain.Negative},
		{"Ngày mai đi học", domain.Neutral},
		{"Cảm ơn bạn rất nhiều", domain.Positive},
		{"Mệt mỏi quá hôm nay", domain.Negative},
	}

	correct := 0
	for _, tc := range cases {
		got, err := engine.Classify(context.Background(), tc.text)
		require.NoError(t, err, tc.text)
		if assert.Equal(t, tc.want, got.Sentiment, tc.text) {
			correct++
		}
	}

	accuracy := float64(correct) / float64(len(cases))
	assert.GreaterOrEqual(t, accuracy, 0.65)
}

func TestEngine_ConcurrentUse(t *testing.T) {
	oracle := &mockOracle{classifyFn: returning(domain.Negative)}
	engine := NewEngine(newTestTables(t), oracle)

	texts := []string{"Hôm nay tôi rất vui", "Tôi không vui", "Vui nhưng rớt môn", "abcd"}
	want := []domain.Sentiment{domain.Positive, domain.Negative, domain.Negative, domain.Negative}

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := engine.Classify(context.Background(), texts[i%len(texts)])
			assert.NoError(t, err)
			assert.Equal(t, want[i%len(texts)], got.Sentiment)
		}()
	}
	wg.Wait()

	// Every text except the lexicon-positive one reaches the oracle.
	assert.Len(t, oracle.Calls(), 37)
}
