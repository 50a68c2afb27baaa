package app

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pscheid92/vnsentiment/internal/adapter/metrics"
	"github.com/pscheid92/vnsentiment/internal/domain"
)

// --- Mock implementations ---

type mockClassifier struct {
	classifyFn  func(ctx context.Context, text string) (domain.ClassificationResult, error)
	modelInfoFn func() domain.ModelInfo
}

func (m *mockClassifier) Classify(ctx context.Context, text string) (domain.ClassificationResult, error) {
	if m.classifyFn != nil {
		return m.classifyFn(ctx, text)
	}
	return domain.ClassificationResult{Text: text, Sentiment: domain.Neutral}, nil
}

func (m *mockClassifier) ModelInfo() domain.ModelInfo {
	if m.modelInfoFn != nil {
		return m.modelInfoFn()
	}
	return domain.ModelInfo{}
}

type mockHistoryRepo struct {
	appendFn           func(ctx context.Context, rec domain.HistoryRecord) error
	recentFn           func(ctx context.Context, limit int) ([]domain.HistoryRecord, error)
	clearFn            func(ctx context.Context) (int64, error)
	countBySentimentFn func(ctx context.Context) (map[domain.Sentiment]int64, error)
}

func (m *mockHistoryRepo) Append(ctx context.Context, rec domain.HistoryRecord) error {
	if m.appendFn != nil {
		return m.appendFn(ctx, rec)
	}
	return nil
}

func (m *mockHistoryRepo) Recent(ctx context.Context, limit int) ([]domain.HistoryRecord, error) {
	if m.recentFn != nil {
		return m.recentFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockHistoryRepo) Clear(ctx context.Context) (int64, error) {
	if m.clearFn != nil {
		return m.clearFn(ctx)
	}
	return 0, nil
}

func (m *mockHistoryRepo) CountBySentiment(ctx context.Context) (map[domain.Sentiment]int64, error) {
	if m.countBySentimentFn != nil {
		return m.countBySentimentFn(ctx)
	}
	return nil, fmt.Errorf("not implemented")
}

var testLimits = HistoryLimits{Default: 20, Max: 200}

// --- Classify ---

func TestClassify_RecordsHistory(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC))
	classifier := &mockClassifier{
		classifyFn: func(_ context.Context, text string) (domain.ClassificationResult, error) {
			return domain.ClassificationResult{
				Text:      text,
				Sentiment: domain.Positive,
				Source:    domain.SourceLexicon,
				Branch:    domain.BranchLexicon,
			}, nil
		},
	}

	var saved []domain.HistoryRecord
	history := &mockHistoryRepo{
		appendFn: func(_ context.Context, rec domain.HistoryRecord) error {
			saved = append(saved, rec)
			return nil
		},
	}

	reg := prometheus.NewRegistry()
	m := metrics.NewClassifierMetrics(reg)
	svc := NewService(classifier, history, clock, testLimits, m)

	result, err := svc.Classify(context.Background(), "Sản phẩm rất tốt")
	require.NoError(t, err)
	assert.Equal(t, domain.Positive, result.Sentiment)
	assert.Equal(t, "Sản phẩm rất tốt", result.Text)

	require.Len(t, saved, 1)
	assert.Equal(t, "Sản phẩm rất tốt", saved[0].Text)
	assert.Equal(t, domain.Positive, saved[0].Sentiment)
	assert.Equal(t, clock.Now(), saved[0].CreatedAt)
	assert.NotZero(t, saved[0].ID)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Decisions.WithLabelValues("lexicon", "lexicon", "POSITIVE")))
}

func TestClassify_InvalidInputNotRecorded(t *testing.T) {
	classifier := &mockClassifier{
		classifyFn: func(context.Context, string) (domain.ClassificationResult, error) {
			return domain.ClassificationResult{}, domain.ErrInvalidInput
		},
	}
	history := &mockHistoryRepo{
		appendFn: func(context.Context, domain.HistoryRecord) error {
			t.Fatal("invalid input must not be recorded")
			return nil
		},
	}

	m := metrics.NewClassifierMetrics(prometheus.NewRegistry())
	svc := NewService(classifier, history, clockwork.NewFakeClock(), testLimits, m)

	_, err := svc.Classify(context.Background(), "abc")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InvalidInputs))
}

func TestClassify_HistoryFailureDoesNotFail(t *testing.T) {
	history := &mockHistoryRepo{
		appendFn: func(context.Context, domain.HistoryRecord) error {
			return errors.New("db down")
		},
	}

	m := metrics.NewClassifierMetrics(prometheus.NewRegistry())
	svc := NewService(&mockClassifier{}, history, clockwork.NewFakeClock(), testLimits, m)

	result, err := svc.Classify(context.Background(), "giao hàng đúng hẹn")
	require.NoError(t, err)
	assert.Equal(t, domain.Neutral, result.Sentiment)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HistoryErrors))
}

func TestClassify_HistorySurvivesCancellation(t *testing.T) {
	var appendErr error
	history := &mockHistoryRepo{
		appendFn: func(ctx context.Context, _ domain.HistoryRecord) error {
			appendErr = ctx.Err()
			return nil
		},
	}
	classifier := &mockClassifier{
		classifyFn: func(_ context.Context, text string) (domain.ClassificationResult, error) {
			return domain.ClassificationResult{Text: text, Sentiment: domain.Negative}, nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	svc := NewService(classifier, history, clockwork.NewFakeClock(), testLimits, nil)

	cancel()
	_, err := svc.Classify(ctx, "thất vọng quá")
	require.NoError(t, err)
	assert.NoError(t, appendErr)
}

func TestClassify_UnexpectedErrorWrapped(t *testing.T) {
	boom := errors.New("boom")
	classifier := &mockClassifier{
		classifyFn: func(context.Context, string) (domain.ClassificationResult, error) {
			return domain.ClassificationResult{}, boom
		},
	}

	svc := NewService(classifier, &mockHistoryRepo{}, clockwork.NewFakeClock(), testLimits, nil)

	_, err := svc.Classify(context.Background(), "văn bản bất kỳ")
	require.ErrorIs(t, err, boom)
}

// --- History ---

func TestHistory_LimitClamping(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		want      int
	}{
		{"zero uses default", 0, 20},
		{"negative uses default", -5, 20},
		{"within bounds", 50, 50},
		{"above max is clamped", 1000, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got int
			history := &mockHistoryRepo{
				recentFn: func(_ context.Context, limit int) ([]domain.HistoryRecord, error) {
					got = limit
					return nil, nil
				},
			}

			svc := NewService(&mockClassifier{}, history, clockwork.NewFakeClock(), testLimits, nil)
			records, err := svc.History(context.Background(), tt.requested)
			require.NoError(t, err)
			assert.NotNil(t, records)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHistory_Error(t *testing.T) {
	history := &mockHistoryRepo{
		recentFn: func(context.Context, int) ([]domain.HistoryRecord, error) {
			return nil, errors.New("db down")
		},
	}

	svc := NewService(&mockClassifier{}, history, clockwork.NewFakeClock(), testLimits, nil)
	_, err := svc.History(context.Background(), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load history")
}

func TestClearHistory(t *testing.T) {
	history := &mockHistoryRepo{
		clearFn: func(context.Context) (int64, error) { return 7, nil },
	}

	svc := NewService(&mockClassifier{}, history, clockwork.NewFakeClock(), testLimits, nil)
	n, err := svc.ClearHistory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
}

func TestStats_FillsMissingLabels(t *testing.T) {
	history := &mockHistoryRepo{
		countBySentimentFn: func(context.Context) (map[domain.Sentiment]int64, error) {
			return map[domain.Sentiment]int64{domain.Negative: 4}, nil
		},
	}

	svc := NewService(&mockClassifier{}, history, clockwork.NewFakeClock(), testLimits, nil)
	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[domain.Sentiment]int64{
		domain.Positive: 0,
		domain.Negative: 4,
		domain.Neutral:  0,
	}, stats)
}

func TestModelInfo_Delegates(t *testing.T) {
	classifier := &mockClassifier{
		modelInfoFn: func() domain.ModelInfo {
			return domain.ModelInfo{ModelName: "Rule-based only", Mode: "rule-based"}
		},
	}

	svc := NewService(classifier, &mockHistoryRepo{}, clockwork.NewFakeClock(), testLimits, nil)
	assert.Equal(t, "rule-based", svc.ModelInfo().Mode)
}
