package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/pscheid92/vnsentiment/internal/adapter/metrics"
	"github.com/pscheid92/vnsentiment/internal/domain"
)

// HistoryLimits bounds the page size of History. Default applies when the caller
// passes a non-positive limit; Max caps any larger request.
type HistoryLimits struct {
	Default int
	Max     int
}

// Service orchestrates classification and the history log around it.
type Service struct {
	classifier domain.Classifier
	history    domain.HistoryRepository
	clock      clockwork.Clock
	limits     HistoryLimits
	metrics    *metrics.ClassifierMetrics
}

// NewService creates the application layer service. m may be nil.
func NewService(classifier domain.Classifier, history domain.HistoryRepository, clock clockwork.Clock, limits HistoryLimits, m *metrics.ClassifierMetrics) *Service {
	return &Service{
		classifier: classifier,
		history:    history,
		clock:      clock,
		limits:     limits,
		metrics:    m,
	}
}

// Classify labels text and records the outcome in the history log.
// Invalid input is returned as domain.ErrInvalidInput and never recorded.
// A failed history write is logged and does not fail the classification.
func (s *Service) Classify(ctx context.Context, text string) (domain.ClassificationResult, error) {
	result, err := s.classifier.Classify(ctx, text)
	if errors.Is(err, domain.ErrInvalidInput) {
		s.metrics.ObserveInvalidInput()
		return domain.ClassificationResult{}, err
	}
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("failed to classify text: %w", err)
	}

	s.metrics.ObserveDecision(result)

	record := domain.HistoryRecord{
		ID:        uuid.New(),
		Text:      result.Text,
		Sentiment: result.Sentiment,
		CreatedAt: s.clock.Now(),
	}
	if err := s.history.Append(context.WithoutCancel(ctx), record); err != nil {
		s.metrics.ObserveHistoryError()
		slog.ErrorContext(ctx, "Failed to save classification history", "error", err, "record_id", record.ID)
	}

	return result, nil
}

// History returns the most recent records, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]domain.HistoryRecord, error) {
	records, err := s.history.Recent(ctx, s.clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	if records == nil {
		records = []domain.HistoryRecord{}
	}
	return records, nil
}

func (s *Service) clampLimit(limit int) int {
	if limit <= 0 {
		return s.limits.Default
	}
	return min(limit, s.limits.Max)
}

// ClearHistory deletes every record and reports how many were removed.
func (s *Service) ClearHistory(ctx context.Context) (int64, error) {
	n, err := s.history.Clear(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	slog.Info("History cleared", "deleted", n)
	return n, nil
}

// Stats counts records per label. All three labels are present in the result.
func (s *Service) Stats(ctx context.Context) (map[domain.Sentiment]int64, error) {
	counts, err := s.history.CountBySentiment(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count history: %w", err)
	}

	stats := make(map[domain.Sentiment]int64, len(domain.Sentiments))
	for _, sentiment := range domain.Sentiments {
		stats[sentiment] = counts[sentiment]
	}
	return stats, nil
}

func (s *Service) ModelInfo() domain.ModelInfo {
	return s.classifier.ModelInfo()
}
