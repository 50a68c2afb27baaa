// Package memory provides a process-local history store used when no
// database is configured.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/pscheid92/vnsentiment/internal/domain"
)

// HistoryStore keeps records in insertion order. Records without a timestamp
// are stamped from the clock on Append.
type HistoryStore struct {
	mu      sync.RWMutex
	records []domain.HistoryRecord
	clock   clockwork.Clock
}

var _ domain.HistoryRepository = (*HistoryStore)(nil)

func NewHistoryStore(clock clockwork.Clock) *HistoryStore {
	return &HistoryStore{clock: clock}
}

func (s *HistoryStore) Append(_ context.Context, rec domain.HistoryRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.clock.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

// Recent returns up to limit records, newest first. Records with equal
// timestamps come back in reverse insertion order.
func (s *HistoryStore) Recent(_ context.Context, limit int) ([]domain.HistoryRecord, error) {
	s.mu.RLock()
	out := slices.Clone(s.records)
	s.mu.RUnlock()

	slices.Reverse(out)
	slices.SortStableFunc(out, func(a, b domain.HistoryRecord) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	if limit >= 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (s *HistoryStore) Clear(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := int64(len(s.records))
	s.records = nil
	return n, nil
}

func (s *HistoryStore) CountBySentiment(_ context.Context) (map[domain.Sentiment]int64, error) {
	counts := make(map[domain.Sentiment]int64, len(domain.Sentiments))
	for _, sentiment := range domain.Sentiments {
		counts[sentiment] = 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.records {
		counts[rec.Sentiment]++
	}
	return counts, nil
}
