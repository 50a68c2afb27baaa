package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// HistoryRecord is one completed classification.
type HistoryRecord struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	Sentiment Sentiment `json:"sentiment"`
	CreatedAt time.Time `json:"timestamp"`
}

// HistoryRepository is an append-only log of classifications.
type HistoryRepository interface {
	Append(ctx context.Context, record HistoryRecord) error
	// Recent returns at most limit records, newest first.
	Recent(ctx context.Context, limit int) ([]HistoryRecord, error)
	// Clear deletes all records and returns how many were removed.
	Clear(ctx context.Context) (int64, error)
	CountBySentiment(ctx context.Context) (map[Sentiment]int64, error)
}
