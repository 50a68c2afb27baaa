package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pscheid92/vnsentiment/internal/domain"
)

// HistoryRepo implements domain.HistoryRepository on the sentiment_history table.
type HistoryRepo struct {
	pool *pgxpool.Pool
}

var _ domain.HistoryRepository = (*HistoryRepo)(nil)

func NewHistoryRepo(pool *pgxpool.Pool) *HistoryRepo {
	return &HistoryRepo{pool: pool}
}

func (r *HistoryRepo) Append(ctx context.Context, rec domain.HistoryRecord) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO sentiment_history (id, text, sentiment, created_at) VALUES ($1, $2, $3, $4)`,
		rec.ID, rec.Text, string(rec.Sentiment), rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert history record: %w", err)
	}
	return nil
}

func (r *HistoryRepo) Recent(ctx context.Context, limit int) ([]domain.HistoryRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, text, sentiment, created_at FROM sentiment_history
		 ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.HistoryRecord, error) {
		var rec domain.HistoryRecord
		var sentiment string
		if err := row.Scan(&rec.ID, &rec.Text, &sentiment, &rec.CreatedAt); err != nil {
			return rec, err
		}
		rec.Sentiment = domain.Sentiment(sentiment)
		return rec, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan history: %w", err)
	}
	return records, nil
}

func (r *HistoryRepo) Clear(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sentiment_history`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *HistoryRepo) CountBySentiment(ctx context.Context) (map[domain.Sentiment]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT sentiment, count(*) FROM sentiment_history GROUP BY sentiment`)
	if err != nil {
		return nil, fmt.Errorf("failed to count history: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.Sentiment]int64, len(domain.Sentiments))
	for _, s := range domain.Sentiments {
		counts[s] = 0
	}
	for rows.Next() {
		var sentiment string
		var n int64
		if err := rows.Scan(&sentiment, &n); err != nil {
			return nil, fmt.Errorf("failed to scan history count: %w", err)
		}
		counts[domain.Sentiment(sentiment)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to count history: %w", err)
	}
	return counts, nil
}
