package redis

import (
	"context"
	"sync/atomic"

	"github.com/pscheid92/vnsentiment/internal/domain"
)

type mockOracle struct {
	classifyFn func(ctx context.Context, text string) (domain.Sentiment, error)
	calls      atomic.Int32
}

func (m *mockOracle) Classify(ctx context.Context, text string) (domain.Sentiment, error) {
	m.calls.Add(1)
	if m.classifyFn != nil {
		return m.classifyFn(ctx, text)
	}
	return domain.Neutral, nil
}
