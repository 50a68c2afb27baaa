package sentiment

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pscheid92/vnsentiment/internal/domain"
)

type mockOracle struct {
	classifyFn func(ctx context.Context, text string) (domain.Sentiment, error)

	mu    sync.Mutex
	calls []string
}

func (m *mockOracle) Classify(ctx context.Context, text string) (domain.Sentiment, error) {
	m.mu.Lock()
	m.calls = append(m.calls, text)
	m.mu.Unlock()
	if m.classifyFn != nil {
		return m.classifyFn(ctx, text)
	}
	return "", domain.ErrOracleUnavailable
}

func (m *mockOracle) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func returning(label domain.Sentiment) func(context.Context, string) (domain.Sentiment, error) {
	return func(context.Context, string) (domain.Sentiment, error) { return label, nil }
}

func newTestTables(t *testing.T) *Tables {
	t.Helper()
	tables, err := DefaultTables()
	require.NoError(t, err)
	return tables
}
