package httpserver

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pscheid92/vnsentiment/internal/domain"
	"github.com/pscheid92/vnsentiment/internal/platform/config"
)

// --- Mock implementations ---

type mockAppService struct {
	classifyFn     func(ctx context.Context, text string) (domain.ClassificationResult, error)
	modelInfoFn    func() domain.ModelInfo
	historyFn      func(ctx context.Context, limit int) ([]domain.HistoryRecord, error)
	clearHistoryFn func(ctx context.Context) (int64, error)
	statsFn        func(ctx context.Context) (map[domain.Sentiment]int64, error)
}

func (m *mockAppService) Classify(ctx context.Context, text string) (domain.ClassificationResult, error) {
	if m.classifyFn != nil {
		return m.classifyFn(ctx, text)
	}
	return domain.ClassificationResult{Text: text, Sentiment: domain.Neutral}, nil
}

func (m *mockAppService) ModelInfo() domain.ModelInfo {
	if m.modelInfoFn != nil {
		return m.modelInfoFn()
	}
	return domain.ModelInfo{ModelName: "Rule-based only", Mode: "rule-based"}
}

func (m *mockAppService) History(ctx context.Context, limit int) ([]domain.HistoryRecord, error) {
	if m.historyFn != nil {
		return m.historyFn(ctx, limit)
	}
	return []domain.HistoryRecord{}, nil
}

func (m *mockAppService) ClearHistory(ctx context.Context) (int64, error) {
	if m.clearHistoryFn != nil {
		return m.clearHistoryFn(ctx)
	}
	return 0, nil
}

func (m *mockAppService) Stats(ctx context.Context) (map[domain.Sentiment]int64, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx)
	}
	return nil, errors.New("not implemented")
}

// --- Test helpers ---

func newTestServer(t *testing.T, app appService, opts ...func(*Server)) *Server {
	t.Helper()

	srv := &Server{
		echo: echo.New(),
		config: &config.Config{
			Port:              "0",
			ClassifyRateLimit: 100,
			ClassifyRateBurst: 100,
		},
		app:       app,
		startTime: time.Now(),
	}

	for _, opt := range opts {
		opt(srv)
	}

	srv.registerRoutes()

	return srv
}

func withHealthChecks(checks ...HealthCheck) func(*Server) {
	return func(s *Server) {
		s.healthChecks = checks
	}
}

func withRateLimit(ratePerSecond float64, burst int) func(*Server) {
	return func(s *Server) {
		s.config.ClassifyRateLimit = ratePerSecond
		s.config.ClassifyRateBurst = burst
	}
}

func withMetricsHandler(h http.Handler) func(*Server) {
	return func(s *Server) {
		s.metricsHandler = h
	}
}

// callHandler wraps a handler with error middleware, matching production behavior
func callHandler(handler echo.HandlerFunc, c echo.Context) error {
	return ErrorHandlingMiddleware()(handler)(c)
}
