// Package oracle is an HTTP client for a transformer text-classification
// endpoint in the Hugging Face inference format.
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/pscheid92/vnsentiment/internal/adapter/metrics"
	"github.com/pscheid92/vnsentiment/internal/domain"
	"github.com/pscheid92/vnsentiment/internal/platform/version"
)

const (
	maxResponseBytes = 1 << 20
	maxErrorBodyLen  = 512

	breakerMinRequests  = 5
	breakerFailureRatio = 0.6
	breakerInterval     = 60 * time.Second
	breakerOpenTimeout  = 30 * time.Second
)

// ErrMalformedResponse means the endpoint answered 2xx with a body that does
// not carry a recognizable label.
var ErrMalformedResponse = errors.New("malformed oracle response")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("oracle returned HTTP %d: %s", e.StatusCode, e.Body)
}

type Config struct {
	URL      string
	APIToken string
	Timeout  time.Duration
	// HTTPClient defaults to a client without its own timeout; Timeout bounds each call.
	HTTPClient *http.Client
}

// Client implements domain.Oracle. Calls are bounded by Config.Timeout and
// guarded by a circuit breaker; an open circuit reports domain.ErrOracleUnavailable.
type Client struct {
	url     string
	token   string
	timeout time.Duration
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	metrics *metrics.OracleMetrics
}

var _ domain.Oracle = (*Client)(nil)

// NewClient builds a client. m may be nil.
func NewClient(cfg Config, m *metrics.OracleMetrics) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("oracle URL is required")
	}
	if cfg.Timeout <= 0 {
		return nil, errors.New("oracle timeout must be positive")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	c := &Client{
		url:     cfg.URL,
		token:   cfg.APIToken,
		timeout: cfg.Timeout,
		http:    httpClient,
		metrics: m,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "oracle",
		MaxRequests: 1,
		Interval:    breakerInterval,
		Timeout:     breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < breakerMinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= breakerFailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed", "component", name, "from", from.String(), "to", to.String())
			if c.metrics != nil {
				c.metrics.CircuitState.Set(stateToFloat(to))
			}
		},
		IsSuccessful: func(err error) bool {
			// A caller giving up is not a sign the endpoint is unhealthy.
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
	return c, nil
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// State exposes the circuit breaker state.
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}

// Classify sends text to the endpoint and returns the top-scoring label.
func (c *Client) Classify(ctx context.Context, text string) (domain.Sentiment, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	res, err := c.breaker.Execute(func() (interface{}, error) {
		return c.call(ctx, text)
	})
	c.observe(err, time.Since(start))

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", fmt.Errorf("%w: %w", domain.ErrOracleUnavailable, err)
	}
	if err != nil {
		return "", err
	}
	return res.(domain.Sentiment), nil
}

func (c *Client) observe(err error, elapsed time.Duration) {
	if c.metrics == nil {
		return
	}
	outcome := "success"
	switch {
	case err == nil:
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		outcome = "circuit_open"
	case errors.Is(err, ErrMalformedResponse):
		outcome = "malformed"
	default:
		outcome = "error"
	}
	c.metrics.Requests.WithLabelValues(outcome).Inc()
	if outcome != "circuit_open" {
		c.metrics.RequestDuration.Observe(elapsed.Seconds())
	}
}

type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func (c *Client) call(ctx context.Context, text string) (domain.Sentiment, error) {
	body, err := json.Marshal(inferenceRequest{Inputs: text})
	if err != nil {
		return "", fmt.Errorf("failed to encode oracle request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create oracle request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("oracle request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen))
		return "", &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read oracle response: %w", err)
	}
	return parseResponse(raw)
}

// parseResponse accepts [{label,score}...] or [[{label,score}...]] and
// returns the label with the highest score.
func parseResponse(raw []byte) (domain.Sentiment, error) {
	var candidates []labelScore
	var nested [][]labelScore
	if err := json.Unmarshal(raw, &nested); err == nil && len(nested) > 0 {
		candidates = nested[0]
	} else if err := json.Unmarshal(raw, &candidates); err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: no labels", ErrMalformedResponse)
	}

	best := candidates[0]
	for _, cand := range candidates[1:] {
		if cand.Score > best.Score {
			best = cand
		}
	}

	label, ok := mapLabel(best.Label)
	if !ok {
		return "", fmt.Errorf("%w: unknown label %q", ErrMalformedResponse, best.Label)
	}
	return label, nil
}

// mapLabel accepts short, long and index-style names. Index order follows the
// PhoBERT sentiment head: 0=NEG, 1=POS, 2=NEU.
func mapLabel(label string) (domain.Sentiment, bool) {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "POS", "POSITIVE", "LABEL_1":
		return domain.Positive, true
	case "NEG", "NEGATIVE", "LABEL_0":
		return domain.Negative, true
	case "NEU", "NEUTRAL", "LABEL_2":
		return domain.Neutral, true
	}
	return "", false
}
