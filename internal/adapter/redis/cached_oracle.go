package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/singleflight"

	"github.com/pscheid92/vnsentiment/internal/adapter/metrics"
	"github.com/pscheid92/vnsentiment/internal/domain"
)

// keyPrefix is versioned so a change in normalization can invalidate old entries.
const keyPrefix = "oracle:v1:"

// CachedOracle is a read-through cache in front of another oracle. Only
// successful labels are cached. Redis failures are logged and bypassed, so the
// cache never turns a working oracle into a failing one.
type CachedOracle struct {
	rdb     goredis.Cmdable
	next    domain.Oracle
	ttl     time.Duration
	group   singleflight.Group
	metrics *metrics.CacheMetrics
}

var _ domain.Oracle = (*CachedOracle)(nil)

// NewCachedOracle wraps next. m may be nil.
func NewCachedOracle(rdb goredis.Cmdable, next domain.Oracle, ttl time.Duration, m *metrics.CacheMetrics) *CachedOracle {
	return &CachedOracle{rdb: rdb, next: next, ttl: ttl, metrics: m}
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return keyPrefix + hex.EncodeToString(sum[:])
}

func (o *CachedOracle) Classify(ctx context.Context, text string) (domain.Sentiment, error) {
	key := cacheKey(text)

	if label, ok := o.get(ctx, key); ok {
		if o.metrics != nil {
			o.metrics.Hits.Inc()
		}
		return label, nil
	}
	if o.metrics != nil {
		o.metrics.Misses.Inc()
	}

	// Identical concurrent lookups share one upstream call.
	v, err, _ := o.group.Do(key, func() (any, error) {
		label, err := o.next.Classify(ctx, text)
		if err != nil {
			return nil, err
		}
		o.set(ctx, key, label)
		return label, nil
	})
	if err != nil {
		return "", err
	}
	return v.(domain.Sentiment), nil
}

func (o *CachedOracle) get(ctx context.Context, key string) (domain.Sentiment, bool) {
	val, err := o.rdb.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false
	}
	if err != nil {
		o.bypass(ctx, "get", err)
		return "", false
	}

	label, err := domain.ParseSentiment(val)
	if err != nil {
		slog.WarnContext(ctx, "Ignoring corrupt oracle cache entry", "key", key, "value", val)
		return "", false
	}
	return label, true
}

func (o *CachedOracle) set(ctx context.Context, key string, label domain.Sentiment) {
	// The label is valid even if the caller has already gone away.
	ctx = context.WithoutCancel(ctx)
	if err := o.rdb.Set(ctx, key, string(label), o.ttl).Err(); err != nil {
		o.bypass(ctx, "set", err)
	}
}

func (o *CachedOracle) bypass(ctx context.Context, op string, err error) {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		slog.DebugContext(ctx, "Oracle cache circuit open, bypassing", "op", op)
	} else {
		slog.WarnContext(ctx, "Oracle cache unavailable, bypassing", "op", op, "error", err)
	}
	if o.metrics != nil {
		o.metrics.Errors.WithLabelValues(op).Inc()
	}
}
