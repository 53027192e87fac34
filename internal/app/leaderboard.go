package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/jsamuelsen/quoteboard/internal/domain"
	"github.com/jsamuelsen/quoteboard/internal/platform/telemetry"
	"github.com/jsamuelsen/quoteboard/internal/ports"
)

// Leaderboard serves the top-N list, reading through an optional cache.
// Only the configured size is cached; other sizes always hit the store.
//
// A list read before an Invalidate in this process is never left in the
// cache. Invalidations from other instances sharing the cache are bounded by
// the TTL.
type Leaderboard struct {
	quotes ports.QuoteRepository
	cache  ports.Cache
	ttl    time.Duration
	size   int
	logger *slog.Logger

	// generation is bumped by every Invalidate.
	generation atomic.Uint64
}

// LeaderboardConfig contains the leaderboard's dependencies.
type LeaderboardConfig struct {
	Quotes ports.QuoteRepository
	Cache  ports.Cache // nil disables caching
	TTL    time.Duration
	Size   int
	Logger *slog.Logger
}

// NewLeaderboard creates a leaderboard.
func NewLeaderboard(cfg LeaderboardConfig) *Leaderboard {
	size := cfg.Size
	if size <= 0 {
		size = domain.DefaultTopSize
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Leaderboard{
		quotes: cfg.Quotes,
		cache:  cfg.Cache,
		ttl:    cfg.TTL,
		size:   size,
		logger: logger.With(slog.String("component", "leaderboard")),
	}
}

// Size returns the default leaderboard length.
func (l *Leaderboard) Size() int {
	return l.size
}

// Top returns the n most liked quotes. n <= 0 means the default size.
func (l *Leaderboard) Top(ctx context.Context, n int) ([]domain.QuoteStats, error) {
	if n <= 0 {
		n = l.size
	}

	if l.cache == nil || n != l.size {
		return l.quotes.Top(ctx, n)
	}

	key := l.key(n)

	if top, ok := l.cached(ctx, key); ok {
		return top, nil
	}

	gen := l.generation.Load()

	top, err := l.quotes.Top(ctx, n)
	if err != nil {
		return nil, err
	}

	l.store(ctx, key, gen, top)

	return top, nil
}

// store caches top unless an Invalidate ran since gen was read. An Invalidate
// racing the write itself is caught by the second check, which drops the
// entry again.
func (l *Leaderboard) store(ctx context.Context, key string, gen uint64, top []domain.QuoteStats) {
	if l.generation.Load() != gen {
		return
	}

	payload, err := json.Marshal(top)
	if err == nil {
		err = l.cache.Set(ctx, key, payload, l.ttl)
	}

	if err != nil {
		telemetry.LeaderboardCacheTotal.WithLabelValues("error").Inc()
		l.logger.WarnContext(ctx, "leaderboard cache write failed", slog.Any("error", err))

		return
	}

	if l.generation.Load() != gen {
		l.drop(ctx, key)
	}
}

func (l *Leaderboard) cached(ctx context.Context, key string) ([]domain.QuoteStats, bool) {
	payload, err := l.cache.Get(ctx, key)

	switch {
	case domain.IsNotFound(err):
		telemetry.LeaderboardCacheTotal.WithLabelValues("miss").Inc()
		return nil, false
	case err != nil:
		telemetry.LeaderboardCacheTotal.WithLabelValues("error").Inc()
		l.logger.WarnContext(ctx, "leaderboard cache read failed", slog.Any("error", err))

		return nil, false
	}

	var top []domain.QuoteStats
	if err := json.Unmarshal(payload, &top); err != nil {
		telemetry.LeaderboardCacheTotal.WithLabelValues("error").Inc()
		l.logger.WarnContext(ctx, "discarding unreadable leaderboard entry", slog.Any("error", err))

		return nil, false
	}

	telemetry.LeaderboardCacheTotal.WithLabelValues("hit").Inc()

	return top, true
}

// Invalidate drops the cached list. Failures are logged, not returned:
// the entry expires on its own after the TTL.
func (l *Leaderboard) Invalidate(ctx context.Context) {
	if l.cache == nil {
		return
	}

	l.generation.Add(1)
	l.drop(ctx, l.key(l.size))
}

func (l *Leaderboard) drop(ctx context.Context, key string) {
	if err := l.cache.Delete(ctx, key); err != nil {
		telemetry.LeaderboardCacheTotal.WithLabelValues("error").Inc()
		l.logger.WarnContext(ctx, "leaderboard invalidation failed", slog.Any("error", err))
	}
}

func (l *Leaderboard) key(n int) string {
	return "top:" + strconv.Itoa(n)
}
