// Package app contains application services that orchestrate use cases.
package app

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"github.com/jsamuelsen/quoteboard/internal/domain"
	"github.com/jsamuelsen/quoteboard/internal/platform/telemetry"
	"github.com/jsamuelsen/quoteboard/internal/ports"
)

// MaxPageSize bounds any list page.
const MaxPageSize = 100

// PageRequest selects a window of a list. Limit <= 0 means the default size.
type PageRequest struct {
	Offset int
	Limit  int
}

// QuotePage is one window of a list plus where the next one starts.
type QuotePage struct {
	Items      []domain.QuoteStats
	Offset     int
	Limit      int
	NextOffset int
	HasMore    bool
}

// ListResult is what the main list view shows: a page and the leaderboard.
type ListResult struct {
	Page QuotePage
	Top  []domain.QuoteStats
}

// QuoteService serves the read side of the board and records views.
// It depends on port interfaces, not concrete implementations.
type QuoteService struct {
	quotes      ports.QuoteRepository
	leaderboard *Leaderboard
	pageSize    int
	intn        func(int64) int64
	logger      *slog.Logger
}

// QuoteServiceConfig contains configuration for the quote service.
type QuoteServiceConfig struct {
	Quotes      ports.QuoteRepository
	Leaderboard *Leaderboard
	PageSize    int
	// Intn returns a uniform value in [0, n). Defaults to math/rand/v2.
	Intn   func(n int64) int64
	Logger *slog.Logger
}

// NewQuoteService creates a new quote service with the provided dependencies.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	intn := cfg.Intn
	if intn == nil {
		intn = rand.Int64N
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	leaderboard := cfg.Leaderboard
	if leaderboard == nil {
		leaderboard = NewLeaderboard(LeaderboardConfig{Quotes: cfg.Quotes, Logger: logger})
	}

	return &QuoteService{
		quotes:      cfg.Quotes,
		leaderboard: leaderboard,
		pageSize:    pageSizeOrDefault(cfg.PageSize),
		intn:        intn,
		logger:      logger.With(slog.String("component", "quote_service")),
	}
}

// List returns one page of the filtered list together with the leaderboard,
// fetched concurrently.
func (s *QuoteService) List(ctx context.Context, filter domain.ListFilter, page PageRequest) (*ListResult, error) {
	query := listQuery(filter, domain.ListScope{}, page, s.pageSize)

	items, top, err := Parallel2(ctx,
		func(ctx context.Context) ([]domain.QuoteStats, error) { return s.quotes.List(ctx, query) },
		func(ctx context.Context) ([]domain.QuoteStats, error) { return s.leaderboard.Top(ctx, 0) },
	)
	if err != nil {
		return nil, err
	}

	return &ListResult{Page: newQuotePage(query, items), Top: top}, nil
}

// Top returns the n most liked quotes; n <= 0 means the configured default.
func (s *QuoteService) Top(ctx context.Context, n int) ([]domain.QuoteStats, error) {
	if n > MaxPageSize {
		n = MaxPageSize
	}

	return s.leaderboard.Top(ctx, n)
}

// Random picks one quote with probability proportional to its weight.
// It returns nil, nil when there are no quotes.
func (s *QuoteService) Random(ctx context.Context) (*domain.QuoteStats, error) {
	weights, err := s.quotes.Weights(ctx)
	if err != nil {
		return nil, err
	}

	id, ok := domain.PickWeighted(weights, s.intn)
	if !ok {
		return nil, nil
	}

	return s.quotes.Get(ctx, id)
}

// Get returns one quote with its counts.
func (s *QuoteService) Get(ctx context.Context, id int64) (*domain.QuoteStats, error) {
	return s.quotes.Get(ctx, id)
}

// RecordView adds one view and returns the new total.
func (s *QuoteService) RecordView(ctx context.Context, id int64) (int64, error) {
	views, err := s.quotes.IncrementViews(ctx, id)
	if err != nil {
		return 0, err
	}

	telemetry.ViewsTotal.Inc()
	s.logger.DebugContext(ctx, "view recorded", slog.Int64("quote_id", id), slog.Int64("views", views))

	return views, nil
}

func pageSizeOrDefault(size int) int {
	if size <= 0 {
		return 20
	}

	return min(size, MaxPageSize)
}

// listQuery asks for one row more than the page so the caller can tell
// whether another page exists.
func listQuery(filter domain.ListFilter, scope domain.ListScope, page PageRequest, defaultSize int) domain.ListQuery {
	limit := page.Limit
	if limit <= 0 {
		limit = defaultSize
	}

	limit = min(limit, MaxPageSize)

	return domain.ListQuery{
		Filter: filter.Normalized(),
		Scope:  scope,
		Offset: max(page.Offset, 0),
		Limit:  limit + 1,
	}
}

func newQuotePage(query domain.ListQuery, items []domain.QuoteStats) QuotePage {
	limit := query.Limit - 1
	page := QuotePage{Offset: query.Offset, Limit: limit}

	if len(items) > limit {
		items = items[:limit]
		page.HasMore = true
	}

	page.Items = items
	page.NextOffset = query.Offset + len(items)

	return page
}
