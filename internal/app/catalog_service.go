package app

import (
	"context"
	"log/slog"

	"github.com/jsamuelsen/quoteboard/internal/domain"
	"github.com/jsamuelsen/quoteboard/internal/ports"
)

// SourceInput carries the editable fields of a source.
type SourceInput struct {
	Name string
	Kind string
}

// QuoteInput carries the editable fields of a quote.
// A nil Weight means "default" on create and "unchanged" on update.
type QuoteInput struct {
	Text     string
	SourceID int64
	Weight   *int
}

type quoteUpdate struct {
	ID    int64
	Input QuoteInput
}

type sourceUpdate struct {
	ID    int64
	Input SourceInput
}

// CatalogService administers sources, quotes and votes.
// Every write runs through the Executor so failures carry the step they
// happened in. Quote writes have no validate step: the repository checks
// the source limit, weight and text in that order inside its transaction.
type CatalogService struct {
	sources     ports.SourceRepository
	quotes      ports.QuoteRepository
	votes       ports.VoteRepository
	leaderboard *Leaderboard
	exec        *Executor
}

// CatalogServiceConfig contains configuration for the catalog service.
type CatalogServiceConfig struct {
	Sources     ports.SourceRepository
	Quotes      ports.QuoteRepository
	Votes       ports.VoteRepository
	Leaderboard *Leaderboard
	Logger      *slog.Logger
}

// NewCatalogService creates a catalog service.
func NewCatalogService(cfg CatalogServiceConfig) *CatalogService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	leaderboard := cfg.Leaderboard
	if leaderboard == nil {
		leaderboard = NewLeaderboard(LeaderboardConfig{Quotes: cfg.Quotes, Logger: logger})
	}

	return &CatalogService{
		sources:     cfg.Sources,
		quotes:      cfg.Quotes,
		votes:       cfg.Votes,
		leaderboard: leaderboard,
		exec:        NewExecutor(logger.With(slog.String("component", "catalog_service"))),
	}
}

// ListSources returns every source ordered by name.
func (s *CatalogService) ListSources(ctx context.Context) ([]domain.Source, error) {
	return s.sources.List(ctx)
}

// CreateSource adds a source.
func (s *CatalogService) CreateSource(ctx context.Context, in SourceInput) (*domain.Source, error) {
	return Execute(ctx, s.exec, Operation[SourceInput, int64, *domain.Source, *domain.Source]{
		Name: "create_source",
		Validate: func(_ context.Context, in SourceInput) error {
			src := newSource(0, in)
			return src.Validate()
		},
		Perform: func(ctx context.Context, in SourceInput) (int64, error) {
			src := newSource(0, in)
			if err := s.sources.Create(ctx, &src); err != nil {
				return 0, err
			}

			return src.ID, nil
		},
		Verify: func(ctx context.Context, _ SourceInput, id int64) (*domain.Source, error) {
			return s.sources.Get(ctx, id)
		},
		Respond: func(_ context.Context, _ SourceInput, src *domain.Source) (*domain.Source, error) {
			return src, nil
		},
	}, in)
}

// UpdateSource renames or reclassifies a source.
func (s *CatalogService) UpdateSource(ctx context.Context, id int64, in SourceInput) (*domain.Source, error) {
	return Execute(ctx, s.exec, Operation[sourceUpdate, int64, *domain.Source, *domain.Source]{
		Name: "update_source",
		Validate: func(_ context.Context, u sourceUpdate) error {
			src := newSource(u.ID, u.Input)
			return src.Validate()
		},
		Perform: func(ctx context.Context, u sourceUpdate) (int64, error) {
			src := newSource(u.ID, u.Input)
			return src.ID, s.sources.Update(ctx, &src)
		},
		Verify: func(ctx context.Context, _ sourceUpdate, id int64) (*domain.Source, error) {
			return s.sources.Get(ctx, id)
		},
		Respond: func(ctx context.Context, _ sourceUpdate, src *domain.Source) (*domain.Source, error) {
			s.leaderboard.Invalidate(ctx)
			return src, nil
		},
	}, sourceUpdate{ID: id, Input: in})
}

// DeleteSource removes a source together with its quotes and their votes.
func (s *CatalogService) DeleteSource(ctx context.Context, id int64) error {
	_, err := Execute(ctx, s.exec, Operation[int64, struct{}, struct{}, struct{}]{
		Name: "delete_source",
		Perform: func(ctx context.Context, id int64) (struct{}, error) {
			return struct{}{}, s.sources.Delete(ctx, id)
		},
		Respond: func(ctx context.Context, _ int64, _ struct{}) (struct{}, error) {
			s.leaderboard.Invalidate(ctx)
			return struct{}{}, nil
		},
	}, id)

	return err
}

// CreateQuote adds a quote, subject to the per-source limit.
func (s *CatalogService) CreateQuote(ctx context.Context, in QuoteInput) (*domain.QuoteStats, error) {
	return Execute(ctx, s.exec, Operation[QuoteInput, int64, *domain.QuoteStats, *domain.QuoteStats]{
		Name: "create_quote",
		Perform: func(ctx context.Context, in QuoteInput) (int64, error) {
			q := newQuote(0, in, domain.DefaultWeight)
			if err := s.quotes.Create(ctx, &q); err != nil {
				return 0, err
			}

			return q.ID, nil
		},
		Verify: func(ctx context.Context, _ QuoteInput, id int64) (*domain.QuoteStats, error) {
			return s.quotes.Get(ctx, id)
		},
		Respond: func(ctx context.Context, _ QuoteInput, q *domain.QuoteStats) (*domain.QuoteStats, error) {
			s.leaderboard.Invalidate(ctx)
			return q, nil
		},
	}, in)
}

// UpdateQuote rewrites a quote, subject to the per-source limit of the
// target source. A failed update leaves the stored quote unchanged.
func (s *CatalogService) UpdateQuote(ctx context.Context, id int64, in QuoteInput) (*domain.QuoteStats, error) {
	return Execute(ctx, s.exec, Operation[quoteUpdate, int64, *domain.QuoteStats, *domain.QuoteStats]{
		Name: "update_quote",
		Perform: func(ctx context.Context, u quoteUpdate) (int64, error) {
			weight := 0
			if u.Input.Weight == nil {
				existing, err := s.quotes.Get(ctx, u.ID)
				if err != nil {
					return 0, err
				}

				weight = existing.Weight
			}

			q := newQuote(u.ID, u.Input, weight)

			return q.ID, s.quotes.Update(ctx, &q)
		},
		Verify: func(ctx context.Context, _ quoteUpdate, id int64) (*domain.QuoteStats, error) {
			return s.quotes.Get(ctx, id)
		},
		Respond: func(ctx context.Context, _ quoteUpdate, q *domain.QuoteStats) (*domain.QuoteStats, error) {
			s.leaderboard.Invalidate(ctx)
			return q, nil
		},
	}, quoteUpdate{ID: id, Input: in})
}

// DeleteQuote removes a quote and its votes.
func (s *CatalogService) DeleteQuote(ctx context.Context, id int64) error {
	_, err := Execute(ctx, s.exec, Operation[int64, struct{}, struct{}, struct{}]{
		Name: "delete_quote",
		Perform: func(ctx context.Context, id int64) (struct{}, error) {
			return struct{}{}, s.quotes.Delete(ctx, id)
		},
		Respond: func(ctx context.Context, _ int64, _ struct{}) (struct{}, error) {
			s.leaderboard.Invalidate(ctx)
			return struct{}{}, nil
		},
	}, id)

	return err
}

// DeleteVote removes a single vote.
func (s *CatalogService) DeleteVote(ctx context.Context, id int64) error {
	_, err := Execute(ctx, s.exec, Operation[int64, struct{}, struct{}, struct{}]{
		Name: "delete_vote",
		Perform: func(ctx context.Context, id int64) (struct{}, error) {
			return struct{}{}, s.votes.Delete(ctx, id)
		},
		Respond: func(ctx context.Context, _ int64, _ struct{}) (struct{}, error) {
			s.leaderboard.Invalidate(ctx)
			return struct{}{}, nil
		},
	}, id)

	return err
}

func newSource(id int64, in SourceInput) domain.Source {
	src := domain.Source{ID: id, Name: in.Name, Kind: domain.SourceKind(in.Kind)}
	src.Normalize()

	return src
}

// newQuote builds a normalized quote; fallbackWeight applies when in.Weight is nil.
func newQuote(id int64, in QuoteInput, fallbackWeight int) domain.Quote {
	weight := fallbackWeight
	if in.Weight != nil {
		weight = *in.Weight
	}

	q := domain.Quote{ID: id, Text: in.Text, SourceID: in.SourceID, Weight: weight}
	q.Normalize()

	return q
}
