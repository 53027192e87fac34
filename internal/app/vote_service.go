package app

import (
	"context"
	"log/slog"
	"strings"

	appctx "github.com/jsamuelsen/quoteboard/internal/app/context"
	"github.com/jsamuelsen/quoteboard/internal/domain"
	"github.com/jsamuelsen/quoteboard/internal/platform/telemetry"
	"github.com/jsamuelsen/quoteboard/internal/ports"
)

// VoteService records votes and serves the per-user views.
type VoteService struct {
	votes       ports.VoteRepository
	quotes      ports.QuoteRepository
	users       ports.UserRepository
	leaderboard *Leaderboard
	pageSize    int
	logger      *slog.Logger
}

// VoteServiceConfig contains configuration for the vote service.
type VoteServiceConfig struct {
	Votes       ports.VoteRepository
	Quotes      ports.QuoteRepository
	Users       ports.UserRepository
	Leaderboard *Leaderboard
	PageSize    int
	Logger      *slog.Logger
}

// NewVoteService creates a vote service.
func NewVoteService(cfg VoteServiceConfig) *VoteService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	leaderboard := cfg.Leaderboard
	if leaderboard == nil {
		leaderboard = NewLeaderboard(LeaderboardConfig{Quotes: cfg.Quotes, Logger: logger})
	}

	return &VoteService{
		votes:       cfg.Votes,
		quotes:      cfg.Quotes,
		users:       cfg.Users,
		leaderboard: leaderboard,
		pageSize:    pageSizeOrDefault(cfg.PageSize),
		logger:      logger.With(slog.String("component", "vote_service")),
	}
}

// SetVote stores subject's vote on a quote, replacing any earlier one, and
// returns the quote's updated counts.
func (s *VoteService) SetVote(ctx context.Context, subject string, quoteID int64, value int) (domain.VoteCounts, error) {
	v, err := domain.ParseVoteValue(value)
	if err != nil {
		return domain.VoteCounts{}, err
	}

	if strings.TrimSpace(subject) == "" {
		return domain.VoteCounts{}, domain.ErrUnauthenticated
	}

	// A vote on a missing quote must not create the caller's user row.
	if _, err := s.quotes.Get(ctx, quoteID); err != nil {
		return domain.VoteCounts{}, err
	}

	user, err := s.resolveUser(ctx, subject)
	if err != nil {
		return domain.VoteCounts{}, err
	}

	if err := s.votes.Upsert(ctx, user.ID, quoteID, v); err != nil {
		return domain.VoteCounts{}, err
	}

	telemetry.VotesTotal.WithLabelValues(voteLabel(v)).Inc()
	s.leaderboard.Invalidate(ctx)

	s.logger.InfoContext(ctx, "vote recorded",
		slog.Int64("quote_id", quoteID),
		slog.Int64("user_id", user.ID),
		slog.Int("value", int(v)),
	)

	return s.votes.Counts(ctx, quoteID)
}

// Liked lists the quotes subject liked.
func (s *VoteService) Liked(ctx context.Context, subject string, filter domain.ListFilter, page PageRequest) (*QuotePage, error) {
	return s.scoped(ctx, subject, domain.ScopeLiked, filter, page)
}

// Disliked lists the quotes subject disliked.
func (s *VoteService) Disliked(ctx context.Context, subject string, filter domain.ListFilter, page PageRequest) (*QuotePage, error) {
	return s.scoped(ctx, subject, domain.ScopeDisliked, filter, page)
}

// Unvoted lists the quotes subject has not voted on.
func (s *VoteService) Unvoted(ctx context.Context, subject string, filter domain.ListFilter, page PageRequest) (*QuotePage, error) {
	return s.scoped(ctx, subject, domain.ScopeUnvoted, filter, page)
}

func (s *VoteService) scoped(
	ctx context.Context,
	subject string,
	kind domain.ScopeKind,
	filter domain.ListFilter,
	page PageRequest,
) (*QuotePage, error) {
	user, err := s.resolveUser(ctx, subject)
	if err != nil {
		return nil, err
	}

	query := listQuery(filter, domain.ListScope{Kind: kind, UserID: user.ID}, page, s.pageSize)

	items, err := s.quotes.List(ctx, query)
	if err != nil {
		return nil, err
	}

	result := newQuotePage(query, items)

	return &result, nil
}

// resolveUser maps the authenticated subject to its row once per request.
func (s *VoteService) resolveUser(ctx context.Context, subject string) (*domain.User, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, domain.ErrUnauthenticated
	}

	return appctx.Fetch(ctx, "user:"+subject, func(ctx context.Context) (*domain.User, error) {
		return s.users.EnsureBySubject(ctx, subject)
	})
}

func voteLabel(v domain.VoteValue) string {
	if v == domain.VoteLike {
		return "like"
	}

	return "dislike"
}
