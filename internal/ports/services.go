// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never storage rows or driver types
//   - Error returns use domain error types (ErrNotFound, ErrConflict, etc.)
//   - Keep interfaces small and focused
package ports

import (
	"context"
	"time"

	"github.com/jsamuelsen/quoteboard/internal/domain"
)

// QuoteRepository persists quotes and answers the read-side queries.
type QuoteRepository interface {
	// Create inserts a quote after checking the per-source limit inside a
	// transaction that locks the source row.
	Create(ctx context.Context, q *domain.Quote) error

	// Update rewrites text, source and weight under the same guard as Create.
	Update(ctx context.Context, q *domain.Quote) error

	// Delete removes a quote and, by cascade, its votes.
	Delete(ctx context.Context, id int64) error

	// Get returns one quote with its source and vote counts.
	Get(ctx context.Context, id int64) (*domain.QuoteStats, error)

	// List runs a filtered, ordered page query in a single statement.
	List(ctx context.Context, q domain.ListQuery) ([]domain.QuoteStats, error)

	// Top returns the n most liked quotes regardless of any filter.
	Top(ctx context.Context, n int) ([]domain.QuoteStats, error)

	// Weights loads the (id, weight) projection used for random selection.
	Weights(ctx context.Context) ([]domain.WeightedID, error)

	// IncrementViews atomically adds one view and returns the new total.
	IncrementViews(ctx context.Context, id int64) (int64, error)
}

// SourceRepository persists sources.
type SourceRepository interface {
	Create(ctx context.Context, s *domain.Source) error
	Update(ctx context.Context, s *domain.Source) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*domain.Source, error)
	List(ctx context.Context) ([]domain.Source, error)
}

// VoteRepository persists votes and aggregates them.
type VoteRepository interface {
	// Upsert stores the user's vote on a quote, replacing any previous value.
	// Returns domain.ErrNotFound when the quote does not exist.
	Upsert(ctx context.Context, userID, quoteID int64, value domain.VoteValue) error

	// Counts aggregates likes and dislikes for one quote in one query.
	Counts(ctx context.Context, quoteID int64) (domain.VoteCounts, error)

	// Delete removes a single vote by id.
	Delete(ctx context.Context, id int64) error
}

// UserRepository maps authenticated subjects to local user rows.
type UserRepository interface {
	// EnsureBySubject returns the user for subject, creating it when absent.
	EnsureBySubject(ctx context.Context, subject string) (*domain.User, error)
}

// Cache defines the contract for caching operations.
// Implementations may use Redis or an in-memory map.
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns domain.ErrNotFound if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with a TTL.
	// A TTL of 0 means no expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache.
	// Does not return an error if the key does not exist.
	Delete(ctx context.Context, key string) error
}
