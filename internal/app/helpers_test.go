package app

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jsamuelsen/quoteboard/internal/adapters/persistence"
	"github.com/jsamuelsen/quoteboard/internal/adapters/persistence/persistencetest"
	"github.com/jsamuelsen/quoteboard/internal/domain"
)

// discardLogger returns a logger that discards all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type store struct {
	db      *gorm.DB
	sources *persistence.SourceRepository
	quotes  *persistence.QuoteRepository
	votes   *persistence.VoteRepository
	users   *persistence.UserRepository
	seq     int
}

func newStore(t *testing.T) *store {
	t.Helper()

	db := persistencetest.Open(t)

	return &store{
		db:      db,
		sources: persistence.NewSourceRepository(db),
		quotes:  persistence.NewQuoteRepository(db),
		votes:   persistence.NewVoteRepository(db),
		users:   persistence.NewUserRepository(db),
	}
}

func (s *store) source(t *testing.T, name string, kind domain.SourceKind) *domain.Source {
	t.Helper()

	src := &domain.Source{Name: name, Kind: kind}
	require.NoError(t, s.sources.Create(context.Background(), src))

	return src
}

func (s *store) quote(t *testing.T, src *domain.Source, text string, weight int) *domain.Quote {
	t.Helper()

	s.seq++
	q := &domain.Quote{
		Text:      text,
		SourceID:  src.ID,
		Weight:    weight,
		CreatedAt: time.Date(2024, 1, 1, 12, s.seq, 0, 0, time.UTC),
	}
	require.NoError(t, s.quotes.Create(context.Background(), q))

	return q
}

func quoteIDs(stats []domain.QuoteStats) []int64 {
	out := make([]int64, len(stats))
	for i, s := range stats {
		out[i] = s.ID
	}

	return out
}

// mockCache is a testify mock of ports.Cache.
type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	value, _ := args.Get(0).([]byte)

	return value, args.Error(1)
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}
