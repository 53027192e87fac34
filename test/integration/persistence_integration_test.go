//go:build integration

package integration

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quoteboard/internal/adapters/persistence"
	"github.com/jsamuelsen/quoteboard/internal/domain"
)

// TestQuoteLimit_ConcurrentCreates races more writers than the source limit
// allows and expects exactly the limit to succeed.
func TestQuoteLimit_ConcurrentCreates(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()

	sources := persistence.NewSourceRepository(db)
	quotes := persistence.NewQuoteRepository(db)

	src := &domain.Source{Name: "Inception", Kind: domain.SourceKindFilm}
	require.NoError(t, sources.Create(ctx, src))

	const writers = 10

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		limited   atomic.Int32
	)

	for i := range writers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			err := quotes.Create(ctx, &domain.Quote{
				Text:     fmt.Sprintf("quote %d", i),
				SourceID: src.ID,
				Weight:   1,
			})

			switch {
			case err == nil:
				succeeded.Add(1)
			case domain.ValidationCode(err) == domain.CodeSourceQuoteLimitExceeded:
				limited.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, int32(domain.MaxQuotesPerSource), succeeded.Load())
	assert.Equal(t, int32(writers-domain.MaxQuotesPerSource), limited.Load())

	var count int64
	require.NoError(t, db.Table("quotes").Where("source_id = ?", src.ID).Count(&count).Error)
	assert.Equal(t, int64(domain.MaxQuotesPerSource), count)
}

// TestVoteUpsert_ConcurrentWritesKeepOneRow flips one user's vote from many
// goroutines and expects a single row.
func TestVoteUpsert_ConcurrentWritesKeepOneRow(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()

	sources := persistence.NewSourceRepository(db)
	quotes := persistence.NewQuoteRepository(db)
	votes := persistence.NewVoteRepository(db)
	users := persistence.NewUserRepository(db)

	src := &domain.Source{Name: "Dune", Kind: domain.SourceKindBook}
	require.NoError(t, sources.Create(ctx, src))

	q := &domain.Quote{Text: "Fear is the mind-killer", SourceID: src.ID, Weight: 1}
	require.NoError(t, quotes.Create(ctx, q))

	user, err := users.EnsureBySubject(ctx, "alice")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			value := domain.VoteLike
			if i%2 == 1 {
				value = domain.VoteDislike
			}

			assert.NoError(t, votes.Upsert(ctx, user.ID, q.ID, value))
		}()
	}

	wg.Wait()

	counts, err := votes.Counts(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Likes+counts.Dislikes)
}

// TestIncrementViews_ConcurrentIsAtomic checks that no increment is lost.
func TestIncrementViews_ConcurrentIsAtomic(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()

	sources := persistence.NewSourceRepository(db)
	quotes := persistence.NewQuoteRepository(db)

	src := &domain.Source{Name: "Inception", Kind: domain.SourceKindFilm}
	require.NoError(t, sources.Create(ctx, src))

	q := &domain.Quote{Text: "An idea is like a virus", SourceID: src.ID, Weight: 1}
	require.NoError(t, quotes.Create(ctx, q))

	const viewers = 50

	var wg sync.WaitGroup
	for range viewers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := quotes.IncrementViews(ctx, q.ID)
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	stats, err := quotes.Get(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(viewers), stats.Views)
}

// TestUsers_EnsureBySubjectIsIdempotent resolves the same subject concurrently.
func TestUsers_EnsureBySubjectIsIdempotent(t *testing.T) {
	db := requireDB(t)
	users := persistence.NewUserRepository(db)

	ids := make([]int64, 8)

	var wg sync.WaitGroup
	for i := range ids {
		wg.Add(1)

		go func() {
			defer wg.Done()

			u, err := users.EnsureBySubject(context.Background(), "bob")
			if assert.NoError(t, err) {
				ids[i] = u.ID
			}
		}()
	}

	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

// TestQuoteList_SearchIsCaseInsensitive runs the ILIKE filter on PostgreSQL.
func TestQuoteList_SearchIsCaseInsensitive(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()

	sources := persistence.NewSourceRepository(db)
	quotes := persistence.NewQuoteRepository(db)

	film := &domain.Source{Name: "Inception", Kind: domain.SourceKindFilm}
	book := &domain.Source{Name: "Dune", Kind: domain.SourceKindBook}
	require.NoError(t, sources.Create(ctx, film))
	require.NoError(t, sources.Create(ctx, book))

	q := &domain.Quote{Text: "An idea is like a virus", SourceID: film.ID, Weight: 1}
	require.NoError(t, quotes.Create(ctx, q))
	require.NoError(t, quotes.Create(ctx, &domain.Quote{Text: "The spice must flow", SourceID: book.ID, Weight: 1}))

	matrix := &domain.Source{Name: "Матрица", Kind: domain.SourceKindFilm}
	require.NoError(t, sources.Create(ctx, matrix))

	spoon := &domain.Quote{Text: "Ложки нет", SourceID: matrix.ID, Weight: 1}
	require.NoError(t, quotes.Create(ctx, spoon))

	tests := []struct {
		text string
		want int64
	}{
		{text: "incEPT", want: q.ID},
		{text: "матрица", want: spoon.ID},
		{text: "МАТРИЦА", want: spoon.ID},
	}

	for _, tt := range tests {
		got, err := quotes.List(ctx, domain.ListQuery{
			Filter: domain.ListFilter{Text: tt.text}.Normalized(),
			Limit:  10,
		})
		require.NoError(t, err)
		require.Len(t, got, 1, tt.text)
		assert.Equal(t, tt.want, got[0].ID, tt.text)
	}
}
