package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuote_NormalizeAndValidate(t *testing.T) {
	tests := []struct {
		name     string
		quote    Quote
		wantCode string
	}{
		{name: "trims text", quote: Quote{Text: "  Hello  ", Weight: DefaultWeight}},
		{name: "zero weight", quote: Quote{Text: "Hi"}, wantCode: CodeInvalidWeight},
		{name: "explicit weight", quote: Quote{Text: "Hi", Weight: 5}},
		{name: "negative weight", quote: Quote{Text: "Hi", Weight: -1}, wantCode: CodeInvalidWeight},
		{name: "blank text", quote: Quote{Text: "   ", Weight: 1}, wantCode: CodeInvalidText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.quote
			q.Normalize()
			err := q.Validate()

			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.GreaterOrEqual(t, q.Weight, MinWeight)
				return
			}

			require.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, tt.wantCode, ValidationCode(err))
		})
	}
}

func TestQuote_ValidateChecksWeightBeforeText(t *testing.T) {
	q := Quote{Weight: 0}
	q.Normalize()

	assert.Equal(t, CodeInvalidWeight, ValidationCode(q.Validate()))
}

func TestCheckSourceCapacity(t *testing.T) {
	require.NoError(t, CheckSourceCapacity(0))
	require.NoError(t, CheckSourceCapacity(2))

	err := CheckSourceCapacity(3)
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, CodeSourceQuoteLimitExceeded, ValidationCode(err))
}

func TestSource_Validate(t *testing.T) {
	s := Source{Name: "  Inception "}
	s.Normalize()

	require.NoError(t, s.Validate())
	assert.Equal(t, "Inception", s.Name)
	assert.Equal(t, SourceKindOther, s.Kind)

	bad := Source{Name: "x", Kind: "poem"}
	assert.Equal(t, CodeInvalidSourceKind, ValidationCode(bad.Validate()))

	empty := Source{Kind: SourceKindBook}
	assert.Equal(t, CodeInvalidSourceName, ValidationCode(empty.Validate()))
}

func TestParseVoteValue(t *testing.T) {
	v, err := ParseVoteValue(1)
	require.NoError(t, err)
	assert.Equal(t, VoteLike, v)

	v, err = ParseVoteValue(-1)
	require.NoError(t, err)
	assert.Equal(t, VoteDislike, v)

	_, err = ParseVoteValue(0)
	assert.Equal(t, CodeInvalidVoteValue, ValidationCode(err))

	_, err = ParseVoteValue(2)
	require.ErrorIs(t, err, ErrValidation)
}

func TestListFilter_Normalized(t *testing.T) {
	f := ListFilter{Text: " inc ", Order: "bogus", Direction: "sideways"}.Normalized()

	assert.Equal(t, "inc", f.Text)
	assert.Equal(t, SortByDate, f.Order)
	assert.Equal(t, SortDesc, f.Direction)

	kept := ListFilter{Order: SortByLikes, Direction: SortAsc, Kind: "film"}.Normalized()
	assert.Equal(t, SortByLikes, kept.Order)
	assert.Equal(t, SortAsc, kept.Direction)
	assert.Equal(t, "film", kept.Kind)
}

func TestPickWeighted(t *testing.T) {
	items := []WeightedID{{ID: 1, Weight: 1}, {ID: 2, Weight: 3}, {ID: 3, Weight: 0}}

	tests := []struct {
		draw int64
		want int64
	}{
		{draw: 0, want: 1},
		{draw: 1, want: 2},
		{draw: 3, want: 2},
	}

	for _, tt := range tests {
		id, ok := PickWeighted(items, func(n int64) int64 {
			assert.Equal(t, int64(4), n)
			return tt.draw
		})

		require.True(t, ok)
		assert.Equal(t, tt.want, id, "draw %d", tt.draw)
	}
}

func TestPickWeighted_Empty(t *testing.T) {
	_, ok := PickWeighted(nil, func(int64) int64 { return 0 })
	assert.False(t, ok)

	_, ok = PickWeighted([]WeightedID{{ID: 1, Weight: 0}}, func(int64) int64 { return 0 })
	assert.False(t, ok)
}

func TestPickWeighted_Distribution(t *testing.T) {
	items := []WeightedID{{ID: 1, Weight: 1}, {ID: 2, Weight: 10}}
	counts := map[int64]int{}

	// Walk every possible draw so the result is deterministic.
	for i := int64(0); i < 11*100; i++ {
		id, ok := PickWeighted(items, func(n int64) int64 { return i % n })
		require.True(t, ok)
		counts[id]++
	}

	assert.Equal(t, 100, counts[1])
	assert.Equal(t, 1000, counts[2])
}
