package dto

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	encoded := EncodeCursor(NewCursor(40, "all|dune|||"))
	require.NotEmpty(t, encoded)

	data, err := DecodeCursor(encoded)
	require.NoError(t, err)
	assert.Equal(t, &CursorData{Offset: 40, Query: "all|dune|||"}, data)

	assert.Empty(t, EncodeCursor(nil))
}

func TestDecodeCursor_Errors(t *testing.T) {
	_, err := DecodeCursor("")
	assert.ErrorIs(t, err, ErrNoCursor)

	_, err = DecodeCursor("!!!not-base64!!!")
	assert.ErrorIs(t, err, ErrInvalidCursor)

	_, err = DecodeCursor(base64.URLEncoding.EncodeToString([]byte("not json")))
	assert.ErrorIs(t, err, ErrInvalidCursor)
}

func TestPaginationRequest_Offset(t *testing.T) {
	const query = "liked||film|likes|desc"

	tests := []struct {
		name    string
		cursor  string
		want    int
		wantErr error
	}{
		{name: "no cursor starts at zero", want: 0},
		{name: "matching query", cursor: EncodeCursor(NewCursor(20, query)), want: 20},
		{name: "different query", cursor: EncodeCursor(NewCursor(20, "all||||")), wantErr: ErrInvalidCursor},
		{name: "negative offset", cursor: EncodeCursor(NewCursor(-1, query)), wantErr: ErrInvalidCursor},
		{name: "garbage", cursor: "@@", wantErr: ErrInvalidCursor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &PaginationRequest{Cursor: tt.cursor}

			got, err := p.Offset(query)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewPaginatedResponse(t *testing.T) {
	t.Run("more pages carry a cursor", func(t *testing.T) {
		resp := NewPaginatedResponse([]int{1, 2}, true, NewCursor(2, "q"))

		assert.Equal(t, []int{1, 2}, resp.Items)
		assert.True(t, resp.HasMore)

		data, err := DecodeCursor(resp.NextCursor)
		require.NoError(t, err)
		assert.Equal(t, 2, data.Offset)
	})

	t.Run("last page has no cursor", func(t *testing.T) {
		resp := NewPaginatedResponse([]int{3}, false, NewCursor(3, "q"))

		assert.False(t, resp.HasMore)
		assert.Empty(t, resp.NextCursor)
	})

	t.Run("nil items become empty", func(t *testing.T) {
		resp := NewPaginatedResponse[int](nil, false, nil)

		assert.NotNil(t, resp.Items)
		assert.Empty(t, resp.Items)
	})
}
