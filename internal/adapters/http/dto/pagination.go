package dto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

// Cursor errors.
var (
	// ErrInvalidCursor is returned when cursor decoding fails or the cursor
	// was issued for a different query.
	ErrInvalidCursor = errors.New("invalid cursor")

	// ErrNoCursor indicates no cursor was provided (first page request).
	// This is not an error condition but signals the start of pagination.
	ErrNoCursor = errors.New("no cursor provided")
)

// PaginationRequest represents pagination parameters from the request.
type PaginationRequest struct {
	// Cursor is an opaque string from a previous response's NextCursor.
	Cursor string `form:"cursor" json:"cursor"`

	// Limit is the maximum number of items to return (1-100). Zero leaves
	// the configured page size in effect.
	Limit int `form:"limit" json:"limit" validate:"omitempty,gte=1,lte=100"`
}

// Offset resolves the cursor against the query it is used with.
// An empty cursor starts at zero.
func (p *PaginationRequest) Offset(query string) (int, error) {
	data, err := DecodeCursor(p.Cursor)
	if errors.Is(err, ErrNoCursor) {
		return 0, nil
	}

	if err != nil {
		return 0, err
	}

	if data.Query != query || data.Offset < 0 {
		return 0, ErrInvalidCursor
	}

	return data.Offset, nil
}

// PaginatedResponse is a generic paginated response structure.
type PaginatedResponse[T any] struct {
	// Items is the array of items for this page.
	Items []T `json:"items"`

	// NextCursor is the cursor to use for the next page.
	// Empty if there are no more items.
	NextCursor string `json:"nextCursor,omitempty"`

	// HasMore indicates whether there are more items after this page.
	HasMore bool `json:"hasMore"`
}

// NewPaginatedResponse creates a paginated response. next is only encoded
// when hasMore is set.
func NewPaginatedResponse[T any](items []T, hasMore bool, next *CursorData) *PaginatedResponse[T] {
	if items == nil {
		items = []T{}
	}

	resp := &PaginatedResponse[T]{
		Items:   items,
		HasMore: hasMore,
	}

	if hasMore {
		resp.NextCursor = EncodeCursor(next)
	}

	return resp
}

// CursorData is what a pagination cursor encodes: where the next page starts
// and a fingerprint of the query it belongs to.
type CursorData struct {
	Offset int    `json:"o"`
	Query  string `json:"q"`
}

// EncodeCursor encodes cursor data to a base64 string.
func EncodeCursor(data *CursorData) string {
	if data == nil {
		return ""
	}

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return ""
	}

	return base64.URLEncoding.EncodeToString(jsonBytes)
}

// DecodeCursor decodes a base64 cursor string to cursor data.
// Returns ErrNoCursor if the encoded string is empty.
func DecodeCursor(encoded string) (*CursorData, error) {
	if encoded == "" {
		return nil, ErrNoCursor
	}

	jsonBytes, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	var data CursorData

	err = json.Unmarshal(jsonBytes, &data)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	return &data, nil
}

// NewCursor creates a cursor for the page starting at offset.
func NewCursor(offset int, query string) *CursorData {
	return &CursorData{Offset: offset, Query: query}
}
