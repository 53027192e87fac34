package dto

import (
	"strings"
	"time"

	"github.com/jsamuelsen/quoteboard/internal/domain"
)

// SourceResponse is the HTTP representation of a source.
type SourceResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// QuoteResponse is the HTTP representation of a quote with its counts.
type QuoteResponse struct {
	ID        int64          `json:"id"`
	Text      string         `json:"text"`
	Source    SourceResponse `json:"source"`
	Weight    int            `json:"weight"`
	Views     int64          `json:"views"`
	Likes     int64          `json:"likes"`
	Dislikes  int64          `json:"dislikes"`
	CreatedAt time.Time      `json:"createdAt"`
}

// QuoteListResponse is the main list view: a page plus the leaderboard.
type QuoteListResponse struct {
	PaginatedResponse[QuoteResponse]

	Top []QuoteResponse `json:"top"`
}

// TopResponse wraps the leaderboard.
type TopResponse struct {
	Items []QuoteResponse `json:"items"`
}

// VoteResponse reports a quote's counts after a vote.
type VoteResponse struct {
	QuoteID  int64 `json:"quoteId"`
	Likes    int64 `json:"likes"`
	Dislikes int64 `json:"dislikes"`
}

// ViewResponse reports a quote's views after an increment.
type ViewResponse struct {
	QuoteID int64 `json:"quoteId"`
	Views   int64 `json:"views"`
}

// ListQuotesRequest holds the list filter and paging query parameters.
// Unknown order, dir and kind values are not rejected: order and dir fall
// back to date/desc and an unknown kind matches nothing.
type ListQuotesRequest struct {
	PaginationRequest

	Q     string `form:"q"     json:"q"     validate:"omitempty,max=200"`
	Kind  string `form:"kind"  json:"kind"  validate:"omitempty,max=32"`
	Order string `form:"order" json:"order" validate:"omitempty,max=16"`
	Dir   string `form:"dir"   json:"dir"   validate:"omitempty,max=8"`
}

// Filter converts the request into a normalized domain filter.
func (r *ListQuotesRequest) Filter() domain.ListFilter {
	return domain.ListFilter{
		Text:      r.Q,
		Kind:      strings.ToLower(r.Kind),
		Order:     domain.SortOrder(strings.ToLower(r.Order)),
		Direction: domain.SortDirection(strings.ToLower(r.Dir)),
	}.Normalized()
}

// QueryKey fingerprints the filter so a cursor cannot be replayed against a
// different query.
func (r *ListQuotesRequest) QueryKey(scope string) string {
	f := r.Filter()

	return strings.Join([]string{scope, strings.ToLower(f.Text), f.Kind, string(f.Order), string(f.Direction)}, "|")
}

// TopRequest holds the leaderboard size.
type TopRequest struct {
	N int `form:"n" json:"n" validate:"omitempty,gte=1,lte=100"`
}

// SourceRequest creates or updates a source. Name and kind rules live in
// the domain so their error codes reach the client unchanged.
type SourceRequest struct {
	Name string `json:"name" validate:"max=200"`
	Kind string `json:"kind" validate:"max=32"`
}

// SourceListResponse wraps the source catalog.
type SourceListResponse struct {
	Items []SourceResponse `json:"items"`
}

// QuoteRequest creates or updates a quote. Weight is optional. The source
// limit, weight and text are checked by the domain in that order.
type QuoteRequest struct {
	Text     string `json:"text"     validate:"max=2000"`
	SourceID int64  `json:"sourceId" validate:"required,gt=0"`
	Weight   *int   `json:"weight"`
}

// NewSourceResponse converts a domain source.
func NewSourceResponse(s *domain.Source) SourceResponse {
	return SourceResponse{ID: s.ID, Name: s.Name, Kind: string(s.Kind)}
}

// NewSourceResponses converts a slice, never returning nil.
func NewSourceResponses(ss []domain.Source) []SourceResponse {
	out := make([]SourceResponse, len(ss))
	for i := range ss {
		out[i] = NewSourceResponse(&ss[i])
	}

	return out
}

// NewQuoteResponse converts a domain quote with counts.
func NewQuoteResponse(q *domain.QuoteStats) QuoteResponse {
	return QuoteResponse{
		ID:   q.ID,
		Text: q.Text,
		Source: SourceResponse{
			ID:   q.SourceID,
			Name: q.SourceName,
			Kind: string(q.SourceKind),
		},
		Weight:    q.Weight,
		Views:     q.Views,
		Likes:     q.Likes,
		Dislikes:  q.Dislikes,
		CreatedAt: q.CreatedAt,
	}
}

// NewQuoteResponses converts a slice, never returning nil.
func NewQuoteResponses(qs []domain.QuoteStats) []QuoteResponse {
	out := make([]QuoteResponse, len(qs))
	for i := range qs {
		out[i] = NewQuoteResponse(&qs[i])
	}

	return out
}
