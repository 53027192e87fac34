package domain

import "strings"

// SortOrder selects the column a quote list is ordered by.
type SortOrder string

// Supported sort orders.
const (
	SortByLikes SortOrder = "likes"
	SortByViews SortOrder = "views"
	SortByDate  SortOrder = "date"
)

// SortDirection is ascending or descending.
type SortDirection string

// Supported sort directions.
const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// DefaultTopSize is the leaderboard length when none is configured.
const DefaultTopSize = 10

// ListFilter narrows and orders a quote list.
// Text matches the source name case-insensitively. Kind, when set, must
// match the source kind exactly, so an unknown kind yields an empty list.
type ListFilter struct {
	Text      string
	Kind      string
	Order     SortOrder
	Direction SortDirection
}

// Normalized returns a copy with unknown order and direction replaced by
// date and desc.
func (f ListFilter) Normalized() ListFilter {
	f.Text = strings.TrimSpace(f.Text)
	f.Kind = strings.TrimSpace(f.Kind)

	switch f.Order {
	case SortByLikes, SortByViews, SortByDate:
	default:
		f.Order = SortByDate
	}

	switch f.Direction {
	case SortAsc, SortDesc:
	default:
		f.Direction = SortDesc
	}

	return f
}

// ScopeKind restricts a list to the caller's voting history.
type ScopeKind string

// Supported scopes.
const (
	ScopeAll      ScopeKind = ""
	ScopeLiked    ScopeKind = "liked"
	ScopeDisliked ScopeKind = "disliked"
	ScopeUnvoted  ScopeKind = "unvoted"
)

// ListScope pairs a scope with the user it applies to.
type ListScope struct {
	Kind   ScopeKind
	UserID int64
}

// ListQuery is a complete, re-runnable description of one list page.
type ListQuery struct {
	Filter ListFilter
	Scope  ListScope
	Offset int
	Limit  int
}
