package domain

import "time"

// VoteValue is a user's opinion of a quote.
type VoteValue int

// Allowed vote values.
const (
	VoteLike    VoteValue = 1
	VoteDislike VoteValue = -1
)

// ParseVoteValue validates a raw vote value.
func ParseVoteValue(v int) (VoteValue, error) {
	switch VoteValue(v) {
	case VoteLike, VoteDislike:
		return VoteValue(v), nil
	default:
		return 0, NewValidationError("value", CodeInvalidVoteValue, "vote value must be 1 or -1")
	}
}

// Vote is the single opinion a user holds on a quote.
type Vote struct {
	ID        int64
	UserID    int64
	QuoteID   int64
	Value     VoteValue
	CreatedAt time.Time
}

// VoteCounts aggregates the votes of one quote.
type VoteCounts struct {
	Likes    int64
	Dislikes int64
}
