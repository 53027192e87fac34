package domain

import (
	"strings"
	"time"
)

const (
	// MaxQuotesPerSource caps how many quotes a single source may hold.
	MaxQuotesPerSource = 3

	// MinWeight is the smallest allowed random-selection weight.
	MinWeight = 1

	// DefaultWeight is used by callers when a quote is created without a weight.
	DefaultWeight = 1
)

// Quote is a piece of text attributed to a Source.
// Weight scales its chance of being picked by random selection.
type Quote struct {
	ID        int64
	Text      string
	SourceID  int64
	Weight    int
	Views     int64
	CreatedAt time.Time
}

// Normalize trims the text.
func (q *Quote) Normalize() {
	q.Text = strings.TrimSpace(q.Text)
}

// Validate checks the rules that depend only on the quote itself.
// The per-source limit needs the store and is checked by the repository.
func (q *Quote) Validate() error {
	if q.Weight < MinWeight {
		return NewValidationError("weight", CodeInvalidWeight, "weight must be at least 1")
	}

	if q.Text == "" {
		return NewValidationError("text", CodeInvalidText, "quote text must not be empty")
	}

	return nil
}

// CheckSourceCapacity fails when a source already holds the maximum number
// of other quotes. others must exclude the quote being written.
func CheckSourceCapacity(others int64) error {
	if others >= MaxQuotesPerSource {
		return NewValidationError("source", CodeSourceQuoteLimitExceeded,
			"a source can have at most 3 quotes")
	}

	return nil
}

// QuoteStats is a quote read together with its source and vote counts.
type QuoteStats struct {
	Quote
	SourceName string
	SourceKind SourceKind
	Likes      int64
	Dislikes   int64
}
