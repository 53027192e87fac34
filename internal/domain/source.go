package domain

import "strings"

// SourceKind classifies where quotes come from.
type SourceKind string

// Known source kinds.
const (
	SourceKindFilm  SourceKind = "film"
	SourceKindBook  SourceKind = "book"
	SourceKindOther SourceKind = "other"
)

// Valid reports whether k is one of the known kinds.
func (k SourceKind) Valid() bool {
	switch k {
	case SourceKindFilm, SourceKindBook, SourceKindOther:
		return true
	default:
		return false
	}
}

// Source is a film, book or other work that quotes belong to.
type Source struct {
	ID   int64
	Name string
	Kind SourceKind
}

// Normalize trims the name and defaults an empty kind to other.
func (s *Source) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	if s.Kind == "" {
		s.Kind = SourceKindOther
	}
}

// Validate checks the source's own fields.
func (s *Source) Validate() error {
	if s.Name == "" {
		return NewValidationError("name", CodeInvalidSourceName, "source name must not be empty")
	}

	if !s.Kind.Valid() {
		return NewValidationError("kind", CodeInvalidSourceKind, "source kind must be film, book or other")
	}

	return nil
}
