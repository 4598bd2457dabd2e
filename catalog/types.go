package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Kind distinguishes movies from shows
type Kind string

const (
	KindMovie Kind = "movie"
	KindShow  Kind = "show"
)

// ParseKind accepts the catalog's own names as well as the provider's "tv"
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie":
		return KindMovie, true
	case "show", "tv":
		return KindShow, true
	}
	return "", false
}

// Ref identifies a title. Two suggestions are the same title iff their Refs match.
type Ref struct {
	Kind Kind
	ID   int64
}

// String renders the detail-view identifier, e.g. "movie-27205"
func (r Ref) String() string {
	return fmt.Sprintf("%s-%d", r.Kind, r.ID)
}

// ParseRef is the inverse of Ref.String
func ParseRef(s string) (Ref, error) {
	idx := strings.LastIndex(s, "-")
	if idx <= 0 {
		return Ref{}, &NotFoundError{Ref: s}
	}
	kind, ok := ParseKind(s[:idx])
	if !ok {
		return Ref{}, &NotFoundError{Ref: s}
	}
	id, err := strconv.ParseInt(s[idx+1:], 10, 64)
	if err != nil || id <= 0 {
		return Ref{}, &NotFoundError{Ref: s}
	}
	return Ref{Kind: kind, ID: id}, nil
}

// Suggestion is a single search match. Values are never modified after parsing.
type Suggestion struct {
	ID        int64
	Kind      Kind
	Title     string
	Year      int // 0 when the provider has no date
	PosterURL string
}

// Ref returns the identity of the suggestion
func (s Suggestion) Ref() Ref {
	return Ref{Kind: s.Kind, ID: s.ID}
}

// Details is the payload for the detail view
type Details struct {
	Suggestion
	Overview string
	Genres   []string
	Rating   float64
	Runtime  int // minutes, movies only
	Seasons  int // shows only
}

// Provider is the remote catalog consumed by the suggestion core.
// Search is idempotent and may be called redundantly.
type Provider interface {
	Search(ctx context.Context, query, language string) ([]Suggestion, error)
}

// DetailProvider looks up a single title for the detail view
type DetailProvider interface {
	Details(ctx context.Context, ref Ref, language string) (*Details, error)
}
