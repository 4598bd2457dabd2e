package main

import (
	"strings"

	"nushcenume/route"
)

// BreadcrumbModel renders the current route as styled segments
type BreadcrumbModel struct {
	segments []string
	maxWidth int
}

func NewBreadcrumbModel() BreadcrumbModel {
	return BreadcrumbModel{segments: []string{"home"}}
}

// SetRoute shows r, labelling media routes with title when known
func (b *BreadcrumbModel) SetRoute(r route.Route, title string) {
	switch r.Kind {
	case route.KindMedia:
		label := r.Media.String()
		if title != "" {
			label = title
		}
		b.segments = []string{"home", string(r.Media.Kind), label}
	case route.KindSearch:
		b.segments = []string{"home", "search", r.Query}
	case route.KindWatchlist:
		b.segments = []string{"home", "watchlist"}
	default:
		b.segments = []string{"home"}
	}
}

func (b *BreadcrumbModel) SetWidth(width int) {
	b.maxWidth = width
}

func (b *BreadcrumbModel) View() string {
	segments := b.segments
	sep := breadcrumbSepStyle.Render(" > ")

	// Truncate from the left if needed
	prefix := ""
	if b.maxWidth > 0 {
		for len(strings.Join(segments, " > ")) > b.maxWidth && len(segments) > 2 {
			segments = segments[1:]
			prefix = breadcrumbSepStyle.Render("..") + sep
		}
	}

	parts := make([]string, len(segments))
	for i, seg := range segments {
		if i == len(segments)-1 {
			parts[i] = breadcrumbLastStyle.Render(seg)
		} else {
			parts[i] = breadcrumbStyle.Render(seg)
		}
	}
	return prefix + strings.Join(parts, sep)
}
