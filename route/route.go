package route

import (
	"fmt"
	"net/url"
	"strings"

	"nushcenume/catalog"
)

// Kind is the view a route leads to
type Kind int

const (
	KindHome Kind = iota
	KindMedia
	KindSearch
	KindWatchlist
)

func (k Kind) String() string {
	switch k {
	case KindHome:
		return "home"
	case KindMedia:
		return "media"
	case KindSearch:
		return "search"
	case KindWatchlist:
		return "watchlist"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Route is a navigation target
type Route struct {
	Kind  Kind
	Media catalog.Ref // KindMedia
	Query string      // KindSearch; raw, not normalized
}

// Home is the landing view
var Home = Route{Kind: KindHome}

// Watchlist is the saved-titles view
var Watchlist = Route{Kind: KindWatchlist}

// ToMedia routes to a title's detail view
func ToMedia(ref catalog.Ref) Route {
	return Route{Kind: KindMedia, Media: ref}
}

// ToSearch routes to the full result listing for the raw query text
func ToSearch(query string) Route {
	return Route{Kind: KindSearch, Query: query}
}

// Path renders the route, e.g. "/media/movie-27205" or "/search?q=the%20batman"
func (r Route) Path() string {
	switch r.Kind {
	case KindMedia:
		return "/media/" + r.Media.String()
	case KindSearch:
		return "/search?q=" + EscapeQuery(r.Query)
	case KindWatchlist:
		return "/watchlist"
	default:
		return "/"
	}
}

func (r Route) String() string {
	return r.Path()
}

// Parse is the inverse of Path
func Parse(path string) (Route, error) {
	u, err := url.Parse(path)
	if err != nil {
		return Route{}, fmt.Errorf("parse route %q: %w", path, err)
	}

	p := strings.TrimRight(u.Path, "/")
	switch {
	case p == "":
		return Home, nil
	case p == "/watchlist":
		return Watchlist, nil
	case p == "/search":
		q := u.Query().Get("q")
		if q == "" {
			return Route{}, fmt.Errorf("search route without query: %q", path)
		}
		return ToSearch(q), nil
	case strings.HasPrefix(p, "/media/"):
		ref, err := catalog.ParseRef(strings.TrimPrefix(p, "/media/"))
		if err != nil {
			return Route{}, err
		}
		return ToMedia(ref), nil
	}
	return Route{}, fmt.Errorf("unknown route: %q", path)
}

// EscapeQuery encodes text for a query parameter with spaces as %20
func EscapeQuery(s string) string {
	// QueryEscape turns a literal '+' into %2B, so every remaining '+' is a space
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
