package route

import (
	"testing"

	"nushcenume/catalog"
)

func TestRoute_Path(t *testing.T) {
	tests := []struct {
		name  string
		route Route
		want  string
	}{
		{"home", Home, "/"},
		{"watchlist", Watchlist, "/watchlist"},
		{"movie", ToMedia(catalog.Ref{Kind: catalog.KindMovie, ID: 27205}), "/media/movie-27205"},
		{"show", ToMedia(catalog.Ref{Kind: catalog.KindShow, ID: 1399}), "/media/show-1399"},
		{"search keeps raw text", ToSearch("The Batman"), "/search?q=The%20Batman"},
		{"search escapes reserved", ToSearch("tom & jerry+1?"), "/search?q=tom%20%26%20jerry%2B1%3F"},
		{"search unicode", ToSearch("Amélie"), "/search?q=Am%C3%A9lie"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.route.Path(); got != tt.want {
				t.Errorf("Path() = %q, want %q", got, tt.want)
			}

			back, err := Parse(tt.want)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.want, err)
			}
			if back != tt.route {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.want, back, tt.route)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, p := range []string{"/search", "/search?q=", "/media/person-3", "/nowhere"} {
		if r, err := Parse(p); err == nil {
			t.Errorf("Parse(%q) = %+v, want error", p, r)
		}
	}
}

func TestDispatcher(t *testing.T) {
	d := NewDispatcher(Home, nil)

	var seen []Route
	d.Subscribe(func(r Route) { seen = append(seen, r) })

	inception := catalog.Ref{Kind: catalog.KindMovie, ID: 27205}

	t.Run("media", func(t *testing.T) {
		got := d.GoToMedia(inception)
		if got.Path() != "/media/movie-27205" {
			t.Errorf("GoToMedia = %q", got.Path())
		}
		if d.Current() != got {
			t.Errorf("Current() = %v, want %v", d.Current(), got)
		}
	})

	t.Run("search", func(t *testing.T) {
		got := d.GoToSearchResults("Inception ")
		if got.Query != "Inception " {
			t.Errorf("Query = %q, want raw text", got.Query)
		}
	})

	t.Run("empty search is ignored", func(t *testing.T) {
		before := d.Current()
		if got := d.GoToSearchResults(""); got != before {
			t.Errorf("GoToSearchResults(\"\") = %v, want unchanged %v", got, before)
		}
	})

	t.Run("listeners see every change", func(t *testing.T) {
		if len(seen) != 2 {
			t.Fatalf("listener calls = %d, want 2", len(seen))
		}
		if seen[0].Kind != KindMedia || seen[1].Kind != KindSearch {
			t.Errorf("seen = %v", seen)
		}
	})

	t.Run("back", func(t *testing.T) {
		prev, ok := d.Back()
		if !ok || prev != ToMedia(inception) {
			t.Errorf("Back() = %v, %v", prev, ok)
		}
		prev, ok = d.Back()
		if !ok || prev != Home {
			t.Errorf("Back() = %v, %v", prev, ok)
		}
		if _, ok := d.Back(); ok {
			t.Error("Back() at bottom of stack returned true")
		}
	})
}
