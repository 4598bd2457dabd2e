package suggest

import (
	"fmt"
	"testing"

	"nushcenume/catalog"
	"nushcenume/route"
)

func movies(n int) []catalog.Suggestion {
	out := make([]catalog.Suggestion, n)
	for i := range out {
		out[i] = catalog.Suggestion{
			ID:    int64(100 + i),
			Kind:  catalog.KindMovie,
			Title: fmt.Sprintf("Movie %d", i),
			Year:  2000 + i,
		}
	}
	return out
}

func listing(n, highlighted int) State {
	return State{Open: true, Suggestions: movies(n), Highlighted: highlighted}
}

func TestState_Phase(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  Phase
	}{
		{"initial", NewState(), PhaseClosed},
		{"closed with stale list", State{Suggestions: movies(3), Highlighted: -1}, PhaseClosed},
		{"loading", State{Open: true, Loading: true, Highlighted: -1}, PhaseLoading},
		{"loading over previous list", State{Open: true, Loading: true, Suggestions: movies(2), Highlighted: -1}, PhaseLoading},
		{"empty", State{Open: true, Suggestions: []catalog.Suggestion{}, Highlighted: -1}, PhaseEmpty},
		{"listing", listing(2, -1), PhaseListing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.Phase(); got != tt.want {
				t.Errorf("Phase() = %v, want %v", got, tt.want)
			}
		})
	}

	if v := (State{Suggestions: movies(3)}).Visible(); v != nil {
		t.Errorf("closed state Visible() = %v, want nil", v)
	}
}

func TestState_Transitions(t *testing.T) {
	t.Run("open then resolve with results", func(t *testing.T) {
		s, _ := NewState().Apply(ActOpen{})
		if s.Phase() != PhaseLoading {
			t.Fatalf("after open: %v, want loading", s.Phase())
		}
		s, _ = s.Apply(ActResolve{Items: movies(3)})
		if s.Phase() != PhaseListing || s.Highlighted != -1 {
			t.Errorf("after resolve: %v highlighted=%d, want listing(-1)", s.Phase(), s.Highlighted)
		}
	})

	t.Run("resolve with nothing is empty", func(t *testing.T) {
		s, _ := NewState().Apply(ActOpen{})
		s, _ = s.Apply(ActResolve{Items: nil})
		if s.Phase() != PhaseEmpty {
			t.Errorf("Phase() = %v, want empty", s.Phase())
		}
	})

	t.Run("resolve resets highlight", func(t *testing.T) {
		s, _ := listing(4, 3).Apply(ActResolve{Items: movies(2)})
		if s.Highlighted != -1 {
			t.Errorf("Highlighted = %d, want -1", s.Highlighted)
		}
	})

	t.Run("clear", func(t *testing.T) {
		s, nav := listing(4, 1).Apply(ActClear{})
		if s.Open || s.Loading || len(s.Suggestions) != 0 || s.Highlighted != -1 || nav != nil {
			t.Errorf("after clear: %+v nav=%v", s, nav)
		}
	})

	t.Run("escape from listing(2)", func(t *testing.T) {
		s, nav := listing(5, 2).Apply(ActDismiss{})
		if s.Phase() != PhaseClosed || s.Highlighted != -1 {
			t.Errorf("after escape: %v highlighted=%d", s.Phase(), s.Highlighted)
		}
		if nav != nil {
			t.Errorf("escape navigated to %v", nav)
		}
	})
}

func TestState_LoadingHidesPreviousList(t *testing.T) {
	s, _ := listing(3, 1).Apply(ActOpen{})
	if s.Highlighted != -1 || s.Visible() != nil {
		t.Fatalf("after open over a list: highlighted=%d visible=%d", s.Highlighted, len(s.Visible()))
	}

	s, _ = s.Apply(ActMove{Delta: 1, Qualifies: true})
	if s.Highlighted != -1 {
		t.Errorf("move while loading highlighted %d", s.Highlighted)
	}
	if _, ok := s.Selected(); ok {
		t.Error("Selected() returned a hidden item")
	}

	if _, nav := s.Apply(ActActivate{Index: 0}); nav != nil {
		t.Errorf("activate while loading navigated to %v", nav)
	}

	_, nav := s.Apply(ActConfirm{Query: "batmobile"})
	if nav == nil || nav.Kind != route.KindSearch || nav.Query != "batmobile" {
		t.Errorf("confirm while loading navigated to %v, want search for batmobile", nav)
	}
}

func TestState_MoveWraps(t *testing.T) {
	const n = 4
	tests := []struct {
		name  string
		from  int
		delta int
		want  int
	}{
		{"down from none", -1, 1, 0},
		{"up from none", -1, -1, n - 1},
		{"down from last wraps to first", n - 1, 1, 0},
		{"up from first wraps to last", 0, -1, n - 1},
		{"down middle", 1, 1, 2},
		{"up middle", 2, -1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := listing(n, tt.from).Apply(ActMove{Delta: tt.delta})
			if s.Highlighted != tt.want {
				t.Errorf("Highlighted = %d, want %d", s.Highlighted, tt.want)
			}
		})
	}

	t.Run("never exceeds bounds over many moves", func(t *testing.T) {
		s := listing(3, -1)
		for i := 0; i < 20; i++ {
			delta := 1
			if i%3 == 0 {
				delta = -1
			}
			s, _ = s.Apply(ActMove{Delta: delta})
			if s.Highlighted < 0 || s.Highlighted > len(s.Suggestions)-1 {
				t.Fatalf("step %d: Highlighted = %d out of range", i, s.Highlighted)
			}
		}
	})

	t.Run("empty list keeps none", func(t *testing.T) {
		s, _ := State{Open: true, Suggestions: []catalog.Suggestion{}, Highlighted: -1}.Apply(ActMove{Delta: 1})
		if s.Highlighted != -1 {
			t.Errorf("Highlighted = %d, want -1", s.Highlighted)
		}
	})
}

func TestState_MoveReopens(t *testing.T) {
	closed := State{Suggestions: movies(3), Highlighted: -1}

	s, _ := closed.Apply(ActMove{Delta: 1, Qualifies: true})
	if !s.Open || s.Highlighted != -1 {
		t.Errorf("qualifying arrow while closed: open=%v highlighted=%d, want reopen at -1", s.Open, s.Highlighted)
	}

	s, _ = closed.Apply(ActMove{Delta: -1, Qualifies: false})
	if s.Open {
		t.Error("non-qualifying arrow reopened the popover")
	}
}

func TestState_Confirm(t *testing.T) {
	t.Run("enter on highlighted item", func(t *testing.T) {
		s, nav := listing(3, 1).Apply(ActConfirm{Query: "mov"})
		if nav == nil || nav.Kind != route.KindMedia || nav.Media != movies(3)[1].Ref() {
			t.Fatalf("nav = %v, want media route for item 1", nav)
		}
		if s.Phase() != PhaseClosed || len(s.Suggestions) != 0 {
			t.Errorf("after selection: %+v, want closed and empty", s)
		}
	})

	t.Run("enter without highlight searches raw query", func(t *testing.T) {
		s, nav := listing(3, -1).Apply(ActConfirm{Query: "The Bat "})
		if nav == nil || nav.Kind != route.KindSearch || nav.Query != "The Bat " {
			t.Fatalf("nav = %v, want search for raw query", nav)
		}
		if s.Open {
			t.Error("popover still open after search")
		}
	})

	t.Run("enter on empty results searches", func(t *testing.T) {
		empty := State{Open: true, Suggestions: []catalog.Suggestion{}, Highlighted: -1}
		_, nav := empty.Apply(ActConfirm{Query: "zzqx"})
		if nav == nil || nav.Path() != "/search?q=zzqx" {
			t.Errorf("nav = %v, want /search?q=zzqx", nav)
		}
	})

	t.Run("enter with empty query does nothing", func(t *testing.T) {
		_, nav := NewState().Apply(ActConfirm{Query: ""})
		if nav != nil {
			t.Errorf("nav = %v, want nil", nav)
		}
	})

	t.Run("activate", func(t *testing.T) {
		_, nav := listing(3, -1).Apply(ActActivate{Index: 2})
		if nav == nil || nav.Media.ID != 102 {
			t.Errorf("nav = %v, want media 102", nav)
		}
		_, nav = listing(3, -1).Apply(ActActivate{Index: 3})
		if nav != nil {
			t.Errorf("out of range activate navigated to %v", nav)
		}
	})

	t.Run("submit ignores highlight", func(t *testing.T) {
		_, nav := listing(3, 2).Apply(ActSubmit{Query: "movie"})
		if nav == nil || nav.Kind != route.KindSearch {
			t.Errorf("nav = %v, want search", nav)
		}
	})
}
