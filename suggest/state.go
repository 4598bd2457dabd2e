package suggest

import (
	"nushcenume/catalog"
	"nushcenume/route"
)

// Phase is the popover state as seen by the renderer
type Phase int

const (
	PhaseClosed  Phase = iota
	PhaseLoading       // open, fetch outstanding
	PhaseEmpty         // open, zero results
	PhaseListing       // open, one or more results
)

func (p Phase) String() string {
	switch p {
	case PhaseClosed:
		return "closed"
	case PhaseLoading:
		return "loading"
	case PhaseEmpty:
		return "empty"
	case PhaseListing:
		return "listing"
	}
	return "unknown"
}

// State is the popover selection state. Highlighted is -1 or a valid
// index into Suggestions. Suggestions are only shown, and only selectable,
// while Open and not Loading; a list kept from an earlier query stays hidden
// until the current lookup resolves.
type State struct {
	Open        bool
	Loading     bool
	Suggestions []catalog.Suggestion
	Highlighted int
}

// NewState returns the closed, empty state
func NewState() State {
	return State{Highlighted: -1}
}

// Phase derives the render state
func (s State) Phase() Phase {
	switch {
	case !s.Open:
		return PhaseClosed
	case s.Loading:
		return PhaseLoading
	case len(s.Suggestions) == 0:
		return PhaseEmpty
	default:
		return PhaseListing
	}
}

// Visible returns the suggestions to render; nil while closed or loading
func (s State) Visible() []catalog.Suggestion {
	if !s.Open || s.Loading {
		return nil
	}
	return s.Suggestions
}

// Selected returns the highlighted suggestion
func (s State) Selected() (catalog.Suggestion, bool) {
	if !s.Open || s.Loading || s.Highlighted < 0 || s.Highlighted >= len(s.Suggestions) {
		return catalog.Suggestion{}, false
	}
	return s.Suggestions[s.Highlighted], true
}

// Action is an input to the transition function
type Action interface {
	action()
}

type (
	// ActOpen: the query became (or still is) qualifying; a lookup is pending
	ActOpen struct{}
	// ActResolve: the current lookup finished
	ActResolve struct{ Items []catalog.Suggestion }
	// ActClear: the query dropped below qualifying length, or the route changed
	ActClear struct{}
	// ActDismiss: Escape or an interaction outside the widget
	ActDismiss struct{}
	// ActMove: arrow keys. Delta > 0 moves down. Qualifies allows reopening.
	ActMove struct {
		Delta     int
		Qualifies bool
	}
	// ActConfirm: Enter, carrying the raw query for full-search fallback
	ActConfirm struct{ Query string }
	// ActActivate: pointer activation of a listed item
	ActActivate struct{ Index int }
	// ActSubmit: explicit full-search submission
	ActSubmit struct{ Query string }
)

func (ActOpen) action()     {}
func (ActResolve) action()  {}
func (ActClear) action()    {}
func (ActDismiss) action()  {}
func (ActMove) action()     {}
func (ActConfirm) action()  {}
func (ActActivate) action() {}
func (ActSubmit) action()   {}

// Apply is the transition function. It returns the next state and, when the
// action confirms a selection or a search, the route to navigate to.
func (s State) Apply(a Action) (State, *route.Route) {
	var nav *route.Route

	switch a := a.(type) {
	case ActOpen:
		s.Highlighted = -1
		s.Open = true
		s.Loading = true

	case ActResolve:
		s.Suggestions = a.Items
		if s.Suggestions == nil {
			s.Suggestions = []catalog.Suggestion{}
		}
		s.Loading = false
		s.Highlighted = -1

	case ActClear:
		s = NewState()

	case ActDismiss:
		s.Open = false
		s.Highlighted = -1

	case ActMove:
		if !s.Open {
			// Arrow keys re-show a dismissed list without retyping
			if a.Qualifies {
				s.Open = true
				s.Highlighted = -1
			}
			break
		}
		if s.Loading {
			// Nothing on screen to move through
			break
		}
		s.Highlighted = wrap(s.Highlighted, a.Delta, len(s.Suggestions))

	case ActConfirm:
		if item, ok := s.Selected(); ok {
			r := route.ToMedia(item.Ref())
			s, nav = NewState(), &r
			break
		}
		if a.Query != "" {
			r := route.ToSearch(a.Query)
			s.Open, s.Highlighted, nav = false, -1, &r
		}

	case ActActivate:
		if s.Open && !s.Loading && a.Index >= 0 && a.Index < len(s.Suggestions) {
			r := route.ToMedia(s.Suggestions[a.Index].Ref())
			s, nav = NewState(), &r
		}

	case ActSubmit:
		if a.Query != "" {
			r := route.ToSearch(a.Query)
			s.Open, s.Highlighted, nav = false, -1, &r
		}
	}

	if s.Highlighted >= len(s.Suggestions) || s.Highlighted < -1 {
		s.Highlighted = -1
	}
	return s, nav
}

// wrap moves i by delta over n items circularly. From -1, down lands on 0
// and up lands on n-1.
func wrap(i, delta, n int) int {
	if n == 0 {
		return -1
	}
	if delta == 0 {
		return i
	}
	if i < 0 {
		if delta > 0 {
			return (delta - 1) % n
		}
		i = 0
	}
	return ((i+delta)%n + n) % n
}
