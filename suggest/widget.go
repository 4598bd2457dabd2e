package suggest

import (
	tea "github.com/charmbracelet/bubbletea"

	"nushcenume/route"
)

// Events the widget consumes, independent of any key binding scheme
type (
	// Input: the text in the search box changed
	Input struct{ Value string }
	// Focus: the search box gained focus
	Focus struct{}
	// Click: the search box was clicked while focused
	Click struct{}
	// Blur: the search box lost focus
	Blur struct{}
	// PointerDown: a press at terminal cell X, Y
	PointerDown struct{ X, Y int }
	// RouteChanged: the application navigated somewhere
	RouteChanged struct{}
	// Submit: explicit full-search submission
	Submit struct{}
	// Activate: a listed item was clicked
	Activate struct{ Index int }
	// SetLanguage: the catalog language changed
	SetLanguage struct{ Lang string }
)

// NavKey is a navigation key the widget understands
type NavKey int

const (
	KeyUp NavKey = iota
	KeyDown
	KeyEnter
	KeyEscape
)

// Rect is a cell rectangle used for pointer hit-testing
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether cell x, y lies in r
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Widget is one search box with its popover. Each instance owns its own
// controller; widgets never share lookup state.
type Widget struct {
	ctrl    *Controller
	state   State
	query   string
	lang    string
	focused bool

	inputBounds Rect
	panelBounds Rect
}

// NewWidget creates a widget searching in lang
func NewWidget(ctrl *Controller, lang string) *Widget {
	return &Widget{
		ctrl:  ctrl,
		state: NewState(),
		lang:  lang,
	}
}

// State returns the current selection state
func (w *Widget) State() State {
	return w.state
}

// Query returns the raw text in the search box
func (w *Widget) Query() string {
	return w.query
}

// Language returns the catalog language
func (w *Widget) Language() string {
	return w.lang
}

// Focused reports whether the search box has focus
func (w *Widget) Focused() bool {
	return w.focused
}

// SetBounds records where the input and the popover panel are drawn.
// Presses inside either are treated as inside the widget.
func (w *Widget) SetBounds(input, panel Rect) {
	w.inputBounds = input
	w.panelBounds = panel
}

// Inside reports whether a press at x, y belongs to the widget
func (w *Widget) Inside(x, y int) bool {
	if w.inputBounds.Contains(x, y) {
		return true
	}
	return w.state.Open && w.panelBounds.Contains(x, y)
}

// Close tears down lookups and resets to closed. Call on unmount.
func (w *Widget) Close() {
	w.ctrl.Cancel()
	w.state = NewState()
}

// Update feeds one event or message into the widget. It returns a command
// to run and, when the event confirms a selection or a search, the route
// to navigate to. Messages the widget doesn't know are ignored.
func (w *Widget) Update(msg tea.Msg) (tea.Cmd, *route.Route) {
	switch msg := msg.(type) {
	case Input:
		return w.setQuery(msg.Value), nil

	case SetLanguage:
		if msg.Lang == w.lang {
			return nil, nil
		}
		w.lang = msg.Lang
		return w.setQuery(w.query), nil

	case Focus:
		w.focused = true
		return w.refresh(), nil

	case Click:
		return w.refresh(), nil

	case Blur:
		w.focused = false
		return nil, nil

	case NavKey:
		return nil, w.handleKey(msg)

	case PointerDown:
		if !w.Inside(msg.X, msg.Y) {
			w.apply(ActDismiss{})
		}
		return nil, nil

	case RouteChanged:
		w.ctrl.Cancel()
		w.apply(ActClear{})
		return nil, nil

	case Submit:
		return nil, w.apply(ActSubmit{Query: w.query})

	case Activate:
		return nil, w.apply(ActActivate{Index: msg.Index})

	case SettledMsg:
		res, cmd := w.ctrl.Settled(msg)
		if res != nil {
			w.resolve(*res)
		}
		return cmd, nil

	case ResultMsg:
		w.resolve(msg)
		return nil, nil
	}

	return nil, nil
}

func (w *Widget) handleKey(k NavKey) *route.Route {
	switch k {
	case KeyDown:
		return w.apply(ActMove{Delta: 1, Qualifies: Qualifies(w.query)})
	case KeyUp:
		return w.apply(ActMove{Delta: -1, Qualifies: Qualifies(w.query)})
	case KeyEnter:
		return w.apply(ActConfirm{Query: w.query})
	case KeyEscape:
		return w.apply(ActDismiss{})
	}
	return nil
}

func (w *Widget) setQuery(value string) tea.Cmd {
	w.query = value
	change, cmd := w.ctrl.Change(value, w.lang)
	if change == ChangeClear {
		w.apply(ActClear{})
		return nil
	}
	w.apply(ActOpen{})
	return cmd
}

// refresh is the immediate lookup path for returning to a typed query
func (w *Widget) refresh() tea.Cmd {
	if !Qualifies(w.query) {
		return nil
	}
	w.apply(ActOpen{})
	res, cmd := w.ctrl.Refresh(w.query, w.lang)
	if res != nil {
		w.resolve(*res)
	}
	return cmd
}

func (w *Widget) resolve(msg ResultMsg) {
	if items, ok := w.ctrl.Resolve(msg); ok {
		w.apply(ActResolve{Items: items})
	}
}

func (w *Widget) apply(a Action) *route.Route {
	next, nav := w.state.Apply(a)
	w.state = next
	if nav != nil && nav.Kind == route.KindMedia {
		// Jumping to a title clears the box; a full search keeps the text
		w.query = ""
		w.ctrl.Cancel()
	}
	return nav
}
