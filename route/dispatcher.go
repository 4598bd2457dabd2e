package route

import (
	"github.com/charmbracelet/log"

	"nushcenume/catalog"
)

const maxBackEntries = 100

// Listener is told about every route change. Search widgets use it to close.
type Listener func(Route)

// Dispatcher owns the current route and the back stack
type Dispatcher struct {
	current   Route
	back      []Route
	listeners []Listener
	log       *log.Logger
}

// NewDispatcher starts at route start
func NewDispatcher(start Route, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Dispatcher{current: start, log: logger}
}

// Subscribe registers fn for route changes
func (d *Dispatcher) Subscribe(fn Listener) {
	d.listeners = append(d.listeners, fn)
}

// Current returns the active route
func (d *Dispatcher) Current() Route {
	return d.current
}

// GoToMedia navigates to a title's detail view
func (d *Dispatcher) GoToMedia(ref catalog.Ref) Route {
	return d.Navigate(ToMedia(ref))
}

// GoToSearchResults navigates to the listing for the raw query.
// An empty query leaves the route unchanged.
func (d *Dispatcher) GoToSearchResults(query string) Route {
	if query == "" {
		return d.current
	}
	return d.Navigate(ToSearch(query))
}

// Navigate pushes the current route and switches to r
func (d *Dispatcher) Navigate(r Route) Route {
	if r == d.current {
		d.notify()
		return r
	}
	d.back = append(d.back, d.current)
	if len(d.back) > maxBackEntries {
		d.back = d.back[len(d.back)-maxBackEntries:]
	}
	d.log.Debug("navigate", "from", d.current.Path(), "to", r.Path())
	d.current = r
	d.notify()
	return r
}

// Back pops the previous route. Returns false at the bottom of the stack.
func (d *Dispatcher) Back() (Route, bool) {
	if len(d.back) == 0 {
		return d.current, false
	}
	prev := d.back[len(d.back)-1]
	d.back = d.back[:len(d.back)-1]
	d.log.Debug("back", "from", d.current.Path(), "to", prev.Path())
	d.current = prev
	d.notify()
	return prev, true
}

// Depth returns how many routes Back can pop
func (d *Dispatcher) Depth() int {
	return len(d.back)
}

func (d *Dispatcher) notify() {
	for _, fn := range d.listeners {
		fn(d.current)
	}
}
