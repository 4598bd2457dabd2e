package suggest

import (
	"context"
	"errors"
	"io"
	"reflect"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"nushcenume/catalog"
	"nushcenume/route"
)

// fakeProvider records calls and serves canned results
type fakeProvider struct {
	mu          sync.Mutex
	calls       []string
	results     map[string][]catalog.Suggestion
	err         error
	honorCancel bool
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{results: make(map[string][]catalog.Suggestion)}
}

func (p *fakeProvider) Search(ctx context.Context, query, language string) ([]catalog.Suggestion, error) {
	p.mu.Lock()
	p.calls = append(p.calls, language+":"+query)
	res, err := p.results[query], p.err
	p.mu.Unlock()

	if p.honorCancel && ctx.Err() != nil {
		return nil, &catalog.NetworkError{Path: "/search/multi", Err: ctx.Err()}
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (p *fakeProvider) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

var quiet = log.New(io.Discard)

func newTestWidget(p *fakeProvider, cache Cache) *Widget {
	fetcher := NewFetcher(p, cache, quiet)
	ctrl := NewController(fetcher, WithSettle(time.Millisecond), WithLogger(quiet))
	return NewWidget(ctrl, "en")
}

// drive runs cmd and every command produced by feeding its messages back
func drive(w *Widget, cmd tea.Cmd) {
	for cmd != nil {
		msg := cmd()
		cmd, _ = w.Update(msg)
	}
}

func TestWidget_ShortQueriesNeverFetch(t *testing.T) {
	p := newFakeProvider()
	w := newTestWidget(p, nil)

	for _, q := range []string{"", "b", " b ", "é", "      "} {
		cmd, nav := w.Update(Input{Value: q})
		if cmd != nil || nav != nil {
			t.Errorf("Input(%q) returned cmd=%v nav=%v", q, cmd != nil, nav)
		}
		s := w.State()
		if s.Phase() != PhaseClosed || len(s.Suggestions) != 0 {
			t.Errorf("Input(%q): state %+v, want closed and empty", q, s)
		}
	}

	if calls := p.Calls(); len(calls) != 0 {
		t.Errorf("provider calls = %v, want none", calls)
	}
}

func TestWidget_DebounceCoalescesKeystrokes(t *testing.T) {
	p := newFakeProvider()
	p.results["batman"] = movies(3)
	w := newTestWidget(p, nil)

	batCmd, _ := w.Update(Input{Value: "bat"})
	if w.State().Phase() != PhaseLoading {
		t.Fatalf("after typing: %v, want loading", w.State().Phase())
	}
	batmanCmd, _ := w.Update(Input{Value: "batman"})

	// The first timer fires but has been superseded
	drive(w, batCmd)
	if calls := p.Calls(); len(calls) != 0 {
		t.Fatalf("superseded timer fetched: %v", calls)
	}

	drive(w, batmanCmd)

	calls := p.Calls()
	if len(calls) != 1 || calls[0] != "en:batman" {
		t.Errorf("provider calls = %v, want exactly [en:batman]", calls)
	}
	if s := w.State(); s.Phase() != PhaseListing || len(s.Suggestions) != 3 {
		t.Errorf("state = %v with %d items, want listing of 3", s.Phase(), len(s.Suggestions))
	}
}

func TestWidget_LateResultIsDiscarded(t *testing.T) {
	for _, honor := range []bool{false, true} {
		name := "transport ignores cancel"
		if honor {
			name = "transport honors cancel"
		}
		t.Run(name, func(t *testing.T) {
			p := newFakeProvider()
			p.honorCancel = honor
			p.results["alien"] = movies(2)
			p.results["aliens"] = movies(5)
			w := newTestWidget(p, nil)

			// A: settle "alien" and start its fetch, but hold the result
			cmd, _ := w.Update(Input{Value: "alien"})
			fetchA, _ := w.Update(cmd())
			if fetchA == nil {
				t.Fatal("no fetch command for A")
			}

			// B supersedes A and completes first
			cmd, _ = w.Update(Input{Value: "aliens"})
			drive(w, cmd)
			if got := len(w.State().Suggestions); got != 5 {
				t.Fatalf("after B: %d items, want 5", got)
			}

			// A arrives late
			w.Update(fetchA())

			s := w.State()
			if len(s.Suggestions) != 5 || s.Suggestions[4].ID != 104 {
				t.Errorf("late A overwrote B: %+v", s.Suggestions)
			}
			if s.Loading {
				t.Error("state left loading")
			}
		})
	}
}

func TestWidget_RefocusServesCache(t *testing.T) {
	p := newFakeProvider()
	cache := NewMemoryCache()
	cache.Put(Key("en:inception"), movies(10))
	w := newTestWidget(p, cache)

	// The box already holds "Inception" but the popover was dismissed
	w.Update(Input{Value: "Inception"})
	w.Update(KeyEscape)
	w.Update(Blur{})
	if w.State().Open {
		t.Fatal("popover open after escape")
	}

	cmd, _ := w.Update(Focus{})
	if cmd != nil {
		t.Error("cache hit returned a command")
	}

	s := w.State()
	if s.Phase() != PhaseListing {
		t.Fatalf("after focus: %v, want listing", s.Phase())
	}
	if len(s.Suggestions) != RefreshLimit {
		t.Errorf("refresh shows %d items, want %d", len(s.Suggestions), RefreshLimit)
	}
	if calls := p.Calls(); len(calls) != 0 {
		t.Errorf("provider calls = %v, want none", calls)
	}
}

func TestWidget_ClickRefreshesFromNetwork(t *testing.T) {
	p := newFakeProvider()
	p.results["dune"] = movies(10)
	w := newTestWidget(p, nil)

	w.Update(Input{Value: "dune"})
	w.Update(KeyEscape)

	cmd, _ := w.Update(Click{})
	if !w.State().Loading {
		t.Error("click on typed query did not show loading")
	}
	drive(w, cmd)

	if got := len(w.State().Suggestions); got != RefreshLimit {
		t.Errorf("click refresh shows %d items, want %d", got, RefreshLimit)
	}
}

func TestWidget_KeystrokeLimit(t *testing.T) {
	p := newFakeProvider()
	p.results["star"] = movies(20)
	w := newTestWidget(p, nil)

	cmd, _ := w.Update(Input{Value: "star"})
	drive(w, cmd)

	if got := len(w.State().Suggestions); got != KeystrokeLimit {
		t.Errorf("keystroke shows %d items, want %d", got, KeystrokeLimit)
	}
}

func TestWidget_ZeroResults(t *testing.T) {
	p := newFakeProvider()
	w := newTestWidget(p, nil)

	cmd, _ := w.Update(Input{Value: "qwxz"})
	drive(w, cmd)

	if w.State().Phase() != PhaseEmpty {
		t.Fatalf("Phase() = %v, want empty", w.State().Phase())
	}

	_, nav := w.Update(KeyEnter)
	if nav == nil || nav.Kind != route.KindSearch || nav.Query != "qwxz" {
		t.Fatalf("enter navigated to %v, want search for qwxz", nav)
	}
	if w.Query() != "qwxz" {
		t.Errorf("full search cleared the query: %q", w.Query())
	}
}

func TestWidget_NetworkErrorDegradesToEmpty(t *testing.T) {
	p := newFakeProvider()
	p.err = &catalog.HTTPError{Path: "/search/multi", StatusCode: 500}
	cache := NewMemoryCache()
	w := newTestWidget(p, cache)

	cmd, _ := w.Update(Input{Value: "heat"})
	drive(w, cmd)

	s := w.State()
	if s.Phase() != PhaseEmpty || s.Loading {
		t.Errorf("after error: %v loading=%v, want empty", s.Phase(), s.Loading)
	}
	if cache.Len() != 0 {
		t.Errorf("failed fetch wrote %d cache entries", cache.Len())
	}
}

func TestWidget_EscapeFromListing(t *testing.T) {
	p := newFakeProvider()
	p.results["matrix"] = movies(4)
	w := newTestWidget(p, nil)

	cmd, _ := w.Update(Input{Value: "matrix"})
	drive(w, cmd)
	w.Update(KeyDown)
	w.Update(KeyDown)
	w.Update(KeyDown)
	if w.State().Highlighted != 2 {
		t.Fatalf("Highlighted = %d, want 2", w.State().Highlighted)
	}

	_, nav := w.Update(KeyEscape)
	if nav != nil {
		t.Errorf("escape navigated to %v", nav)
	}
	s := w.State()
	if s.Phase() != PhaseClosed || s.Highlighted != -1 {
		t.Errorf("after escape: %v highlighted=%d", s.Phase(), s.Highlighted)
	}

	// Arrow keys bring the list back
	w.Update(KeyDown)
	if w.State().Phase() != PhaseListing {
		t.Errorf("arrow after escape: %v, want listing", w.State().Phase())
	}
}

func TestWidget_KeysWhileLoadingIgnoreOldList(t *testing.T) {
	p := newFakeProvider()
	p.results["bat"] = movies(3)
	p.results["batmobile"] = []catalog.Suggestion{{ID: 7, Kind: catalog.KindShow, Title: "Batmobile", Year: 2012}}
	w := newTestWidget(p, nil)

	cmd, _ := w.Update(Input{Value: "bat"})
	drive(w, cmd)
	if w.State().Phase() != PhaseListing {
		t.Fatalf("after bat: %v, want listing", w.State().Phase())
	}

	pending, _ := w.Update(Input{Value: "batmobile"})
	if s := w.State(); s.Phase() != PhaseLoading || s.Visible() != nil {
		t.Fatalf("after edit: %v with %d rows, want loading with none", s.Phase(), len(s.Visible()))
	}

	w.Update(KeyDown)
	if h := w.State().Highlighted; h != -1 {
		t.Errorf("down while loading highlighted %d", h)
	}
	_, nav := w.Update(KeyEnter)
	if nav == nil || nav.Kind != route.KindSearch || nav.Query != "batmobile" {
		t.Fatalf("enter while loading navigated to %v, want search for batmobile", nav)
	}
	if w.Query() != "batmobile" {
		t.Errorf("query = %q, want batmobile kept", w.Query())
	}

	// Once the new list arrives it is the one keys act on
	drive(w, pending)
	w.Update(KeyDown) // reopens
	w.Update(KeyDown)
	_, nav = w.Update(KeyEnter)
	if nav == nil || nav.Path() != "/media/show-7" {
		t.Errorf("enter after resolve navigated to %v, want /media/show-7", nav)
	}
}

func TestWidget_EnterOnHighlightedItem(t *testing.T) {
	p := newFakeProvider()
	p.results["heat"] = movies(3)
	w := newTestWidget(p, nil)

	cmd, _ := w.Update(Input{Value: "heat"})
	drive(w, cmd)
	w.Update(KeyUp)

	_, nav := w.Update(KeyEnter)
	if nav == nil || nav.Path() != "/media/movie-102" {
		t.Fatalf("enter navigated to %v, want /media/movie-102", nav)
	}
	if w.Query() != "" {
		t.Errorf("Query() = %q, want cleared", w.Query())
	}
	if w.State().Phase() != PhaseClosed {
		t.Errorf("Phase() = %v, want closed", w.State().Phase())
	}
}

func TestWidget_PointerOutside(t *testing.T) {
	p := newFakeProvider()
	p.results["up"] = movies(2)
	w := newTestWidget(p, nil)
	w.SetBounds(Rect{X: 10, Y: 0, W: 30, H: 1}, Rect{X: 10, Y: 1, W: 30, H: 6})

	cmd, _ := w.Update(Input{Value: "up"})
	drive(w, cmd)

	w.Update(PointerDown{X: 12, Y: 0})
	if !w.State().Open {
		t.Error("press on the input closed the popover")
	}
	w.Update(PointerDown{X: 20, Y: 4})
	if !w.State().Open {
		t.Error("press on the panel closed the popover")
	}
	w.Update(PointerDown{X: 2, Y: 10})
	if w.State().Open {
		t.Error("press outside left the popover open")
	}
}

func TestWidget_RouteChangeCancels(t *testing.T) {
	p := newFakeProvider()
	p.results["blade"] = movies(2)
	w := newTestWidget(p, nil)

	cmd, _ := w.Update(Input{Value: "blade"})
	fetch, _ := w.Update(cmd())

	w.Update(RouteChanged{})
	if w.State().Phase() != PhaseClosed {
		t.Fatalf("after route change: %v", w.State().Phase())
	}

	w.Update(fetch())
	if s := w.State(); s.Open || len(s.Suggestions) != 0 {
		t.Errorf("result applied after route change: %+v", s)
	}
}

func TestWidget_LanguageChangeRefetches(t *testing.T) {
	p := newFakeProvider()
	p.results["amelie"] = movies(1)
	w := newTestWidget(p, nil)

	cmd, _ := w.Update(Input{Value: "amelie"})
	drive(w, cmd)
	cmd, _ = w.Update(SetLanguage{Lang: "ro"})
	drive(w, cmd)

	want := []string{"en:amelie", "ro:amelie"}
	if got := p.Calls(); !reflect.DeepEqual(got, want) {
		t.Errorf("calls = %v, want %v", got, want)
	}
}

func TestController_CancelledResultIsDropped(t *testing.T) {
	c := NewController(NewFetcher(newFakeProvider(), nil, quiet), WithLogger(quiet))
	res, cmd := c.Refresh("solaris", "en")
	if res != nil || cmd == nil {
		t.Fatal("expected a network fetch")
	}
	if !c.InFlight() {
		t.Error("InFlight() = false during fetch")
	}

	msg := ResultMsg{Token: c.Current(), Err: errors.Join(ErrCancelled)}
	if _, ok := c.Resolve(msg); ok {
		t.Error("cancelled result was applied")
	}
}
