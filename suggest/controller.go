package suggest

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"nushcenume/catalog"
)

// DefaultSettle is the inactivity period after the last keystroke before a lookup
const DefaultSettle = 300 * time.Millisecond

// Token identifies one lookup attempt. Only the most recently minted token is current.
type Token uint64

// SettledMsg is delivered when a settle timer fires
type SettledMsg struct {
	Seq   uint64
	Query string
	Lang  string
}

// ResultMsg carries a finished lookup back to the event loop
type ResultMsg struct {
	Token   Token
	Trigger Trigger
	Items   []catalog.Suggestion
	Err     error
}

// Change is the controller's verdict on a query edit
type Change int

const (
	ChangeClear Change = iota // too short: close and empty the popover
	ChangeOpen                // qualifying: open and show loading
)

// ControllerOption configures a Controller
type ControllerOption func(*Controller)

// WithSettle overrides DefaultSettle
func WithSettle(d time.Duration) ControllerOption {
	return func(c *Controller) {
		if d > 0 {
			c.settle = d
		}
	}
}

// WithLogger sets the controller's logger
func WithLogger(l *log.Logger) ControllerOption {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// Controller debounces query edits into lookups and guarantees only the
// latest lookup's result is applied. It must only be used from the event loop.
//
// Two guards apply: the settle sequence drops timers superseded by later
// keystrokes, and the token drops results superseded by later lookups. The
// second is needed because a cache hit resolves immediately while a miss
// resolves after arbitrary latency.
type Controller struct {
	fetcher *Fetcher
	settle  time.Duration
	log     *log.Logger

	seq    uint64
	token  Token
	cancel context.CancelFunc
}

// NewController creates a controller for one search widget
func NewController(fetcher *Fetcher, opts ...ControllerOption) *Controller {
	c := &Controller{
		fetcher: fetcher,
		settle:  DefaultSettle,
		log:     log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Current returns the token a result must carry to be applied
func (c *Controller) Current() Token {
	return c.token
}

// InFlight reports whether a network lookup is outstanding
func (c *Controller) InFlight() bool {
	return c.cancel != nil
}

// Change handles a query edit. A qualifying query (re)starts the settle
// timer; an in-flight lookup is left running and is superseded by token
// once the next one starts. A short query cancels everything.
func (c *Controller) Change(query, lang string) (Change, tea.Cmd) {
	if !Qualifies(query) {
		c.Cancel()
		return ChangeClear, nil
	}

	c.seq++
	seq := c.seq
	return ChangeOpen, tea.Tick(c.settle, func(time.Time) tea.Msg {
		return SettledMsg{Seq: seq, Query: query, Lang: lang}
	})
}

// Settled handles a fired timer. Stale timers are ignored. A cache hit is
// returned directly; a miss returns a command that performs the lookup.
func (c *Controller) Settled(msg SettledMsg) (*ResultMsg, tea.Cmd) {
	if msg.Seq != c.seq {
		return nil, nil
	}
	return c.start(msg.Query, msg.Lang, TriggerKeystroke)
}

// Refresh looks up query immediately, skipping the settle timer. Used when
// focus or a click returns to an input that already holds a query.
func (c *Controller) Refresh(query, lang string) (*ResultMsg, tea.Cmd) {
	if !Qualifies(query) {
		return nil, nil
	}
	c.seq++
	return c.start(query, lang, TriggerRefresh)
}

// Resolve filters a finished lookup. It returns the items to display and
// true only for the current token; cancelled lookups return false. Failures
// resolve to an empty list so the popover never stays loading.
func (c *Controller) Resolve(msg ResultMsg) ([]catalog.Suggestion, bool) {
	if msg.Token != c.token {
		c.log.Debug("discarding superseded suggestions", "token", msg.Token, "current", c.token)
		return nil, false
	}
	c.release()

	if msg.Err != nil {
		if errors.Is(msg.Err, ErrCancelled) {
			return nil, false
		}
		return []catalog.Suggestion{}, true
	}
	return Truncate(msg.Items, DisplayLimit(msg.Trigger)), true
}

// Cancel invalidates the pending timer and any in-flight lookup.
// Called for short queries, route changes and teardown.
func (c *Controller) Cancel() {
	c.seq++
	c.token++
	c.release()
}

func (c *Controller) start(query, lang string, trigger Trigger) (*ResultMsg, tea.Cmd) {
	c.release()
	c.token++
	token := c.token

	if cached, ok := c.fetcher.Cached(query, lang); ok {
		return &ResultMsg{Token: token, Trigger: trigger, Items: cached}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	fetcher := c.fetcher

	return nil, func() tea.Msg {
		items, err := fetcher.Fetch(ctx, query, lang)
		return ResultMsg{Token: token, Trigger: trigger, Items: items, Err: err}
	}
}

// release cancels the outstanding lookup context, if any
func (c *Controller) release() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
