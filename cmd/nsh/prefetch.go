package main

import (
	"context"
	"strings"
	"sync"
	"time"

	"nushcenume/suggest"
)

// Prefetcher watches the line being typed and warms the suggestion cache
// for title arguments once typing pauses, so Tab completes from memory
type Prefetcher struct {
	shell  *Shell
	settle time.Duration

	mu     sync.Mutex
	timer  *time.Timer
	cancel context.CancelFunc
	last   string
}

// NewPrefetcher creates a listener that fetches after settle of inactivity
func NewPrefetcher(shell *Shell, settle time.Duration) *Prefetcher {
	return &Prefetcher{shell: shell, settle: settle}
}

// OnChange implements readline.Listener. It never edits the line.
func (p *Prefetcher) OnChange(line []rune, pos int, key rune) ([]rune, int, bool) {
	if pos > len(line) {
		pos = len(line)
	}
	p.schedule(titleArgument(string(line[:pos])))
	return line, pos, false
}

// titleArgument returns the text after a command that takes a title
func titleArgument(text string) string {
	cmd, arg, ok := strings.Cut(text, " ")
	if !ok {
		return ""
	}
	switch cmd {
	case "search", "s", "suggest":
		return strings.TrimLeft(arg, " ")
	}
	return ""
}

func (p *Prefetcher) schedule(query string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if query == p.last {
		return
	}
	p.last = query
	p.stop()

	lang := p.shell.lang
	if !suggest.Qualifies(query) {
		return
	}
	if _, ok := p.shell.fetcher.Cached(query, lang); ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	p.cancel = cancel
	p.timer = time.AfterFunc(p.settle, func() {
		defer cancel()
		if _, err := p.shell.fetcher.Fetch(ctx, query, lang); err != nil {
			p.shell.log.Debug("prefetch failed", "query", query, "err", err)
		}
	})
}

// stop drops the pending timer and abandons an in-flight fetch
func (p *Prefetcher) stop() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// Close stops any pending work
func (p *Prefetcher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stop()
	p.last = ""
}
