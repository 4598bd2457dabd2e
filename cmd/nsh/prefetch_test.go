package main

import (
	"testing"
	"time"
)

func typeLine(p *Prefetcher, text string) {
	var line []rune
	for _, r := range text {
		line = append(line, r)
		p.OnChange(line, len(line), r)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("timed out")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPrefetcher_WarmsCacheAfterPause(t *testing.T) {
	sh, mock, _ := newTestShell(t)
	p := NewPrefetcher(sh, 20*time.Millisecond)
	defer p.Close()

	typeLine(p, "search inception")
	waitFor(t, func() bool {
		_, ok := sh.fetcher.Cached("inception", "en")
		return ok
	})

	mock.mu.Lock()
	calls := mock.calls
	mock.mu.Unlock()
	if calls != 1 {
		t.Errorf("catalog calls = %d, want 1 for one pause", calls)
	}

	// Tab now completes without another request
	c := NewCompleter(sh)
	line := []rune("search inception")
	c.Do(line, len(line))
	mock.mu.Lock()
	defer mock.mu.Unlock()
	if mock.calls != 1 {
		t.Errorf("catalog calls after Tab = %d, want 1", mock.calls)
	}
}

func TestPrefetcher_IgnoresOtherCommands(t *testing.T) {
	sh, mock, _ := newTestShell(t)
	p := NewPrefetcher(sh, time.Millisecond)
	defer p.Close()

	typeLine(p, "open inception")
	typeLine(p, "search i")
	time.Sleep(30 * time.Millisecond)

	mock.mu.Lock()
	defer mock.mu.Unlock()
	if mock.calls != 0 {
		t.Errorf("catalog calls = %d, want 0", mock.calls)
	}
}

func TestTitleArgument(t *testing.T) {
	tests := map[string]string{
		"search  heat": "heat",
		"s he":         "he",
		"suggest":      "",
		"open 1":       "",
		"":             "",
	}
	for in, want := range tests {
		if got := titleArgument(in); got != want {
			t.Errorf("titleArgument(%q) = %q, want %q", in, got, want)
		}
	}
}
