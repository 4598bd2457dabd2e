package main

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"nushcenume/suggest"
)

// completionTimeout bounds a Tab press that has to reach the catalog
const completionTimeout = 3 * time.Second

var commands = []string{
	"search", "suggest", "open", "watch", "unwatch", "watchlist",
	"progress", "continue", "go", "back", "lang", "cache", "help", "exit", "quit",
}

// Completer provides tab completion for the shell. Title arguments are
// completed from catalog suggestions.
type Completer struct {
	shell *Shell
}

// NewCompleter creates a new completer
func NewCompleter(shell *Shell) *Completer {
	return &Completer{shell: shell}
}

// Do implements readline.AutoCompleter interface
func (c *Completer) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])
	words := strings.Fields(text)

	// Command completion
	if len(words) == 0 || (len(words) == 1 && !strings.HasSuffix(text, " ")) {
		return c.completeCommand(words)
	}

	cmd := words[0]
	arg := strings.TrimLeft(strings.TrimPrefix(text, cmd), " ")

	switch cmd {
	case "search", "s", "suggest":
		return c.completeTitle(arg)
	case "lang":
		return completeFrom([]string{"en", "ro"}, arg)
	case "open", "o", "watch", "unwatch", "progress":
		return c.completeRef(arg)
	}

	return nil, 0
}

// completeCommand completes command names
func (c *Completer) completeCommand(words []string) ([][]rune, int) {
	prefix := ""
	if len(words) == 1 {
		prefix = words[0]
	}
	return completeFrom(commands, prefix)
}

// completeTitle offers titles that extend what was typed: catalog
// suggestions first, then titles indexed from earlier listings. Titles are
// matched case-insensitively; the typed text is kept as is.
func (c *Completer) completeTitle(partial string) ([][]rune, int) {
	if !suggest.Qualifies(partial) {
		return nil, 0
	}

	ctx, cancel := context.WithTimeout(context.Background(), completionTimeout)
	defer cancel()

	var titles []string
	results, err := c.shell.fetcher.Fetch(ctx, partial, c.shell.lang)
	if err != nil {
		c.shell.log.Debug("completion failed", "query", partial, "err", err)
	}
	for _, item := range suggest.Truncate(results, suggest.RefreshLimit) {
		titles = append(titles, item.Title)
	}
	titles = append(titles, c.shell.titles.Match(partial, suggest.RefreshLimit)...)

	lower := strings.ToLower(partial)
	typed := utf8.RuneCountInString(partial)
	seen := make(map[string]bool)
	var out [][]rune
	for _, t := range titles {
		title := []rune(t)
		if len(title) <= typed || !strings.HasPrefix(strings.ToLower(t), lower) {
			continue
		}
		suffix := string(title[typed:])
		if seen[suffix] {
			continue
		}
		seen[suffix] = true
		out = append(out, []rune(suffix))
	}
	return out, typed
}

// completeRef completes refs from the watchlist and the last listing
func (c *Completer) completeRef(partial string) ([][]rune, int) {
	var refs []string
	for _, ref := range c.shell.lib.Watchlist() {
		refs = append(refs, ref.String())
	}
	for _, item := range c.shell.listing {
		refs = append(refs, item.Ref().String())
	}
	return completeFrom(refs, partial)
}

func completeFrom(candidates []string, prefix string) ([][]rune, int) {
	seen := make(map[string]bool)
	var matches []string
	for _, cand := range candidates {
		if strings.HasPrefix(cand, prefix) && !seen[cand] {
			seen[cand] = true
			matches = append(matches, cand)
		}
	}
	return toRuneSlices(matches, len(prefix)), len(prefix)
}

func toRuneSlices(strs []string, prefixLen int) [][]rune {
	result := make([][]rune, len(strs))
	for i, s := range strs {
		result[i] = []rune(s[prefixLen:])
	}
	return result
}
