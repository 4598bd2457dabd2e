package main

import (
	"strings"

	"github.com/tchap/go-patricia/v2/patricia"
)

// TitleIndex remembers every title the shell has listed, keyed by its
// lowercased form, so completion keeps working when the catalog is slow
// or unreachable
type TitleIndex struct {
	trie *patricia.Trie
}

func NewTitleIndex() *TitleIndex {
	return &TitleIndex{trie: patricia.NewTrie()}
}

// Add records title. The first spelling seen for a key wins.
func (ix *TitleIndex) Add(title string) {
	key := strings.ToLower(strings.TrimSpace(title))
	if key == "" {
		return
	}
	ix.trie.Insert(patricia.Prefix(key), title)
}

// Match returns up to limit titles starting with prefix, case-insensitively
func (ix *TitleIndex) Match(prefix string, limit int) []string {
	key := strings.ToLower(prefix)
	var out []string
	ix.trie.VisitSubtree(patricia.Prefix(key), func(p patricia.Prefix, item patricia.Item) error {
		if len(out) >= limit {
			return patricia.SkipSubtree
		}
		if title, ok := item.(string); ok {
			out = append(out, title)
		}
		return nil
	})
	return out
}

// Len returns the number of indexed titles
func (ix *TitleIndex) Len() int {
	n := 0
	ix.trie.Visit(func(patricia.Prefix, patricia.Item) error {
		n++
		return nil
	})
	return n
}
