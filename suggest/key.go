// Package suggest implements incremental title suggestions: a normalized-key
// cache, a fetch-or-cache wrapper around the catalog, a debounce and
// supersession controller, and the popover selection state machine.
//
// Everything except the cache and the fetch command bodies runs on the
// Bubble Tea event loop and therefore needs no locking.
package suggest

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
)

// MinQueryLen is the shortest normalized query that triggers suggestions
const MinQueryLen = 2

// Key addresses the cache: language + ":" + trimmed, lowercased query
type Key string

// NewKey builds the normalized key for query in lang
func NewKey(query, lang string) Key {
	return Key(Language(lang) + ":" + normalize(query))
}

// Qualifies reports whether query is long enough to look up
func Qualifies(query string) bool {
	return utf8.RuneCountInString(normalize(query)) >= MinQueryLen
}

// Language reduces a BCP-47 tag to its base subtag ("en-US" -> "en").
// Unparseable tags are lowercased and used as-is.
func Language(lang string) string {
	lang = strings.TrimSpace(lang)
	tag, err := language.Parse(lang)
	if err != nil {
		return strings.ToLower(lang)
	}
	base, _ := tag.Base()
	return base.String()
}

func normalize(query string) string {
	return strings.TrimSpace(strings.ToLower(query))
}
