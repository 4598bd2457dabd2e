// Package library keeps the user's watchlist, viewed titles and
// continue-watching progress, persisted as a JSON file.
package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"nushcenume/catalog"
)

const (
	// MaxContinue is the most continue-watching entries kept
	MaxContinue = 12
	// Progress outside [MinPercent, MaxPercent] is not worth resuming
	MinPercent = 5.0
	MaxPercent = 95.0
)

// ErrCorrupt is returned by Load when the library file can't be decoded
var ErrCorrupt = errors.New("library file is corrupt")

// Progress is a partially watched title
type Progress struct {
	Ref         catalog.Ref `json:"-"`
	Title       string      `json:"title"`
	Position    float64     `json:"position"` // seconds
	Duration    float64     `json:"duration"` // seconds
	Percent     float64     `json:"percent"`
	LastWatched time.Time   `json:"lastWatched"`
}

type progressEntry struct {
	Ref string `json:"ref"`
	Progress
}

type fileFormat struct {
	Watchlist []string        `json:"watchlist"`
	Viewed    []string        `json:"viewed"`
	Continue  []progressEntry `json:"continue"`
}

// Library is safe for concurrent use
type Library struct {
	watchlist []catalog.Ref
	viewed    []catalog.Ref
	continues []Progress
	file      string
	mu        sync.RWMutex
}

// New creates an empty library persisted at file. An empty file name keeps
// the library in memory only.
func New(file string) *Library {
	return &Library{file: file}
}

// Watchlist returns the watchlist in insertion order
func (l *Library) Watchlist() []catalog.Ref {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.watchlist)
}

// Contains reports whether ref is on the watchlist
func (l *Library) Contains(ref catalog.Ref) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Contains(l.watchlist, ref)
}

// Add appends ref to the watchlist. Returns false if already present.
func (l *Library) Add(ref catalog.Ref) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if slices.Contains(l.watchlist, ref) {
		return false
	}
	l.watchlist = append(l.watchlist, ref)
	return true
}

// Remove drops ref from the watchlist. Returns false if it wasn't there.
func (l *Library) Remove(ref catalog.Ref) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := slices.Index(l.watchlist, ref)
	if i < 0 {
		return false
	}
	l.watchlist = slices.Delete(l.watchlist, i, i+1)
	return true
}

// Toggle adds or removes ref and reports whether it is now on the watchlist
func (l *Library) Toggle(ref catalog.Ref) bool {
	if l.Remove(ref) {
		return false
	}
	l.Add(ref)
	return true
}

// MarkViewed records that ref's detail page was opened
func (l *Library) MarkViewed(ref catalog.Ref) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !slices.Contains(l.viewed, ref) {
		l.viewed = append(l.viewed, ref)
	}
}

// Viewed reports whether ref was ever opened
func (l *Library) Viewed(ref catalog.Ref) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Contains(l.viewed, ref)
}

// UpdateProgress records playback progress for p.Ref. Entries barely
// started or nearly finished are removed instead of stored.
func (l *Library) UpdateProgress(p Progress) {
	if p.Percent == 0 && p.Duration > 0 {
		p.Percent = p.Position / p.Duration * 100
	}
	if p.LastWatched.IsZero() {
		p.LastWatched = time.Now()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.continues = slices.DeleteFunc(l.continues, func(e Progress) bool {
		return e.Ref == p.Ref
	})
	if p.Percent >= MinPercent && p.Percent <= MaxPercent {
		l.continues = append(l.continues, p)
	}
	sortByLastWatched(l.continues)
	if len(l.continues) > MaxContinue {
		l.continues = l.continues[:MaxContinue]
	}
}

// ContinueWatching returns in-progress titles, most recent first
func (l *Library) ContinueWatching() []Progress {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.continues)
}

func sortByLastWatched(ps []Progress) {
	slices.SortStableFunc(ps, func(a, b Progress) int {
		return b.LastWatched.Compare(a.LastWatched)
	})
}

// Save writes the library to disk
func (l *Library) Save() error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.file == "" {
		return nil
	}

	out := fileFormat{
		Watchlist: refStrings(l.watchlist),
		Viewed:    refStrings(l.viewed),
		Continue:  make([]progressEntry, 0, len(l.continues)),
	}
	for _, p := range l.continues {
		out.Continue = append(out.Continue, progressEntry{Ref: p.Ref.String(), Progress: p})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(l.file), 0o755); err != nil {
		return err
	}
	return os.WriteFile(l.file, data, 0600)
}

// Load restores the library from disk. A missing file is not an error.
// Unknown refs inside an otherwise valid file are skipped.
func (l *Library) Load() error {
	if l.file == "" {
		return nil
	}

	data, err := os.ReadFile(l.file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var in fileFormat
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, l.file, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.watchlist = parseRefs(in.Watchlist)
	l.viewed = parseRefs(in.Viewed)
	l.continues = l.continues[:0]
	for _, e := range in.Continue {
		ref, err := catalog.ParseRef(e.Ref)
		if err != nil {
			continue
		}
		p := e.Progress
		p.Ref = ref
		l.continues = append(l.continues, p)
	}
	sortByLastWatched(l.continues)
	if len(l.continues) > MaxContinue {
		l.continues = l.continues[:MaxContinue]
	}
	return nil
}

func refStrings(refs []catalog.Ref) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.String()
	}
	return out
}

func parseRefs(in []string) []catalog.Ref {
	var out []catalog.Ref
	for _, s := range in {
		ref, err := catalog.ParseRef(s)
		if err != nil {
			continue
		}
		if !slices.Contains(out, ref) {
			out = append(out, ref)
		}
	}
	return out
}

// Path returns the file the library is persisted to
func (l *Library) Path() string {
	return l.file
}
