package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"nushcenume/catalog"
	"nushcenume/config"
	"nushcenume/library"
	"nushcenume/route"
	"nushcenume/suggest"
)

// Colors for output
var (
	colorCyan     = color.New(color.FgCyan)
	colorGreen    = color.New(color.FgGreen)
	colorPurple   = color.New(color.FgMagenta)
	colorYellow   = color.New(color.FgYellow)
	colorGray     = color.New(color.FgHiBlack)
	colorBold     = color.New(color.Bold)
	colorBoldBlue = color.New(color.FgBlue, color.Bold)
)

const requestTimeout = 15 * time.Second

// Shell holds the session state: current route, last listing, language
type Shell struct {
	fetcher *suggest.Fetcher
	catalog catalog.DetailProvider
	lib     *library.Library
	nav     *route.Dispatcher
	log     *log.Logger
	out     io.Writer

	lang    string
	listing []catalog.Suggestion // numbered rows of the last listing
	titles  *TitleIndex
}

// NewShell creates a shell writing to out
func NewShell(fetcher *suggest.Fetcher, details catalog.DetailProvider, lib *library.Library, lang string, logger *log.Logger, out io.Writer) *Shell {
	return &Shell{
		fetcher: fetcher,
		catalog: details,
		lib:     lib,
		nav:     route.NewDispatcher(route.Home, logger),
		log:     logger,
		out:     out,
		lang:    lang,
		titles:  NewTitleIndex(),
	}
}

// Prompt renders the current route
func (s *Shell) Prompt() string {
	return fmt.Sprintf("%s %s> ", colorGray.Sprint(s.lang), colorBoldBlue.Sprint(s.nav.Current().Path()))
}

// Execute runs one command line. It returns true when the shell should exit.
func (s *Shell) Execute(line string) (bool, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "search", "s":
		if rest == "" {
			return false, fmt.Errorf("usage: search <text>")
		}
		return false, s.search(rest)

	case "suggest":
		if rest == "" {
			return false, fmt.Errorf("usage: suggest <text>")
		}
		return false, s.suggest(rest)

	case "open", "o":
		if rest == "" {
			return false, fmt.Errorf("usage: open <n|ref>")
		}
		ref, err := s.resolve(rest)
		if err != nil {
			return false, err
		}
		return false, s.open(s.nav.GoToMedia(ref))

	case "watch", "unwatch":
		return false, s.watch(cmd == "watch", rest)

	case "watchlist", "wl":
		return false, s.open(s.nav.Navigate(route.Watchlist))

	case "progress":
		return false, s.progress(rest)

	case "continue", "home":
		return false, s.open(s.nav.Navigate(route.Home))

	case "back", "b":
		r, ok := s.nav.Back()
		if !ok {
			return false, fmt.Errorf("nothing to go back to")
		}
		return false, s.open(r)

	case "go":
		r, err := route.Parse(rest)
		if err != nil {
			return false, err
		}
		return false, s.open(s.nav.Navigate(r))

	case "lang":
		if rest == "" {
			fmt.Fprintln(s.out, s.lang)
			return false, nil
		}
		lang, err := config.MatchLanguage(rest)
		if err != nil {
			return false, err
		}
		s.lang = lang
		return false, nil

	case "cache":
		fmt.Fprintf(s.out, "Cache: %d queries, %d titles indexed\n", s.fetcher.Len(), s.titles.Len())

	case "help", "?":
		s.help()

	case "exit", "quit", "q":
		return true, nil

	default:
		return false, fmt.Errorf("unknown command: %s (type 'help')", cmd)
	}
	return false, nil
}

// open shows the view for r
func (s *Shell) open(r route.Route) error {
	switch r.Kind {
	case route.KindMedia:
		return s.details(r.Media)
	case route.KindSearch:
		return s.search(r.Query)
	case route.KindWatchlist:
		s.showWatchlist()
	default:
		s.showContinue()
	}
	return nil
}

// search lists the full results for query
func (s *Shell) search(query string) error {
	if s.nav.Current() != route.ToSearch(query) {
		s.nav.GoToSearchResults(query)
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	results, err := s.fetcher.Fetch(ctx, query, s.lang)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(results) == 0 {
		fmt.Fprintf(s.out, "No titles match %q\n", query)
		s.listing = nil
		return nil
	}
	s.printListing(results)
	return nil
}

// suggest prints what the popover would show for query
func (s *Shell) suggest(query string) error {
	if !suggest.Qualifies(query) {
		return fmt.Errorf("type at least %d characters", suggest.MinQueryLen)
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	results, err := s.fetcher.Fetch(ctx, query, s.lang)
	if err != nil {
		return fmt.Errorf("suggest failed: %w", err)
	}
	s.printListing(suggest.Truncate(results, suggest.KeystrokeLimit))
	return nil
}

func (s *Shell) printListing(items []catalog.Suggestion) {
	s.listing = items
	width := terminalWidth()
	for i, item := range items {
		s.titles.Add(item.Title)
		fmt.Fprintf(s.out, "%3d  %s\n", i+1, s.formatSuggestion(item, width-5))
	}
}

func (s *Shell) formatSuggestion(item catalog.Suggestion, width int) string {
	kind := colorCyan.Sprint("M")
	if item.Kind == catalog.KindShow {
		kind = colorPurple.Sprint("S")
	}
	year := ""
	if item.Year > 0 {
		year = fmt.Sprintf(" (%d)", item.Year)
	}
	ref := "  " + item.Ref().String()
	mark := " "
	if s.lib.Contains(item.Ref()) {
		mark = colorGreen.Sprint("★")
	}
	title := runewidth.Truncate(item.Title, max(width-4-runewidth.StringWidth(year+ref), 8), "…")
	return fmt.Sprintf("%s%s %s%s%s", mark, kind, colorBold.Sprint(title), year, colorGray.Sprint(ref))
}

// resolve turns a listing number or a ref string into a Ref
func (s *Shell) resolve(arg string) (catalog.Ref, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(s.listing) {
			return catalog.Ref{}, fmt.Errorf("no row %d in the last listing", n)
		}
		return s.listing[n-1].Ref(), nil
	}
	return catalog.ParseRef(arg)
}

func (s *Shell) details(ref catalog.Ref) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	det, err := s.catalog.Details(ctx, ref, s.lang)
	if err != nil {
		return err
	}
	s.lib.MarkViewed(ref)

	fmt.Fprint(s.out, colorBold.Sprint(det.Title))
	if det.Year > 0 {
		fmt.Fprintf(s.out, " (%d)", det.Year)
	}
	fmt.Fprintln(s.out)
	if det.Rating > 0 {
		fmt.Fprintf(s.out, "%s %.1f/10\n", colorYellow.Sprint("Rating:"), det.Rating)
	}
	if det.Runtime > 0 {
		fmt.Fprintf(s.out, "%s %d min\n", colorYellow.Sprint("Runtime:"), det.Runtime)
	}
	if det.Seasons > 0 {
		fmt.Fprintf(s.out, "%s %d\n", colorYellow.Sprint("Seasons:"), det.Seasons)
	}
	if len(det.Genres) > 0 {
		fmt.Fprintf(s.out, "%s %s\n", colorYellow.Sprint("Genres:"), strings.Join(det.Genres, ", "))
	}
	if s.lib.Contains(ref) {
		colorGreen.Fprintln(s.out, "✓ On your watchlist")
	}
	if det.Overview != "" {
		fmt.Fprintln(s.out)
		fmt.Fprintln(s.out, wrapText(det.Overview, min(terminalWidth(), 100)))
	}
	return nil
}

// watch adds or removes the argument, or the current title when empty
func (s *Shell) watch(add bool, arg string) error {
	var ref catalog.Ref
	if arg == "" {
		cur := s.nav.Current()
		if cur.Kind != route.KindMedia {
			return fmt.Errorf("open a title first, or pass <n|ref>")
		}
		ref = cur.Media
	} else {
		r, err := s.resolve(arg)
		if err != nil {
			return err
		}
		ref = r
	}

	if add {
		if !s.lib.Add(ref) {
			fmt.Fprintf(s.out, "%s is already on the watchlist\n", ref)
			return nil
		}
		fmt.Fprintf(s.out, "Added %s\n", ref)
	} else {
		if !s.lib.Remove(ref) {
			return fmt.Errorf("%s is not on the watchlist", ref)
		}
		fmt.Fprintf(s.out, "Removed %s\n", ref)
	}
	return s.lib.Save()
}

// progress records "progress <n|ref> <percent>"
func (s *Shell) progress(args string) error {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return fmt.Errorf("usage: progress <n|ref> <percent>")
	}
	ref, err := s.resolve(fields[0])
	if err != nil {
		return err
	}
	pct, err := strconv.ParseFloat(strings.TrimSuffix(fields[1], "%"), 64)
	if err != nil || pct < 0 || pct > 100 {
		return fmt.Errorf("invalid percent: %s", fields[1])
	}

	title := ""
	for _, item := range s.listing {
		if item.Ref() == ref {
			title = item.Title
		}
	}
	s.lib.UpdateProgress(library.Progress{Ref: ref, Title: title, Percent: pct})
	return s.lib.Save()
}

func (s *Shell) showWatchlist() {
	refs := s.lib.Watchlist()
	if len(refs) == 0 {
		fmt.Fprintln(s.out, "Watchlist is empty")
		return
	}
	for i, ref := range refs {
		fmt.Fprintf(s.out, "%3d  %s\n", i+1, ref)
	}
	s.listing = s.listing[:0]
	for _, ref := range refs {
		s.listing = append(s.listing, catalog.Suggestion{ID: ref.ID, Kind: ref.Kind, Title: ref.String()})
	}
}

func (s *Shell) showContinue() {
	items := s.lib.ContinueWatching()
	if len(items) == 0 {
		fmt.Fprintln(s.out, "Nothing to continue")
		return
	}
	s.listing = s.listing[:0]
	for i, p := range items {
		title := p.Title
		if title == "" {
			title = p.Ref.String()
		}
		fmt.Fprintf(s.out, "%3d  %s %s\n", i+1, title, colorGray.Sprintf("%.0f%%", p.Percent))
		s.listing = append(s.listing, catalog.Suggestion{ID: p.Ref.ID, Kind: p.Ref.Kind, Title: title})
	}
}

func (s *Shell) help() {
	colorBold.Fprintln(s.out, "Commands:")
	fmt.Fprint(s.out, `  search <text>          full search (Tab completes titles)
  suggest <text>         show the top suggestions for text
  open <n|ref>           show a title from the last listing or by ref
  watch [n|ref]          add to watchlist
  unwatch [n|ref]        remove from watchlist
  watchlist              list the watchlist
  progress <n|ref> <%>   record watch progress
  continue               continue watching
  go <path>              open a route path, e.g. /media/movie-27205
  back                   previous view
  lang [en|ro]           show or set the catalog language
  cache                  suggestion cache size
  exit                   leave the shell
`)
}

func terminalWidth() int {
	width := 100
	if fd := int(os.Stdout.Fd()); term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil {
			width = w
		}
	}
	return width
}

// wrapText breaks s into lines no wider than width cells
func wrapText(s string, width int) string {
	var b strings.Builder
	line := 0
	for i, word := range strings.Fields(s) {
		w := runewidth.StringWidth(word)
		if i > 0 {
			if line+1+w > width {
				b.WriteString("\n")
				line = 0
			} else {
				b.WriteString(" ")
				line++
			}
		}
		b.WriteString(word)
		line += w
	}
	return b.String()
}
