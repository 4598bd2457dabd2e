package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"nushcenume/catalog"
	"nushcenume/config"
	"nushcenume/library"
	"nushcenume/route"
	"nushcenume/suggest"
)

const appTitle = "NUI"

// Model is the root Bubble Tea model
type Model struct {
	fetcher *suggest.Fetcher
	catalog catalog.DetailProvider
	lib     *library.Library
	nav     *route.Dispatcher
	log     *log.Logger

	search     SearchModel
	list       ListModel
	details    DetailsModel
	breadcrumb BreadcrumbModel

	titles  map[catalog.Ref]catalog.Suggestion
	current *catalog.Details

	startup tea.Cmd

	width, height int
	showHelp      bool
	loading       bool
	statusMsg     string
}

// NewModel wires the suggestion widget to the dispatcher so every route
// change closes the popover
func NewModel(fetcher *suggest.Fetcher, details catalog.DetailProvider, lib *library.Library, ctrl *suggest.Controller, lang string, logger *log.Logger) Model {
	widget := suggest.NewWidget(ctrl, lang)
	nav := route.NewDispatcher(route.Home, logger)
	nav.Subscribe(func(route.Route) {
		widget.Update(suggest.RouteChanged{})
	})

	m := Model{
		fetcher:    fetcher,
		catalog:    details,
		lib:        lib,
		nav:        nav,
		log:        logger,
		search:     NewSearchModel(widget),
		list:       NewListModel(),
		details:    NewDetailsModel(),
		breadcrumb: NewBreadcrumbModel(),
		titles:     make(map[catalog.Ref]catalog.Suggestion),
	}
	m.showHome()
	m.startup = m.search.Focus()
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.startup)
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if tea.MouseEvent(msg).IsWheel() && m.nav.Current().Kind == route.KindMedia {
			return m, m.details.Update(msg)
		}
		cmd, nav := m.search.HandleMouse(msg)
		return m.follow(cmd, nav)

	case DetailsLoadedMsg:
		return m.handleDetailsLoaded(msg)

	case ResultsLoadedMsg:
		return m.handleResultsLoaded(msg)
	}

	// Suggestion plumbing and spinner ticks
	cmd, nav := m.search.Update(msg)
	return m.follow(cmd, nav)
}

// follow runs cmd and, when the search box confirmed something, navigates
func (m Model) follow(cmd tea.Cmd, nav *route.Route) (tea.Model, tea.Cmd) {
	if nav == nil {
		return m, cmd
	}
	m.search.Blur()
	next, navCmd := m.navigate(*nav)
	return next, tea.Batch(cmd, navCmd)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.search.Focused() {
		return m.handleSearchKey(msg)
	}
	return m.handleNormalKey(msg)
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, searchKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, searchKeys.Leave):
		m.search.Blur()
		return m, nil
	case key.Matches(msg, searchKeys.Cancel) && !m.search.widget.State().Open:
		// Escape with the popover already closed leaves the box
		m.search.Blur()
		return m, nil
	}
	cmd, nav := m.search.HandleKey(msg)
	return m.follow(cmd, nav)
}

func (m Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, normalKeys.Quit):
		return m, tea.Quit

	case key.Matches(msg, normalKeys.Search):
		return m, m.search.Focus()

	case key.Matches(msg, normalKeys.Help):
		m.showHelp = true

	case key.Matches(msg, normalKeys.Down):
		if m.nav.Current().Kind == route.KindMedia {
			m.details.viewport.LineDown(1)
		} else {
			m.list.MoveDown()
		}

	case key.Matches(msg, normalKeys.Up):
		if m.nav.Current().Kind == route.KindMedia {
			m.details.viewport.LineUp(1)
		} else {
			m.list.MoveUp()
		}

	case key.Matches(msg, normalKeys.Enter):
		if item, ok := m.list.Current(); ok && m.nav.Current().Kind != route.KindMedia {
			return m.navigate(route.ToMedia(item.Ref))
		}

	case key.Matches(msg, normalKeys.Back), key.Matches(msg, normalKeys.BackAlt):
		if prev, ok := m.nav.Back(); ok {
			return m.enter(prev)
		}
		m.statusMsg = "Nothing to go back to"

	case key.Matches(msg, normalKeys.Home):
		return m.navigate(route.Home)

	case key.Matches(msg, normalKeys.Watchlist):
		return m.navigate(route.Watchlist)

	case key.Matches(msg, normalKeys.Toggle):
		return m.toggleWatchlist()

	case key.Matches(msg, normalKeys.Language):
		lang := "ro"
		if m.search.Language() == "ro" {
			lang = "en"
		}
		m.statusMsg = "Language: " + lang
		return m, m.search.SetLanguage(lang)

	default:
		// Page keys scroll the detail pane
		if m.nav.Current().Kind == route.KindMedia {
			return m, m.details.Update(msg)
		}
	}

	return m, nil
}

// navigate pushes r onto the dispatcher and loads its view
func (m Model) navigate(r route.Route) (tea.Model, tea.Cmd) {
	switch r.Kind {
	case route.KindMedia:
		r = m.nav.GoToMedia(r.Media)
	case route.KindSearch:
		r = m.nav.GoToSearchResults(r.Query)
	default:
		r = m.nav.Navigate(r)
	}
	return m.enter(r)
}

// enter loads the view for r without touching the back stack
func (m Model) enter(r route.Route) (tea.Model, tea.Cmd) {
	m.statusMsg = ""
	m.breadcrumb.SetRoute(r, m.titles[r.Media].Title)
	m.log.Debug("route", "path", r.Path())

	switch r.Kind {
	case route.KindMedia:
		m.current = nil
		m.loading = true
		m.lib.MarkViewed(r.Media)
		m.details.SetLoading(r.Media)
		return m, m.fetchDetails(r.Media)

	case route.KindSearch:
		m.loading = true
		m.list.Set(fmt.Sprintf("Results for %q", r.Query), nil, "Searching...")
		return m, m.fetchResults(r.Query)

	case route.KindWatchlist:
		m.showWatchlist()

	default:
		m.showHome()
	}
	return m, nil
}

func (m Model) fetchDetails(ref catalog.Ref) tea.Cmd {
	provider, lang := m.catalog, m.search.Language()
	return func() tea.Msg {
		det, err := provider.Details(context.Background(), ref, lang)
		return DetailsLoadedMsg{Ref: ref, Details: det, Err: err}
	}
}

// fetchResults shares the suggestion cache: the full list for a key is
// already cached whenever the popover showed it
func (m Model) fetchResults(query string) tea.Cmd {
	fetcher, lang := m.fetcher, m.search.Language()
	return func() tea.Msg {
		results, err := fetcher.Fetch(context.Background(), query, lang)
		return ResultsLoadedMsg{Query: query, Results: results, Err: err}
	}
}

func (m Model) handleDetailsLoaded(msg DetailsLoadedMsg) (tea.Model, tea.Cmd) {
	cur := m.nav.Current()
	if cur.Kind != route.KindMedia || cur.Media != msg.Ref {
		return m, nil
	}
	m.loading = false
	if msg.Err != nil {
		m.log.Warn("details failed", "ref", msg.Ref, "err", msg.Err)
		m.statusMsg = fmt.Sprintf("Error: %v", msg.Err)
		m.details.SetError(msg.Ref, msg.Err)
		return m, nil
	}
	m.current = msg.Details
	m.titles[msg.Ref] = msg.Details.Suggestion
	m.breadcrumb.SetRoute(cur, msg.Details.Title)
	m.details.SetDetails(msg.Details, m.lib.Contains(msg.Ref))
	return m, nil
}

func (m Model) handleResultsLoaded(msg ResultsLoadedMsg) (tea.Model, tea.Cmd) {
	cur := m.nav.Current()
	if cur.Kind != route.KindSearch || cur.Query != msg.Query {
		return m, nil
	}
	m.loading = false
	heading := fmt.Sprintf("Results for %q", msg.Query)
	if msg.Err != nil {
		m.log.Warn("search failed", "query", msg.Query, "err", msg.Err)
		m.list.Set(heading, nil, "Search failed: "+msg.Err.Error())
		return m, nil
	}

	items := make([]ListItem, 0, len(msg.Results))
	for _, s := range msg.Results {
		m.titles[s.Ref()] = s
		items = append(items, m.listItem(s.Ref()))
	}
	m.list.Set(fmt.Sprintf("%s (%d)", heading, len(items)), items, "No titles match")
	return m, nil
}

func (m Model) toggleWatchlist() (tea.Model, tea.Cmd) {
	var ref catalog.Ref
	cur := m.nav.Current()
	if cur.Kind == route.KindMedia {
		ref = cur.Media
	} else if item, ok := m.list.Current(); ok {
		ref = item.Ref
	} else {
		return m, nil
	}

	if m.lib.Toggle(ref) {
		m.statusMsg = "Added to watchlist"
	} else {
		m.statusMsg = "Removed from watchlist"
	}
	if err := m.lib.Save(); err != nil {
		m.log.Error("saving library", "err", err)
		m.statusMsg = fmt.Sprintf("Error: %v", err)
	}

	switch cur.Kind {
	case route.KindMedia:
		m.details.SetDetails(m.current, m.lib.Contains(ref))
	case route.KindWatchlist:
		m.showWatchlist()
	case route.KindHome:
		m.showHome()
	}
	return m, nil
}

func (m *Model) listItem(ref catalog.Ref) ListItem {
	s, ok := m.titles[ref]
	title := ref.String()
	if ok {
		title = s.Title
	}
	return ListItem{Ref: ref, Title: title, Year: s.Year, Marked: m.lib.Contains(ref)}
}

func (m *Model) showWatchlist() {
	refs := m.lib.Watchlist()
	items := make([]ListItem, 0, len(refs))
	for _, ref := range refs {
		items = append(items, m.listItem(ref))
	}
	m.list.Set(fmt.Sprintf("Watchlist (%d)", len(items)), items, "Your watchlist is empty. Press a on a title to add it.")
}

func (m *Model) showHome() {
	progress := m.lib.ContinueWatching()
	items := make([]ListItem, 0, len(progress))
	for _, p := range progress {
		item := m.listItem(p.Ref)
		if p.Title != "" {
			item.Title = p.Title
		}
		item.Note = fmt.Sprintf("%.0f%%", p.Percent)
		items = append(items, item)
	}
	m.list.Set("Continue watching", items, "Press / to search the catalog.")
}

func (m *Model) recalcLayout() {
	chrome := 3 // header, breadcrumb, help bar
	contentHeight := m.height - chrome
	if contentHeight < 3 {
		contentHeight = 3
	}

	m.list.SetSize(m.width, contentHeight)
	m.details.SetSize(m.width, contentHeight)
	m.breadcrumb.SetWidth(m.width)

	x := lipgloss.Width(statusStyle.Render(appTitle)) + 1 + lipgloss.Width(searchPromptStyle.Render(searchPrompt))
	m.search.Place(x, 0, min(m.width-x-6, 60))
}

// View implements tea.Model
func (m Model) View() string {
	if m.width == 0 {
		return "Starting..."
	}

	contentHeight := m.height - 3
	var content string
	if m.nav.Current().Kind == route.KindMedia {
		content = m.details.View()
	} else {
		content = m.list.View()
	}
	content = lipgloss.NewStyle().
		Width(m.width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	screen := lipgloss.JoinVertical(lipgloss.Left,
		m.viewHeader(),
		m.breadcrumb.View(),
		content,
		m.viewHelpBar(),
	)

	if m.showHelp {
		return placeOverlay(m.width, m.height, overlayStyle.Render(helpContent()), screen)
	}
	if pop := m.search.Popover(); pop != "" {
		screen = placeOverlayAt(m.search.x, 1, m.width, pop, screen)
	}
	return screen
}

func (m Model) viewHeader() string {
	header := statusStyle.Render(appTitle) + " " + m.search.View()
	lang := helpKeyStyle.Render(" [" + m.search.Language() + "]")
	status := ""
	if m.statusMsg != "" {
		status = "  " + helpDescStyle.Render(m.statusMsg)
	} else if m.loading {
		status = "  " + loadingStyle.Render("loading...")
	}
	return header + lang + status
}

func (m Model) viewHelpBar() string {
	var pairs []string
	if m.search.Focused() {
		pairs = []string{
			"enter", "go",
			"↑/↓", "select",
			"esc", "close",
			"tab", "leave",
		}
	} else {
		pairs = []string{
			"/", "search",
			"enter", "open",
			"a", "watchlist ±",
			"w", "watchlist",
		}
		if m.nav.Depth() > 0 {
			pairs = append(pairs, "bs", "back")
		}
		pairs = append(pairs, "L", "language", "?", "help")
	}

	var parts []string
	for i := 0; i < len(pairs)-1; i += 2 {
		parts = append(parts, helpKeyStyle.Render(pairs[i])+":"+helpDescStyle.Render(pairs[i+1]))
	}
	return strings.Join(parts, "  ")
}

func helpContent() string {
	rows := [][2]string{
		{"/", "focus the search box"},
		{"↑ ↓", "move through suggestions"},
		{"enter", "open suggestion or search all"},
		{"esc", "close suggestions"},
		{"j k", "move in lists"},
		{"a", "add or remove from watchlist"},
		{"w", "show watchlist"},
		{"~", "home"},
		{"b", "back"},
		{"L", "switch catalog language"},
		{"q", "quit"},
	}
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Keys"))
	b.WriteString("\n\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%s  %s\n", helpKeyStyle.Width(6).Render(r[0]), helpDescStyle.Render(r[1]))
	}
	return strings.TrimRight(b.String(), "\n")
}

// placeOverlay composites a foreground panel centered on top of a background
func placeOverlay(bgWidth, bgHeight int, overlay, background string) string {
	x := (bgWidth - lipgloss.Width(overlay)) / 2
	y := (bgHeight - lipgloss.Height(overlay)) / 2
	return placeOverlayAt(max(x, 0), max(y, 0), bgWidth, overlay, background)
}

// placeOverlayAt composites overlay with its top-left corner at x, y.
// Background cells left of the overlay are kept; the rest of each covered
// line is replaced.
func placeOverlayAt(x, y, bgWidth int, overlay, background string) string {
	bgLines := strings.Split(background, "\n")
	fgLines := strings.Split(overlay, "\n")

	for i, fgLine := range fgLines {
		row := y + i
		if row >= len(bgLines) {
			break
		}
		left := truncateANSI(bgLines[row], x)
		rightPad := bgWidth - x - lipgloss.Width(fgLine)
		right := ""
		if rightPad > 0 {
			right = strings.Repeat(" ", rightPad)
		}
		bgLines[row] = left + fgLine + right
	}

	return strings.Join(bgLines, "\n")
}

// truncateANSI keeps the first width cells of a styled line, padding when short
func truncateANSI(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return lipgloss.NewStyle().MaxWidth(width).Render(s)
	}
	return s + strings.Repeat(" ", width-w)
}

// newModelFromConfig builds the program model and its collaborators
func newModelFromConfig(cfg *config.Config, client *catalog.Client, lib *library.Library, logger *log.Logger) Model {
	fetcher := suggest.NewFetcher(client, suggest.NewCache(cfg.Cache()), logger)
	ctrl := suggest.NewController(fetcher,
		suggest.WithSettle(cfg.Settle),
		suggest.WithLogger(logger),
	)
	return NewModel(fetcher, client, lib, ctrl, cfg.Language, logger)
}
