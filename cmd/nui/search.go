package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"nushcenume/catalog"
	"nushcenume/route"
	"nushcenume/suggest"
)

const (
	searchPrompt  = "Search: "
	minPanelWidth = 24
)

// SearchModel is the header search box and its suggestion popover
type SearchModel struct {
	input   textinput.Model
	spinner spinner.Model
	widget  *suggest.Widget

	x, y     int // where the input is drawn
	width    int // input width in cells
	spinning bool
}

func NewSearchModel(widget *suggest.Widget) SearchModel {
	ti := textinput.New()
	ti.Placeholder = "Movies and shows..."
	ti.CharLimit = 256
	ti.Prompt = ""

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = loadingStyle

	return SearchModel{
		input:   ti,
		spinner: sp,
		widget:  widget,
		width:   32,
	}
}

// Focused reports whether the search box has keyboard focus
func (s *SearchModel) Focused() bool {
	return s.input.Focused()
}

// Focus gives the box keyboard focus and re-shows suggestions for its text
func (s *SearchModel) Focus() tea.Cmd {
	cmd := s.input.Focus()
	return tea.Batch(cmd, s.send(suggest.Focus{}))
}

// Blur drops keyboard focus; the popover is closed
func (s *SearchModel) Blur() {
	s.input.Blur()
	s.send(suggest.Blur{})
	s.send(suggest.KeyEscape)
}

// SetLanguage switches the catalog language of the widget
func (s *SearchModel) SetLanguage(lang string) tea.Cmd {
	return s.send(suggest.SetLanguage{Lang: lang})
}

// Language returns the widget's catalog language
func (s *SearchModel) Language() string {
	return s.widget.Language()
}

// Place records where the box is drawn so pointer events can be hit-tested
func (s *SearchModel) Place(x, y, width int) {
	s.x, s.y = x, y
	if width > 8 {
		s.width = width
	}
	s.input.Width = s.width - 2
	s.setBounds()
}

func (s *SearchModel) setBounds() {
	s.widget.SetBounds(
		suggest.Rect{X: s.x, Y: s.y, W: s.width, H: 1},
		suggest.Rect{X: s.x, Y: s.y + 1, W: s.panelWidth(), H: s.panelHeight()},
	)
}

// HandleKey processes a key while the box is focused. It returns the route
// to navigate to when a suggestion or a full search is confirmed.
func (s *SearchModel) HandleKey(msg tea.KeyMsg) (tea.Cmd, *route.Route) {
	switch {
	case key.Matches(msg, searchKeys.NextItem):
		return s.update(suggest.KeyDown)
	case key.Matches(msg, searchKeys.PrevItem):
		return s.update(suggest.KeyUp)
	case key.Matches(msg, searchKeys.Confirm):
		return s.update(suggest.KeyEnter)
	case key.Matches(msg, searchKeys.Cancel):
		return s.update(suggest.KeyEscape)
	}

	before := s.input.Value()
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if s.input.Value() == before {
		return cmd, nil
	}
	return tea.Batch(cmd, s.send(suggest.Input{Value: s.input.Value()})), nil
}

// HandleMouse processes a pointer press anywhere on screen
func (s *SearchModel) HandleMouse(msg tea.MouseMsg) (tea.Cmd, *route.Route) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil, nil
	}
	state := s.widget.State()

	// Rows inside the panel border activate items
	if state.Open && len(state.Visible()) > 0 {
		row := msg.Y - (s.y + 2)
		if msg.X > s.x && msg.X < s.x+s.panelWidth()-1 && row >= 0 && row < len(state.Visible()) {
			return s.update(suggest.Activate{Index: row})
		}
	}

	if msg.Y == s.y && msg.X >= s.x && msg.X < s.x+s.width {
		if s.Focused() {
			return s.update(suggest.Click{})
		}
		return s.Focus(), nil
	}
	return s.update(suggest.PointerDown{X: msg.X, Y: msg.Y})
}

// Update routes suggestion plumbing messages to the widget
func (s *SearchModel) Update(msg tea.Msg) (tea.Cmd, *route.Route) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !s.widget.State().Loading {
			s.spinning = false
			return nil, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return cmd, nil
	case suggest.SettledMsg, suggest.ResultMsg:
		return s.update(msg)
	}

	// Cursor blink
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd, nil
}

// syncInput mirrors the widget's query, which is cleared on title selection
func (s *SearchModel) syncInput() {
	if s.widget.Query() != s.input.Value() {
		s.input.SetValue(s.widget.Query())
	}
}

func (s *SearchModel) update(msg tea.Msg) (tea.Cmd, *route.Route) {
	cmd, nav := s.widget.Update(msg)
	s.syncInput()
	s.setBounds()
	return tea.Batch(cmd, s.tick()), nav
}

func (s *SearchModel) send(msg tea.Msg) tea.Cmd {
	cmd, _ := s.update(msg)
	return cmd
}

// tick starts the spinner when a lookup begins
func (s *SearchModel) tick() tea.Cmd {
	if s.spinning || !s.widget.State().Loading {
		return nil
	}
	s.spinning = true
	return s.spinner.Tick
}

// View renders the search box line
func (s *SearchModel) View() string {
	prompt := searchPromptStyle.Render(searchPrompt)
	box := lipgloss.NewStyle().Width(s.width).Render(s.input.View())
	return prompt + box
}

// Popover renders the suggestion panel, or "" when closed
func (s *SearchModel) Popover() string {
	state := s.widget.State()
	inner := s.panelWidth() - 4

	var b strings.Builder
	switch state.Phase() {
	case suggest.PhaseClosed:
		return ""
	case suggest.PhaseLoading:
		b.WriteString(s.spinner.View() + loadingStyle.Render(" searching..."))
	case suggest.PhaseEmpty:
		b.WriteString(helpDescStyle.Render("No matches"))
		b.WriteString("\n")
		b.WriteString(helpKeyStyle.Render(truncate(fmt.Sprintf("enter: search %q", s.widget.Query()), inner)))
	case suggest.PhaseListing:
		for i, item := range state.Visible() {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(renderSuggestion(item, inner, i == state.Highlighted))
		}
	}

	return overlayStyle.Width(s.panelWidth() - 2).Render(b.String())
}

func (s *SearchModel) panelWidth() int {
	if s.width < minPanelWidth {
		return minPanelWidth
	}
	return s.width
}

func (s *SearchModel) panelHeight() int {
	state := s.widget.State()
	switch state.Phase() {
	case suggest.PhaseClosed:
		return 0
	case suggest.PhaseListing:
		return len(state.Visible()) + 2
	case suggest.PhaseEmpty:
		return 4
	}
	return 3
}

// renderSuggestion renders one popover row: kind marker, title, year
func renderSuggestion(item catalog.Suggestion, width int, selected bool) string {
	marker := "M"
	markerStyle := movieStyle
	if item.Kind == catalog.KindShow {
		marker, markerStyle = "S", showStyle
	}

	year := ""
	if item.Year > 0 {
		year = fmt.Sprintf(" %d", item.Year)
	}
	title := truncate(item.Title, width-2-runewidth.StringWidth(year))

	if selected {
		line := runewidth.FillRight(marker+" "+title+year, width)
		return cursorStyle.Render(line)
	}
	return markerStyle.Render(marker) + " " + searchMatchStyle.Render(title) + yearStyle.Render(year)
}

// truncate shortens s to width cells with an ellipsis
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}
