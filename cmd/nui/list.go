package main

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"nushcenume/catalog"
)

// ListItem is one selectable row
type ListItem struct {
	Ref    catalog.Ref
	Title  string
	Year   int
	Note   string // e.g. watch progress
	Marked bool   // on the watchlist
}

// ListModel is a cursor list used for search results, the watchlist and home
type ListModel struct {
	heading string
	items   []ListItem
	empty   string
	cursor  int
	offset  int
	width   int
	height  int
}

func NewListModel() ListModel {
	return ListModel{}
}

// Set replaces the list content and resets the cursor
func (l *ListModel) Set(heading string, items []ListItem, empty string) {
	l.heading = heading
	l.items = items
	l.empty = empty
	l.cursor = 0
	l.offset = 0
}

func (l *ListModel) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.ensureVisible()
}

// Current returns the item under the cursor
func (l *ListModel) Current() (ListItem, bool) {
	if l.cursor < 0 || l.cursor >= len(l.items) {
		return ListItem{}, false
	}
	return l.items[l.cursor], true
}

func (l *ListModel) MoveUp() {
	if l.cursor > 0 {
		l.cursor--
	}
	l.ensureVisible()
}

func (l *ListModel) MoveDown() {
	if l.cursor < len(l.items)-1 {
		l.cursor++
	}
	l.ensureVisible()
}

func (l *ListModel) rows() int {
	// heading + blank line
	r := l.height - 2
	if r < 1 {
		r = 1
	}
	return r
}

func (l *ListModel) ensureVisible() {
	rows := l.rows()
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+rows {
		l.offset = l.cursor - rows + 1
	}
}

func (l *ListModel) View() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render(l.heading))
	b.WriteString("\n\n")

	if len(l.items) == 0 {
		b.WriteString(helpDescStyle.Render(l.empty))
		return b.String()
	}

	end := min(l.offset+l.rows(), len(l.items))
	for i := l.offset; i < end; i++ {
		b.WriteString(l.renderItem(l.items[i], i == l.cursor))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (l *ListModel) renderItem(item ListItem, selected bool) string {
	marker := " "
	if item.Marked {
		marker = "★"
	}
	year := ""
	if item.Year > 0 {
		year = fmt.Sprintf(" (%d)", item.Year)
	}
	note := ""
	if item.Note != "" {
		note = "  " + item.Note
	}

	width := l.width - 4 - runewidth.StringWidth(year+note)
	title := truncate(item.Title, width)

	if selected {
		return cursorStyle.Render(runewidth.FillRight(" "+marker+" "+title+year+note, l.width-1))
	}
	kind := movieStyle
	if item.Ref.Kind == catalog.KindShow {
		kind = showStyle
	}
	return " " + watchedStyle.Render(marker) + " " + kind.Render(title) + yearStyle.Render(year) + loadingStyle.Render(note)
}
