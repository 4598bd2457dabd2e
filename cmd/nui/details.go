package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"nushcenume/catalog"
)

// DetailsModel shows one title in a scrollable viewport
type DetailsModel struct {
	viewport viewport.Model
	content  string
	ready    bool
	width    int
}

func NewDetailsModel() DetailsModel {
	return DetailsModel{}
}

func (d *DetailsModel) SetSize(width, height int) {
	d.width = width
	if !d.ready {
		d.viewport = viewport.New(width, height)
		d.viewport.SetContent(d.content)
		d.ready = true
	} else {
		d.viewport.Width = width
		d.viewport.Height = height
	}
}

func (d *DetailsModel) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	d.viewport, cmd = d.viewport.Update(msg)
	return cmd
}

// SetLoading shows a placeholder while ref is fetched
func (d *DetailsModel) SetLoading(ref catalog.Ref) {
	d.setContent(loadingStyle.Render("Loading " + ref.String() + "..."))
}

// SetError shows a fetch failure
func (d *DetailsModel) SetError(ref catalog.Ref, err error) {
	d.setContent(errorStyle.Render(fmt.Sprintf("Could not load %s: %v", ref, err)))
}

// SetDetails renders a title. onList marks watchlist membership.
func (d *DetailsModel) SetDetails(det *catalog.Details, onList bool) {
	if det == nil {
		d.setContent("")
		return
	}

	var b strings.Builder

	b.WriteString(breadcrumbLastStyle.Render(det.Title))
	if det.Year > 0 {
		b.WriteString(yearStyle.Render(fmt.Sprintf(" (%d)", det.Year)))
	}
	b.WriteString("\n\n")

	kind := "Movie"
	if det.Kind == catalog.KindShow {
		kind = "Show"
	}
	d.field(&b, "Type", kind)
	if det.Rating > 0 {
		b.WriteString(detailLabelStyle.Render("Rating: "))
		b.WriteString(ratingStyle.Render(fmt.Sprintf("%.1f/10", det.Rating)))
		b.WriteString("\n")
	}
	if det.Runtime > 0 {
		d.field(&b, "Runtime", fmt.Sprintf("%d min", det.Runtime))
	}
	if det.Seasons > 0 {
		d.field(&b, "Seasons", fmt.Sprintf("%d", det.Seasons))
	}
	if len(det.Genres) > 0 {
		d.field(&b, "Genres", strings.Join(det.Genres, ", "))
	}
	if det.PosterURL != "" {
		d.field(&b, "Poster", det.PosterURL)
	}
	if onList {
		b.WriteString(watchedStyle.Render("✓ On your watchlist"))
		b.WriteString("\n")
	}

	if det.Overview != "" {
		b.WriteString("\n")
		wrap := lipgloss.NewStyle().Width(max(d.width-2, 20))
		b.WriteString(detailValueStyle.Render(wrap.Render(det.Overview)))
		b.WriteString("\n")
	}

	d.setContent(b.String())
}

func (d *DetailsModel) field(b *strings.Builder, label, value string) {
	b.WriteString(detailLabelStyle.Render(label + ": "))
	b.WriteString(detailValueStyle.Render(value))
	b.WriteString("\n")
}

func (d *DetailsModel) setContent(s string) {
	d.content = s
	if d.ready {
		d.viewport.SetContent(s)
		d.viewport.GotoTop()
	}
}

func (d *DetailsModel) View() string {
	if !d.ready {
		return d.content
	}
	return d.viewport.View()
}
