package main

import "github.com/charmbracelet/lipgloss"

// All styles use ANSI colors 0–15 so they follow the terminal's theme.
//
//   0: black    8: bright black (dark gray)
//   1: red      9: bright red
//   2: green   10: bright green
//   3: yellow  11: bright yellow
//   4: blue    12: bright blue
//   5: magenta 13: bright magenta
//   6: cyan    14: bright cyan
//   7: white   15: bright white

var (
	// Status bar
	statusStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.ANSIColor(11)).
			Reverse(true).
			Padding(0, 1)

	// Breadcrumb
	breadcrumbStyle     = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(7))
	breadcrumbSepStyle  = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(8))
	breadcrumbLastStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(15))

	// Help bar
	helpKeyStyle  = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(8))
	helpDescStyle = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(7))

	// Lists
	cursorStyle  = lipgloss.NewStyle().Reverse(true).Bold(true)
	yearStyle    = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(8))
	movieStyle   = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(12)) // Bright blue
	showStyle    = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(5))  // Magenta
	watchedStyle = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(10)) // Bright green
	sectionStyle = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(3)).Bold(true)

	// Details panel
	detailLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(3)).Bold(true) // Yellow
	detailValueStyle = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(7))            // White
	ratingStyle      = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(11))

	// Search box and popover
	searchPromptStyle = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(3)).Bold(true) // Yellow
	searchMatchStyle  = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(6))            // Cyan
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(1))

	// Loading
	loadingStyle = lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(8)).Italic(true)

	// Popover and help panels
	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.ANSIColor(3)).
			Padding(0, 1)
)
