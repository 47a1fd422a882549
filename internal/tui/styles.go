package tui

import "github.com/charmbracelet/lipgloss"

// palette is one color scheme.
type palette struct {
	text    lipgloss.Color
	muted   lipgloss.Color
	accent  lipgloss.Color
	border  lipgloss.Color
	header  lipgloss.Color
	done    lipgloss.Color
	selectB lipgloss.Color
	errText lipgloss.Color
}

var (
	lightPalette = palette{
		text:    lipgloss.Color("#1F2937"),
		muted:   lipgloss.Color("#6B7280"),
		accent:  lipgloss.Color("#14B8A6"),
		border:  lipgloss.Color("#D1D5DB"),
		header:  lipgloss.Color("#374151"),
		done:    lipgloss.Color("#22C55E"),
		selectB: lipgloss.Color("#E5E7EB"),
		errText: lipgloss.Color("#DC2626"),
	}
	darkPalette = palette{
		text:    lipgloss.Color("#D1D5DB"),
		muted:   lipgloss.Color("#9CA3AF"),
		accent:  lipgloss.Color("#2DD4BF"),
		border:  lipgloss.Color("#374151"),
		header:  lipgloss.Color("#F9FAFB"),
		done:    lipgloss.Color("#4ADE80"),
		selectB: lipgloss.Color("#374151"),
		errText: lipgloss.Color("#F87171"),
	}
)

// styles are the rendered styles for one theme.
type styles struct {
	title    lipgloss.Style
	subtitle lipgloss.Style
	heading  lipgloss.Style
	help     lipgloss.Style
	status   lipgloss.Style
	errorMsg lipgloss.Style
	empty    lipgloss.Style
	cell     lipgloss.Style
	header   lipgloss.Style
	selected lipgloss.Style
	done     lipgloss.Style
	border   lipgloss.Style
}

func newStyles(dark bool) styles {
	p := lightPalette
	if dark {
		p = darkPalette
	}
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(p.header),
		subtitle: lipgloss.NewStyle().Foreground(p.muted),
		heading:  lipgloss.NewStyle().Bold(true).Foreground(p.accent).MarginTop(1),
		help:     lipgloss.NewStyle().Foreground(p.muted).MarginTop(1),
		status:   lipgloss.NewStyle().Foreground(p.muted),
		errorMsg: lipgloss.NewStyle().Foreground(p.errText),
		empty:    lipgloss.NewStyle().Foreground(p.muted).Italic(true),
		cell:     lipgloss.NewStyle().Foreground(p.text).Padding(0, 1),
		header:   lipgloss.NewStyle().Bold(true).Foreground(p.header).Padding(0, 1),
		selected: lipgloss.NewStyle().Foreground(p.text).Background(p.selectB).Padding(0, 1),
		done:     lipgloss.NewStyle().Foreground(p.done).Padding(0, 1),
		border:   lipgloss.NewStyle().Foreground(p.border),
	}
}
