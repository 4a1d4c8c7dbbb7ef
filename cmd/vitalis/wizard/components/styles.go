package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/vitalis/internal/vitals"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			MarginBottom(1)
)

// Theme is the set of styles a screen renders with, derived from the
// patient's accessibility choices.
type Theme struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Hint     lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Panel    lipgloss.Style
	Button   lipgloss.Style
	Toolbar  lipgloss.Style

	BarFilled lipgloss.Style
	BarEmpty  lipgloss.Style

	// BarWidth is the width of progress bars in cells.
	BarWidth int
	// Gap separates blocks of content.
	Gap string

	severity map[vitals.Severity]lipgloss.Style
}

// ThemeFor builds the theme for a. High contrast swaps the palette for
// white/yellow on black; the font scale changes spacing and emphasis.
func ThemeFor(a Accessibility) Theme {
	accent, muted, text := lipgloss.Color("63"), lipgloss.Color("244"), lipgloss.Color("252")
	ok, warn, bad := lipgloss.Color("42"), lipgloss.Color("214"), lipgloss.Color("196")
	empty := lipgloss.Color("240")
	if a.HighContrast {
		accent, muted, text = lipgloss.Color("11"), lipgloss.Color("15"), lipgloss.Color("15")
		ok, warn, bad = lipgloss.Color("10"), lipgloss.Color("11"), lipgloss.Color("9")
		empty = lipgloss.Color("15")
	}

	t := Theme{
		Title:     TitleStyle.Foreground(accent),
		Subtitle:  SubtitleStyle.Foreground(muted),
		Label:     lipgloss.NewStyle().Foreground(muted),
		Value:     lipgloss.NewStyle().Foreground(text).Bold(true),
		Hint:      lipgloss.NewStyle().Foreground(muted).Italic(true),
		Error:     lipgloss.NewStyle().Foreground(bad).Bold(true),
		Success:   lipgloss.NewStyle().Foreground(ok).Bold(true),
		Panel:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(1, 2),
		Button:    lipgloss.NewStyle().Background(accent).Foreground(lipgloss.Color("255")).Padding(0, 2).Bold(true),
		Toolbar:   lipgloss.NewStyle().Foreground(muted),
		BarFilled: lipgloss.NewStyle().Foreground(accent),
		BarEmpty:  lipgloss.NewStyle().Foreground(empty),
		BarWidth:  40,
		Gap:       "\n",
		severity: map[vitals.Severity]lipgloss.Style{
			vitals.Normal:   lipgloss.NewStyle().Foreground(ok).Bold(true),
			vitals.Warning:  lipgloss.NewStyle().Foreground(warn).Bold(true),
			vitals.Critical: lipgloss.NewStyle().Foreground(bad).Bold(true),
		},
	}
	if a.HighContrast {
		t.Button = t.Button.Background(lipgloss.Color("11")).Foreground(lipgloss.Color("0"))
		t.Panel = t.Panel.Border(lipgloss.ThickBorder())
	}

	switch a.FontScale {
	case FontSmall:
		t.BarWidth = 30
		t.Gap = ""
		t.Title = t.Title.MarginBottom(0)
		t.Panel = t.Panel.Padding(0, 1)
	case FontLarge:
		t.BarWidth = 60
		t.Gap = "\n\n"
		t.Title = t.Title.Underline(true).Padding(0, 1)
		t.Value = t.Value.Underline(true)
		t.Panel = t.Panel.Padding(2, 4)
	}
	return t
}

// Severity styles a severity label.
func (t Theme) Severity(s vitals.Severity) lipgloss.Style {
	if st, ok := t.severity[s]; ok {
		return st
	}
	return t.Value
}
