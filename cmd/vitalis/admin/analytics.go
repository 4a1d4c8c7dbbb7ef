package admin

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	hourStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	countStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

// Histogram renders check-ins per hour as horizontal bars scaled to width.
// Hours with no check-ins before the first and after the last busy hour
// are left out.
func Histogram(hours [24]int, width int) string {
	first, last, peak := -1, -1, 0
	for h, n := range hours {
		if n == 0 {
			continue
		}
		if first < 0 {
			first = h
		}
		last = h
		peak = max(peak, n)
	}
	if first < 0 {
		return hourStyle.Render("No check-ins yet")
	}

	var sb strings.Builder
	sb.WriteString(hourStyle.Render("Check-ins per hour") + "\n\n")
	for h := first; h <= last; h++ {
		n := hours[h]
		cells := n * width / peak
		if n > 0 && cells == 0 {
			cells = 1
		}
		fmt.Fprintf(&sb, "%s %s %s\n",
			hourStyle.Render(fmt.Sprintf("%02d:00", h)),
			barStyle.Render(strings.Repeat("█", cells)),
			countStyle.Render(fmt.Sprint(n)))
	}
	return sb.String()
}
