package components

import (
	"fmt"
	"strings"
)

// ProgressBar draws a bar for percent (0-100) at the theme's width.
func ProgressBar(t Theme, percent float64) string {
	width := t.BarWidth
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	empty := width - filled

	bar := t.BarFilled.Render("[" + strings.Repeat("█", filled))
	bar += t.BarEmpty.Render(strings.Repeat("░", empty) + "]")
	return bar
}

// StepHeader renders "Step n of total" with the current label and bar.
func StepHeader(t Theme, visual, total int, label string) string {
	var percent float64
	if total > 0 {
		percent = float64(visual) / float64(total) * 100
	}
	head := t.Label.Render(fmt.Sprintf("Step %d of %d", visual, total))
	if label != "" {
		head += t.Label.Render(" · ") + t.Value.Render(label)
	}
	return head + "\n" + ProgressBar(t, percent)
}
