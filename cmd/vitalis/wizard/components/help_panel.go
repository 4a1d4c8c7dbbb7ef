package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/vitalis/cmd/vitalis/wizard/help"
)

const placeholderHelp = "Move to a field to see help"

// HelpPanel shows guidance for the focused form field.
type HelpPanel struct {
	field  string
	width  int
	height int
	theme  Theme
}

// NewHelpPanel creates a panel with the default theme.
func NewHelpPanel() *HelpPanel {
	return &HelpPanel{
		width:  60,
		height: 10,
		theme:  ThemeFor(DefaultAccessibility()),
	}
}

// SetField selects the field whose help is shown
func (h *HelpPanel) SetField(field string) {
	h.field = field
}

// SetSize bounds the panel. Lines past the height are dropped.
func (h *HelpPanel) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// SetTheme follows the accessibility toolbar.
func (h *HelpPanel) SetTheme(t Theme) {
	h.theme = t
}

// View renders the panel
func (h *HelpPanel) View() string {
	t := h.theme
	box := t.Panel.Width(max(h.width-4, 30))

	text, ok := help.Texts[h.field]
	if !ok {
		return box.Render(t.Hint.Render(placeholderHelp))
	}

	lines := []string{t.Value.Render(text.Title), "", t.Label.Render(text.Description)}
	if text.Details != "" {
		lines = append(lines, "", t.Hint.Render(text.Details))
	}
	body := lipgloss.JoinVertical(lipgloss.Left, lines...)
	if h.height > 0 {
		if rows := strings.Split(body, "\n"); len(rows) > h.height {
			body = strings.Join(rows[:h.height], "\n")
		}
	}
	return box.Render(body)
}
