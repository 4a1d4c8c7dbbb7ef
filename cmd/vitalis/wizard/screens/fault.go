package screens

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// FaultScreen replaces the whole UI after an unexpected failure. The only
// way out is a full restart.
type FaultScreen struct {
	navigator
	ctx *Context
}

// NewFaultScreen creates the error boundary screen.
func NewFaultScreen(ctx *Context) *FaultScreen {
	return &FaultScreen{ctx: ctx}
}

// Init implements tea.Model
func (s *FaultScreen) Init() tea.Cmd { return nil }

// Update implements tea.Model
func (s *FaultScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && (msg.String() == "enter" || msg.String() == " ") {
		s.navigate(NavRestart)
	}
	return s, nil
}

// View implements tea.Model
func (s *FaultScreen) View() string {
	t := s.ctx.Theme
	return lipgloss.JoinVertical(lipgloss.Left,
		t.Error.Render("System Error"),
		"Something went wrong. Your information was not saved.",
		t.Gap,
		t.Button.Render("Press Enter to Restart"),
	)
}
