package screens

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// WelcomeScreen greets the patient and offers the staff entrance.
type WelcomeScreen struct {
	navigator
	ctx      *Context
	hospital string
}

// NewWelcomeScreen creates the first screen of a session.
func NewWelcomeScreen(ctx *Context, hospital string) *WelcomeScreen {
	return &WelcomeScreen{ctx: ctx, hospital: hospital}
}

// Init implements tea.Model
func (s *WelcomeScreen) Init() tea.Cmd { return nil }

// Update implements tea.Model
func (s *WelcomeScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter", " ":
			s.navigate(NavNext)
		case "a", "A":
			s.navigate(NavAdmin)
		}
	}
	return s, nil
}

// View implements tea.Model
func (s *WelcomeScreen) View() string {
	t := s.ctx.Theme
	return lipgloss.JoinVertical(lipgloss.Left,
		t.Title.Render(s.hospital),
		t.Subtitle.Render("Patient Self Check-In"),
		"Welcome! This kiosk will guide you through check-in and a quick vital signs check.",
		t.Gap,
		t.Button.Render("Press Enter to Start"),
		t.Gap,
		t.Hint.Render("Staff: press A for the admin dashboard"),
	)
}
