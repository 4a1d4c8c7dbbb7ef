package screens

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/vitalis/internal/vitals"
)

// BriefingScreen lists the vitals about to be measured.
type BriefingScreen struct {
	navigator
	ctx    *Context
	vitals []vitals.Config
}

// NewBriefingScreen creates the vitals overview.
func NewBriefingScreen(ctx *Context, active []vitals.Config) *BriefingScreen {
	return &BriefingScreen{ctx: ctx, vitals: active}
}

// Init implements tea.Model
func (s *BriefingScreen) Init() tea.Cmd { return nil }

// Update implements tea.Model
func (s *BriefingScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter", " ":
			s.navigate(NavNext)
		case "esc":
			s.navigate(NavBack)
		}
	}
	return s, nil
}

// View implements tea.Model
func (s *BriefingScreen) View() string {
	t := s.ctx.Theme

	var sb strings.Builder
	total := 0
	for i, c := range s.vitals {
		fmt.Fprintf(&sb, "%s %s %s\n",
			t.Label.Render(fmt.Sprintf("%d.", i+1)),
			t.Value.Render(c.Title),
			t.Label.Render(fmt.Sprintf("(about %ds)", c.DurationSec)))
		total += c.DurationSec
	}
	if len(s.vitals) == 0 {
		sb.WriteString(t.Label.Render("No vital signs are measured at this kiosk.\n"))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		t.Title.Render("Vital Signs Overview"),
		t.Subtitle.Render(fmt.Sprintf("We will measure %d vital signs, about %d seconds in total.", len(s.vitals), total)),
		sb.String(),
		"Sit comfortably, keep still and follow the instructions on each screen.",
		t.Gap,
		t.Hint.Render("Enter: Begin | Esc: Back"),
	)
}
