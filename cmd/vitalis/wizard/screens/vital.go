package screens

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/vitalis/internal/vitals"
)

// TickMsg advances a measurement. Screen and Gen identify the run it
// belongs to.
type TickMsg struct {
	Screen int64
	Gen    int
}

// VitalScreen runs one measurement machine.
type VitalScreen struct {
	navigator
	id      int64
	ctx     *Context
	machine *vitals.Machine
	bar     progress.Model
}

// NewVitalScreen creates a fresh machine for cfg. onMeasured is called once
// per successful attempt.
func NewVitalScreen(ctx *Context, cfg vitals.Config, sampler vitals.Sampler, timing vitals.Timing, onMeasured func(vitals.Kind, vitals.Measurement)) *VitalScreen {
	return &VitalScreen{
		id:      nextID(),
		ctx:     ctx,
		machine: vitals.NewMachine(cfg, sampler, timing, onMeasured),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
}

// Machine exposes the state machine driving the screen.
func (s *VitalScreen) Machine() *vitals.Machine { return s.machine }

// Init implements tea.Model
func (s *VitalScreen) Init() tea.Cmd { return nil }

func (s *VitalScreen) tick(gen int) tea.Cmd {
	id := s.id
	return tea.Tick(s.machine.TickInterval(), func(_ time.Time) tea.Msg {
		return TickMsg{Screen: id, Gen: gen}
	})
}

// Update implements tea.Model
func (s *VitalScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		if msg.Screen != s.id {
			return s, nil
		}
		if s.machine.Tick(msg.Gen) {
			return s, s.tick(msg.Gen)
		}
	case tea.KeyMsg:
		return s, s.handleKey(msg.String())
	}
	return s, nil
}

func (s *VitalScreen) handleKey(key string) tea.Cmd {
	m := s.machine
	switch key {
	case "enter", " ":
		switch m.State() {
		case vitals.StateIdle:
			if gen, ok := m.Start(); ok {
				return s.tick(gen)
			}
		case vitals.StateSuccess:
			s.navigate(NavNext)
		case vitals.StateError:
			m.Retry()
		}
	case "esc":
		switch m.State() {
		case vitals.StateMeasuring:
			m.Cancel()
		case vitals.StateIdle:
			s.navigate(NavBack)
		}
	case "r", "R":
		if m.Allows(vitals.ActionRetry) {
			m.Retry()
		}
	case "h", "H":
		if m.Allows(vitals.ActionHelp) {
			s.navigate(NavHelp)
		}
	case "s", "S":
		if m.Allows(vitals.ActionSkip) {
			s.navigate(NavNext)
		}
	}
	return nil
}

// View implements tea.Model
func (s *VitalScreen) View() string {
	t := s.ctx.Theme
	m := s.machine
	cfg := m.Config()

	var steps []string
	for i, line := range cfg.InstructionsFor(s.ctx.Access.Language) {
		steps = append(steps, fmt.Sprintf("%d. %s", i+1, line))
	}

	var body, keys string
	switch m.State() {
	case vitals.StateIdle:
		body = t.Button.Render("Press Enter to start measuring")
		if m.Attempts() > 0 {
			body += "\n" + t.Label.Render(fmt.Sprintf("Attempt %d", m.Attempts()+1))
		}
		keys = "Enter: Start | Esc: Back"
	case vitals.StateMeasuring:
		bar := s.bar
		if s.ctx.Access.HighContrast {
			bar = progress.New(progress.WithSolidFill("11"), progress.WithoutPercentage())
		}
		bar.Width = t.BarWidth
		body = lipgloss.JoinVertical(lipgloss.Left,
			t.Value.Render("Measuring... keep still"),
			bar.ViewAs(m.Progress()/100),
			t.Label.Render(fmt.Sprintf("%d%% (%d/%d)", int(m.Progress()), m.Elapsed(), m.Steps())),
		)
		keys = "Esc: Cancel"
	case vitals.StateSuccess:
		res := m.Result()
		body = lipgloss.JoinVertical(lipgloss.Left,
			t.Success.Render("Measurement complete"),
			fmt.Sprintf("%s %s  %s",
				t.Value.Render(res.Value),
				t.Label.Render(res.Unit),
				t.Severity(res.Severity).Render(string(res.Severity))),
		)
		keys = "Enter: Continue"
	case vitals.StateError:
		body = t.Error.Render("We could not get a reading. Please adjust and try again.") + "\n" +
			t.Label.Render(fmt.Sprintf("Attempts: %d", m.Attempts()))
		keys = "R: Retry"
		if m.Escalated() {
			body += "\n" + t.Hint.Render("Still having trouble? A staff member can help, or you can skip this measurement.")
			keys = "R: Retry | H: Request help | S: Skip this vital"
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		t.Title.Render(cfg.Title),
		t.Subtitle.Render("Normal range: "+cfg.NormalRange+" "+cfg.Unit),
		strings.Join(steps, "\n"),
		t.Gap,
		body,
		t.Gap,
		t.Hint.Render(keys),
	)
}
