package screens

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/vitalis/internal/patient"
	"github.com/mrsinham/vitalis/internal/vitals"
)

// EditTarget is an "edit" link on the review screen.
type EditTarget struct {
	Label string
	Step  int
}

const submitChoice = -1

// ReviewScreen summarises the draft and offers submit or edit.
type ReviewScreen struct {
	navigator
	ctx     *Context
	form    *huh.Form
	draft   patient.Draft
	vitals  []vitals.Config
	targets []EditTarget
	choice  int
}

// NewReviewScreen creates the review screen. Only the given vital configs
// are listed.
func NewReviewScreen(ctx *Context, draft patient.Draft, active []vitals.Config, targets []EditTarget) *ReviewScreen {
	s := &ReviewScreen{
		ctx:     ctx,
		draft:   draft,
		vitals:  active,
		targets: targets,
		choice:  submitChoice,
	}

	opts := []huh.Option[int]{huh.NewOption("Submit check-in", submitChoice)}
	for _, t := range targets {
		opts = append(opts, huh.NewOption("Edit: "+t.Label, t.Step))
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Key("review_action").
				Title("Is everything correct?").
				Options(opts...).
				Value(&s.choice),
		),
	).WithShowHelp(false).WithShowErrors(true)

	return s
}

// Init implements tea.Model
func (s *ReviewScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *ReviewScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		s.navigate(NavBack)
		return s, nil
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.Choose(s.choice)
	}

	return s, cmd
}

// Choose acts on a review choice: a step index from the edit targets, or
// anything else to submit.
func (s *ReviewScreen) Choose(step int) {
	for _, t := range s.targets {
		if t.Step == step {
			s.nav = Nav{Kind: NavJump, Step: step}
			return
		}
	}
	s.navigate(NavNext)
}

// Targets lists the edit links.
func (s *ReviewScreen) Targets() []EditTarget { return s.targets }

// Summary renders the draft as label/value lines.
func (s *ReviewScreen) Summary() string {
	t := s.ctx.Theme
	d := s.draft

	row := func(label, value string) string {
		if value == "" {
			value = "-"
		}
		return t.Label.Render(fmt.Sprintf("%-16s", label)) + t.Value.Render(value)
	}

	lines := []string{
		t.Subtitle.Render("Personal Information"),
		row("Name", d.FullName()),
		row("Date of Birth", d.DOB),
		row("Gender", string(d.Gender)),
		row("Civil Status", string(d.CivilStatus)),
		"",
		t.Subtitle.Render("Contact Details"),
		row("Phone", d.Phone),
		row("Address", strings.TrimSpace(d.AddressLine1+" "+d.AddressLine2)),
		row("City", d.City),
		row("Province", d.State),
		row("ZIP Code", d.ZipCode),
	}
	if d.GuardianName != "" || d.GuardianPhone != "" {
		lines = append(lines, row("Guardian", strings.TrimSpace(d.GuardianName+" "+d.GuardianPhone)))
	}

	lines = append(lines, "", t.Subtitle.Render("Vital Signs"))
	for _, c := range s.vitals {
		m, ok := d.Vitals[c.Kind]
		if !ok {
			lines = append(lines, t.Label.Render(fmt.Sprintf("%-16s", c.Title))+t.Hint.Render("Not measured"))
			continue
		}
		lines = append(lines, t.Label.Render(fmt.Sprintf("%-16s", c.Title))+
			t.Value.Render(m.Value+" "+m.Unit)+"  "+
			t.Severity(m.Severity).Render(string(m.Severity)))
	}
	return strings.Join(lines, "\n")
}

// View implements tea.Model
func (s *ReviewScreen) View() string {
	t := s.ctx.Theme
	return lipgloss.JoinVertical(lipgloss.Left,
		t.Title.Render("Review & Confirm"),
		t.Panel.Render(s.Summary()),
		"",
		s.form.View(),
		"",
		t.Hint.Render("↑/↓: Choose | Enter: Confirm | Esc: Back"),
	)
}
