package screens

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/vitalis/cmd/vitalis/wizard/components"
	"github.com/mrsinham/vitalis/internal/patient"
)

// PersonalScreen collects identity fields.
type PersonalScreen struct {
	navigator
	ctx       *Context
	form      *huh.Form
	helpPanel *components.HelpPanel
	draft     patient.Draft
	update    func(patient.Patch)
}

// NewPersonalScreen creates the personal information form, prefilled from draft.
// update receives the personal fields once they validate.
func NewPersonalScreen(ctx *Context, draft patient.Draft, update func(patient.Patch)) *PersonalScreen {
	s := &PersonalScreen{
		ctx:       ctx,
		helpPanel: components.NewHelpPanel(),
		draft:     draft.Clone(),
		update:    update,
	}

	genders := []huh.Option[patient.Gender]{}
	for _, g := range patient.Genders {
		genders = append(genders, huh.NewOption(string(g), g))
	}
	civil := []huh.Option[patient.CivilStatus]{huh.NewOption("Skip", patient.CivilUnset)}
	for _, c := range patient.CivilStatuses {
		civil = append(civil, huh.NewOption(string(c), c))
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("first_name").
				Title("First Name").
				Value(&s.draft.FirstName).
				Validate(patient.Required("First name is required")),

			huh.NewInput().
				Key("last_name").
				Title("Last Name").
				Value(&s.draft.LastName).
				Validate(patient.Required("Last name is required")),

			huh.NewInput().
				Key("dob").
				Title("Date of Birth").
				Description("Format: MM/DD/YYYY").
				Placeholder("MM/DD/YYYY").
				Value(&s.draft.DOB).
				Validate(patient.ValidateDOB),

			huh.NewSelect[patient.Gender]().
				Key("gender").
				Title("Gender").
				Options(genders...).
				Value(&s.draft.Gender).
				Validate(patient.ValidateGender),

			huh.NewSelect[patient.CivilStatus]().
				Key("civil_status").
				Title("Civil Status").
				Options(civil...).
				Value(&s.draft.CivilStatus),
		),
	).WithShowHelp(false).WithShowErrors(true)

	return s
}

// Init implements tea.Model
func (s *PersonalScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *PersonalScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			s.navigate(NavBack)
			return s, nil
		}
	case tea.WindowSizeMsg:
		s.helpPanel.SetSize(msg.Width/2, msg.Height/2)
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if focused := s.form.GetFocusedField(); focused != nil {
		s.helpPanel.SetField(focused.GetKey())
	}

	if s.form.State == huh.StateCompleted {
		s.Complete()
	}

	return s, cmd
}

// Complete validates the current values and, when they pass, hands them to
// the wizard and asks for the next step.
func (s *PersonalScreen) Complete() patient.FieldErrors {
	errs := patient.ValidatePersonal(s.draft)
	if len(errs) > 0 {
		return errs
	}
	s.update(patient.PersonalPatch(s.draft))
	s.navigate(NavNext)
	return nil
}

// Draft exposes the values currently bound to the form.
func (s *PersonalScreen) Draft() *patient.Draft { return &s.draft }

// View implements tea.Model
func (s *PersonalScreen) View() string {
	t := s.ctx.Theme
	s.helpPanel.SetTheme(t)
	return lipgloss.JoinVertical(lipgloss.Left,
		t.Title.Render("Personal Information"),
		t.Subtitle.Render("Tell us who you are"),
		s.form.View(),
		"",
		s.helpPanel.View(),
		"",
		t.Hint.Render("Tab: Next field | Enter: Continue | Esc: Back"),
	)
}
