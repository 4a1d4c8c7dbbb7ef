package screens

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/vitalis/cmd/vitalis/wizard/components"
	"github.com/mrsinham/vitalis/internal/patient"
)

// ContactScreen collects phone, address and guardian fields.
type ContactScreen struct {
	navigator
	ctx       *Context
	form      *huh.Form
	helpPanel *components.HelpPanel
	draft     patient.Draft
	update    func(patient.Patch)
}

// NewContactScreen creates the contact details form, prefilled from draft.
func NewContactScreen(ctx *Context, draft patient.Draft, update func(patient.Patch)) *ContactScreen {
	s := &ContactScreen{
		ctx:       ctx,
		helpPanel: components.NewHelpPanel(),
		draft:     draft.Clone(),
		update:    update,
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("phone").
				Title("Mobile Number").
				Placeholder("09XXXXXXXXX").
				Value(&s.draft.Phone).
				Validate(patient.ValidatePhone),

			huh.NewInput().
				Key("address_line1").
				Title("Address").
				Value(&s.draft.AddressLine1).
				Validate(patient.Required("Address is required")),

			huh.NewInput().
				Key("address_line2").
				Title("Address (line 2)").
				Value(&s.draft.AddressLine2),

			huh.NewInput().
				Key("city").
				Title("City").
				Value(&s.draft.City).
				Validate(patient.Required("City is required")),

			huh.NewInput().
				Key("state").
				Title("Province").
				Value(&s.draft.State).
				Validate(patient.Required("Province/State is required")),

			huh.NewInput().
				Key("zip_code").
				Title("ZIP Code").
				Value(&s.draft.ZipCode).
				Validate(patient.ValidateZip),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("guardian_name").
				Title("Guardian Name").
				Description("For minors. Leave blank if not applicable.").
				Value(&s.draft.GuardianName),

			huh.NewInput().
				Key("guardian_phone").
				Title("Guardian Phone").
				Value(&s.draft.GuardianPhone).
				Validate(patient.ValidateOptionalPhone),
		).Title("Guardian (optional)"),
	).WithShowHelp(false).WithShowErrors(true)

	return s
}

// Init implements tea.Model
func (s *ContactScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *ContactScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
func (s *ContactScreen) Complete() patient.FieldErrors {
	errs := patient.ValidateContact(s.draft)
	if len(errs) > 0 {
		return errs
	}
	s.update(patient.ContactPatch(s.draft))
	s.navigate(NavNext)
	return nil
}

// Draft exposes the values currently bound to the form.
func (s *ContactScreen) Draft() *patient.Draft { return &s.draft }

// View implements tea.Model
func (s *ContactScreen) View() string {
	t := s.ctx.Theme
	s.helpPanel.SetTheme(t)
	return lipgloss.JoinVertical(lipgloss.Left,
		t.Title.Render("Contact Details"),
		t.Subtitle.Render("How can we reach you?"),
		s.form.View(),
		"",
		s.helpPanel.View(),
		"",
		t.Hint.Render("Tab: Next field | Enter: Continue | Esc: Back"),
	)
}
