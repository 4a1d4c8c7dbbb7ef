package admin

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/vitalis/cmd/vitalis/wizard/components"
	"github.com/mrsinham/vitalis/internal/kiosk"
	"github.com/mrsinham/vitalis/internal/patient"
	"github.com/mrsinham/vitalis/internal/vitals"
)

// settingsForm edits the persisted kiosk settings.
type settingsForm struct {
	form      *huh.Form
	helpPanel *components.HelpPanel

	hospital string
	kioskID  string
	enabled  []vitals.Kind
}

func newSettingsForm(s kiosk.Settings, catalogue []vitals.Config) *settingsForm {
	f := &settingsForm{
		helpPanel: components.NewHelpPanel(),
		hospital:  s.HospitalName,
		kioskID:   s.KioskID,
	}

	opts := make([]huh.Option[vitals.Kind], 0, len(catalogue))
	for _, c := range catalogue {
		on, ok := s.EnabledVitals[c.Kind]
		if !ok || on {
			f.enabled = append(f.enabled, c.Kind)
		}
		opts = append(opts, huh.NewOption(c.Title, c.Kind))
	}

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("hospital_name").
				Title("Hospital Name").
				Value(&f.hospital).
				Validate(patient.Required("Hospital name is required")),

			huh.NewInput().
				Key("kiosk_id").
				Title("Kiosk ID").
				Value(&f.kioskID).
				Validate(patient.Required("Kiosk ID is required")),

			huh.NewMultiSelect[vitals.Kind]().
				Key("enabled_vitals").
				Title("Vital Signs").
				Options(opts...).
				Value(&f.enabled),
		),
	).WithShowHelp(false).WithShowErrors(true)

	return f
}

// Settings builds the settings value from the form fields.
func (f *settingsForm) Settings() kiosk.Settings {
	enabled := make(map[vitals.Kind]bool, len(vitals.Kinds))
	for _, k := range vitals.Kinds {
		enabled[k] = false
	}
	for _, k := range f.enabled {
		enabled[k] = true
	}
	return kiosk.Settings{
		HospitalName:  f.hospital,
		KioskID:       f.kioskID,
		EnabledVitals: enabled,
	}
}

func (f *settingsForm) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		f.form.View(),
		"",
		f.helpPanel.View(),
	)
}

func (d *Dashboard) openSettings() tea.Cmd {
	s, err := d.backend.Settings()
	if err != nil {
		d.err = err
		return nil
	}
	d.settings = newSettingsForm(s, d.opts.Catalogue)
	d.view = viewSettings
	return d.settings.form.Init()
}

func (d *Dashboard) updateSettings(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		d.closeSettings()
		return nil
	}

	form, cmd := d.settings.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.settings.form = f
	}

	if focused := d.settings.form.GetFocusedField(); focused != nil {
		d.settings.helpPanel.SetField(focused.GetKey())
	}

	if d.settings.form.State == huh.StateCompleted {
		return d.SaveSettings()
	}
	return cmd
}

// SaveSettings persists the settings form and returns to the records view.
// Changes apply from the next check-in session.
func (d *Dashboard) SaveSettings() tea.Cmd {
	if d.settings == nil {
		return nil
	}
	s := d.settings.Settings()
	d.closeSettings()
	if err := d.backend.SaveSettings(s); err != nil {
		d.err = err
		return nil
	}
	d.err = nil
	d.flash = "Settings saved"
	return nil
}

func (d *Dashboard) closeSettings() {
	d.settings = nil
	d.view = viewRecords
}
