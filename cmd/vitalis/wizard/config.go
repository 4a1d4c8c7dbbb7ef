package wizard

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mrsinham/vitalis/internal/patient"
	"github.com/mrsinham/vitalis/internal/vitals"
)

// DraftFile is a pre-filled check-in draft for demos and tests.
type DraftFile struct {
	Patient PatientYAML `yaml:"patient"`
	Contact ContactYAML `yaml:"contact"`
	Vitals  []VitalYAML `yaml:"vitals,omitempty"`
}

// PatientYAML holds identity fields with YAML tags.
type PatientYAML struct {
	FirstName   string `yaml:"first_name"`
	LastName    string `yaml:"last_name"`
	DOB         string `yaml:"dob"`
	Gender      string `yaml:"gender"`
	CivilStatus string `yaml:"civil_status,omitempty"`
}

// ContactYAML holds contact fields with YAML tags.
type ContactYAML struct {
	Phone         string `yaml:"phone"`
	AddressLine1  string `yaml:"address_line1"`
	AddressLine2  string `yaml:"address_line2,omitempty"`
	City          string `yaml:"city"`
	State         string `yaml:"state"`
	ZipCode       string `yaml:"zip_code"`
	GuardianName  string `yaml:"guardian_name,omitempty"`
	GuardianPhone string `yaml:"guardian_phone,omitempty"`
}

// VitalYAML holds one recorded measurement. Severity is recomputed on load.
type VitalYAML struct {
	Kind       string    `yaml:"kind"`
	Value      string    `yaml:"value"`
	Unit       string    `yaml:"unit,omitempty"`
	CapturedAt time.Time `yaml:"captured_at,omitempty"`
}

// LoadDraftYAML reads a draft fixture.
func LoadDraftYAML(path string) (*patient.Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading draft file: %w", err)
	}

	var file DraftFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing draft file: %w", err)
	}

	return fileToDraft(file, vitals.DefaultConfigs())
}

// SaveDraftYAML writes a draft fixture.
func SaveDraftYAML(d patient.Draft, path string) error {
	data, err := yaml.Marshal(draftToFile(d))
	if err != nil {
		return fmt.Errorf("encoding draft: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing draft file: %w", err)
	}
	return nil
}

func fileToDraft(f DraftFile, catalogue []vitals.Config) (*patient.Draft, error) {
	d := patient.NewDraft()
	d.FirstName = f.Patient.FirstName
	d.LastName = f.Patient.LastName
	d.DOB = f.Patient.DOB
	d.Gender = patient.Gender(f.Patient.Gender)
	d.CivilStatus = patient.CivilStatus(f.Patient.CivilStatus)

	d.Phone = f.Contact.Phone
	d.AddressLine1 = f.Contact.AddressLine1
	d.AddressLine2 = f.Contact.AddressLine2
	d.City = f.Contact.City
	d.State = f.Contact.State
	d.ZipCode = f.Contact.ZipCode
	d.GuardianName = f.Contact.GuardianName
	d.GuardianPhone = f.Contact.GuardianPhone

	for _, v := range f.Vitals {
		kind, err := vitals.ParseKind(v.Kind)
		if err != nil {
			return nil, err
		}
		unit := v.Unit
		if unit == "" {
			if c, ok := vitals.Find(catalogue, kind); ok {
				unit = c.Unit
			}
		}
		d.Vitals[kind] = vitals.Measurement{
			Value:      v.Value,
			Unit:       unit,
			Severity:   vitals.Analyze(kind, v.Value),
			CapturedAt: v.CapturedAt,
		}
	}

	return &d, nil
}

func draftToFile(d patient.Draft) DraftFile {
	f := DraftFile{
		Patient: PatientYAML{
			FirstName:   d.FirstName,
			LastName:    d.LastName,
			DOB:         d.DOB,
			Gender:      string(d.Gender),
			CivilStatus: string(d.CivilStatus),
		},
		Contact: ContactYAML{
			Phone:         d.Phone,
			AddressLine1:  d.AddressLine1,
			AddressLine2:  d.AddressLine2,
			City:          d.City,
			State:         d.State,
			ZipCode:       d.ZipCode,
			GuardianName:  d.GuardianName,
			GuardianPhone: d.GuardianPhone,
		},
	}

	// Catalogue order keeps the file stable.
	for _, k := range vitals.Kinds {
		m, ok := d.Vitals[k]
		if !ok {
			continue
		}
		f.Vitals = append(f.Vitals, VitalYAML{Kind: string(k), Value: m.Value, Unit: m.Unit, CapturedAt: m.CapturedAt})
	}
	return f
}
