package patient

import "github.com/mrsinham/vitalis/internal/vitals"

// Patch is a partial draft update. Nil fields are left untouched.
type Patch struct {
	FirstName     *string
	LastName      *string
	DOB           *string
	Gender        *Gender
	CivilStatus   *CivilStatus
	Phone         *string
	AddressLine1  *string
	AddressLine2  *string
	City          *string
	State         *string
	ZipCode       *string
	GuardianName  *string
	GuardianPhone *string

	// Vitals entries are merged key by key.
	Vitals map[vitals.Kind]vitals.Measurement
}

// Str returns a pointer to s for building patches.
func Str(s string) *string { return &s }

// Merge applies a patch in place. Later patches win.
func (d *Draft) Merge(p Patch) {
	set(&d.FirstName, p.FirstName)
	set(&d.LastName, p.LastName)
	set(&d.DOB, p.DOB)
	set(&d.Gender, p.Gender)
	set(&d.CivilStatus, p.CivilStatus)
	set(&d.Phone, p.Phone)
	set(&d.AddressLine1, p.AddressLine1)
	set(&d.AddressLine2, p.AddressLine2)
	set(&d.City, p.City)
	set(&d.State, p.State)
	set(&d.ZipCode, p.ZipCode)
	set(&d.GuardianName, p.GuardianName)
	set(&d.GuardianPhone, p.GuardianPhone)

	if len(p.Vitals) > 0 && d.Vitals == nil {
		d.Vitals = make(map[vitals.Kind]vitals.Measurement, len(p.Vitals))
	}
	for k, v := range p.Vitals {
		d.Vitals[k] = v
	}
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// PersonalPatch captures the personal information fields of a draft.
func PersonalPatch(d Draft) Patch {
	return Patch{
		FirstName:   &d.FirstName,
		LastName:    &d.LastName,
		DOB:         &d.DOB,
		Gender:      &d.Gender,
		CivilStatus: &d.CivilStatus,
	}
}

// ContactPatch captures the contact fields of a draft.
func ContactPatch(d Draft) Patch {
	return Patch{
		Phone:         &d.Phone,
		AddressLine1:  &d.AddressLine1,
		AddressLine2:  &d.AddressLine2,
		City:          &d.City,
		State:         &d.State,
		ZipCode:       &d.ZipCode,
		GuardianName:  &d.GuardianName,
		GuardianPhone: &d.GuardianPhone,
	}
}

// VitalPatch records one measurement.
func VitalPatch(kind vitals.Kind, m vitals.Measurement) Patch {
	return Patch{Vitals: map[vitals.Kind]vitals.Measurement{kind: m}}
}
