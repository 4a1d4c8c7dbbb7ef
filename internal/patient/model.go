// Package patient holds the check-in draft, the submitted record and the
// rules that validate them.
package patient

import (
	"time"

	"github.com/mrsinham/vitalis/internal/vitals"
)

// Gender values offered on the personal information form. The empty value means unset.
type Gender string

const (
	GenderUnset          Gender = ""
	GenderMale           Gender = "Male"
	GenderFemale         Gender = "Female"
	GenderOther          Gender = "Other"
	GenderPreferNotToSay Gender = "Prefer not to say"
)

// Genders lists the selectable values.
var Genders = []Gender{GenderMale, GenderFemale, GenderOther, GenderPreferNotToSay}

// CivilStatus values. The empty value means unset.
type CivilStatus string

const (
	CivilUnset    CivilStatus = ""
	CivilSingle   CivilStatus = "Single"
	CivilMarried  CivilStatus = "Married"
	CivilDivorced CivilStatus = "Divorced"
	CivilWidowed  CivilStatus = "Widowed"
)

// CivilStatuses lists the selectable values.
var CivilStatuses = []CivilStatus{CivilSingle, CivilMarried, CivilDivorced, CivilWidowed}

// Status is the lifecycle state of a submitted record.
type Status string

const (
	StatusWaiting          Status = "Waiting"
	StatusInProgress       Status = "In Progress"
	StatusCompleted        Status = "Completed"
	StatusAssistanceNeeded Status = "Assistance Needed"
	StatusCancelled        Status = "Cancelled"
)

// Statuses lists every record status in display order.
var Statuses = []Status{StatusWaiting, StatusInProgress, StatusCompleted, StatusAssistanceNeeded, StatusCancelled}

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Draft is the in-progress data of one check-in session. Absence is an
// empty string or a missing vitals entry, never a nil.
type Draft struct {
	FirstName     string      `json:"firstName" yaml:"first_name"`
	LastName      string      `json:"lastName" yaml:"last_name"`
	DOB           string      `json:"dob" yaml:"dob"`
	Gender        Gender      `json:"gender" yaml:"gender"`
	CivilStatus   CivilStatus `json:"civilStatus" yaml:"civil_status"`
	Phone         string      `json:"phone" yaml:"phone"`
	AddressLine1  string      `json:"addressLine1" yaml:"address_line1"`
	AddressLine2  string      `json:"addressLine2" yaml:"address_line2"`
	City          string      `json:"city" yaml:"city"`
	State         string      `json:"state" yaml:"state"`
	ZipCode       string      `json:"zipCode" yaml:"zip_code"`
	GuardianName  string      `json:"guardianName" yaml:"guardian_name"`
	GuardianPhone string      `json:"guardianPhone" yaml:"guardian_phone"`

	Vitals map[vitals.Kind]vitals.Measurement `json:"vitals" yaml:"vitals"`
}

// NewDraft returns an empty draft.
func NewDraft() Draft {
	return Draft{Vitals: make(map[vitals.Kind]vitals.Measurement)}
}

// FullName joins first and last name.
func (d Draft) FullName() string {
	switch {
	case d.FirstName == "":
		return d.LastName
	case d.LastName == "":
		return d.FirstName
	}
	return d.FirstName + " " + d.LastName
}

// Clone returns a copy that shares no map with d.
func (d Draft) Clone() Draft {
	c := d
	c.Vitals = make(map[vitals.Kind]vitals.Measurement, len(d.Vitals))
	for k, v := range d.Vitals {
		c.Vitals[k] = v
	}
	return c
}

// Record is a submitted check-in. The local copy is authoritative.
type Record struct {
	Draft
	ID          string    `json:"id"`
	CheckInTime time.Time `json:"checkInTime"`
	Status      Status    `json:"status"`
	Synced      bool      `json:"synced"`
}
