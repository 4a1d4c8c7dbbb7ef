package patient

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

// DisplayDateLayout is the on-screen date-of-birth format.
const DisplayDateLayout = "01/02/2006"

// ISODateLayout is the wire format used by the remote mirror.
const ISODateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

var (
	dobPattern   = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9]+$`)
	zipPattern   = regexp.MustCompile(`^[0-9]+$`)
)

// Contact field limits.
const (
	MinPhoneLen = 10
	MaxPhoneLen = 13
	MinZipLen   = 4
	MaxZipLen   = 4
)

// FieldErrors maps a field key to a user-facing message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e[k]))
	}
	return strings.Join(parts, "; ")
}

// Err returns nil when there are no field errors.
func (e FieldErrors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// ParseDOB parses a MM/DD/YYYY date and rejects impossible calendar dates.
func ParseDOB(s string) (time.Time, error) {
	if !dobPattern.MatchString(s) {
		return time.Time{}, fmt.Errorf("%w: %q is not MM/DD/YYYY", ErrInvalidDate, s)
	}
	t, err := time.Parse(DisplayDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// ISODate converts a display date of birth to YYYY-MM-DD. Empty or
// malformed input falls back to the date of now.
func ISODate(dob string, now time.Time) string {
	t, err := ParseDOB(strings.TrimSpace(dob))
	if err != nil {
		return now.Format(ISODateLayout)
	}
	return t.Format(ISODateLayout)
}

// DisplayDate converts YYYY-MM-DD back to MM/DD/YYYY. Unparseable input is returned as-is.
func DisplayDate(iso string) string {
	t, err := time.Parse(ISODateLayout, iso)
	if err != nil {
		return iso
	}
	return t.Format(DisplayDateLayout)
}

// Required returns a validator rejecting blank input.
func Required(message string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(message)
		}
		return nil
	}
}

// ValidateDOB checks a date of birth for the form.
func ValidateDOB(s string) error {
	if s == "" {
		return errors.New("Date of birth is required")
	}
	if _, err := ParseDOB(s); err != nil {
		return errors.New("Invalid date format")
	}
	return nil
}

// ValidateGender requires a gender selection.
func ValidateGender(g Gender) error {
	if g == GenderUnset {
		return errors.New("Please select a gender")
	}
	return nil
}

// ValidatePhone accepts digits with an optional leading plus.
func ValidatePhone(s string) error {
	if !phonePattern.MatchString(s) {
		return errors.New("Phone number may only contain digits and +")
	}
	if len(s) < MinPhoneLen || len(s) > MaxPhoneLen {
		return fmt.Errorf("Phone number must be %d to %d characters", MinPhoneLen, MaxPhoneLen)
	}
	return nil
}

// ValidateOptionalPhone accepts an empty value.
func ValidateOptionalPhone(s string) error {
	if s == "" {
		return nil
	}
	return ValidatePhone(s)
}

// ValidateZip accepts exactly four digits.
func ValidateZip(s string) error {
	if !zipPattern.MatchString(s) || len(s) < MinZipLen || len(s) > MaxZipLen {
		return fmt.Errorf("Postal code must be %d digits", MinZipLen)
	}
	return nil
}

// ValidatePersonal checks the personal information step.
func ValidatePersonal(d Draft) FieldErrors {
	errs := FieldErrors{}
	check(errs, "first_name", Required("First name is required")(d.FirstName))
	check(errs, "last_name", Required("Last name is required")(d.LastName))
	check(errs, "dob", ValidateDOB(d.DOB))
	check(errs, "gender", ValidateGender(d.Gender))
	return errs
}

// ValidateContact checks the contact information step.
func ValidateContact(d Draft) FieldErrors {
	errs := FieldErrors{}
	check(errs, "phone", ValidatePhone(d.Phone))
	check(errs, "address_line1", Required("Address is required")(d.AddressLine1))
	check(errs, "city", Required("City is required")(d.City))
	check(errs, "state", Required("Province/State is required")(d.State))
	check(errs, "zip_code", ValidateZip(d.ZipCode))
	check(errs, "guardian_phone", ValidateOptionalPhone(d.GuardianPhone))
	return errs
}

func check(errs FieldErrors, key string, err error) {
	if err != nil {
		errs[key] = err.Error()
	}
}
