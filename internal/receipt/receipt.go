// Package receipt renders the check-in receipt handed to a patient after
// submission, as plain text and as a PNG carrying a QR code of the
// reference ID.
package receipt

import (
	"fmt"
	"strings"

	"github.com/mrsinham/vitalis/internal/patient"
)

// Width is the character width of the text receipt.
const Width = 40

// NextSteps are printed under the patient details.
var NextSteps = []string{
	"Proceed to the waiting area (Zone B).",
	"Your name will be called shortly.",
	"Average wait time: 15-20 minutes.",
}

const footer = "Thank you for checking in."

// Lines returns the receipt content, one entry per printed line.
func Lines(rec patient.Record, hospital string) []string {
	rule := strings.Repeat("-", Width)
	lines := []string{
		center(hospital),
		center("Patient Check-In Receipt"),
		rule,
		"Reference ID: " + rec.ID,
		"Patient:      " + rec.FullName(),
		"Time:         " + rec.CheckInTime.Format("3:04 PM"),
		"Date:         " + rec.CheckInTime.Format("January 2, 2006"),
		rule,
		"Next steps:",
	}
	for i, step := range NextSteps {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, step))
	}
	return append(lines, rule, center(footer))
}

// Text joins Lines with newlines.
func Text(rec patient.Record, hospital string) string {
	return strings.Join(Lines(rec, hospital), "\n") + "\n"
}

func center(s string) string {
	if len(s) >= Width {
		return s
	}
	return strings.Repeat(" ", (Width-len(s))/2) + s
}
