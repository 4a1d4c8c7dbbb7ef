// Package vitals holds the vital-sign catalogue, the severity analysis and
// the measurement state machine that drives a single capture.
package vitals

import (
	"errors"
	"fmt"
	"time"
)

// Kind identifies one of the five measured signs.
type Kind string

const (
	RespiratoryRate Kind = "respiratoryRate"
	Pulse           Kind = "pulse"
	SpO2            Kind = "spo2"
	BloodPressure   Kind = "bp"
	Temperature     Kind = "temperature"
)

// ErrUnknownKind is returned when a kind identifier is not in the catalogue.
var ErrUnknownKind = errors.New("unknown vital kind")

// Kinds lists every vital kind in measurement order.
var Kinds = []Kind{RespiratoryRate, Pulse, SpO2, BloodPressure, Temperature}

// ParseKind validates a kind identifier.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Severity is the clinical classification of a measured value.
type Severity string

const (
	Normal   Severity = "Normal"
	Warning  Severity = "Warning"
	Critical Severity = "Critical"
)

// Measurement is one captured vital value. It is never mutated after creation.
type Measurement struct {
	Value      string    `json:"value" yaml:"value"`
	Unit       string    `json:"unit" yaml:"unit"`
	Severity   Severity  `json:"status" yaml:"status"`
	CapturedAt time.Time `json:"timestamp" yaml:"timestamp"`
}
