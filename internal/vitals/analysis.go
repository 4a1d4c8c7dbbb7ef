package vitals

import (
	"math"
	"strconv"
	"strings"
)

type band struct {
	min, max float64
}

func (b band) contains(v float64) bool {
	return v >= b.min && v <= b.max
}

type thresholds struct {
	normal, warnLow, warnHigh band
}

// ranges holds the single-value classification table. The SpO₂ high
// warning band is empty: anything above 100 is critical.
var ranges = map[Kind]thresholds{
	Temperature:     {normal: band{97.0, 99.0}, warnLow: band{95.0, 96.9}, warnHigh: band{99.1, 100.4}},
	Pulse:           {normal: band{60, 100}, warnLow: band{50, 59}, warnHigh: band{101, 120}},
	SpO2:            {normal: band{95, 100}, warnLow: band{90, 94}, warnHigh: band{101, 100}},
	RespiratoryRate: {normal: band{12, 20}, warnLow: band{8, 11}, warnHigh: band{21, 25}},
}

// Analyze classifies a raw value for the given kind. Unparseable input is
// a Warning. Kinds without a table are Normal.
func Analyze(kind Kind, value string) Severity {
	if kind == BloodPressure {
		return analyzeBloodPressure(value)
	}

	t, ok := ranges[kind]
	if !ok {
		return Normal
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(v) {
		return Warning
	}

	switch {
	case t.normal.contains(v):
		return Normal
	case t.warnLow.contains(v), t.warnHigh.contains(v):
		return Warning
	default:
		return Critical
	}
}

func analyzeBloodPressure(value string) Severity {
	sysStr, diaStr, ok := strings.Cut(value, "/")
	if !ok {
		return Warning
	}
	sys, err := strconv.ParseFloat(strings.TrimSpace(sysStr), 64)
	if err != nil || math.IsNaN(sys) {
		return Warning
	}
	dia, err := strconv.ParseFloat(strings.TrimSpace(diaStr), 64)
	if err != nil || math.IsNaN(dia) {
		return Warning
	}

	switch {
	case sys < 90 || sys > 180 || dia < 60 || dia > 120:
		return Critical
	case sys > 140 || dia > 90:
		return Warning
	default:
		return Normal
	}
}
