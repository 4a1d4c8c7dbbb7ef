package vitals

import "testing"

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name  string
		kind  Kind
		value string
		want  Severity
	}{
		{"normal temperature", Temperature, "98.6", Normal},
		{"fever above warning band", Temperature, "101", Critical},
		{"mild fever", Temperature, "99.5", Warning},
		{"low temperature warning", Temperature, "96.0", Warning},
		{"hypothermia", Temperature, "94.0", Critical},
		{"pulse lower bound", Pulse, "60", Normal},
		{"pulse slightly low", Pulse, "55", Warning},
		{"pulse tachycardia", Pulse, "130", Critical},
		{"spo2 normal", SpO2, "97", Normal},
		{"spo2 low", SpO2, "92", Warning},
		{"spo2 above range has no warning band", SpO2, "101", Critical},
		{"spo2 critical", SpO2, "85", Critical},
		{"respiratory normal", RespiratoryRate, "16", Normal},
		{"respiratory high", RespiratoryRate, "23", Warning},
		{"respiratory critical", RespiratoryRate, "30", Critical},
		{"unparseable value", Pulse, "abc", Warning},
		{"nan value", Pulse, "NaN", Warning},
		{"bp normal", BloodPressure, "120/80", Normal},
		{"bp elevated systolic", BloodPressure, "150/95", Warning},
		{"bp crisis", BloodPressure, "200/130", Critical},
		{"bp low systolic", BloodPressure, "85/70", Critical},
		{"bp high diastolic only", BloodPressure, "130/95", Warning},
		{"bp missing separator", BloodPressure, "120", Warning},
		{"bp garbage half", BloodPressure, "120/x", Warning},
		{"unknown kind", Kind("glucose"), "500", Normal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Analyze(tt.kind, tt.value); got != tt.want {
				t.Errorf("Analyze(%s, %q): expected %s, got %s", tt.kind, tt.value, tt.want, got)
			}
		})
	}
}
