package vitals

// Config describes how one vital is presented and captured.
type Config struct {
	Kind        Kind
	Title       string
	Icon        string
	DurationSec int
	Unit        string
	NormalRange string
	Enabled     bool

	// Instructions overrides the language catalogue when non-empty.
	Instructions []string
}

// DefaultConfigs returns the built-in catalogue in measurement order.
func DefaultConfigs() []Config {
	return []Config{
		{Kind: RespiratoryRate, Title: "Respiratory Rate", Icon: "wind", DurationSec: 5, Unit: "breaths/min", NormalRange: "12-20", Enabled: true},
		{Kind: Pulse, Title: "Pulse", Icon: "heart", DurationSec: 4, Unit: "bpm", NormalRange: "60-100", Enabled: true},
		{Kind: SpO2, Title: "Blood Oxygen (SpO₂)", Icon: "droplet", DurationSec: 4, Unit: "%", NormalRange: "95-100", Enabled: true},
		{Kind: BloodPressure, Title: "Blood Pressure", Icon: "activity", DurationSec: 6, Unit: "mmHg", NormalRange: "120/80", Enabled: true},
		{Kind: Temperature, Title: "Body Temperature", Icon: "thermometer", DurationSec: 3, Unit: "°F", NormalRange: "97.8-99.1", Enabled: true},
	}
}

// Active filters configs down to the kinds enabled in the given flags.
// A kind missing from the map counts as enabled.
func Active(configs []Config, enabled map[Kind]bool) []Config {
	out := make([]Config, 0, len(configs))
	for _, c := range configs {
		on, ok := enabled[c.Kind]
		if ok && !on {
			continue
		}
		c.Enabled = true
		out = append(out, c)
	}
	return out
}

// Find returns the config for a kind.
func Find(configs []Config, kind Kind) (Config, bool) {
	for _, c := range configs {
		if c.Kind == kind {
			return c, true
		}
	}
	return Config{}, false
}
