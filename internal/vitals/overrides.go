package vitals

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Override adjusts one catalogue entry. Zero fields are left untouched.
type Override struct {
	DurationSec  int      `yaml:"duration_sec"`
	Unit         string   `yaml:"unit"`
	NormalRange  string   `yaml:"normal_range"`
	Title        string   `yaml:"title"`
	Instructions []string `yaml:"instructions"`
}

// OverrideFile is the YAML layout of a vitals override file.
type OverrideFile struct {
	Vitals map[string]Override `yaml:"vitals"`
}

// LoadOverrides reads a vitals override file.
func LoadOverrides(path string) (map[Kind]Override, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading vitals overrides: %w", err)
	}

	var file OverrideFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing vitals overrides: %w", err)
	}

	out := make(map[Kind]Override, len(file.Vitals))
	for name, o := range file.Vitals {
		kind, err := ParseKind(name)
		if err != nil {
			return nil, err
		}
		if o.DurationSec < 0 {
			return nil, fmt.Errorf("vital %s: duration_sec must not be negative", name)
		}
		out[kind] = o
	}
	return out, nil
}

// ApplyOverrides returns a copy of configs with overrides applied.
func ApplyOverrides(configs []Config, overrides map[Kind]Override) []Config {
	out := make([]Config, len(configs))
	for i, c := range configs {
		if o, ok := overrides[c.Kind]; ok {
			if o.DurationSec > 0 {
				c.DurationSec = o.DurationSec
			}
			if o.Unit != "" {
				c.Unit = o.Unit
			}
			if o.NormalRange != "" {
				c.NormalRange = o.NormalRange
			}
			if o.Title != "" {
				c.Title = o.Title
			}
			if len(o.Instructions) > 0 {
				c.Instructions = o.Instructions
			}
		}
		out[i] = c
	}
	return out
}
