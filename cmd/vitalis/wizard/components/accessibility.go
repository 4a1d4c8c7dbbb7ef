package components

import (
	"fmt"
	"strings"

	"github.com/mrsinham/vitalis/internal/vitals"
)

// FontScale is the text size chosen on the toolbar.
type FontScale int

const (
	FontSmall FontScale = iota
	FontNormal
	FontLarge
)

func (f FontScale) String() string {
	switch f {
	case FontSmall:
		return "Small"
	case FontLarge:
		return "Large"
	}
	return "Normal"
}

// Accessibility is the per-session toolbar state, shared with every screen.
type Accessibility struct {
	FontScale    FontScale
	HighContrast bool
	Audio        bool
	Narration    bool
	Language     string
}

// DefaultAccessibility is the state at the start of each session.
func DefaultAccessibility() Accessibility {
	return Accessibility{
		FontScale: FontNormal,
		Audio:     true,
		Language:  vitals.Languages[0],
	}
}

// CycleFontScale moves small, normal, large, small...
func (a *Accessibility) CycleFontScale() {
	a.FontScale = (a.FontScale + 1) % 3
}

// CycleLanguage moves to the next toolbar language.
func (a *Accessibility) CycleLanguage() {
	for i, l := range vitals.Languages {
		if l == a.Language {
			a.Language = vitals.Languages[(i+1)%len(vitals.Languages)]
			return
		}
	}
	a.Language = vitals.Languages[0]
}

// Speaks reports whether narration should be played.
func (a Accessibility) Speaks() bool { return a.Audio && a.Narration }

// Toolbar renders the key legend for the accessibility toolbar.
func (a Accessibility) Toolbar(t Theme) string {
	onOff := func(b bool) string {
		if b {
			return "On"
		}
		return "Off"
	}
	items := []string{
		"F1 Help",
		fmt.Sprintf("F2 Text: %s", a.FontScale),
		fmt.Sprintf("F3 Contrast: %s", onOff(a.HighContrast)),
		fmt.Sprintf("F4 Audio: %s", onOff(a.Audio)),
		fmt.Sprintf("F5 Narration: %s", onOff(a.Narration)),
		fmt.Sprintf("F6 Lang: %s", a.Language),
	}
	return t.Toolbar.Render(strings.Join(items, " | "))
}
