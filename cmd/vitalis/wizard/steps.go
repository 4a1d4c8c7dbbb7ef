package wizard

import (
	"fmt"
	"strings"

	"github.com/mrsinham/vitalis/internal/vitals"
)

// StepKind identifies which screen a step shows.
type StepKind int

const (
	StepWelcome StepKind = iota
	StepPersonal
	StepContact
	StepBriefing
	StepVital
	StepReview
	StepSuccess
)

// AssistanceStep is the sentinel step of the assistance overlay.
const AssistanceStep = 99

// Step describes one entry of the sequence.
type Step struct {
	Kind   StepKind
	Vital  vitals.Config
	Number int
}

// Sequence is the ordered list of steps for one session: the fixed
// screens, one step per enabled vital, then review and success.
type Sequence struct {
	steps  []Step
	vitals []vitals.Config
}

// NewSequence builds the sequence for the active vital configs.
func NewSequence(active []vitals.Config) Sequence {
	steps := []Step{{Kind: StepWelcome}, {Kind: StepPersonal}, {Kind: StepContact}, {Kind: StepBriefing}}
	for _, c := range active {
		steps = append(steps, Step{Kind: StepVital, Vital: c})
	}
	steps = append(steps, Step{Kind: StepReview}, Step{Kind: StepSuccess})
	for i := range steps {
		steps[i].Number = i
	}
	return Sequence{steps: steps, vitals: append([]vitals.Config(nil), active...)}
}

// Len is the number of steps including welcome and success.
func (s Sequence) Len() int { return len(s.steps) }

// At returns the step at index i.
func (s Sequence) At(i int) (Step, bool) {
	if i < 0 || i >= len(s.steps) {
		return Step{}, false
	}
	return s.steps[i], true
}

// IndexOf returns the first step of the given kind.
func (s Sequence) IndexOf(kind StepKind) int {
	for i, st := range s.steps {
		if st.Kind == kind {
			return i
		}
	}
	return -1
}

// VitalIndex returns the step measuring kind, or -1 when it is disabled.
func (s Sequence) VitalIndex(kind vitals.Kind) int {
	for i, st := range s.steps {
		if st.Kind == StepVital && st.Vital.Kind == kind {
			return i
		}
	}
	return -1
}

// Vitals returns the active configs in measurement order.
func (s Sequence) Vitals() []vitals.Config {
	return append([]vitals.Config(nil), s.vitals...)
}

// TotalVisual is the step count shown in the progress header.
func (s Sequence) TotalVisual() int { return 4 + len(s.vitals) }

// VisualStep maps a step to the number shown in the header. The assistance
// overlay shows its origin.
func (s Sequence) VisualStep(step, origin int) int {
	if step == AssistanceStep {
		step = origin
	}
	return min(step, s.TotalVisual())
}

// Percent is the header progress for step.
func (s Sequence) Percent(step, origin int) float64 {
	return float64(s.VisualStep(step, origin)) / float64(s.TotalVisual()) * 100
}

// Label is the header title of a step.
func (s Sequence) Label(step int) string {
	st, ok := s.At(step)
	if !ok {
		return ""
	}
	switch st.Kind {
	case StepPersonal:
		return "Step 1: Personal Information"
	case StepContact:
		return "Step 2: Contact Details"
	case StepBriefing:
		return "Step 3: Vital Signs Overview"
	case StepVital:
		return "Measuring: " + st.Vital.Title
	case StepReview:
		return "Review & Confirm"
	}
	return ""
}

// Phrase is what the narrator reads when step becomes current. Steps
// without narration return "".
func (s Sequence) Phrase(step int, lang string) string {
	st, ok := s.At(step)
	if !ok {
		return ""
	}
	switch st.Kind {
	case StepWelcome:
		return "Welcome to Patient Check-In. Please tap start to begin."
	case StepPersonal:
		return "Step 1, Personal Information form."
	case StepContact:
		return "Step 2, Contact Details form."
	case StepBriefing:
		return "Step 3, Vitals Briefing."
	case StepVital:
		return fmt.Sprintf("Measuring %s. %s", st.Vital.Title, strings.Join(st.Vital.InstructionsFor(lang), " "))
	case StepSuccess:
		return "Check in complete. Please take a seat."
	}
	return ""
}
