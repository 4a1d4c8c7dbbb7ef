package vitals

import (
	"time"
)

// State is the phase of one capture run.
type State int

const (
	StateIdle State = iota
	StateMeasuring
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateMeasuring:
		return "measuring"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Action is a choice offered to the patient in the current state.
type Action string

const (
	ActionStart    Action = "start"
	ActionCancel   Action = "cancel"
	ActionContinue Action = "continue"
	ActionRetry    Action = "retry"
	ActionHelp     Action = "help"
	ActionSkip     Action = "skip"
)

// EscalationThreshold is the number of attempts after which a failed
// capture offers staff help or skipping the vital.
const EscalationThreshold = 3

// Timing controls the simulated acquisition window.
type Timing struct {
	Tick    time.Duration
	Speedup int
}

// DefaultTiming ticks every 100ms with a 10x speedup.
var DefaultTiming = Timing{Tick: 100 * time.Millisecond, Speedup: 10}

// Steps returns how many ticks a capture of the given duration takes.
func (t Timing) Steps(durationSec int) int {
	tick := t.Tick
	if tick <= 0 {
		tick = DefaultTiming.Tick
	}
	speedup := t.Speedup
	if speedup <= 0 {
		speedup = 1
	}
	window := time.Duration(durationSec) * time.Second / time.Duration(speedup)
	n := int(window / tick)
	if n < 1 {
		n = 1
	}
	return n
}

// Machine drives a single vital through idle, measuring and its outcome.
// It owns no timers: callers feed it ticks tagged with the generation
// returned by Start, so ticks from an abandoned run are ignored.
type Machine struct {
	config     Config
	sampler    Sampler
	timing     Timing
	now        func() time.Time
	onMeasured func(Kind, Measurement)

	state      State
	attempts   int
	progress   float64
	elapsed    int
	steps      int
	generation int
	evaluated  bool
	result     *Measurement
}

// NewMachine creates a machine in the idle state. onMeasured is called
// exactly once per successful attempt.
func NewMachine(config Config, sampler Sampler, timing Timing, onMeasured func(Kind, Measurement)) *Machine {
	if sampler == nil {
		sampler = NewRandomSampler(nil)
	}
	return &Machine{
		config:     config,
		sampler:    sampler,
		timing:     timing,
		now:        time.Now,
		onMeasured: onMeasured,
		steps:      timing.Steps(config.DurationSec),
	}
}

// SetClock replaces the capture timestamp source.
func (m *Machine) SetClock(now func() time.Time) { m.now = now }

// Reset returns the machine to a fresh idle state for a new config.
func (m *Machine) Reset(config Config) {
	m.config = config
	m.steps = m.timing.Steps(config.DurationSec)
	m.state = StateIdle
	m.attempts = 0
	m.progress = 0
	m.elapsed = 0
	m.evaluated = false
	m.result = nil
	m.generation++
}

// Start begins a capture. It returns the generation to tag ticks with and
// false if the machine is not idle.
func (m *Machine) Start() (int, bool) {
	if m.state != StateIdle {
		return m.generation, false
	}
	m.generation++
	m.state = StateMeasuring
	m.progress = 0
	m.elapsed = 0
	m.evaluated = false
	return m.generation, true
}

// Tick advances progress by one step. It reports whether the machine is
// still measuring and expects another tick.
func (m *Machine) Tick(generation int) bool {
	if m.state != StateMeasuring || generation != m.generation {
		return false
	}
	m.elapsed++
	m.progress = float64(m.elapsed) / float64(m.steps) * 100
	if m.elapsed >= m.steps {
		m.progress = 100
		m.finish()
		return false
	}
	return true
}

func (m *Machine) finish() {
	if m.evaluated {
		return
	}
	m.evaluated = true
	m.attempts++

	sample := m.sampler.Sample(m.config.Kind)
	if !sample.OK {
		m.state = StateError
		return
	}

	meas := Measurement{
		Value:      sample.Value,
		Unit:       m.config.Unit,
		Severity:   Analyze(m.config.Kind, sample.Value),
		CapturedAt: m.now(),
	}
	m.result = &meas
	m.state = StateSuccess
	if m.onMeasured != nil {
		m.onMeasured(m.config.Kind, meas)
	}
}

// Cancel aborts a running capture without consuming an attempt.
func (m *Machine) Cancel() {
	if m.state != StateMeasuring {
		return
	}
	m.generation++
	m.state = StateIdle
	m.progress = 0
	m.elapsed = 0
}

// Retry returns a failed capture to idle, keeping the attempt count.
func (m *Machine) Retry() bool {
	if m.state != StateError {
		return false
	}
	m.state = StateIdle
	m.progress = 0
	m.elapsed = 0
	return true
}

// Escalated reports whether help and skip are on offer.
func (m *Machine) Escalated() bool {
	return m.state == StateError && m.attempts >= EscalationThreshold
}

// Actions lists what the patient can do in the current state.
func (m *Machine) Actions() []Action {
	switch m.state {
	case StateIdle:
		return []Action{ActionStart}
	case StateMeasuring:
		return []Action{ActionCancel}
	case StateSuccess:
		return []Action{ActionContinue}
	case StateError:
		if m.Escalated() {
			return []Action{ActionRetry, ActionHelp, ActionSkip}
		}
		return []Action{ActionRetry}
	}
	return nil
}

// Allows reports whether an action is currently offered.
func (m *Machine) Allows(a Action) bool {
	for _, x := range m.Actions() {
		if x == a {
			return true
		}
	}
	return false
}

// State returns the current phase.
func (m *Machine) State() State { return m.state }

// Config returns the vital being captured.
func (m *Machine) Config() Config { return m.config }

// Attempts counts finished captures, failed or not.
func (m *Machine) Attempts() int { return m.attempts }

// Progress is the capture completion in percent.
func (m *Machine) Progress() float64 { return m.progress }

// Elapsed is the number of ticks consumed by the running capture.
func (m *Machine) Elapsed() int { return m.elapsed }

// Steps is the number of ticks a capture takes.
func (m *Machine) Steps() int { return m.steps }

// Generation tags the ticks of the current run.
func (m *Machine) Generation() int { return m.generation }

// Result is the last successful measurement, nil otherwise.
func (m *Machine) Result() *Measurement { return m.result }

// TickInterval is the delay between ticks.
func (m *Machine) TickInterval() time.Duration {
	if m.timing.Tick <= 0 {
		return DefaultTiming.Tick
	}
	return m.timing.Tick
}
