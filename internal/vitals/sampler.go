package vitals

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// FailureRate is the probability that a simulated capture fails.
const FailureRate = 0.3

// Sample is the raw outcome of one capture attempt.
type Sample struct {
	Value string
	OK    bool
}

// Sampler produces a capture outcome for a vital kind. The simulated
// implementation can be swapped for a device driver without touching the
// state machine.
type Sampler interface {
	Sample(kind Kind) Sample
}

// RandomSampler simulates sensor captures.
type RandomSampler struct {
	rng         *rand.Rand
	failureRate float64
}

// NewRandomSampler creates a simulated sampler. A nil rng seeds one from the clock.
func NewRandomSampler(rng *rand.Rand) *RandomSampler {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	return &RandomSampler{rng: rng, failureRate: FailureRate}
}

// Sample implements Sampler.
func (s *RandomSampler) Sample(kind Kind) Sample {
	if s.rng.Float64() < s.failureRate {
		return Sample{}
	}
	return Sample{Value: GenerateValue(kind, s.rng), OK: true}
}

// GenerateValue returns a plausible reading for the kind.
func GenerateValue(kind Kind, rng *rand.Rand) string {
	switch kind {
	case RespiratoryRate:
		return fmt.Sprintf("%d", 12+rng.IntN(8))
	case Pulse:
		return fmt.Sprintf("%d", 60+rng.IntN(40))
	case SpO2:
		return fmt.Sprintf("%d", 95+rng.IntN(5))
	case BloodPressure:
		return fmt.Sprintf("%d/%d", 110+rng.IntN(30), 70+rng.IntN(20))
	case Temperature:
		return fmt.Sprintf("%.1f", 97+rng.Float64()*2)
	}
	return "0"
}

// ScriptedSampler replays a fixed list of outcomes, then repeats the last one.
type ScriptedSampler struct {
	Outcomes []Sample
	calls    int
}

// Sample implements Sampler.
func (s *ScriptedSampler) Sample(kind Kind) Sample {
	if len(s.Outcomes) == 0 {
		return Sample{}
	}
	i := s.calls
	if i >= len(s.Outcomes) {
		i = len(s.Outcomes) - 1
	}
	s.calls++
	return s.Outcomes[i]
}

// Calls reports how many samples were drawn.
func (s *ScriptedSampler) Calls() int { return s.calls }
