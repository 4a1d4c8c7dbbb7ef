// Package narration speaks short phrases for screen-reader users. A new
// phrase always interrupts the one still playing.
package narration

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Narrator speaks a phrase without blocking the caller.
type Narrator interface {
	Speak(text string) error
	Stop()
}

// Nop discards every phrase.
type Nop struct{}

func (Nop) Speak(string) error { return nil }
func (Nop) Stop()              {}

// CommandNarrator runs an external text-to-speech program (espeak, say,
// spd-say) with the phrase as its last argument.
type CommandNarrator struct {
	name string
	args []string
	log  *logrus.Entry

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewCommandNarrator parses command, e.g. "espeak -s 140".
func NewCommandNarrator(command string, log *logrus.Entry) (*CommandNarrator, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty narration command")
	}
	path, err := exec.LookPath(fields[0])
	if err != nil {
		return nil, fmt.Errorf("narration command %q: %w", fields[0], err)
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &CommandNarrator{name: path, args: fields[1:], log: log.WithField("component", "narration")}, nil
}

// Speak stops the current utterance and starts a new one.
func (n *CommandNarrator) Speak(text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.cancel != nil {
		n.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	n.cancel = cancel

	args := append(append([]string{}, n.args...), text)
	cmd := exec.CommandContext(ctx, n.name, args...)
	if err := cmd.Start(); err != nil {
		cancel()
		n.cancel = nil
		return fmt.Errorf("start narration: %w", err)
	}

	go func() {
		if err := cmd.Wait(); err != nil && ctx.Err() == nil {
			n.log.WithError(err).Debug("narration exited with error")
		}
		cancel()
	}()
	return nil
}

// Stop interrupts the current utterance, if any.
func (n *CommandNarrator) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.cancel != nil {
		n.cancel()
		n.cancel = nil
	}
}

// Recorder keeps every phrase in memory. It stands in for speech when no
// command is configured and lets tests assert on what would be spoken.
type Recorder struct {
	mu      sync.Mutex
	phrases []string
	stops   int
}

func (r *Recorder) Speak(text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phrases = append(r.phrases, text)
	return nil
}

func (r *Recorder) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stops++
}

// Phrases returns a copy of everything spoken so far.
func (r *Recorder) Phrases() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.phrases...)
}

// Last returns the most recent phrase, or "".
func (r *Recorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.phrases) == 0 {
		return ""
	}
	return r.phrases[len(r.phrases)-1]
}

// Stops counts Stop calls.
func (r *Recorder) Stops() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stops
}
