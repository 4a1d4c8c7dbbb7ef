package wizard

import (
	"context"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mrsinham/vitalis/cmd/vitalis/wizard/screens"
	"github.com/mrsinham/vitalis/internal/kiosk"
	"github.com/mrsinham/vitalis/internal/patient"
	"github.com/mrsinham/vitalis/internal/vitals"
)

// driver runs a Wizard without a terminal. Commands run in goroutines and
// anything slower than wait (cursor blinks, one-second countdowns) is dropped.
type driver struct {
	w     *Wizard
	queue []tea.Cmd
	wait  time.Duration
}

func newDriver(w *Wizard) *driver {
	d := &driver{w: w, wait: 50 * time.Millisecond}
	d.push(w.Init())
	return d
}

func (d *driver) push(cmd tea.Cmd) {
	if cmd != nil {
		d.queue = append(d.queue, cmd)
	}
}

func (d *driver) send(msg tea.Msg) {
	_, cmd := d.w.Update(msg)
	d.push(cmd)
}

func (d *driver) key(k string) {
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "f1":
		msg = tea.KeyMsg{Type: tea.KeyF1}
	case "f2":
		msg = tea.KeyMsg{Type: tea.KeyF2}
	case "f3":
		msg = tea.KeyMsg{Type: tea.KeyF3}
	case "f4":
		msg = tea.KeyMsg{Type: tea.KeyF4}
	case "f5":
		msg = tea.KeyMsg{Type: tea.KeyF5}
	case "f6":
		msg = tea.KeyMsg{Type: tea.KeyF6}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	d.send(msg)
}

func (d *driver) exec(c tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- c() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(d.wait):
		return nil
	}
}

// settle processes queued commands until until reports true or the queue is
// empty. A nil until waits for an empty queue.
func (d *driver) settle(until func() bool) bool {
	for n := 0; n < 500; n++ {
		if until != nil && until() {
			return true
		}
		if len(d.queue) == 0 {
			return until == nil
		}
		c := d.queue[0]
		d.queue = d.queue[1:]

		switch msg := d.exec(c).(type) {
		case nil, tea.QuitMsg:
		case tea.BatchMsg:
			for _, bc := range msg {
				d.push(bc)
			}
		default:
			d.send(msg)
		}
	}
	return until != nil && until()
}

// completeForm fills the personal or contact form and submits it.
func (d *driver) completeForm(fill func(*patient.Draft)) error {
	var errs patient.FieldErrors
	var nav screens.Nav
	switch s := d.w.Screen().(type) {
	case *screens.PersonalScreen:
		fill(s.Draft())
		errs = s.Complete()
		nav = s.Nav()
	case *screens.ContactScreen:
		fill(s.Draft())
		errs = s.Complete()
		nav = s.Nav()
	default:
		return fmt.Errorf("expected a form screen, got %T", s)
	}
	if len(errs) > 0 {
		return errs
	}
	d.push(d.w.follow(nav))
	d.w.narrate()
	return nil
}

func (d *driver) vital() *screens.VitalScreen {
	s, _ := d.w.Screen().(*screens.VitalScreen)
	return s
}

// attempt starts a capture on the current vital and waits for its outcome.
func (d *driver) attempt() error {
	s := d.vital()
	if s == nil {
		return fmt.Errorf("expected a vital screen, got %T", d.w.Screen())
	}
	if s.Machine().State() == vitals.StateError {
		d.key("r")
	}
	d.key("enter")
	if !d.settle(func() bool { return s.Machine().State() != vitals.StateMeasuring }) {
		return fmt.Errorf("measurement did not finish, state %s", s.Machine().State())
	}
	return nil
}

func fillPersonal(d *patient.Draft) {
	d.FirstName = "Ana"
	d.LastName = "Cruz"
	d.DOB = "03/14/1990"
	d.Gender = patient.GenderFemale
}

func fillContact(d *patient.Draft) {
	d.Phone = "09171234567"
	d.AddressLine1 = "123 Rizal St"
	d.City = "Quezon City"
	d.State = "Metro Manila"
	d.ZipCode = "1100"
}

// fakeBackend is an in-memory Backend.
type fakeBackend struct {
	mu        sync.Mutex
	settings  kiosk.Settings
	submitted []patient.Draft
	requests  map[string]kiosk.AssistanceRequest
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{settings: kiosk.DefaultSettings(), requests: map[string]kiosk.AssistanceRequest{}}
}

func (b *fakeBackend) Settings() (kiosk.Settings, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.settings, nil
}

func (b *fakeBackend) Submit(ctx context.Context, draft patient.Draft) (patient.Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.submitted = append(b.submitted, draft)
	return patient.Record{
		Draft:  draft,
		ID:     fmt.Sprintf("LRD-20261018-%04d", len(b.submitted)),
		Status: patient.StatusWaiting,
	}, nil
}

func (b *fakeBackend) CreateAssistance(ctx context.Context, kioskID string) (kiosk.AssistanceRequest, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	req := kiosk.AssistanceRequest{
		ID:      fmt.Sprintf("AST-%d", len(b.requests)+1),
		KioskID: kioskID,
		Status:  kiosk.AssistancePending,
	}
	b.requests[req.ID] = req
	return req, nil
}

func (b *fakeBackend) FindAssistance(ctx context.Context, id string) (kiosk.AssistanceRequest, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	req, ok := b.requests[id]
	if !ok {
		return kiosk.AssistanceRequest{}, fmt.Errorf("%s: not found", id)
	}
	return req, nil
}

func (b *fakeBackend) resolve(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	req := b.requests[id]
	req.Status = kiosk.AssistanceResolved
	b.requests[id] = req
}

func (b *fakeBackend) submissions() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.submitted)
}
