package screens

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/vitalis/internal/patient"
	"github.com/mrsinham/vitalis/internal/receipt"
)

type submittedMsg struct {
	screen int64
	record patient.Record
	err    error
}

type countdownMsg struct {
	screen int64
}

type receiptMsg struct {
	screen int64
	path   string
	err    error
}

// SuccessScreen submits the draft and counts down to the next session.
type SuccessScreen struct {
	navigator
	id         int64
	ctx        *Context
	backend    Backend
	draft      patient.Draft
	hospital   string
	receiptDir string

	submitted bool
	record    *patient.Record
	err       error

	remaining time.Duration
	interval  time.Duration

	receiptPath string
	receiptErr  error
}

// NewSuccessScreen creates the final screen. countdown is the inactivity
// delay before the session restarts.
func NewSuccessScreen(ctx *Context, backend Backend, draft patient.Draft, hospital string, countdown time.Duration, receiptDir string) *SuccessScreen {
	interval := time.Second
	if countdown > 0 && countdown < interval {
		interval = countdown
	}
	return &SuccessScreen{
		id:         nextID(),
		ctx:        ctx,
		backend:    backend,
		draft:      draft,
		hospital:   hospital,
		receiptDir: receiptDir,
		remaining:  countdown,
		interval:   interval,
	}
}

// Init implements tea.Model. The draft is submitted here, once.
func (s *SuccessScreen) Init() tea.Cmd {
	if s.submitted {
		return s.countdown()
	}
	s.submitted = true

	id, backend, draft := s.id, s.backend, s.draft
	submit := func() tea.Msg {
		rec, err := backend.Submit(context.Background(), draft)
		return submittedMsg{screen: id, record: rec, err: err}
	}
	return tea.Batch(submit, s.countdown())
}

func (s *SuccessScreen) countdown() tea.Cmd {
	id := s.id
	return tea.Tick(s.interval, func(time.Time) tea.Msg { return countdownMsg{screen: id} })
}

// Update implements tea.Model
func (s *SuccessScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case submittedMsg:
		if msg.screen != s.id {
			return s, nil
		}
		if msg.err != nil {
			s.err = msg.err
			return s, nil
		}
		rec := msg.record
		s.record = &rec
	case countdownMsg:
		if msg.screen != s.id {
			return s, nil
		}
		s.remaining -= s.interval
		if s.remaining <= 0 {
			s.navigate(NavRestart)
			return s, nil
		}
		return s, s.countdown()
	case receiptMsg:
		if msg.screen == s.id {
			s.receiptPath, s.receiptErr = msg.path, msg.err
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "enter", " ":
			s.navigate(NavRestart)
		case "p", "P":
			return s, s.printReceipt()
		}
	}
	return s, nil
}

func (s *SuccessScreen) printReceipt() tea.Cmd {
	if s.record == nil || s.receiptDir == "" {
		return nil
	}
	id, rec, dir, hospital := s.id, *s.record, s.receiptDir, s.hospital
	return func() tea.Msg {
		path, err := receipt.Save(dir, rec, hospital)
		return receiptMsg{screen: id, path: path, err: err}
	}
}

// Record is the submitted record once the gateway has answered.
func (s *SuccessScreen) Record() *patient.Record { return s.record }

// Err is the submission failure, if any.
func (s *SuccessScreen) Err() error { return s.err }

// ReceiptPath is where the last receipt was written.
func (s *SuccessScreen) ReceiptPath() string { return s.receiptPath }

// View implements tea.Model
func (s *SuccessScreen) View() string {
	t := s.ctx.Theme

	if s.err != nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			t.Title.Render("We could not save your check-in"),
			t.Error.Render(s.err.Error()),
			t.Gap,
			"Please ask a staff member for help.",
			t.Hint.Render("Enter: Start over"),
		)
	}

	ref := t.Hint.Render("Saving...")
	name := s.draft.FullName()
	if s.record != nil {
		ref = t.Value.Render(s.record.ID)
	}

	lines := []string{
		t.Success.Render("✓ Check-in complete"),
		"",
		t.Label.Render("Reference: ") + ref,
		t.Label.Render("Name:      ") + t.Value.Render(name),
		t.Gap,
		"Please proceed to the waiting area (Zone B). Your name will be called shortly.",
		t.Label.Render("Average wait time: 15-20 minutes"),
		t.Gap,
	}
	switch {
	case s.receiptErr != nil:
		lines = append(lines, t.Error.Render("Receipt failed: "+s.receiptErr.Error()))
	case s.receiptPath != "":
		lines = append(lines, t.Label.Render("Receipt saved to "+s.receiptPath))
	}

	secs := int((s.remaining + time.Second - 1) / time.Second)
	lines = append(lines,
		t.Hint.Render(fmt.Sprintf("Returning to the start in %ds", max(secs, 0))),
		t.Hint.Render("Enter: Finish | P: Print receipt"),
	)

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
