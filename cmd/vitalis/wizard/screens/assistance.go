package screens

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/vitalis/internal/kiosk"
)

type assistanceCreatedMsg struct {
	screen  int64
	request kiosk.AssistanceRequest
	err     error
}

type assistancePollMsg struct {
	screen int64
}

type assistanceStatusMsg struct {
	screen  int64
	request kiosk.AssistanceRequest
	err     error
}

type elapsedMsg struct {
	screen int64
}

// AssistanceScreen notifies staff and waits for them to resolve the request.
type AssistanceScreen struct {
	navigator
	id      int64
	ctx     *Context
	backend Backend
	kioskID string
	poll    time.Duration
	now     func() time.Time

	created bool
	started time.Time
	request *kiosk.AssistanceRequest
	err     error
}

// NewAssistanceScreen creates the overlay. poll is how often the request
// status is checked.
func NewAssistanceScreen(ctx *Context, backend Backend, kioskID string, poll time.Duration, now func() time.Time) *AssistanceScreen {
	if now == nil {
		now = time.Now
	}
	return &AssistanceScreen{
		id:      nextID(),
		ctx:     ctx,
		backend: backend,
		kioskID: kioskID,
		poll:    poll,
		now:     now,
	}
}

// Init implements tea.Model. The request is created here, once.
func (s *AssistanceScreen) Init() tea.Cmd {
	if s.created {
		return nil
	}
	s.created = true
	s.started = s.now()

	id, backend, kioskID := s.id, s.backend, s.kioskID
	create := func() tea.Msg {
		req, err := backend.CreateAssistance(context.Background(), kioskID)
		return assistanceCreatedMsg{screen: id, request: req, err: err}
	}
	return tea.Batch(create, s.tickElapsed())
}

func (s *AssistanceScreen) tickElapsed() tea.Cmd {
	id := s.id
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return elapsedMsg{screen: id} })
}

func (s *AssistanceScreen) schedulePoll() tea.Cmd {
	id := s.id
	return tea.Tick(s.poll, func(time.Time) tea.Msg { return assistancePollMsg{screen: id} })
}

func (s *AssistanceScreen) check() tea.Cmd {
	id, backend, reqID := s.id, s.backend, s.request.ID
	return func() tea.Msg {
		req, err := backend.FindAssistance(context.Background(), reqID)
		return assistanceStatusMsg{screen: id, request: req, err: err}
	}
}

// Update implements tea.Model
func (s *AssistanceScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case assistanceCreatedMsg:
		if msg.screen != s.id {
			return s, nil
		}
		if msg.err != nil {
			s.err = msg.err
			return s, nil
		}
		req := msg.request
		s.request = &req
		return s, s.schedulePoll()
	case assistancePollMsg:
		if msg.screen != s.id || s.request == nil {
			return s, nil
		}
		return s, s.check()
	case assistanceStatusMsg:
		if msg.screen != s.id {
			return s, nil
		}
		if msg.err == nil && msg.request.Status == kiosk.AssistanceResolved {
			s.request = &msg.request
			s.navigate(NavReturn)
			return s, nil
		}
		return s, s.schedulePoll()
	case elapsedMsg:
		if msg.screen != s.id {
			return s, nil
		}
		return s, s.tickElapsed()
	case tea.KeyMsg:
		switch msg.String() {
		case "c", "C", "esc", "enter":
			s.navigate(NavReturn)
		}
	}
	return s, nil
}

// Request is the created request, nil until the gateway answers.
func (s *AssistanceScreen) Request() *kiosk.AssistanceRequest { return s.request }

// Elapsed formats the time since staff were notified.
func Elapsed(d time.Duration) string {
	secs := int(d / time.Second)
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	return fmt.Sprintf("%dm %ds", secs/60, secs%60)
}

// View implements tea.Model
func (s *AssistanceScreen) View() string {
	t := s.ctx.Theme

	status := t.Hint.Render("Notifying staff...")
	switch {
	case s.err != nil:
		status = t.Error.Render("We could not reach staff. Please approach the front desk.")
	case s.request != nil:
		status = t.Value.Render(fmt.Sprintf("Staff notified %s ago", Elapsed(s.now().Sub(s.started))))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		t.Title.Render("Help Is On The Way"),
		t.Subtitle.Render("A staff member will be with you shortly. Please stay at the kiosk."),
		t.Panel.Render(status),
		t.Gap,
		t.Button.Render("Cancel Request & Return"),
		t.Hint.Render("C / Enter: Cancel request and return"),
	)
}
