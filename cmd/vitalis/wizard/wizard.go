// Package wizard provides the patient check-in TUI: the step sequence,
// the draft being filled in and the screens that fill it.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/mrsinham/vitalis/cmd/vitalis/wizard/components"
	"github.com/mrsinham/vitalis/cmd/vitalis/wizard/screens"
	"github.com/mrsinham/vitalis/internal/kiosk"
	"github.com/mrsinham/vitalis/internal/narration"
	"github.com/mrsinham/vitalis/internal/patient"
	"github.com/mrsinham/vitalis/internal/vitals"
)

// Backend is the persistence the wizard needs.
type Backend interface {
	screens.Backend
	Settings() (kiosk.Settings, error)
}

// Subview is an in-process view shown over the wizard, such as the admin
// dashboard. The wizard restarts once it reports Done.
type Subview interface {
	tea.Model
	Done() bool
}

// WarningMsg carries a non-fatal persistence warning to show as a toast.
type WarningMsg struct {
	Err error
}

// Config holds what a Wizard is built from.
type Config struct {
	Backend          Backend
	Catalogue        []vitals.Config
	Sampler          vitals.Sampler
	Timing           vitals.Timing
	Narrator         narration.Narrator
	SuccessCountdown time.Duration
	AssistancePoll   time.Duration
	ReceiptDir       string

	// Draft pre-fills the first session.
	Draft *patient.Draft

	OpenAdmin func() Subview
	Log       *logrus.Entry
	Now       func() time.Time
}

type narrationKey struct {
	step   int
	speaks bool
}

// Wizard is the check-in orchestrator.
type Wizard struct {
	cfg      Config
	settings kiosk.Settings
	seq      Sequence

	step   int
	origin int
	draft  patient.Draft
	access components.Accessibility
	sctx   *screens.Context

	screen  screens.Screen
	faulted bool
	admin   Subview

	narrated *narrationKey
	toast    string
	quitting bool
}

// New creates a wizard on the welcome step. Settings are read once here
// and again on every restart.
func New(cfg Config) *Wizard {
	if cfg.Narrator == nil {
		cfg.Narrator = narration.Nop{}
	}
	if cfg.Catalogue == nil {
		cfg.Catalogue = vitals.DefaultConfigs()
	}
	if cfg.Log == nil {
		cfg.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.SuccessCountdown <= 0 {
		cfg.SuccessCountdown = 60 * time.Second
	}
	if cfg.AssistancePoll <= 0 {
		cfg.AssistancePoll = 2 * time.Second
	}

	w := &Wizard{cfg: cfg}
	w.reset()
	if cfg.Draft != nil {
		w.draft = cfg.Draft.Clone()
		if w.draft.Vitals == nil {
			w.draft.Vitals = make(map[vitals.Kind]vitals.Measurement)
		}
	}
	return w
}

func (w *Wizard) loadSettings() kiosk.Settings {
	s, err := w.cfg.Backend.Settings()
	if err != nil {
		w.cfg.Log.WithError(err).Warn("load kiosk settings, using defaults")
		return kiosk.DefaultSettings()
	}
	return s
}

func (w *Wizard) reset() {
	w.settings = w.loadSettings()
	w.seq = NewSequence(w.settings.ActiveVitals(w.cfg.Catalogue))
	w.draft = patient.NewDraft()
	w.access = components.DefaultAccessibility()
	w.sctx = screens.NewContext(w.access)
	w.origin = 0
	w.faulted = false
	w.step = 0
	w.toast = ""
	w.screen = w.build(0)
}

// Init implements tea.Model
func (w *Wizard) Init() tea.Cmd {
	w.narrate()
	if w.screen == nil {
		return nil
	}
	return w.screen.Init()
}

func (w *Wizard) enter(step int) tea.Cmd {
	w.step = step
	w.toast = ""
	w.screen = w.build(step)
	if w.screen == nil {
		return nil
	}
	return w.screen.Init()
}

func (w *Wizard) build(step int) screens.Screen {
	if step == AssistanceStep {
		return screens.NewAssistanceScreen(w.sctx, w.cfg.Backend, w.settings.KioskID, w.cfg.AssistancePoll, w.cfg.Now)
	}
	st, ok := w.seq.At(step)
	if !ok {
		return nil
	}
	switch st.Kind {
	case StepWelcome:
		return screens.NewWelcomeScreen(w.sctx, w.settings.HospitalName)
	case StepPersonal:
		return screens.NewPersonalScreen(w.sctx, w.draft, w.UpdateDraft)
	case StepContact:
		return screens.NewContactScreen(w.sctx, w.draft, w.UpdateDraft)
	case StepBriefing:
		return screens.NewBriefingScreen(w.sctx, w.seq.Vitals())
	case StepVital:
		return screens.NewVitalScreen(w.sctx, st.Vital, w.cfg.Sampler, w.cfg.Timing, func(k vitals.Kind, m vitals.Measurement) {
			w.UpdateDraft(patient.VitalPatch(k, m))
		})
	case StepReview:
		return screens.NewReviewScreen(w.sctx, w.draft.Clone(), w.seq.Vitals(), w.editTargets())
	case StepSuccess:
		return screens.NewSuccessScreen(w.sctx, w.cfg.Backend, w.draft.Clone(), w.settings.HospitalName, w.cfg.SuccessCountdown, w.cfg.ReceiptDir)
	}
	return nil
}

func (w *Wizard) editTargets() []screens.EditTarget {
	targets := []screens.EditTarget{
		{Label: "Personal Information", Step: w.seq.IndexOf(StepPersonal)},
		{Label: "Contact Details", Step: w.seq.IndexOf(StepContact)},
	}
	for _, c := range w.seq.Vitals() {
		targets = append(targets, screens.EditTarget{Label: c.Title, Step: w.seq.VitalIndex(c.Kind)})
	}
	return targets
}

// Advance moves to the next step. Advancing past success leaves no screen.
func (w *Wizard) Advance() tea.Cmd { return w.enter(w.step + 1) }

// Retreat moves back one step, never before welcome.
func (w *Wizard) Retreat() tea.Cmd { return w.enter(max(w.step-1, 0)) }

// JumpTo moves to an absolute step.
func (w *Wizard) JumpTo(step int) tea.Cmd { return w.enter(step) }

// UpdateDraft merges a partial update into the draft.
func (w *Wizard) UpdateDraft(p patient.Patch) { w.draft.Merge(p) }

// RequestAssistance records the current step and opens the assistance
// overlay. It does nothing on the overlay itself or once the draft has
// been submitted.
func (w *Wizard) RequestAssistance() tea.Cmd {
	if w.step == AssistanceStep || w.faulted {
		return nil
	}
	if st, ok := w.seq.At(w.step); ok && st.Kind == StepSuccess {
		return nil
	}
	w.origin = w.step
	return w.enter(AssistanceStep)
}

// ReturnFromAssistance goes back to the step the overlay was opened from.
func (w *Wizard) ReturnFromAssistance() tea.Cmd {
	if w.step != AssistanceStep {
		return nil
	}
	return w.enter(w.origin)
}

// Restart starts a new session: settings are reloaded and the draft is
// replaced with an empty one.
func (w *Wizard) Restart() tea.Cmd {
	w.reset()
	if w.screen == nil {
		return nil
	}
	return w.screen.Init()
}

// Step returns the current step index.
func (w *Wizard) Step() int { return w.step }

// Origin returns the step the assistance overlay returns to.
func (w *Wizard) Origin() int { return w.origin }

// Draft returns a copy of the draft.
func (w *Wizard) Draft() patient.Draft { return w.draft.Clone() }

// Sequence returns the session's step sequence.
func (w *Wizard) Sequence() Sequence { return w.seq }

// Accessibility returns the toolbar state.
func (w *Wizard) Accessibility() components.Accessibility { return w.access }

// Screen returns the live screen, nil past the last step.
func (w *Wizard) Screen() tea.Model {
	if w.screen == nil {
		return nil
	}
	return w.screen
}

// Faulted reports whether the error screen is showing.
func (w *Wizard) Faulted() bool { return w.faulted }

// AdminOpen reports whether the admin view is showing.
func (w *Wizard) AdminOpen() bool { return w.admin != nil }

// Update implements tea.Model
func (w *Wizard) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			model, cmd = w, w.fail(r)
		}
	}()

	cmd = w.update(msg)
	w.narrate()
	return w, cmd
}

func (w *Wizard) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.sctx.Width, w.sctx.Height = msg.Width, msg.Height
	case WarningMsg:
		if msg.Err != nil {
			w.toast = msg.Err.Error()
		}
		return nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			w.quitting = true
			return tea.Quit
		}
	}

	if w.admin != nil {
		model, cmd := w.admin.Update(msg)
		if sv, ok := model.(Subview); ok {
			w.admin = sv
		}
		if w.admin.Done() {
			w.admin = nil
			return tea.Batch(cmd, w.Restart())
		}
		return cmd
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		if cmd, handled := w.toolbar(key.String()); handled {
			return cmd
		}
	}

	if w.screen == nil {
		return nil
	}
	model, cmd := w.screen.Update(msg)
	if s, ok := model.(screens.Screen); ok {
		w.screen = s
	}
	return tea.Batch(cmd, w.follow(w.screen.Nav()))
}

func (w *Wizard) follow(nav screens.Nav) tea.Cmd {
	switch nav.Kind {
	case screens.NavNext:
		return w.Advance()
	case screens.NavBack:
		return w.Retreat()
	case screens.NavJump:
		return w.JumpTo(nav.Step)
	case screens.NavHelp:
		return w.RequestAssistance()
	case screens.NavReturn:
		return w.ReturnFromAssistance()
	case screens.NavRestart:
		return w.Restart()
	case screens.NavAdmin:
		return w.openAdmin()
	}
	return nil
}

func (w *Wizard) openAdmin() tea.Cmd {
	if w.cfg.OpenAdmin == nil {
		return nil
	}
	w.admin = w.cfg.OpenAdmin()
	return w.admin.Init()
}

// toolbar handles the accessibility keys available on every screen.
func (w *Wizard) toolbar(key string) (tea.Cmd, bool) {
	switch key {
	case "f1":
		return w.RequestAssistance(), true
	case "f2":
		w.access.CycleFontScale()
	case "f3":
		w.access.HighContrast = !w.access.HighContrast
	case "f4":
		w.access.Audio = !w.access.Audio
	case "f5":
		w.access.Narration = !w.access.Narration
	case "f6":
		w.access.CycleLanguage()
	default:
		return nil, false
	}
	w.sctx.SetAccessibility(w.access)
	return nil, true
}

// narrate reads the step phrase whenever the step or the narration switch
// changes.
func (w *Wizard) narrate() {
	key := narrationKey{step: w.step, speaks: w.access.Speaks()}
	if w.narrated != nil && *w.narrated == key {
		return
	}
	w.narrated = &key

	w.cfg.Narrator.Stop()
	if !key.speaks || w.admin != nil {
		return
	}
	phrase := w.seq.Phrase(w.step, w.access.Language)
	if phrase == "" {
		return
	}
	if err := w.cfg.Narrator.Speak(phrase); err != nil {
		w.cfg.Log.WithError(err).Warn("narration failed")
	}
}

func (w *Wizard) fail(r any) tea.Cmd {
	w.cfg.Log.WithFields(logrus.Fields{
		"panic": fmt.Sprint(r),
		"step":  w.step,
		"stack": string(debug.Stack()),
	}).Error("unexpected fault, showing restart prompt")
	w.admin = nil
	w.faulted = true
	w.screen = screens.NewFaultScreen(w.sctx)
	return nil
}

// View implements tea.Model
func (w *Wizard) View() (out string) {
	defer func() {
		if r := recover(); r != nil {
			w.fail(r)
			out = w.screen.View()
		}
	}()

	if w.quitting {
		return ""
	}
	if w.admin != nil {
		return w.admin.View()
	}
	if w.screen == nil {
		return ""
	}

	t := w.sctx.Theme
	parts := []string{}
	if header := w.header(); header != "" && !w.faulted {
		parts = append(parts, header, "")
	}
	parts = append(parts, w.screen.View(), "")
	if w.toast != "" {
		parts = append(parts, t.Hint.Render("⚠ "+w.toast))
	}
	parts = append(parts, w.access.Toolbar(t))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (w *Wizard) header() string {
	step := w.step
	if step == AssistanceStep {
		step = w.origin
	}
	st, ok := w.seq.At(step)
	if !ok || st.Kind == StepWelcome || st.Kind == StepSuccess {
		return ""
	}
	return components.StepHeader(w.sctx.Theme, w.seq.VisualStep(w.step, w.origin), w.seq.TotalVisual(), w.seq.Label(step))
}

// Notifier forwards gateway warnings to a running program.
type Notifier struct {
	program atomic.Pointer[tea.Program]
}

// Attach sets the program warnings are sent to.
func (n *Notifier) Attach(p *tea.Program) { n.program.Store(p) }

// Warn sends err as a WarningMsg. It must not be called from Update.
func (n *Notifier) Warn(err error) {
	if p := n.program.Load(); p != nil {
		p.Send(WarningMsg{Err: err})
	}
}

// Run starts the wizard in the alternate screen and blocks until it quits.
func Run(ctx context.Context, cfg Config, notifier *Notifier) error {
	w := New(cfg)
	p := tea.NewProgram(w, tea.WithAltScreen(), tea.WithContext(ctx))
	if notifier != nil {
		notifier.Attach(p)
		defer notifier.Attach(nil)
	}

	finalModel, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running wizard: %w", err)
	}

	if fw, ok := finalModel.(*Wizard); ok {
		fw.cfg.Narrator.Stop()
	}
	return nil
}
