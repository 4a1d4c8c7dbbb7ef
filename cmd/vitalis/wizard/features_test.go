package wizard

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/sirupsen/logrus"

	"github.com/mrsinham/vitalis/cmd/vitalis/wizard/screens"
	"github.com/mrsinham/vitalis/internal/gateway"
	"github.com/mrsinham/vitalis/internal/kiosk"
	"github.com/mrsinham/vitalis/internal/logger"
	"github.com/mrsinham/vitalis/internal/narration"
	"github.com/mrsinham/vitalis/internal/patient"
	"github.com/mrsinham/vitalis/internal/store"
	"github.com/mrsinham/vitalis/internal/vitals"
)

// checkinContext holds state for a single scenario
type checkinContext struct {
	t        *testing.T
	store    *store.Store
	gateway  *gateway.Gateway
	sampler  *vitals.ScriptedSampler
	narrator *narration.Recorder
	settings kiosk.Settings
	speak    bool

	w      *Wizard
	d      *driver
	lastID string
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: func(sc *godog.ScenarioContext) { InitializeScenario(t, sc) },
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(t *testing.T, sc *godog.ScenarioContext) {
	cc := &checkinContext{t: t}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		local, err := store.Open(filepath.Join(t.TempDir(), "vitalis.db"))
		if err != nil {
			return ctx, err
		}
		clock := time.Date(2026, 10, 18, 9, 30, 0, 0, time.Local)
		cc.store = local
		cc.gateway = gateway.New(local,
			gateway.WithLogger(logrus.NewEntry(logger.Discard().Logger)),
			gateway.WithClock(func() time.Time { return clock }),
		)
		cc.sampler = &vitals.ScriptedSampler{Outcomes: alwaysOK}
		cc.narrator = &narration.Recorder{}
		cc.settings = kiosk.DefaultSettings()
		cc.speak = false
		cc.w, cc.d, cc.lastID = nil, nil, ""
		return ctx, nil
	})

	sc.After(func(ctx context.Context, _ *godog.Scenario, err error) (context.Context, error) {
		if cc.store != nil {
			cc.store.Close()
		}
		return ctx, nil
	})

	sc.Step(`^a kiosk with all vitals enabled$`, cc.allVitalsEnabled)
	sc.Step(`^a kiosk with "([^"]*)" disabled$`, cc.vitalDisabled)
	sc.Step(`^measurements always succeed$`, cc.measurementsSucceed)
	sc.Step(`^measurements always fail$`, cc.measurementsFail)
	sc.Step(`^measurements fail (\d+) times then succeed$`, cc.measurementsFailThenSucceed)
	sc.Step(`^narration is switched on$`, cc.narrationOn)

	sc.Step(`^the patient starts check-in$`, cc.startCheckIn)
	sc.Step(`^the patient enters personal details "([^"]*)" "([^"]*)" "([^"]*)" "([^"]*)"$`, cc.enterPersonal)
	sc.Step(`^the patient enters contact details "([^"]*)" "([^"]*)" "([^"]*)" "([^"]*)" "([^"]*)"$`, cc.enterContact)
	sc.Step(`^the patient measures every vital$`, cc.measureEveryVital)
	sc.Step(`^the patient submits the check-in$`, cc.submit)
	sc.Step(`^(\d+) patients complete check-in$`, cc.patientsComplete)
	sc.Step(`^the patient opens the review$`, cc.openReview)
	sc.Step(`^the patient reaches the "([^"]*)" vital$`, cc.reachVital)
	sc.Step(`^the patient reaches step (\d+)$`, cc.reachStep)
	sc.Step(`^the measurement is attempted (\d+) times$`, cc.attempt)
	sc.Step(`^the patient skips the vital$`, cc.skip)
	sc.Step(`^the patient asks for help$`, cc.askForHelp)
	sc.Step(`^staff resolve the request$`, cc.staffResolve)

	sc.Step(`^the wizard shows "([^"]*)"$`, cc.wizardShows)
	sc.Step(`^the review lists (\d+) measured vitals$`, cc.reviewLists)
	sc.Step(`^(\d+) records? (?:is|are) stored locally with status "([^"]*)"$`, cc.recordsStored)
	sc.Step(`^the reference ID matches "([^"]*)"$`, cc.referenceMatches)
	sc.Step(`^the sequence shows (\d+) visual steps$`, cc.visualSteps)
	sc.Step(`^no step measures "([^"]*)"$`, cc.noStepMeasures)
	sc.Step(`^the review does not mention "([^"]*)"$`, cc.reviewOmits)
	sc.Step(`^only retry is offered$`, cc.onlyRetry)
	sc.Step(`^retry, help and skip are offered$`, cc.escalated)
	sc.Step(`^the draft has no "([^"]*)" measurement$`, cc.draftLacks)
	sc.Step(`^the draft has a "([^"]*)" measurement$`, cc.draftHas)
	sc.Step(`^the wizard is on the "([^"]*)" vital$`, cc.onVital)
	sc.Step(`^an assistance request is pending for "([^"]*)"$`, cc.requestPending)
	sc.Step(`^the wizard returns to step (\d+)$`, cc.returnsTo)
	sc.Step(`^the narrator said "([^"]*)"$`, cc.narratorSaid)
}

// wizard builds the wizard lazily so Given steps can adjust settings first.
func (cc *checkinContext) wizard() *Wizard {
	if cc.w != nil {
		return cc.w
	}
	if err := cc.gateway.SaveSettings(cc.settings); err != nil {
		cc.t.Fatalf("save settings: %v", err)
	}
	cc.w = New(Config{
		Backend:          cc.gateway,
		Sampler:          cc.sampler,
		Timing:           fastTiming,
		Narrator:         cc.narrator,
		SuccessCountdown: time.Hour,
		AssistancePoll:   5 * time.Millisecond,
		ReceiptDir:       cc.t.TempDir(),
		Log:              logrus.NewEntry(logger.Discard().Logger),
	})
	cc.d = newDriver(cc.w)
	if cc.speak {
		cc.d.key("f5")
	}
	cc.d.settle(nil)
	return cc.w
}

func (cc *checkinContext) allVitalsEnabled() error {
	cc.settings = kiosk.DefaultSettings()
	return nil
}

func (cc *checkinContext) vitalDisabled(kind string) error {
	k, err := vitals.ParseKind(kind)
	if err != nil {
		return err
	}
	cc.settings.EnabledVitals[k] = false
	return nil
}

func (cc *checkinContext) measurementsSucceed() error {
	cc.sampler.Outcomes = alwaysOK
	return nil
}

func (cc *checkinContext) measurementsFail() error {
	cc.sampler.Outcomes = alwaysFail
	return nil
}

func (cc *checkinContext) measurementsFailThenSucceed(n int) error {
	outcomes := make([]vitals.Sample, 0, n+1)
	for i := 0; i < n; i++ {
		outcomes = append(outcomes, vitals.Sample{OK: false})
	}
	cc.sampler.Outcomes = append(outcomes, vitals.Sample{Value: "72", OK: true})
	return nil
}

func (cc *checkinContext) narrationOn() error {
	cc.speak = true
	return nil
}

func (cc *checkinContext) startCheckIn() error {
	w := cc.wizard()
	cc.d.key("enter")
	if w.Step() != 1 {
		return fmt.Errorf("expected step 1, got %d", w.Step())
	}
	return nil
}

func (cc *checkinContext) enterPersonal(first, last, dob, gender string) error {
	cc.wizard()
	return cc.d.completeForm(func(d *patient.Draft) {
		d.FirstName, d.LastName, d.DOB, d.Gender = first, last, dob, patient.Gender(gender)
	})
}

func (cc *checkinContext) enterContact(phone, address, city, state, zip string) error {
	cc.wizard()
	return cc.d.completeForm(func(d *patient.Draft) {
		d.Phone, d.AddressLine1, d.City, d.State, d.ZipCode = phone, address, city, state, zip
	})
}

func (cc *checkinContext) measureEveryVital() error {
	w := cc.wizard()
	if st, _ := w.Sequence().At(w.Step()); st.Kind == StepBriefing {
		cc.d.key("enter")
	}
	for {
		st, ok := w.Sequence().At(w.Step())
		if !ok || st.Kind != StepVital {
			return nil
		}
		if err := cc.d.attempt(); err != nil {
			return err
		}
		if cc.d.vital().Machine().State() != vitals.StateSuccess {
			return fmt.Errorf("%s did not succeed", st.Vital.Kind)
		}
		cc.d.key("enter")
	}
}

func (cc *checkinContext) review() (*screens.ReviewScreen, error) {
	rs, ok := cc.wizard().Screen().(*screens.ReviewScreen)
	if !ok {
		return nil, fmt.Errorf("expected review screen, got %T", cc.wizard().Screen())
	}
	return rs, nil
}

func (cc *checkinContext) submit() error {
	rs, err := cc.review()
	if err != nil {
		return err
	}
	rs.Choose(-1)
	cc.d.push(cc.w.follow(rs.Nav()))

	ss, ok := cc.w.Screen().(*screens.SuccessScreen)
	if !ok {
		return fmt.Errorf("expected success screen, got %T", cc.w.Screen())
	}
	if !cc.d.settle(func() bool { return ss.Record() != nil || ss.Err() != nil }) {
		return fmt.Errorf("submission did not complete")
	}
	if ss.Err() != nil {
		return ss.Err()
	}
	cc.lastID = ss.Record().ID
	return nil
}

func (cc *checkinContext) patientsComplete(n int) error {
	for i := 0; i < n; i++ {
		steps := []func() error{
			cc.startCheckIn,
			func() error { return cc.enterPersonal("Ana", "Cruz", "03/14/1990", "Female") },
			func() error {
				return cc.enterContact("09171234567", "123 Rizal St", "Quezon City", "Metro Manila", "1100")
			},
			cc.measureEveryVital,
			cc.submit,
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return fmt.Errorf("patient %d: %w", i+1, err)
			}
		}
		cc.d.key("enter")
	}
	return nil
}

func (cc *checkinContext) openReview() error {
	w := cc.wizard()
	cc.d.push(w.JumpTo(w.Sequence().IndexOf(StepReview)))
	_, err := cc.review()
	return err
}

func (cc *checkinContext) reachVital(kind string) error {
	w := cc.wizard()
	k, err := vitals.ParseKind(kind)
	if err != nil {
		return err
	}
	idx := w.Sequence().VitalIndex(k)
	if idx < 0 {
		return fmt.Errorf("%s has no step", kind)
	}
	cc.d.push(w.JumpTo(idx))
	return nil
}

func (cc *checkinContext) reachStep(step int) error {
	w := cc.wizard()
	cc.d.push(w.JumpTo(step))
	cc.d.settle(nil)
	return nil
}

func (cc *checkinContext) attempt(n int) error {
	for i := 0; i < n; i++ {
		if err := cc.d.attempt(); err != nil {
			return err
		}
	}
	return nil
}

func (cc *checkinContext) skip() error {
	cc.d.key("s")
	return nil
}

func (cc *checkinContext) askForHelp() error {
	cc.d.key("f1")
	if cc.w.Step() != AssistanceStep {
		return fmt.Errorf("expected assistance step, got %d", cc.w.Step())
	}
	return nil
}

func (cc *checkinContext) assistance() (*screens.AssistanceScreen, error) {
	as, ok := cc.w.Screen().(*screens.AssistanceScreen)
	if !ok {
		return nil, fmt.Errorf("expected assistance screen, got %T", cc.w.Screen())
	}
	if !cc.d.settle(func() bool { return as.Request() != nil }) {
		return nil, fmt.Errorf("assistance request was not created")
	}
	return as, nil
}

func (cc *checkinContext) staffResolve() error {
	as, err := cc.assistance()
	if err != nil {
		return err
	}
	return cc.gateway.ResolveAssistance(context.Background(), as.Request().ID, "nurse")
}

func (cc *checkinContext) wizardShows(label string) error {
	w := cc.wizard()
	if got := w.Sequence().Label(w.Step()); got != label {
		return fmt.Errorf("expected %q, got %q", label, got)
	}
	if !strings.Contains(w.View(), label) {
		return fmt.Errorf("view does not show %q", label)
	}
	return nil
}

func (cc *checkinContext) reviewLists(n int) error {
	rs, err := cc.review()
	if err != nil {
		return err
	}
	if got := strings.Count(rs.Summary(), "Not measured"); got != 0 {
		return fmt.Errorf("expected every vital measured, %d missing", got)
	}
	if got := len(cc.w.Draft().Vitals); got != n {
		return fmt.Errorf("expected %d vitals, got %d", n, got)
	}
	return nil
}

func (cc *checkinContext) recordsStored(n int, status string) error {
	records, err := cc.gateway.ListRecords(context.Background())
	if err != nil {
		return err
	}
	if len(records) != n {
		return fmt.Errorf("expected %d records, got %d", n, len(records))
	}
	for _, r := range records {
		if string(r.Status) != status {
			return fmt.Errorf("expected status %q, got %q", status, r.Status)
		}
		if r.Synced {
			return fmt.Errorf("expected unsynced record without a mirror")
		}
	}
	return nil
}

func (cc *checkinContext) referenceMatches(pattern string) error {
	if !regexp.MustCompile(pattern).MatchString(cc.lastID) {
		return fmt.Errorf("reference %q does not match %s", cc.lastID, pattern)
	}
	return nil
}

func (cc *checkinContext) visualSteps(n int) error {
	if got := cc.wizard().Sequence().TotalVisual(); got != n {
		return fmt.Errorf("expected %d visual steps, got %d", n, got)
	}
	return nil
}

func (cc *checkinContext) noStepMeasures(kind string) error {
	k, err := vitals.ParseKind(kind)
	if err != nil {
		return err
	}
	if idx := cc.wizard().Sequence().VitalIndex(k); idx != -1 {
		return fmt.Errorf("%s measured at step %d", kind, idx)
	}
	return nil
}

func (cc *checkinContext) reviewOmits(text string) error {
	rs, err := cc.review()
	if err != nil {
		return err
	}
	if strings.Contains(rs.Summary(), text) || strings.Contains(cc.w.View(), text) {
		return fmt.Errorf("review mentions %q", text)
	}
	return nil
}

func (cc *checkinContext) onlyRetry() error {
	m := cc.d.vital().Machine()
	if m.State() != vitals.StateError {
		return fmt.Errorf("expected error state, got %s", m.State())
	}
	if got := m.Actions(); len(got) != 1 || got[0] != vitals.ActionRetry {
		return fmt.Errorf("expected only retry, got %v", got)
	}
	return nil
}

func (cc *checkinContext) escalated() error {
	m := cc.d.vital().Machine()
	for _, a := range []vitals.Action{vitals.ActionRetry, vitals.ActionHelp, vitals.ActionSkip} {
		if !m.Allows(a) {
			return fmt.Errorf("expected %s to be offered, got %v", a, m.Actions())
		}
	}
	return nil
}

func (cc *checkinContext) draftLacks(kind string) error {
	if _, ok := cc.w.Draft().Vitals[vitals.Kind(kind)]; ok {
		return fmt.Errorf("draft has a %s measurement", kind)
	}
	return nil
}

func (cc *checkinContext) draftHas(kind string) error {
	if _, ok := cc.w.Draft().Vitals[vitals.Kind(kind)]; !ok {
		return fmt.Errorf("draft has no %s measurement", kind)
	}
	return nil
}

func (cc *checkinContext) onVital(kind string) error {
	st, ok := cc.w.Sequence().At(cc.w.Step())
	if !ok || st.Kind != StepVital || string(st.Vital.Kind) != kind {
		return fmt.Errorf("expected %s vital, on step %d", kind, cc.w.Step())
	}
	return nil
}

func (cc *checkinContext) requestPending(kioskID string) error {
	as, err := cc.assistance()
	if err != nil {
		return err
	}
	reqs, err := cc.gateway.ListAssistance(context.Background())
	if err != nil {
		return err
	}
	for _, r := range kiosk.PendingRequests(reqs) {
		if r.ID == as.Request().ID && r.KioskID == kioskID {
			return nil
		}
	}
	return fmt.Errorf("no pending request for %s", kioskID)
}

func (cc *checkinContext) returnsTo(step int) error {
	if !cc.d.settle(func() bool { return cc.w.Step() == step }) {
		return fmt.Errorf("expected step %d, got %d", step, cc.w.Step())
	}
	return nil
}

func (cc *checkinContext) narratorSaid(phrase string) error {
	for _, p := range cc.narrator.Phrases() {
		if p == phrase {
			return nil
		}
	}
	return fmt.Errorf("narrator never said %q, got %v", phrase, cc.narrator.Phrases())
}
