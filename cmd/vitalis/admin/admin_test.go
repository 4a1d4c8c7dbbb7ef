package admin

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrsinham/vitalis/internal/kiosk"
	"github.com/mrsinham/vitalis/internal/patient"
	"github.com/mrsinham/vitalis/internal/vitals"
)

type fakeBackend struct {
	records  []patient.Record
	requests []kiosk.AssistanceRequest
	settings kiosk.Settings
	cleared  bool
}

func (b *fakeBackend) ListRecords(ctx context.Context) ([]patient.Record, error) {
	return append([]patient.Record(nil), b.records...), nil
}

func (b *fakeBackend) UpdateStatus(ctx context.Context, id string, status patient.Status) error {
	for i := range b.records {
		if b.records[i].ID == id {
			b.records[i].Status = status
		}
	}
	return nil
}

func (b *fakeBackend) ListAssistance(ctx context.Context) ([]kiosk.AssistanceRequest, error) {
	return append([]kiosk.AssistanceRequest(nil), b.requests...), nil
}

func (b *fakeBackend) ResolveAssistance(ctx context.Context, id, by string) error {
	for i := range b.requests {
		if b.requests[i].ID == id {
			b.requests[i].Status = kiosk.AssistanceResolved
			b.requests[i].ResolvedBy = by
		}
	}
	return nil
}

func (b *fakeBackend) ClearAll() error {
	b.cleared = true
	b.records, b.requests = nil, nil
	return nil
}

func (b *fakeBackend) Settings() (kiosk.Settings, error) { return b.settings, nil }

func (b *fakeBackend) SaveSettings(s kiosk.Settings) error {
	b.settings = s
	return nil
}

func record(id, first, last string, status patient.Status, hour int) patient.Record {
	return patient.Record{
		Draft:       patient.Draft{FirstName: first, LastName: last},
		ID:          id,
		Status:      status,
		CheckInTime: time.Date(2026, 10, 18, hour, 15, 0, 0, time.Local),
	}
}

func newFixture() *fakeBackend {
	return &fakeBackend{
		records: []patient.Record{
			record("LRD-20261018-0003", "Maria", "Santos", patient.StatusWaiting, 10),
			record("LRD-20261018-0002", "Ana", "Cruz", patient.StatusCompleted, 9),
			record("LRD-20261018-0001", "Jose", "Reyes", patient.StatusAssistanceNeeded, 9),
		},
		requests: []kiosk.AssistanceRequest{
			{ID: "AST-1", KioskID: "KIOSK-01", Status: kiosk.AssistancePending},
			{ID: "AST-2", KioskID: "KIOSK-02", Status: kiosk.AssistanceResolved},
		},
		settings: kiosk.DefaultSettings(),
	}
}

// loaded returns a dashboard after its first refresh.
func loaded(t *testing.T, b *fakeBackend, opts Options) *Dashboard {
	t.Helper()
	d := New(b, opts)
	apply(d, d.Init())
	require.Len(t, d.records, len(b.records))
	return d
}

// apply runs cmd and feeds its message back, skipping timers.
func apply(d *Dashboard, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		if _, ok := msg.(pollMsg); ok {
			return
		}
		_, next := d.Update(msg)
		if _, ok := msg.(refreshMsg); ok {
			return
		}
		apply(d, next)
	case <-time.After(50 * time.Millisecond):
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(d *Dashboard, keys ...string) {
	for _, k := range keys {
		_, cmd := d.Update(key(k))
		apply(d, cmd)
	}
}

func TestDashboard_RefreshShowsStatsAndBadge(t *testing.T) {
	now := time.Date(2026, 10, 18, 11, 0, 0, 0, time.Local)
	d := loaded(t, newFixture(), Options{Now: func() time.Time { return now }})

	view := d.View()
	assert.Contains(t, view, "Total: 3")
	assert.Contains(t, view, "Waiting: 1")
	assert.Contains(t, view, "Assistance Needed: 1")
	assert.Contains(t, view, "1 help request(s) pending")
	assert.Contains(t, view, "Updated 11:00:00")
	assert.Len(t, d.Pending(), 1)
}

func TestDashboard_SearchAndFilter(t *testing.T) {
	d := loaded(t, newFixture(), Options{})

	press(d, "/", "a", "n", "a", "enter")
	visible := d.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "LRD-20261018-0002", visible[0].ID)

	d.search.SetValue("")
	d.filter.Query = ""
	press(d, "f")
	assert.Equal(t, patient.StatusWaiting, d.filter.Status)
	require.Len(t, d.Visible(), 1)
	assert.Equal(t, "Maria", d.Visible()[0].FirstName)

	for range patient.Statuses {
		press(d, "f")
	}
	assert.Equal(t, patient.Status(""), d.filter.Status, "filter should wrap back to All")
}

func TestDashboard_NextStatus(t *testing.T) {
	b := newFixture()
	d := loaded(t, b, Options{})

	press(d, "n")
	assert.Equal(t, patient.StatusInProgress, b.records[0].Status)
	assert.Contains(t, d.View(), "LRD-20261018-0003 is now In Progress")
}

func TestDashboard_ResolveAssistance(t *testing.T) {
	b := newFixture()
	d := loaded(t, b, Options{ResolvedBy: "nurse"})

	press(d, "tab", "enter")
	assert.Equal(t, kiosk.AssistanceResolved, b.requests[0].Status)
	assert.Equal(t, "nurse", b.requests[0].ResolvedBy)
	assert.Empty(t, d.Pending())
}

func TestDashboard_ClearRequiresConfirmation(t *testing.T) {
	b := newFixture()
	d := loaded(t, b, Options{})

	press(d, "x")
	assert.Contains(t, d.View(), "Erase all local records? y/n")
	assert.NotContains(t, d.View(), "requests?")
	press(d, "n")
	assert.False(t, b.cleared)

	press(d, "x", "y")
	assert.True(t, b.cleared)
	assert.Empty(t, d.records)
}

func TestDashboard_SaveSettings(t *testing.T) {
	b := newFixture()
	d := loaded(t, b, Options{})

	press(d, "S")
	require.NotNil(t, d.settings)
	assert.Len(t, d.settings.enabled, len(vitals.Kinds))

	d.settings.hospital = "St. Luke's"
	d.settings.enabled = []vitals.Kind{vitals.Pulse, vitals.SpO2}
	d.SaveSettings()

	assert.Equal(t, "St. Luke's", b.settings.HospitalName)
	assert.True(t, b.settings.EnabledVitals[vitals.Pulse])
	assert.False(t, b.settings.EnabledVitals[vitals.BloodPressure])
	assert.Equal(t, viewRecords, d.view)
}

func TestDashboard_Close(t *testing.T) {
	d := loaded(t, newFixture(), Options{})
	_, cmd := d.Update(key("q"))
	assert.True(t, d.Done())
	assert.Nil(t, cmd)

	standalone := loaded(t, newFixture(), Options{Standalone: true})
	_, cmd = standalone.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestDashboard_IgnoresOtherDashboards(t *testing.T) {
	d := loaded(t, newFixture(), Options{})
	_, cmd := d.Update(pollMsg{dashboard: d.id + 100})
	assert.Nil(t, cmd)
}

func TestHistogram(t *testing.T) {
	var hours [24]int
	assert.Contains(t, Histogram(hours, 10), "No check-ins yet")

	hours[9] = 4
	hours[11] = 2
	out := Histogram(hours, 10)
	assert.Contains(t, out, "09:00")
	assert.Contains(t, out, "10:00")
	assert.NotContains(t, out, "08:00")
	assert.Equal(t, 10, strings.Count(strings.Split(out, "\n")[2], "█"))
}

func TestDashboard_OnlyScheduledRefreshesPoll(t *testing.T) {
	d := loaded(t, newFixture(), Options{})

	_, cmd := d.Update(refreshMsg{dashboard: d.id})
	assert.Nil(t, cmd)

	_, cmd = d.Update(refreshMsg{dashboard: d.id, scheduled: true})
	assert.NotNil(t, cmd)
}
