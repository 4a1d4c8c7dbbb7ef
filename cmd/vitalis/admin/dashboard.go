// Package admin is the staff dashboard: live record list, assistance
// requests, kiosk settings and check-in analytics.
package admin

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/mrsinham/vitalis/cmd/vitalis/wizard/components"
	"github.com/mrsinham/vitalis/internal/kiosk"
	"github.com/mrsinham/vitalis/internal/patient"
	"github.com/mrsinham/vitalis/internal/vitals"
)

// Backend is the persistence the dashboard reads and acts on.
type Backend interface {
	ListRecords(ctx context.Context) ([]patient.Record, error)
	UpdateStatus(ctx context.Context, id string, status patient.Status) error
	ListAssistance(ctx context.Context) ([]kiosk.AssistanceRequest, error)
	ResolveAssistance(ctx context.Context, id, by string) error
	ClearAll() error
	Settings() (kiosk.Settings, error)
	SaveSettings(s kiosk.Settings) error
}

// Options configures a Dashboard.
type Options struct {
	Poll      time.Duration
	Catalogue []vitals.Config
	// Standalone quits the program when the dashboard is closed instead of
	// handing control back to the wizard.
	Standalone bool
	ResolvedBy string
	Now        func() time.Time
	Log        *logrus.Entry
}

type view int

const (
	viewRecords view = iota
	viewAssistance
	viewAnalytics
	viewSettings
)

var (
	badgeStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("196")).
			Foreground(lipgloss.Color("255")).
			Bold(true).
			Padding(0, 1)

	statLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	statValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	flashStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	hintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("244"))
	activeTabStyle = tabStyle.Foreground(lipgloss.Color("63")).Bold(true).Underline(true)
)

type refreshMsg struct {
	dashboard int64
	records   []patient.Record
	requests  []kiosk.AssistanceRequest
	err       error
	at        time.Time
	// scheduled refreshes continue the poll loop; manual ones do not.
	scheduled bool
}

type pollMsg struct {
	dashboard int64
}

type actionMsg struct {
	dashboard int64
	text      string
	err       error
}

var dashboardSeq atomic.Int64

// Dashboard is the admin tea.Model.
type Dashboard struct {
	id      int64
	backend Backend
	opts    Options

	view     view
	records  []patient.Record
	requests []kiosk.AssistanceRequest
	filter   patient.Filter

	search    textinput.Model
	searching bool
	table     table.Model
	reqTable  table.Model

	settings     *settingsForm
	confirmClear bool

	lastRefresh time.Time
	err         error
	flash       string
	done        bool
}

// New creates a dashboard.
func New(backend Backend, opts Options) *Dashboard {
	if opts.Poll <= 0 {
		opts.Poll = 5 * time.Second
	}
	if opts.Catalogue == nil {
		opts.Catalogue = vitals.DefaultConfigs()
	}
	if opts.ResolvedBy == "" {
		opts.ResolvedBy = "admin"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Log == nil {
		opts.Log = logrus.NewEntry(logrus.StandardLogger())
	}

	search := textinput.New()
	search.Placeholder = "Search name or ID"
	search.Prompt = "/ "
	search.CharLimit = 64

	records := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 18},
			{Title: "Name", Width: 24},
			{Title: "Check-In", Width: 10},
			{Title: "Status", Width: 18},
			{Title: "Sync", Width: 6},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	requests := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 34},
			{Title: "Kiosk", Width: 12},
			{Title: "Requested", Width: 10},
			{Title: "Status", Width: 10},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	return &Dashboard{
		id:       dashboardSeq.Add(1),
		backend:  backend,
		opts:     opts,
		search:   search,
		table:    records,
		reqTable: requests,
	}
}

// Done reports whether staff closed the dashboard.
func (d *Dashboard) Done() bool { return d.done }

// Init implements tea.Model
func (d *Dashboard) Init() tea.Cmd {
	return d.load(true)
}

func (d *Dashboard) refresh() tea.Cmd { return d.load(false) }

func (d *Dashboard) load(scheduled bool) tea.Cmd {
	id, backend, now := d.id, d.backend, d.opts.Now
	return func() tea.Msg {
		ctx := context.Background()
		records, err := backend.ListRecords(ctx)
		if err != nil {
			return refreshMsg{dashboard: id, err: err, at: now(), scheduled: scheduled}
		}
		requests, err := backend.ListAssistance(ctx)
		return refreshMsg{dashboard: id, records: records, requests: requests, err: err, at: now(), scheduled: scheduled}
	}
}

func (d *Dashboard) schedulePoll() tea.Cmd {
	id := d.id
	return tea.Tick(d.opts.Poll, func(time.Time) tea.Msg { return pollMsg{dashboard: id} })
}

func (d *Dashboard) act(text string, fn func(ctx context.Context) error) tea.Cmd {
	id := d.id
	return func() tea.Msg {
		return actionMsg{dashboard: id, text: text, err: fn(context.Background())}
	}
}

// Update implements tea.Model
func (d *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		if msg.dashboard != d.id || d.done {
			return d, nil
		}
		d.lastRefresh = msg.at
		d.err = msg.err
		if msg.err == nil {
			d.records = msg.records
			d.requests = msg.requests
			d.syncRows()
		} else {
			d.opts.Log.WithError(msg.err).Warn("dashboard refresh failed")
		}
		if !msg.scheduled {
			return d, nil
		}
		return d, d.schedulePoll()
	case pollMsg:
		if msg.dashboard != d.id || d.done {
			return d, nil
		}
		return d, d.load(true)
	case actionMsg:
		if msg.dashboard != d.id {
			return d, nil
		}
		if msg.err != nil {
			d.err = msg.err
			d.flash = ""
			return d, nil
		}
		d.err = nil
		d.flash = msg.text
		return d, d.refresh()
	case tea.WindowSizeMsg:
		if msg.Height > 16 {
			d.table.SetHeight(msg.Height - 14)
			d.reqTable.SetHeight(msg.Height - 14)
		}
	}

	if d.view == viewSettings && d.settings != nil {
		return d, d.updateSettings(msg)
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		if cmd, handled := d.handleKey(key); handled {
			return d, cmd
		}
	}

	var cmd tea.Cmd
	switch d.view {
	case viewRecords:
		d.table, cmd = d.table.Update(msg)
	case viewAssistance:
		d.reqTable, cmd = d.reqTable.Update(msg)
	}
	return d, cmd
}

func (d *Dashboard) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	key := msg.String()

	if d.confirmClear {
		d.confirmClear = false
		if key == "y" || key == "Y" {
			return d.act("Local data cleared", func(context.Context) error { return d.backend.ClearAll() }), true
		}
		d.flash = "Clear cancelled"
		return nil, true
	}

	if d.searching {
		switch key {
		case "enter", "esc":
			d.searching = false
			d.search.Blur()
			return nil, true
		}
		var cmd tea.Cmd
		d.search, cmd = d.search.Update(msg)
		d.filter.Query = d.search.Value()
		d.syncRows()
		return cmd, true
	}

	switch key {
	case "q", "esc":
		return d.close(), true
	case "tab":
		d.view = (d.view + 1) % viewSettings
		return nil, true
	case "S":
		return d.openSettings(), true
	case "R":
		return d.refresh(), true
	}

	if d.view == viewRecords {
		switch key {
		case "/":
			d.searching = true
			return d.search.Focus(), true
		case "f":
			d.filter.Status = nextFilter(d.filter.Status)
			d.syncRows()
			return nil, true
		case "n":
			return d.advanceSelected(), true
		case "x":
			d.confirmClear = true
			return nil, true
		}
	}

	if d.view == viewAssistance && (key == "enter" || key == "v") {
		return d.resolveSelected(), true
	}

	return nil, false
}

func (d *Dashboard) close() tea.Cmd {
	d.done = true
	if d.opts.Standalone {
		return tea.Quit
	}
	return nil
}

// nextFilter cycles All, then every status in display order.
func nextFilter(s patient.Status) patient.Status {
	if s == "" {
		return patient.Statuses[0]
	}
	for i, st := range patient.Statuses {
		if st == s && i+1 < len(patient.Statuses) {
			return patient.Statuses[i+1]
		}
	}
	return ""
}

// Visible returns the records shown with the current filter.
func (d *Dashboard) Visible() []patient.Record {
	return patient.FilterRecords(d.records, d.filter)
}

// Pending returns the unresolved assistance requests.
func (d *Dashboard) Pending() []kiosk.AssistanceRequest {
	return kiosk.PendingRequests(d.requests)
}

func (d *Dashboard) syncRows() {
	visible := d.Visible()
	rows := make([]table.Row, 0, len(visible))
	for _, r := range visible {
		sync := "no"
		if r.Synced {
			sync = "yes"
		}
		rows = append(rows, table.Row{r.ID, r.FullName(), r.CheckInTime.Format("15:04"), string(r.Status), sync})
	}
	d.table.SetRows(rows)
	if d.table.Cursor() >= len(rows) {
		d.table.SetCursor(max(len(rows)-1, 0))
	}

	reqRows := make([]table.Row, 0, len(d.requests))
	for _, r := range d.requests {
		reqRows = append(reqRows, table.Row{r.ID, r.KioskID, r.Timestamp.Format("15:04:05"), string(r.Status)})
	}
	d.reqTable.SetRows(reqRows)
	if d.reqTable.Cursor() >= len(reqRows) {
		d.reqTable.SetCursor(max(len(reqRows)-1, 0))
	}
}

func (d *Dashboard) selectedRecord() (patient.Record, bool) {
	visible := d.Visible()
	i := d.table.Cursor()
	if i < 0 || i >= len(visible) {
		return patient.Record{}, false
	}
	return visible[i], true
}

func (d *Dashboard) advanceSelected() tea.Cmd {
	rec, ok := d.selectedRecord()
	if !ok {
		return nil
	}
	next := patient.NextStatus(rec.Status)
	return d.act(fmt.Sprintf("%s is now %s", rec.ID, next), func(ctx context.Context) error {
		return d.backend.UpdateStatus(ctx, rec.ID, next)
	})
}

func (d *Dashboard) resolveSelected() tea.Cmd {
	i := d.reqTable.Cursor()
	if i < 0 || i >= len(d.requests) {
		return nil
	}
	req := d.requests[i]
	if !req.Pending() {
		d.flash = req.ID + " is already " + string(req.Status)
		return nil
	}
	by := d.opts.ResolvedBy
	return d.act("Resolved "+req.ID, func(ctx context.Context) error {
		return d.backend.ResolveAssistance(ctx, req.ID, by)
	})
}

// View implements tea.Model
func (d *Dashboard) View() string {
	title := components.TitleStyle.Render("Admin Dashboard")

	var body string
	switch d.view {
	case viewRecords:
		body = d.recordsView()
	case viewAssistance:
		body = d.reqTable.View()
	case viewAnalytics:
		body = Histogram(patient.HourlyHistogram(d.records), 30)
	case viewSettings:
		if d.settings != nil {
			body = d.settings.View()
		}
	}

	status := ""
	switch {
	case d.confirmClear:
		status = errorStyle.Render("Erase all local records? y/n")
	case d.err != nil:
		status = errorStyle.Render("Error: " + d.err.Error())
	case d.flash != "":
		status = flashStyle.Render(d.flash)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		d.tabs(),
		d.statsLine(),
		"",
		body,
		"",
		status,
		hintStyle.Render(d.keys()),
	)
}

func (d *Dashboard) tabs() string {
	names := []string{"Records", "Assistance", "Analytics", "Settings"}
	out := make([]string, len(names))
	for i, n := range names {
		if view(i) == d.view {
			out[i] = activeTabStyle.Render(n)
		} else {
			out[i] = tabStyle.Render(n)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

func (d *Dashboard) statsLine() string {
	s := patient.ComputeStats(d.records)
	stat := func(label string, n int) string {
		return statLabelStyle.Render(label+": ") + statValueStyle.Render(fmt.Sprint(n))
	}
	parts := []string{
		stat("Total", s.Total),
		stat("Waiting", s.Waiting),
		stat("Completed", s.Completed),
		stat("Assistance Needed", s.AssistanceNeeded),
	}
	if n := len(d.Pending()); n > 0 {
		parts = append(parts, badgeStyle.Render(fmt.Sprintf("%d help request(s) pending", n)))
	}
	if !d.lastRefresh.IsZero() {
		parts = append(parts, statLabelStyle.Render("Updated "+d.lastRefresh.Format("15:04:05")))
	}
	return strings.Join(parts, "  ")
}

func (d *Dashboard) recordsView() string {
	filter := "All"
	if d.filter.Status != "" {
		filter = string(d.filter.Status)
	}
	search := d.search.View()
	if !d.searching && d.search.Value() == "" {
		search = hintStyle.Render("/ to search")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		search+"   "+statLabelStyle.Render("Status: ")+statValueStyle.Render(filter),
		d.table.View(),
	)
}

func (d *Dashboard) keys() string {
	switch d.view {
	case viewRecords:
		return "/: Search | f: Filter | n: Next status | x: Clear data | Tab: View | S: Settings | q: Close"
	case viewAssistance:
		return "Enter: Resolve | Tab: View | S: Settings | q: Close"
	case viewSettings:
		return "Tab: Next field | Enter: Save | Esc: Back"
	}
	return "Tab: View | S: Settings | q: Close"
}
