package patient

import "strings"

// Filter selects records on the staff dashboard. An empty Status matches
// every status.
type Filter struct {
	Query  string
	Status Status
}

// Match reports whether rec passes the filter. The query matches first
// name, last name or ID, case-insensitively.
func (f Filter) Match(rec Record) bool {
	if f.Status != "" && rec.Status != f.Status {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(rec.FirstName), q) ||
		strings.Contains(strings.ToLower(rec.LastName), q) ||
		strings.Contains(strings.ToLower(rec.ID), q)
}

// FilterRecords keeps the order of records.
func FilterRecords(records []Record, f Filter) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Stats counts records per dashboard tile.
type Stats struct {
	Total            int `json:"total"`
	Waiting          int `json:"waiting"`
	InProgress       int `json:"inProgress"`
	Completed        int `json:"completed"`
	AssistanceNeeded int `json:"assistanceNeeded"`
	Unsynced         int `json:"unsynced"`
}

// ComputeStats tallies records.
func ComputeStats(records []Record) Stats {
	s := Stats{Total: len(records)}
	for _, r := range records {
		switch r.Status {
		case StatusWaiting:
			s.Waiting++
		case StatusInProgress:
			s.InProgress++
		case StatusCompleted:
			s.Completed++
		case StatusAssistanceNeeded:
			s.AssistanceNeeded++
		}
		if !r.Synced {
			s.Unsynced++
		}
	}
	return s
}

// HourlyHistogram counts check-ins per hour of day.
func HourlyHistogram(records []Record) [24]int {
	var h [24]int
	for _, r := range records {
		if r.CheckInTime.IsZero() {
			continue
		}
		h[r.CheckInTime.Hour()]++
	}
	return h
}

// NextStatus cycles through Statuses, used by the dashboard's status key.
func NextStatus(s Status) Status {
	for i, st := range Statuses {
		if st == s {
			return Statuses[(i+1)%len(Statuses)]
		}
	}
	return StatusWaiting
}
