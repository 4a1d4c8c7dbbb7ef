// Package kiosk holds the per-device settings and the assistance request model.
package kiosk

import (
	"time"

	"github.com/mrsinham/vitalis/internal/vitals"
)

// Settings is the per-kiosk configuration edited from the admin screen.
type Settings struct {
	HospitalName  string               `json:"hospitalName"`
	KioskID       string               `json:"kioskId"`
	EnabledVitals map[vitals.Kind]bool `json:"enabledVitals"`
}

// DefaultSettings returns settings with every vital enabled.
func DefaultSettings() Settings {
	enabled := make(map[vitals.Kind]bool, len(vitals.Kinds))
	for _, k := range vitals.Kinds {
		enabled[k] = true
	}
	return Settings{
		HospitalName:  "Vitalis Kiosk",
		KioskID:       "KIOSK-01",
		EnabledVitals: enabled,
	}
}

// MergeDefaults fills fields missing from saved settings with defaults.
func (s Settings) MergeDefaults() Settings {
	out := DefaultSettings()
	if s.HospitalName != "" {
		out.HospitalName = s.HospitalName
	}
	if s.KioskID != "" {
		out.KioskID = s.KioskID
	}
	for k, v := range s.EnabledVitals {
		out.EnabledVitals[k] = v
	}
	return out
}

// ActiveVitals derives the session's vital sequence from the settings.
func (s Settings) ActiveVitals(catalogue []vitals.Config) []vitals.Config {
	return vitals.Active(catalogue, s.EnabledVitals)
}

// AssistanceStatus is the lifecycle of a help request.
type AssistanceStatus string

const (
	AssistancePending AssistanceStatus = "pending"
	// AssistanceAcknowledged is reserved; no path transitions to it.
	AssistanceAcknowledged AssistanceStatus = "acknowledged"
	AssistanceResolved     AssistanceStatus = "resolved"
)

// AssistanceRequest is a patient's call for staff help.
type AssistanceRequest struct {
	ID         string           `json:"id"`
	KioskID    string           `json:"kioskId"`
	Timestamp  time.Time        `json:"timestamp"`
	Status     AssistanceStatus `json:"status"`
	ResolvedAt *time.Time       `json:"resolvedAt,omitempty"`
	ResolvedBy string           `json:"resolvedBy,omitempty"`
}

// Pending reports whether staff still need to respond.
func (r AssistanceRequest) Pending() bool {
	return r.Status == AssistancePending
}

// CountPending counts pending requests across all kiosks.
func CountPending(reqs []AssistanceRequest) int {
	n := 0
	for _, r := range reqs {
		if r.Pending() {
			n++
		}
	}
	return n
}

// PendingRequests keeps only pending requests, preserving order.
func PendingRequests(reqs []AssistanceRequest) []AssistanceRequest {
	var out []AssistanceRequest
	for _, r := range reqs {
		if r.Pending() {
			out = append(out, r)
		}
	}
	return out
}
