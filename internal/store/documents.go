package store

import (
	"fmt"
	"time"

	"github.com/mrsinham/vitalis/internal/kiosk"
	"github.com/mrsinham/vitalis/internal/patient"
)

// Sequence is the persisted daily ID counter.
type Sequence struct {
	Date  string `json:"date"`
	Count int    `json:"seq"`
}

// Records returns local records, newest first.
func (s *Store) Records() ([]patient.Record, error) {
	var records []patient.Record
	if _, err := s.Get(KeyRecords, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// PrependRecord adds a record at the head of the list.
func (s *Store) PrependRecord(rec patient.Record) error {
	var records []patient.Record
	return s.Update(KeyRecords, &records, func() error {
		records = append([]patient.Record{rec}, records...)
		return nil
	})
}

// UpdateRecord applies fn to the record with the given ID.
func (s *Store) UpdateRecord(id string, fn func(*patient.Record)) error {
	var records []patient.Record
	return s.Update(KeyRecords, &records, func() error {
		for i := range records {
			if records[i].ID == id {
				fn(&records[i])
				return nil
			}
		}
		return fmt.Errorf("record %s: %w", id, ErrNotFound)
	})
}

// ClearRecords erases every local record.
func (s *Store) ClearRecords() error {
	return s.Delete(KeyRecords)
}

// Settings returns saved settings merged over the defaults.
func (s *Store) Settings() (kiosk.Settings, error) {
	var saved kiosk.Settings
	if _, err := s.Get(KeySettings, &saved); err != nil {
		return kiosk.DefaultSettings(), err
	}
	return saved.MergeDefaults(), nil
}

// SaveSettings persists settings.
func (s *Store) SaveSettings(settings kiosk.Settings) error {
	return s.Set(KeySettings, settings)
}

// AssistanceRequests returns local assistance requests, newest first.
func (s *Store) AssistanceRequests() ([]kiosk.AssistanceRequest, error) {
	var reqs []kiosk.AssistanceRequest
	if _, err := s.Get(KeyAssistance, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

// PrependAssistance adds a request at the head of the list.
func (s *Store) PrependAssistance(req kiosk.AssistanceRequest) error {
	var reqs []kiosk.AssistanceRequest
	return s.Update(KeyAssistance, &reqs, func() error {
		reqs = append([]kiosk.AssistanceRequest{req}, reqs...)
		return nil
	})
}

// UpdateAssistance applies fn to the request with the given ID.
func (s *Store) UpdateAssistance(id string, fn func(*kiosk.AssistanceRequest)) error {
	var reqs []kiosk.AssistanceRequest
	return s.Update(KeyAssistance, &reqs, func() error {
		for i := range reqs {
			if reqs[i].ID == id {
				fn(&reqs[i])
				return nil
			}
		}
		return fmt.Errorf("assistance request %s: %w", id, ErrNotFound)
	})
}

// NextSequence increments the counter for the day of now, resetting it to
// 1 when the stored date differs.
func (s *Store) NextSequence(now time.Time) (int, error) {
	today := now.Format("2006-01-02")
	var seq Sequence
	err := s.Update(KeySequence, &seq, func() error {
		if seq.Date == today {
			seq.Count++
		} else {
			seq = Sequence{Date: today, Count: 1}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq.Count, nil
}
