package store

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrsinham/vitalis/internal/kiosk"
	"github.com/mrsinham/vitalis/internal/patient"
	"github.com/mrsinham/vitalis/internal/vitals"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kiosk.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestGetSet_Persists(t *testing.T) {
	s, path := openTemp(t)

	type doc struct {
		Name  string
		Count int
	}
	want := doc{Name: "kiosk", Count: 3}
	require.NoError(t, s.Set("doc", want))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	var got doc
	found, err := reopened.Get("doc", &got)
	require.NoError(t, err)
	assert.True(t, found)
	if !reflect.DeepEqual(want, got) {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}

func TestGet_Missing(t *testing.T) {
	s, _ := openTemp(t)
	var v string
	found, err := s.Get("nothing", &v)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestUpdate_ErrorAbortsWrite(t *testing.T) {
	s, _ := openTemp(t)
	require.NoError(t, s.Set("n", 1))

	var n int
	err := s.Update("n", &n, func() error {
		n = 2
		return errors.New("boom")
	})
	require.Error(t, err)

	var got int
	_, err = s.Get("n", &got)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestRecords_NewestFirstAndUpdate(t *testing.T) {
	s, _ := openTemp(t)

	first := patient.Record{Draft: patient.NewDraft(), ID: "LRD-20261018-0001", Status: patient.StatusWaiting}
	second := patient.Record{Draft: patient.NewDraft(), ID: "LRD-20261018-0002", Status: patient.StatusWaiting}
	second.Vitals[vitals.Pulse] = vitals.Measurement{Value: "72", Unit: "bpm", Severity: vitals.Normal}
	require.NoError(t, s.PrependRecord(first))
	require.NoError(t, s.PrependRecord(second))

	records, err := s.Records()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, second.ID, records[0].ID)
	assert.Equal(t, "72", records[0].Vitals[vitals.Pulse].Value)

	require.NoError(t, s.UpdateRecord(first.ID, func(r *patient.Record) { r.Synced = true }))
	records, _ = s.Records()
	assert.True(t, records[1].Synced)

	err = s.UpdateRecord("missing", func(r *patient.Record) {})
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, s.ClearRecords())
	records, err = s.Records()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSettings_DefaultsWhenUnset(t *testing.T) {
	s, _ := openTemp(t)

	settings, err := s.Settings()
	require.NoError(t, err)
	assert.Equal(t, "Vitalis Kiosk", settings.HospitalName)
	assert.Equal(t, "KIOSK-01", settings.KioskID)

	settings.HospitalName = "Lourdes Hospital"
	settings.EnabledVitals[vitals.SpO2] = false
	require.NoError(t, s.SaveSettings(settings))

	loaded, err := s.Settings()
	require.NoError(t, err)
	assert.Equal(t, "Lourdes Hospital", loaded.HospitalName)
	assert.False(t, loaded.EnabledVitals[vitals.SpO2])
}

func TestAssistance_PrependAndResolve(t *testing.T) {
	s, _ := openTemp(t)
	req := kiosk.AssistanceRequest{ID: "AST-1", KioskID: "KIOSK-01", Status: kiosk.AssistancePending}
	require.NoError(t, s.PrependAssistance(req))

	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.UpdateAssistance("AST-1", func(r *kiosk.AssistanceRequest) {
		r.Status = kiosk.AssistanceResolved
		r.ResolvedAt = &now
	}))

	reqs, err := s.AssistanceRequests()
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, kiosk.AssistanceResolved, reqs[0].Status)
	assert.True(t, reqs[0].ResolvedAt.Equal(now))
}

func TestNextSequence_DailyReset(t *testing.T) {
	s, _ := openTemp(t)
	day1 := time.Date(2026, 10, 18, 8, 0, 0, 0, time.Local)
	day2 := day1.AddDate(0, 0, 1)

	for want := 1; want <= 3; want++ {
		got, err := s.NextSequence(day1)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	got, err := s.NextSequence(day2)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestOpen_LockedByAnotherHandle(t *testing.T) {
	_, path := openTemp(t)

	_, err := Open(path)
	if !errors.Is(err, ErrLocked) {
		t.Errorf("Expected ErrLocked, got %v", err)
	}
}
