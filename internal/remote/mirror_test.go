package remote

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrsinham/vitalis/internal/patient"
	"github.com/mrsinham/vitalis/internal/vitals"
)

// fakeRow feeds fixed column values to scanRecord.
type fakeRow struct {
	values []interface{}
}

func (r fakeRow) Scan(dest ...interface{}) error {
	if len(dest) != len(r.values) {
		return fmt.Errorf("expected %d columns, got %d", len(r.values), len(dest))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = r.values[i].(string)
		case *time.Time:
			*p = r.values[i].(time.Time)
		case *[]byte:
			*p = r.values[i].([]byte)
		default:
			return fmt.Errorf("unsupported destination %T", d)
		}
	}
	return nil
}

func TestScanRecord_MapsColumns(t *testing.T) {
	checkIn := time.Date(2026, 10, 18, 9, 15, 0, 0, time.UTC)
	row := fakeRow{values: []interface{}{
		"LRD-20261018-0001", "Ana", "Cruz", time.Date(1990, 3, 14, 0, 0, 0, 0, time.UTC),
		"Not specified", "Single", "09171234567",
		"123 Rizal St", "", "Quezon City", "Metro Manila", "1100",
		"", "",
		[]byte(`{"pulse":{"value":"72","unit":"bpm","status":"Normal","timestamp":"2026-10-18T09:10:00Z"}}`),
		checkIn, "Waiting",
	}}

	rec, err := scanRecord(row)
	require.NoError(t, err)

	assert.Equal(t, "03/14/1990", rec.DOB)
	assert.Equal(t, patient.GenderUnset, rec.Gender)
	assert.Equal(t, patient.CivilSingle, rec.CivilStatus)
	assert.Equal(t, patient.StatusWaiting, rec.Status)
	assert.True(t, rec.Synced)
	assert.True(t, rec.CheckInTime.Equal(checkIn))
	assert.Equal(t, "72", rec.Vitals[vitals.Pulse].Value)
	assert.Equal(t, vitals.Normal, rec.Vitals[vitals.Pulse].Severity)
}

func TestScanRecord_BadVitals(t *testing.T) {
	row := fakeRow{values: []interface{}{
		"id", "A", "B", time.Now(), "Male", "", "", "", "", "", "", "", "", "",
		[]byte(`not json`), time.Now(), "Waiting",
	}}
	_, err := scanRecord(row)
	assert.Error(t, err)
}

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(""))
	if got := nullable("admin"); got == nil || *got != "admin" {
		t.Errorf("Expected pointer to admin, got %v", got)
	}
}
