package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mrsinham/vitalis/internal/kiosk"
	"github.com/mrsinham/vitalis/internal/patient"
	"github.com/mrsinham/vitalis/internal/vitals"
)

// ErrNoRows is returned when an update matched nothing.
var ErrNoRows = errors.New("no matching row")

// PgMirror writes kiosk data to Postgres.
// The schema is applied on first use and retried until it succeeds.
type PgMirror struct {
	pool *pgxpool.Pool
	now  func() time.Time

	mu          sync.Mutex
	schemaReady bool
}

// NewPgMirror creates a mirror on a pool.
func NewPgMirror(pool *pgxpool.Pool) *PgMirror {
	return &PgMirror{pool: pool, now: time.Now}
}

// Ping checks the connection.
func (m *PgMirror) Ping(ctx context.Context) error {
	return m.pool.Ping(ctx)
}

// EnsureSchema applies the schema once per process.
func (m *PgMirror) EnsureSchema(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.schemaReady {
		return nil
	}
	if err := EnsureSchema(ctx, m.pool); err != nil {
		return err
	}
	m.schemaReady = true
	return nil
}

const recordColumns = `id, first_name, last_name, dob, gender, civil_status, phone,
	address_line1, address_line2, city, state, zip_code, guardian_name, guardian_phone,
	vitals, check_in_time, status`

// InsertRecord inserts one record. Re-inserting an existing ID is a no-op.
// The date of birth is sent as an ISO date.
func (m *PgMirror) InsertRecord(ctx context.Context, rec patient.Record) error {
	if err := m.EnsureSchema(ctx); err != nil {
		return err
	}

	dob, err := time.Parse(patient.ISODateLayout, patient.ISODate(rec.DOB, m.now()))
	if err != nil {
		return fmt.Errorf("convert dob: %w", err)
	}
	vitalsJSON, err := json.Marshal(nonNilVitals(rec.Vitals))
	if err != nil {
		return fmt.Errorf("encode vitals: %w", err)
	}
	gender := string(rec.Gender)
	if gender == "" {
		gender = "Not specified"
	}

	const q = `
		INSERT INTO patients (` + recordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (id) DO NOTHING
	`
	_, err = m.pool.Exec(ctx, q,
		rec.ID, rec.FirstName, rec.LastName, dob, gender, string(rec.CivilStatus), rec.Phone,
		rec.AddressLine1, rec.AddressLine2, rec.City, rec.State, rec.ZipCode,
		rec.GuardianName, rec.GuardianPhone, vitalsJSON, rec.CheckInTime, string(rec.Status),
	)
	if err != nil {
		return fmt.Errorf("insert patient %s: %w", rec.ID, err)
	}
	return nil
}

// ListRecords returns every mirrored record, newest first.
func (m *PgMirror) ListRecords(ctx context.Context) ([]patient.Record, error) {
	if err := m.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	const q = `SELECT ` + recordColumns + ` FROM patients ORDER BY check_in_time DESC`

	rows, err := m.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()

	var out []patient.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate patients: %w", err)
	}
	return out, nil
}

// UpdateStatus changes a record's status.
func (m *PgMirror) UpdateStatus(ctx context.Context, id string, status patient.Status) error {
	if err := m.EnsureSchema(ctx); err != nil {
		return err
	}

	tag, err := m.pool.Exec(ctx, `UPDATE patients SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("update patient status %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("patient %s: %w", id, ErrNoRows)
	}
	return nil
}

// InsertAssistance inserts one assistance request.
func (m *PgMirror) InsertAssistance(ctx context.Context, req kiosk.AssistanceRequest) error {
	if err := m.EnsureSchema(ctx); err != nil {
		return err
	}

	const q = `
		INSERT INTO assistance_requests (id, kiosk_id, timestamp, status, resolved_at, resolved_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := m.pool.Exec(ctx, q, req.ID, req.KioskID, req.Timestamp, string(req.Status), req.ResolvedAt, nullable(req.ResolvedBy))
	if err != nil {
		return fmt.Errorf("insert assistance %s: %w", req.ID, err)
	}
	return nil
}

// ListAssistance returns every request, newest first.
func (m *PgMirror) ListAssistance(ctx context.Context) ([]kiosk.AssistanceRequest, error) {
	if err := m.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	const q = `
		SELECT id, kiosk_id, timestamp, status, resolved_at, resolved_by
		FROM assistance_requests
		ORDER BY timestamp DESC
	`
	rows, err := m.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list assistance: %w", err)
	}
	defer rows.Close()

	var out []kiosk.AssistanceRequest
	for rows.Next() {
		var (
			req        kiosk.AssistanceRequest
			status     string
			resolvedBy *string
		)
		if err := rows.Scan(&req.ID, &req.KioskID, &req.Timestamp, &status, &req.ResolvedAt, &resolvedBy); err != nil {
			return nil, fmt.Errorf("scan assistance: %w", err)
		}
		req.Status = kiosk.AssistanceStatus(status)
		if resolvedBy != nil {
			req.ResolvedBy = *resolvedBy
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assistance: %w", err)
	}
	return out, nil
}

// ResolveAssistance marks a request resolved.
func (m *PgMirror) ResolveAssistance(ctx context.Context, id string, at time.Time, by string) error {
	if err := m.EnsureSchema(ctx); err != nil {
		return err
	}

	const q = `
		UPDATE assistance_requests
		SET status = $1, resolved_at = $2, resolved_by = $3
		WHERE id = $4
	`
	tag, err := m.pool.Exec(ctx, q, string(kiosk.AssistanceResolved), at, nullable(by), id)
	if err != nil {
		return fmt.Errorf("resolve assistance %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("assistance %s: %w", id, ErrNoRows)
	}
	return nil
}

func scanRecord(row pgx.Row) (patient.Record, error) {
	var (
		rec         patient.Record
		dob         time.Time
		gender      string
		civilStatus string
		status      string
		vitalsJSON  []byte
	)
	err := row.Scan(
		&rec.ID, &rec.FirstName, &rec.LastName, &dob, &gender, &civilStatus, &rec.Phone,
		&rec.AddressLine1, &rec.AddressLine2, &rec.City, &rec.State, &rec.ZipCode,
		&rec.GuardianName, &rec.GuardianPhone, &vitalsJSON, &rec.CheckInTime, &status,
	)
	if err != nil {
		return patient.Record{}, fmt.Errorf("scan patient: %w", err)
	}

	rec.DOB = dob.Format(patient.DisplayDateLayout)
	if gender != "Not specified" {
		rec.Gender = patient.Gender(gender)
	}
	rec.CivilStatus = patient.CivilStatus(civilStatus)
	rec.Status = patient.Status(status)
	rec.Synced = true

	rec.Vitals = make(map[vitals.Kind]vitals.Measurement)
	if len(vitalsJSON) > 0 {
		if err := json.Unmarshal(vitalsJSON, &rec.Vitals); err != nil {
			return patient.Record{}, fmt.Errorf("decode vitals for %s: %w", rec.ID, err)
		}
	}
	return rec, nil
}

func nonNilVitals(v map[vitals.Kind]vitals.Measurement) map[vitals.Kind]vitals.Measurement {
	if v == nil {
		return map[vitals.Kind]vitals.Measurement{}
	}
	return v
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
