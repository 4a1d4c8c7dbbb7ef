package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/mrsinham/vitalis/internal/gateway"
	"github.com/mrsinham/vitalis/internal/kiosk"
	"github.com/mrsinham/vitalis/internal/logger"
	"github.com/mrsinham/vitalis/internal/patient"
)

type fakeService struct {
	records    []patient.Record
	assistance []kiosk.AssistanceRequest
	updated    map[string]patient.Status
	resolvedBy map[string]string
	reconcile  gateway.ReconcileResult
	reconErr   error
}

func newFakeService() *fakeService {
	return &fakeService{
		records: []patient.Record{
			{Draft: patient.Draft{FirstName: "Ana", LastName: "Cruz"}, ID: "LRD-20261018-0002", Status: patient.StatusWaiting},
			{Draft: patient.Draft{FirstName: "Jose", LastName: "Rizal"}, ID: "LRD-20261018-0001", Status: patient.StatusCompleted},
		},
		assistance: []kiosk.AssistanceRequest{
			{ID: "AST-1", KioskID: "KIOSK-01", Status: kiosk.AssistancePending},
			{ID: "AST-0", KioskID: "KIOSK-01", Status: kiosk.AssistanceResolved},
		},
		updated:    make(map[string]patient.Status),
		resolvedBy: make(map[string]string),
	}
}

func (f *fakeService) ListRecords(ctx context.Context) ([]patient.Record, error) {
	return f.records, nil
}

func (f *fakeService) UpdateStatus(ctx context.Context, id string, status patient.Status) error {
	if id == "missing" {
		return gateway.ErrRecordNotFound
	}
	f.updated[id] = status
	return nil
}

func (f *fakeService) ListAssistance(ctx context.Context) ([]kiosk.AssistanceRequest, error) {
	return f.assistance, nil
}

func (f *fakeService) ResolveAssistance(ctx context.Context, id, by string) error {
	if id == "missing" {
		return gateway.ErrRequestNotFound
	}
	f.resolvedBy[id] = by
	return nil
}

func (f *fakeService) Reconcile(ctx context.Context) (gateway.ReconcileResult, error) {
	return f.reconcile, f.reconErr
}

func newTestRouter(svc Service, required, optional map[string]Check) http.Handler {
	return NewRouter(RouterConfig{
		Service:  svc,
		Log:      logrus.NewEntry(logger.Discard().Logger),
		Registry: prometheus.NewRegistry(),
		Required: required,
		Optional: optional,
		Env:      "test",
		Version:  "v0.0.0",
	})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestListRecords_Filters(t *testing.T) {
	h := newTestRouter(newFakeService(), nil, nil)

	tests := []struct {
		path string
		want int
	}{
		{"/records", 2},
		{"/records?q=cruz", 1},
		{"/records?status=Completed", 1},
		{"/records?status=all&q=LRD", 2},
		{"/records?status=In%20Progress", 0},
	}
	for _, tt := range tests {
		rec := do(t, h, http.MethodGet, tt.path, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", tt.path, rec.Code)
		}
		var resp RecordsResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: decode: %v", tt.path, err)
		}
		if resp.Count != tt.want {
			t.Errorf("%s: expected %d records, got %d", tt.path, tt.want, resp.Count)
		}
	}
}

func TestListRecords_BadStatus(t *testing.T) {
	h := newTestRouter(newFakeService(), nil, nil)
	rec := do(t, h, http.MethodGet, "/records?status=Lost", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestUpdateStatus(t *testing.T) {
	svc := newFakeService()
	h := newTestRouter(svc, nil, nil)

	rec := do(t, h, http.MethodPatch, "/records/LRD-20261018-0002/status", `{"status":"In Progress"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.updated["LRD-20261018-0002"] != patient.StatusInProgress {
		t.Errorf("Expected In Progress, got %q", svc.updated["LRD-20261018-0002"])
	}

	if rec := do(t, h, http.MethodPatch, "/records/x/status", `{"status":"Nope"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown status, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPatch, "/records/x/status", `not json`); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad body, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPatch, "/records/missing/status", `{"status":"Completed"}`); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestAssistance(t *testing.T) {
	svc := newFakeService()
	h := newTestRouter(svc, nil, nil)

	var all, pending []kiosk.AssistanceRequest
	_ = json.Unmarshal(do(t, h, http.MethodGet, "/assistance", "").Body.Bytes(), &all)
	_ = json.Unmarshal(do(t, h, http.MethodGet, "/assistance/pending", "").Body.Bytes(), &pending)
	if len(all) != 2 {
		t.Errorf("Expected 2 requests, got %d", len(all))
	}
	if len(pending) != 1 || pending[0].ID != "AST-1" {
		t.Errorf("Expected only AST-1 pending, got %v", pending)
	}

	if rec := do(t, h, http.MethodPost, "/assistance/AST-1/resolve", ""); rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
	if svc.resolvedBy["AST-1"] != "admin" {
		t.Errorf("Expected default resolver 'admin', got %q", svc.resolvedBy["AST-1"])
	}

	do(t, h, http.MethodPost, "/assistance/AST-2/resolve", `{"resolvedBy":"nurse.joy"}`)
	if svc.resolvedBy["AST-2"] != "nurse.joy" {
		t.Errorf("Expected nurse.joy, got %q", svc.resolvedBy["AST-2"])
	}

	if rec := do(t, h, http.MethodPost, "/assistance/missing/resolve", ""); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestSync(t *testing.T) {
	svc := newFakeService()
	svc.reconcile = gateway.ReconcileResult{Synced: 2, Failed: 1, Skipped: 4}
	h := newTestRouter(svc, nil, nil)

	rec := do(t, h, http.MethodPost, "/sync", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var resp SyncResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp != (SyncResponse{Synced: 2, Failed: 1, Skipped: 4}) {
		t.Errorf("Expected 2/1/4, got %+v", resp)
	}

	metrics := do(t, h, http.MethodGet, "/metrics", "").Body.String()
	if !strings.Contains(metrics, `vitalis_reconcile_records_total{outcome="synced"} 2`) {
		t.Errorf("Expected reconcile counter in metrics output, got:\n%s", metrics)
	}
	if !strings.Contains(metrics, "vitalis_http_requests_total") {
		t.Error("Expected request counter in metrics output")
	}

	svc.reconErr = gateway.ErrNoMirror
	if rec := do(t, h, http.MethodPost, "/sync", ""); rec.Code != http.StatusConflict {
		t.Errorf("Expected 409 without mirror, got %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("down") }

	tests := []struct {
		name     string
		required map[string]Check
		optional map[string]Check
		code     int
		status   string
	}{
		{"all up", map[string]Check{"store": ok}, map[string]Check{"postgres": ok}, http.StatusOK, "ok"},
		{"optional down", map[string]Check{"store": ok}, map[string]Check{"postgres": down}, http.StatusOK, "degraded"},
		{"required down", map[string]Check{"store": down}, map[string]Check{"postgres": ok}, http.StatusServiceUnavailable, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(newFakeService(), tt.required, tt.optional)
			rec := do(t, h, http.MethodGet, "/health/ready", "")
			if rec.Code != tt.code {
				t.Errorf("Expected %d, got %d", tt.code, rec.Code)
			}
			var resp ReadinessResponse
			_ = json.Unmarshal(rec.Body.Bytes(), &resp)
			if resp.Status != tt.status {
				t.Errorf("Expected status %s, got %s", tt.status, resp.Status)
			}
		})
	}

	h := newTestRouter(newFakeService(), nil, nil)
	if rec := do(t, h, http.MethodGet, "/health/live", ""); rec.Code != http.StatusOK {
		t.Errorf("Expected live 200, got %d", rec.Code)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	h := newTestRouter(newFakeService(), nil, nil)

	rec := do(t, h, http.MethodGet, "/health/live", "")
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("Expected generated request ID header")
	}

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("Expected propagated request ID abc-123, got %s", got)
	}
}
