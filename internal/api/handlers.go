package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mrsinham/vitalis/internal/gateway"
	"github.com/mrsinham/vitalis/internal/kiosk"
	"github.com/mrsinham/vitalis/internal/patient"
)

func listRecordsHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := patient.Filter{Query: r.URL.Query().Get("q")}
		if raw := r.URL.Query().Get("status"); raw != "" && !strings.EqualFold(raw, "all") {
			status, ok := patient.ParseStatus(raw)
			if !ok {
				writeError(w, http.StatusBadRequest, "invalid_status", "unknown status "+raw)
				return
			}
			filter.Status = status
		}

		records, err := svc.ListRecords(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		out := patient.FilterRecords(records, filter)
		writeJSON(w, http.StatusOK, RecordsResponse{Records: out, Count: len(out)})
	}
}

func recordStatsHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := svc.ListRecords(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, patient.ComputeStats(records))
	}
}

func updateStatusHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req UpdateStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		status, ok := patient.ParseStatus(req.Status)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid_status", "unknown status "+req.Status)
			return
		}

		if err := svc.UpdateStatus(r.Context(), id, status); err != nil {
			if errors.Is(err, gateway.ErrRecordNotFound) {
				writeError(w, http.StatusNotFound, "record_not_found", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": string(status)})
	}
}

func listAssistanceHandler(svc Service, pendingOnly bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqs, err := svc.ListAssistance(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		if pendingOnly {
			reqs = kiosk.PendingRequests(reqs)
		}
		if reqs == nil {
			reqs = []kiosk.AssistanceRequest{}
		}
		writeJSON(w, http.StatusOK, reqs)
	}
}

func resolveAssistanceHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		req := ResolveAssistanceRequest{ResolvedBy: "admin"}
		if r.ContentLength > 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
				return
			}
		}
		if req.ResolvedBy == "" {
			req.ResolvedBy = "admin"
		}

		if err := svc.ResolveAssistance(r.Context(), id, req.ResolvedBy); err != nil {
			if errors.Is(err, gateway.ErrRequestNotFound) {
				writeError(w, http.StatusNotFound, "request_not_found", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": string(kiosk.AssistanceResolved)})
	}
}

func syncHandler(svc Service, metrics *Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.Reconcile(r.Context())
		if err != nil {
			if errors.Is(err, gateway.ErrNoMirror) {
				writeError(w, http.StatusConflict, "no_mirror", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		metrics.ObserveReconcile(res)
		writeJSON(w, http.StatusOK, SyncResponse{Synced: res.Synced, Failed: res.Failed, Skipped: res.Skipped})
	}
}
