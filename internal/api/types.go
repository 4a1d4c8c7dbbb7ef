package api

import (
	"encoding/json"
	"net/http"

	"github.com/mrsinham/vitalis/internal/patient"
)

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type ResolveAssistanceRequest struct {
	ResolvedBy string `json:"resolvedBy"`
}

type RecordsResponse struct {
	Records []patient.Record `json:"records"`
	Count   int              `json:"count"`
}

type SyncResponse struct {
	Synced  int `json:"synced"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}
