package api

import (
	"encoding/json"
	"log"
	"net/http"

	"turnero/internal/apperr"
)

type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: true, Message: message})
}

// writeError maps an error kind to its HTTP status. Unclassified errors are
// internal failures: logged, and surfaced with a generic message only.
func writeError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.Internal {
		log.Printf("Internal error: %v", err)
	}
	writeJSON(w, statusForKind(kind), envelope{Success: false, Message: apperr.MessageOf(err)})
}

func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.InvalidRequest, apperr.DateBlocked, apperr.OutsideBusinessHours,
		apperr.AlreadyCancelled, apperr.AlreadyCompleted, apperr.PastAppointment,
		apperr.InvalidStatus:
		return http.StatusBadRequest
	case apperr.ServiceNotFound, apperr.NotFound:
		return http.StatusNotFound
	case apperr.SlotTaken, apperr.AlreadyExists:
		return http.StatusConflict
	case apperr.Unauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
