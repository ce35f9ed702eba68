package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"turnero/internal/apperr"
	"turnero/internal/auth"
	"turnero/internal/service"

	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	Service *service.AppointmentService
}

func NewAppointmentHandler(svc *service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{Service: svc}
}

// CreateAppointment books a slot for the authenticated client.
func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.New(apperr.InvalidRequest, "invalid request body"))
		return
	}
	appt, err := h.Service.CreateAppointment(auth.UserID(r.Context()), req.ServiceID, req.Date, req.StartTime)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, toAppointmentResponse(*appt))
}

// AvailableSlots is public: free start times for a service on a date.
func (h *AppointmentHandler) AvailableSlots(w http.ResponseWriter, r *http.Request) {
	serviceID, _ := strconv.Atoi(r.URL.Query().Get("service_id"))
	date := r.URL.Query().Get("date")

	slots, err := h.Service.ListFreeSlots(serviceID, date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, slots)
}

// MyAppointments lists the authenticated client's appointments.
func (h *AppointmentHandler) MyAppointments(w http.ResponseWriter, r *http.Request) {
	appts, err := h.Service.ListMyAppointments(auth.UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, toAppointmentResponses(appts))
}

// ListAppointments lists every appointment with client and service names (admin).
func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	appts, err := h.Service.ListAllAppointments()
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, toAppointmentResponses(appts))
}

// CancelAppointment is the client cancellation path.
func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperr.New(apperr.InvalidRequest, "invalid appointment id"))
		return
	}
	if err := h.Service.CancelAppointment(id, auth.UserID(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "appointment cancelled")
}

// SetStatus is the admin status override.
func (h *AppointmentHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperr.New(apperr.InvalidRequest, "invalid appointment id"))
		return
	}
	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.New(apperr.InvalidRequest, "invalid request body"))
		return
	}
	if err := h.Service.SetAppointmentStatus(id, req.Status); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "status updated")
}
