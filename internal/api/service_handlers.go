package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"turnero/internal/apperr"
	"turnero/internal/db"
	"turnero/internal/service"

	"github.com/gorilla/mux"
)

type ServiceHandler struct {
	Service *service.CatalogService
}

func NewServiceHandler(svc *service.CatalogService) *ServiceHandler {
	return &ServiceHandler{Service: svc}
}

func (h *ServiceHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req ServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.New(apperr.InvalidRequest, "invalid request body"))
		return
	}
	svc, err := h.Service.CreateService(req.Name, req.Description, req.Duration, req.Price)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, toServiceResponse(*svc))
}

// ListServices is public and returns active services only.
func (h *ServiceHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.Service.ListActiveServices()
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, toServiceResponses(services))
}

// ListAllServices is the admin view, including inactive services.
func (h *ServiceHandler) ListAllServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.Service.ListAllServices()
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, toServiceResponses(services))
}

func (h *ServiceHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperr.New(apperr.InvalidRequest, "invalid service id"))
		return
	}
	var req ServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.New(apperr.InvalidRequest, "invalid request body"))
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	svc := &db.Service{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Duration:    req.Duration,
		Price:       req.Price,
		IsActive:    active,
	}
	if err := h.Service.UpdateService(svc); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "service updated")
}

// DeleteService deactivates a service; it stays referenced by past bookings.
func (h *ServiceHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperr.New(apperr.InvalidRequest, "invalid service id"))
		return
	}
	if err := h.Service.DeactivateService(id); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "service deleted")
}

func toServiceResponses(services []db.Service) []ServiceResponse {
	out := make([]ServiceResponse, 0, len(services))
	for _, s := range services {
		out = append(out, toServiceResponse(s))
	}
	return out
}
