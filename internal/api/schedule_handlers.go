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

// ScheduleHandler serves the calendar rules: business hours and blocked days.
type ScheduleHandler struct {
	Service *service.ScheduleService
}

func NewScheduleHandler(svc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{Service: svc}
}

func (h *ScheduleHandler) SetBusinessHours(w http.ResponseWriter, r *http.Request) {
	var req BusinessHoursRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.New(apperr.InvalidRequest, "invalid request body"))
		return
	}
	if req.DayOfWeek == nil || req.StartTime == "" || req.EndTime == "" {
		writeError(w, apperr.New(apperr.InvalidRequest, "day and hours are required"))
		return
	}
	if err := h.Service.SetBusinessHours(*req.DayOfWeek, req.StartTime, req.EndTime); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusCreated, "business hours saved")
}

// ListBusinessHours is public: the active window per weekday.
func (h *ScheduleHandler) ListBusinessHours(w http.ResponseWriter, r *http.Request) {
	hours, err := h.Service.ListBusinessHours()
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]BusinessHoursResponse, 0, len(hours))
	for _, bh := range hours {
		out = append(out, BusinessHoursResponse{
			DayOfWeek: bh.DayOfWeek,
			StartTime: bh.OpenTime,
			EndTime:   bh.CloseTime,
		})
	}
	writeData(w, http.StatusOK, out)
}

func (h *ScheduleHandler) BlockDay(w http.ResponseWriter, r *http.Request) {
	var req BlockDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.New(apperr.InvalidRequest, "invalid request body"))
		return
	}
	if err := h.Service.BlockDay(req.Date, req.Reason); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusCreated, "day blocked")
}

func (h *ScheduleHandler) ListBlockedDays(w http.ResponseWriter, r *http.Request) {
	days, err := h.Service.ListBlockedDays()
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, toBlockedDayResponses(days))
}

func (h *ScheduleHandler) UnblockDay(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperr.New(apperr.InvalidRequest, "invalid blocked day id"))
		return
	}
	if err := h.Service.UnblockDay(id); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "blocked day removed")
}

func toBlockedDayResponses(days []db.BlockedDay) []BlockedDayResponse {
	out := make([]BlockedDayResponse, 0, len(days))
	for _, d := range days {
		out = append(out, BlockedDayResponse{ID: d.ID, Date: d.Date, Reason: d.Reason})
	}
	return out
}
