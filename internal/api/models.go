package api

import (
	"time"

	"turnero/internal/db"
)

// Auth
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type UserResponse struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Catalog
type ServiceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Price       int    `json:"price"`
	IsActive    *bool  `json:"is_active"`
}
type ServiceResponse struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Duration    int    `json:"duration"`
	Price       int    `json:"price"`
	IsActive    bool   `json:"is_active"`
}

// Calendar rules
type BusinessHoursRequest struct {
	DayOfWeek *int   `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}
type BusinessHoursResponse struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}
type BlockDayRequest struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
}
type BlockedDayResponse struct {
	ID     int    `json:"id"`
	Date   string `json:"date"`
	Reason string `json:"reason,omitempty"`
}

// Appointments
type CreateAppointmentRequest struct {
	ServiceID int    `json:"service_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
}
type StatusRequest struct {
	Status string `json:"status"`
}
type AppointmentResponse struct {
	ID          int       `json:"id"`
	ServiceID   int       `json:"service_id"`
	ServiceName string    `json:"service_name,omitempty"`
	ClientName  string    `json:"client_name,omitempty"`
	Date        string    `json:"date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toUserResponse(u *db.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func toServiceResponse(s db.Service) ServiceResponse {
	return ServiceResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Duration:    s.Duration,
		Price:       s.Price,
		IsActive:    s.IsActive,
	}
}

func toAppointmentResponse(a db.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:          a.ID,
		ServiceID:   a.ServiceID,
		ServiceName: a.ServiceName,
		ClientName:  a.ClientName,
		Date:        a.Date,
		StartTime:   a.StartTime,
		EndTime:     a.EndTime,
		Status:      a.Status,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func toAppointmentResponses(appts []db.Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(appts))
	for _, a := range appts {
		out = append(out, toAppointmentResponse(a))
	}
	return out
}
