package service

import (
	"log"
	"time"

	"turnero/internal/apperr"
	"turnero/internal/db"
	"turnero/internal/schedule"
)

// Catalog is the read side of the service catalog.
type Catalog interface {
	// GetActiveService returns (nil, nil) for absent or inactive services.
	GetActiveService(id int) (*db.Service, error)
}

// CalendarRules exposes business hours and blocked days, read-only.
type CalendarRules interface {
	IsDateBlocked(date string) (bool, error)
	// GetActiveBusinessHours returns (nil, nil) when the weekday has no
	// active window.
	GetActiveBusinessHours(weekday int) (*db.BusinessHours, error)
}

// Ledger owns the appointment records. CreateAppointment must perform its
// own overlap re-check atomically per date and fail with a SlotTaken error
// when the interval is occupied.
type Ledger interface {
	CreateAppointment(appt *db.Appointment) error
	ListBookedIntervals(date string) ([]db.Appointment, error)
	GetAppointmentForUser(id, userID int) (*db.Appointment, error)
	UpdateAppointmentStatus(id int, status string) (int64, error)
	ListAppointmentsForUser(userID int) ([]db.Appointment, error)
	ListAllAppointments() ([]db.Appointment, error)
}

// AppointmentService decides bookings, enumerates free slots and runs the
// appointment status lifecycle. It keeps no state between calls; every
// decision re-reads the stores.
type AppointmentService struct {
	catalog Catalog
	rules   CalendarRules
	ledger  Ledger
	now     func() time.Time
}

func NewAppointmentService(catalog Catalog, rules CalendarRules, ledger Ledger) *AppointmentService {
	return &AppointmentService{
		catalog: catalog,
		rules:   rules,
		ledger:  ledger,
		now:     time.Now,
	}
}

// CreateAppointment validates a booking request and, when every check
// passes, commits a PENDING appointment. Checks run in a fixed order and the
// first failure wins; nothing is written on failure.
func (s *AppointmentService) CreateAppointment(userID, serviceID int, date, startTime string) (*db.Appointment, error) {
	if userID <= 0 || serviceID <= 0 || date == "" || startTime == "" {
		return nil, apperr.New(apperr.InvalidRequest, "service, date and start time are required")
	}
	if _, err := schedule.ParseDate(date); err != nil {
		return nil, apperr.New(apperr.InvalidRequest, "invalid date, expected YYYY-MM-DD")
	}
	startMin, err := schedule.ParseClock(startTime)
	if err != nil {
		return nil, apperr.New(apperr.InvalidRequest, "invalid start time, expected HH:MM")
	}

	svc, err := s.catalog.GetActiveService(serviceID)
	if err != nil {
		log.Printf("Error looking up service %d: %v", serviceID, err)
		return nil, err
	}
	if svc == nil {
		return nil, apperr.New(apperr.ServiceNotFound, "service not available")
	}

	blocked, err := s.rules.IsDateBlocked(date)
	if err != nil {
		log.Printf("Error checking blocked day %s: %v", date, err)
		return nil, err
	}
	if blocked {
		return nil, apperr.New(apperr.DateBlocked, "date not available for bookings")
	}

	// End time is fixed now, from the duration as it is at booking time.
	// No wrap-around: an end past midnight can never fit inside the close
	// time below, so cross-midnight requests are rejected here.
	endMin := startMin + svc.Duration

	weekday, err := schedule.Weekday(date)
	if err != nil {
		return nil, apperr.New(apperr.InvalidRequest, "invalid date, expected YYYY-MM-DD")
	}
	hours, err := s.rules.GetActiveBusinessHours(weekday)
	if err != nil {
		log.Printf("Error loading business hours for weekday %d: %v", weekday, err)
		return nil, err
	}
	if hours == nil {
		return nil, apperr.New(apperr.OutsideBusinessHours, "outside business hours")
	}
	open, close, err := hoursWindow(hours)
	if err != nil {
		return nil, err
	}
	if startMin < open || endMin > close {
		return nil, apperr.New(apperr.OutsideBusinessHours, "outside business hours")
	}

	appt := &db.Appointment{
		UserID:    userID,
		ServiceID: serviceID,
		Date:      date,
		StartTime: schedule.FormatClock(startMin),
		EndTime:   schedule.FormatClock(endMin),
		Status:    db.StatusPending,
	}
	// The ledger re-checks for overlaps and inserts atomically per date;
	// concurrent bookings for overlapping intervals cannot both succeed.
	if err := s.ledger.CreateAppointment(appt); err != nil {
		if apperr.KindOf(err) != apperr.SlotTaken {
			log.Printf("Error creating appointment: %v", err)
		}
		return nil, err
	}
	return appt, nil
}

// ListFreeSlots returns every start time at which the service could be
// booked on the date, as "HH:MM" strings in increasing order. Blocked days
// and weekdays without business hours yield an empty list, not an error.
func (s *AppointmentService) ListFreeSlots(serviceID int, date string) ([]string, error) {
	if serviceID <= 0 || date == "" {
		return nil, apperr.New(apperr.InvalidRequest, "service and date are required")
	}
	weekday, err := schedule.Weekday(date)
	if err != nil {
		return nil, apperr.New(apperr.InvalidRequest, "invalid date, expected YYYY-MM-DD")
	}

	blocked, err := s.rules.IsDateBlocked(date)
	if err != nil {
		log.Printf("Error checking blocked day %s: %v", date, err)
		return nil, err
	}
	if blocked {
		return []string{}, nil
	}

	svc, err := s.catalog.GetActiveService(serviceID)
	if err != nil {
		log.Printf("Error looking up service %d: %v", serviceID, err)
		return nil, err
	}
	if svc == nil {
		return nil, apperr.New(apperr.ServiceNotFound, "service not found")
	}

	hours, err := s.rules.GetActiveBusinessHours(weekday)
	if err != nil {
		log.Printf("Error loading business hours for weekday %d: %v", weekday, err)
		return nil, err
	}
	if hours == nil {
		return []string{}, nil
	}
	open, close, err := hoursWindow(hours)
	if err != nil {
		return nil, err
	}

	booked, err := s.ledger.ListBookedIntervals(date)
	if err != nil {
		log.Printf("Error listing appointments for %s: %v", date, err)
		return nil, err
	}
	busy := make([]schedule.Interval, 0, len(booked))
	for _, a := range booked {
		iv, err := bookedInterval(a)
		if err != nil {
			return nil, err
		}
		busy = append(busy, iv)
	}

	return schedule.FreeSlots(open, close, svc.Duration, busy), nil
}

// CancelAppointment is the client cancellation path: only the owner may
// cancel, only while the appointment is neither cancelled nor completed, and
// only strictly before its start.
func (s *AppointmentService) CancelAppointment(appointmentID, requesterID int) error {
	appt, err := s.ledger.GetAppointmentForUser(appointmentID, requesterID)
	if err != nil {
		log.Printf("Error loading appointment %d: %v", appointmentID, err)
		return err
	}
	if appt == nil {
		return apperr.New(apperr.NotFound, "appointment not found")
	}
	if appt.Status == db.StatusCancelled {
		return apperr.New(apperr.AlreadyCancelled, "appointment was already cancelled")
	}
	if appt.Status == db.StatusCompleted {
		return apperr.New(apperr.AlreadyCompleted, "a completed appointment cannot be cancelled")
	}

	startsAt, err := time.ParseInLocation("2006-01-02 15:04", appt.Date+" "+appt.StartTime, time.Local)
	if err != nil {
		log.Printf("Error parsing stored appointment time %q %q: %v", appt.Date, appt.StartTime, err)
		return err
	}
	if !startsAt.After(s.now()) {
		return apperr.New(apperr.PastAppointment, "a past appointment cannot be cancelled")
	}

	affected, err := s.ledger.UpdateAppointmentStatus(appointmentID, db.StatusCancelled)
	if err != nil {
		log.Printf("Error cancelling appointment %d: %v", appointmentID, err)
		return err
	}
	if affected == 0 {
		return apperr.New(apperr.NotFound, "appointment not found")
	}
	return nil
}

// SetAppointmentStatus is the administrator override: any of the four
// statuses may be set regardless of the current one. The transition is
// deliberately unguarded.
func (s *AppointmentService) SetAppointmentStatus(appointmentID int, status string) error {
	if !db.ValidStatus(status) {
		return apperr.New(apperr.InvalidStatus, "invalid status")
	}
	affected, err := s.ledger.UpdateAppointmentStatus(appointmentID, status)
	if err != nil {
		log.Printf("Error updating status of appointment %d: %v", appointmentID, err)
		return err
	}
	if affected == 0 {
		return apperr.New(apperr.NotFound, "appointment not found")
	}
	return nil
}

func (s *AppointmentService) ListMyAppointments(userID int) ([]db.Appointment, error) {
	return s.ledger.ListAppointmentsForUser(userID)
}

func (s *AppointmentService) ListAllAppointments() ([]db.Appointment, error) {
	return s.ledger.ListAllAppointments()
}

func hoursWindow(hours *db.BusinessHours) (open, close int, err error) {
	open, err = schedule.ParseClock(hours.OpenTime)
	if err == nil {
		close, err = schedule.ParseClock(hours.CloseTime)
	}
	if err != nil {
		log.Printf("Error parsing stored business hours %q-%q: %v", hours.OpenTime, hours.CloseTime, err)
		return 0, 0, err
	}
	return open, close, nil
}

func bookedInterval(a db.Appointment) (schedule.Interval, error) {
	start, err := schedule.ParseClock(a.StartTime)
	if err != nil {
		log.Printf("Error parsing stored appointment start %q: %v", a.StartTime, err)
		return schedule.Interval{}, err
	}
	end, err := schedule.ParseClock(a.EndTime)
	if err != nil {
		log.Printf("Error parsing stored appointment end %q: %v", a.EndTime, err)
		return schedule.Interval{}, err
	}
	return schedule.Interval{Start: start, End: end}, nil
}
