package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"turnero/internal/apperr"
	"turnero/internal/db"
)

type AppointmentRepository struct {
	DB *sql.DB
}

func NewAppointmentRepository(database *sql.DB) *AppointmentRepository {
	return &AppointmentRepository{DB: database}
}

// CreateAppointment inserts an appointment after re-checking for overlapping
// non-cancelled appointments on the same date. The overlap check and the
// insert run inside one transaction holding a per-date advisory lock, so two
// concurrent bookings for overlapping intervals cannot both commit.
func (r *AppointmentRepository) CreateAppointment(appt *db.Appointment) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("error starting booking transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`SELECT pg_advisory_xact_lock(hashtext($1))`, appt.Date); err != nil {
		return fmt.Errorf("error acquiring date lock: %w", err)
	}

	var taken bool
	err = tx.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE date = $1
			  AND status <> 'CANCELLED'
			  AND start_time < $2
			  AND end_time > $3
		)`, appt.Date, appt.EndTime, appt.StartTime).Scan(&taken)
	if err != nil {
		return fmt.Errorf("error checking slot conflicts: %w", err)
	}
	if taken {
		return apperr.New(apperr.SlotTaken, "the requested time slot is already booked")
	}

	err = tx.QueryRow(`
		INSERT INTO appointments (user_id, service_id, date, start_time, end_time, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at`,
		appt.UserID, appt.ServiceID, appt.Date, appt.StartTime, appt.EndTime, appt.Status,
	).Scan(&appt.ID, &appt.CreatedAt, &appt.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting appointment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing booking transaction: %w", err)
	}
	return nil
}

// ListBookedIntervals returns the non-cancelled appointments on a date,
// ordered by start time.
func (r *AppointmentRepository) ListBookedIntervals(date string) ([]db.Appointment, error) {
	rows, err := r.DB.Query(`
		SELECT id, to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI')
		FROM appointments
		WHERE date = $1 AND status <> 'CANCELLED'
		ORDER BY start_time`, date)
	if err != nil {
		return nil, fmt.Errorf("error querying booked intervals: %w", err)
	}
	defer rows.Close()

	var appts []db.Appointment
	for rows.Next() {
		a := db.Appointment{Date: date}
		if err := rows.Scan(&a.ID, &a.StartTime, &a.EndTime); err != nil {
			return nil, fmt.Errorf("error scanning booked interval: %w", err)
		}
		appts = append(appts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating booked intervals: %w", err)
	}
	return appts, nil
}

// GetAppointmentForUser loads an appointment only when it belongs to the
// given user. Returns (nil, nil) when no such row exists.
func (r *AppointmentRepository) GetAppointmentForUser(id, userID int) (*db.Appointment, error) {
	var a db.Appointment
	err := r.DB.QueryRow(`
		SELECT id, user_id, service_id, to_char(date, 'YYYY-MM-DD'),
		       to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'),
		       status, created_at, updated_at
		FROM appointments
		WHERE id = $1 AND user_id = $2`, id, userID).Scan(
		&a.ID, &a.UserID, &a.ServiceID, &a.Date,
		&a.StartTime, &a.EndTime, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying appointment %d: %w", id, err)
	}
	return &a, nil
}

// UpdateAppointmentStatus overwrites the status and returns how many rows
// were affected (zero when the appointment does not exist).
func (r *AppointmentRepository) UpdateAppointmentStatus(id int, status string) (int64, error) {
	result, err := r.DB.Exec(
		`UPDATE appointments SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id)
	if err != nil {
		return 0, fmt.Errorf("error updating appointment status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error reading affected rows: %w", err)
	}
	return affected, nil
}

// ListAppointmentsForUser returns a client's own appointments with the
// service name, ordered by date then start time.
func (r *AppointmentRepository) ListAppointmentsForUser(userID int) ([]db.Appointment, error) {
	rows, err := r.DB.Query(`
		SELECT a.id, a.user_id, a.service_id, to_char(a.date, 'YYYY-MM-DD'),
		       to_char(a.start_time, 'HH24:MI'), to_char(a.end_time, 'HH24:MI'),
		       a.status, a.created_at, a.updated_at, s.name
		FROM appointments a
		JOIN services s ON s.id = a.service_id
		WHERE a.user_id = $1
		ORDER BY a.date, a.start_time`, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying user appointments: %w", err)
	}
	defer rows.Close()
	return scanAppointmentList(rows, false)
}

// ListAllAppointments returns every appointment with client and service
// names, ordered by date then start time.
func (r *AppointmentRepository) ListAllAppointments() ([]db.Appointment, error) {
	rows, err := r.DB.Query(`
		SELECT a.id, a.user_id, a.service_id, to_char(a.date, 'YYYY-MM-DD'),
		       to_char(a.start_time, 'HH24:MI'), to_char(a.end_time, 'HH24:MI'),
		       a.status, a.created_at, a.updated_at, s.name, u.name
		FROM appointments a
		JOIN services s ON s.id = a.service_id
		JOIN users u ON u.id = a.user_id
		ORDER BY a.date, a.start_time`)
	if err != nil {
		return nil, fmt.Errorf("error querying appointments: %w", err)
	}
	defer rows.Close()
	return scanAppointmentList(rows, true)
}

func scanAppointmentList(rows *sql.Rows, withClient bool) ([]db.Appointment, error) {
	var appts []db.Appointment
	for rows.Next() {
		var a db.Appointment
		dest := []interface{}{
			&a.ID, &a.UserID, &a.ServiceID, &a.Date,
			&a.StartTime, &a.EndTime, &a.Status, &a.CreatedAt, &a.UpdatedAt,
			&a.ServiceName,
		}
		if withClient {
			dest = append(dest, &a.ClientName)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("error scanning appointment row: %w", err)
		}
		appts = append(appts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating appointment rows: %w", err)
	}
	return appts, nil
}
