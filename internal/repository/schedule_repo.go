package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"turnero/internal/apperr"
	"turnero/internal/db"

	"github.com/lib/pq"
)

// ScheduleRepository holds the calendar rules: business hours per weekday
// and fully blocked dates.
type ScheduleRepository struct {
	DB *sql.DB
}

func NewScheduleRepository(database *sql.DB) *ScheduleRepository {
	return &ScheduleRepository{DB: database}
}

// GetActiveBusinessHours returns the single active window for a weekday,
// or (nil, nil) when the weekday has none.
func (r *ScheduleRepository) GetActiveBusinessHours(weekday int) (*db.BusinessHours, error) {
	var bh db.BusinessHours
	err := r.DB.QueryRow(`
		SELECT id, day_of_week, to_char(open_time, 'HH24:MI'), to_char(close_time, 'HH24:MI'), is_active
		FROM business_hours
		WHERE day_of_week = $1 AND is_active = true`, weekday).Scan(
		&bh.ID, &bh.DayOfWeek, &bh.OpenTime, &bh.CloseTime, &bh.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying business hours for weekday %d: %w", weekday, err)
	}
	return &bh, nil
}

func (r *ScheduleRepository) ListActiveBusinessHours() ([]db.BusinessHours, error) {
	rows, err := r.DB.Query(`
		SELECT id, day_of_week, to_char(open_time, 'HH24:MI'), to_char(close_time, 'HH24:MI'), is_active
		FROM business_hours
		WHERE is_active = true
		ORDER BY day_of_week`)
	if err != nil {
		return nil, fmt.Errorf("error querying business hours: %w", err)
	}
	defer rows.Close()

	var hours []db.BusinessHours
	for rows.Next() {
		var bh db.BusinessHours
		if err := rows.Scan(&bh.ID, &bh.DayOfWeek, &bh.OpenTime, &bh.CloseTime, &bh.IsActive); err != nil {
			return nil, fmt.Errorf("error scanning business hours row: %w", err)
		}
		hours = append(hours, bh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating business hours rows: %w", err)
	}
	return hours, nil
}

// SetBusinessHours deactivates any prior rows for the weekday and inserts the
// new window as the active one. The store stays append-like: history is kept,
// readers only ever see the latest active row.
func (r *ScheduleRepository) SetBusinessHours(weekday int, openTime, closeTime string) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("error starting business hours transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`UPDATE business_hours SET is_active = false WHERE day_of_week = $1`, weekday); err != nil {
		return fmt.Errorf("error deactivating prior business hours: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT INTO business_hours (day_of_week, open_time, close_time, is_active)
		 VALUES ($1, $2, $3, true)`, weekday, openTime, closeTime); err != nil {
		return fmt.Errorf("error inserting business hours: %w", err)
	}
	return tx.Commit()
}

// IsDateBlocked reports whether a date is in the blocked set.
func (r *ScheduleRepository) IsDateBlocked(date string) (bool, error) {
	var id int
	err := r.DB.QueryRow(`SELECT id FROM blocked_days WHERE date = $1`, date).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error querying blocked day: %w", err)
	}
	return true, nil
}

func (r *ScheduleRepository) CreateBlockedDay(date, reason string) error {
	_, err := r.DB.Exec(
		`INSERT INTO blocked_days (date, reason) VALUES ($1, NULLIF($2, ''))`, date, reason)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return apperr.New(apperr.AlreadyExists, "that day is already blocked")
		}
		return fmt.Errorf("error inserting blocked day: %w", err)
	}
	return nil
}

func (r *ScheduleRepository) ListBlockedDays() ([]db.BlockedDay, error) {
	rows, err := r.DB.Query(`
		SELECT id, to_char(date, 'YYYY-MM-DD'), COALESCE(reason, '')
		FROM blocked_days
		ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("error querying blocked days: %w", err)
	}
	defer rows.Close()

	var days []db.BlockedDay
	for rows.Next() {
		var d db.BlockedDay
		if err := rows.Scan(&d.ID, &d.Date, &d.Reason); err != nil {
			return nil, fmt.Errorf("error scanning blocked day row: %w", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating blocked day rows: %w", err)
	}
	return days, nil
}

// DeleteBlockedDay removes a blocked day and returns how many rows matched.
func (r *ScheduleRepository) DeleteBlockedDay(id int) (int64, error) {
	result, err := r.DB.Exec(`DELETE FROM blocked_days WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("error deleting blocked day: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error reading affected rows: %w", err)
	}
	return affected, nil
}
