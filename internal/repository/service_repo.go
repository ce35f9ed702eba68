package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"turnero/internal/db"
)

// ServiceRepository holds the catalog of bookable services.
type ServiceRepository struct {
	DB *sql.DB
}

func NewServiceRepository(database *sql.DB) *ServiceRepository {
	return &ServiceRepository{DB: database}
}

// GetActiveService returns a service only when it exists and is active;
// (nil, nil) otherwise.
func (r *ServiceRepository) GetActiveService(id int) (*db.Service, error) {
	var s db.Service
	err := r.DB.QueryRow(`
		SELECT id, name, COALESCE(description, ''), duration, price, is_active
		FROM services
		WHERE id = $1 AND is_active = true`, id).Scan(
		&s.ID, &s.Name, &s.Description, &s.Duration, &s.Price, &s.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying service %d: %w", id, err)
	}
	return &s, nil
}

func (r *ServiceRepository) CreateService(s *db.Service) error {
	err := r.DB.QueryRow(`
		INSERT INTO services (name, description, duration, price, is_active)
		VALUES ($1, NULLIF($2, ''), $3, $4, true)
		RETURNING id`,
		s.Name, s.Description, s.Duration, s.Price,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("error inserting service: %w", err)
	}
	s.IsActive = true
	return nil
}

func (r *ServiceRepository) ListActiveServices() ([]db.Service, error) {
	return r.listServices(`
		SELECT id, name, COALESCE(description, ''), duration, price, is_active
		FROM services
		WHERE is_active = true
		ORDER BY name`)
}

func (r *ServiceRepository) ListAllServices() ([]db.Service, error) {
	return r.listServices(`
		SELECT id, name, COALESCE(description, ''), duration, price, is_active
		FROM services
		ORDER BY id DESC`)
}

func (r *ServiceRepository) listServices(query string) ([]db.Service, error) {
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("error querying services: %w", err)
	}
	defer rows.Close()

	var services []db.Service
	for rows.Next() {
		var s db.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Duration, &s.Price, &s.IsActive); err != nil {
			return nil, fmt.Errorf("error scanning service row: %w", err)
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating service rows: %w", err)
	}
	return services, nil
}

// UpdateService overwrites every mutable field and returns how many rows
// matched. Existing appointments keep their stored end times when the
// duration changes.
func (r *ServiceRepository) UpdateService(s *db.Service) (int64, error) {
	result, err := r.DB.Exec(`
		UPDATE services
		SET name = $1, description = NULLIF($2, ''), duration = $3, price = $4, is_active = $5
		WHERE id = $6`,
		s.Name, s.Description, s.Duration, s.Price, s.IsActive, s.ID)
	if err != nil {
		return 0, fmt.Errorf("error updating service: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error reading affected rows: %w", err)
	}
	return affected, nil
}

// DeactivateService soft-deletes a service and returns how many rows matched.
func (r *ServiceRepository) DeactivateService(id int) (int64, error) {
	result, err := r.DB.Exec(`UPDATE services SET is_active = false WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("error deactivating service: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error reading affected rows: %w", err)
	}
	return affected, nil
}
