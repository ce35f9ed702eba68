package service

import (
	"log"

	"turnero/internal/apperr"
	"turnero/internal/db"
	"turnero/internal/repository"
)

// CatalogService manages the bookable services. Deactivation never touches
// existing appointments: their end times were fixed at booking time.
type CatalogService struct {
	Repo *repository.ServiceRepository
}

func NewCatalogService(repo *repository.ServiceRepository) *CatalogService {
	return &CatalogService{Repo: repo}
}

func (s *CatalogService) CreateService(name, description string, duration, price int) (*db.Service, error) {
	if name == "" || duration <= 0 || price <= 0 {
		return nil, apperr.New(apperr.InvalidRequest, "name, duration and price are required")
	}
	svc := &db.Service{
		Name:        name,
		Description: description,
		Duration:    duration,
		Price:       price,
	}
	if err := s.Repo.CreateService(svc); err != nil {
		log.Printf("Error creating service: %v", err)
		return nil, err
	}
	return svc, nil
}

func (s *CatalogService) ListActiveServices() ([]db.Service, error) {
	return s.Repo.ListActiveServices()
}

func (s *CatalogService) ListAllServices() ([]db.Service, error) {
	return s.Repo.ListAllServices()
}

func (s *CatalogService) UpdateService(svc *db.Service) error {
	if svc.Name == "" || svc.Duration <= 0 || svc.Price <= 0 {
		return apperr.New(apperr.InvalidRequest, "name, duration and price are required")
	}
	affected, err := s.Repo.UpdateService(svc)
	if err != nil {
		log.Printf("Error updating service %d: %v", svc.ID, err)
		return err
	}
	if affected == 0 {
		return apperr.New(apperr.NotFound, "service not found")
	}
	return nil
}

func (s *CatalogService) DeactivateService(id int) error {
	affected, err := s.Repo.DeactivateService(id)
	if err != nil {
		log.Printf("Error deactivating service %d: %v", id, err)
		return err
	}
	if affected == 0 {
		return apperr.New(apperr.NotFound, "service not found")
	}
	return nil
}
