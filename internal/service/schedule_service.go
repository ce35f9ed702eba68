package service

import (
	"log"

	"turnero/internal/apperr"
	"turnero/internal/db"
	"turnero/internal/repository"
	"turnero/internal/schedule"
)

// ScheduleService manages the calendar rules: per-weekday business hours and
// blocked days.
type ScheduleService struct {
	Repo *repository.ScheduleRepository
}

func NewScheduleService(repo *repository.ScheduleRepository) *ScheduleService {
	return &ScheduleService{Repo: repo}
}

// SetBusinessHours replaces the active window for a weekday. Open must be
// strictly before close.
func (s *ScheduleService) SetBusinessHours(weekday int, openTime, closeTime string) error {
	if weekday < 0 || weekday > 6 {
		return apperr.New(apperr.InvalidRequest, "weekday must be between 0 (Sunday) and 6 (Saturday)")
	}
	open, err := schedule.ParseClock(openTime)
	if err != nil {
		return apperr.New(apperr.InvalidRequest, "invalid open time, expected HH:MM")
	}
	close, err := schedule.ParseClock(closeTime)
	if err != nil {
		return apperr.New(apperr.InvalidRequest, "invalid close time, expected HH:MM")
	}
	if open >= close {
		return apperr.New(apperr.InvalidRequest, "open time must be before close time")
	}
	if err := s.Repo.SetBusinessHours(weekday, schedule.FormatClock(open), schedule.FormatClock(close)); err != nil {
		log.Printf("Error saving business hours for weekday %d: %v", weekday, err)
		return err
	}
	return nil
}

func (s *ScheduleService) ListBusinessHours() ([]db.BusinessHours, error) {
	return s.Repo.ListActiveBusinessHours()
}

func (s *ScheduleService) BlockDay(date, reason string) error {
	if date == "" {
		return apperr.New(apperr.InvalidRequest, "date is required")
	}
	if _, err := schedule.ParseDate(date); err != nil {
		return apperr.New(apperr.InvalidRequest, "invalid date, expected YYYY-MM-DD")
	}
	if err := s.Repo.CreateBlockedDay(date, reason); err != nil {
		if apperr.KindOf(err) != apperr.AlreadyExists {
			log.Printf("Error blocking day %s: %v", date, err)
		}
		return err
	}
	return nil
}

func (s *ScheduleService) ListBlockedDays() ([]db.BlockedDay, error) {
	return s.Repo.ListBlockedDays()
}

func (s *ScheduleService) UnblockDay(id int) error {
	affected, err := s.Repo.DeleteBlockedDay(id)
	if err != nil {
		log.Printf("Error unblocking day %d: %v", id, err)
		return err
	}
	if affected == 0 {
		return apperr.New(apperr.NotFound, "blocked day not found")
	}
	return nil
}
