package db

import "time"

// Appointment statuses. The set is closed; admin overrides may move an
// appointment between any two of them.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
	StatusCompleted = "COMPLETED"
)

// User roles.
const (
	RoleClient = "CLIENT"
	RoleAdmin  = "ADMIN"
)

// ValidStatus reports whether s is one of the four appointment statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

type User struct {
	ID           int
	Name         string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

type Service struct {
	ID          int
	Name        string
	Description string
	Duration    int // minutes
	Price       int
	IsActive    bool
}

// BusinessHours is the open/close window for one weekday (0=Sunday).
// The store is append-like: inserting a new row for a weekday deactivates
// prior rows, and at most one active row per weekday is ever observed.
type BusinessHours struct {
	ID        int
	DayOfWeek int
	OpenTime  string // "HH:MM"
	CloseTime string // "HH:MM"
	IsActive  bool
}

type BlockedDay struct {
	ID     int
	Date   string // "YYYY-MM-DD"
	Reason string
}

type Appointment struct {
	ID        int
	UserID    int
	ServiceID int
	Date      string // "YYYY-MM-DD"
	StartTime string // "HH:MM"
	EndTime   string // "HH:MM", fixed at booking time from the service duration
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined names for listings; empty elsewhere.
	ServiceName string
	ClientName  string
}
