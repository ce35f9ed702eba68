package apperr

import "errors"

// Kind classifies an error so callers can branch on it instead of matching
// message text.
type Kind int

const (
	Internal Kind = iota
	InvalidRequest
	ServiceNotFound
	DateBlocked
	OutsideBusinessHours
	SlotTaken
	NotFound
	AlreadyCancelled
	AlreadyCompleted
	PastAppointment
	InvalidStatus
	AlreadyExists
	Unauthorized
)

// Error carries a kind plus a user-facing message. The wrapped cause, when
// present, is for logs only.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind of err. Unclassified errors are Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// MessageOf returns the user-facing message of err, or a generic one for
// unclassified errors so internals never leak to clients.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}
