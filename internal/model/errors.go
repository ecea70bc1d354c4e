package model

import "fmt"

// ErrorKind is the closed set of failure categories surfaced by the
// service layer. Handlers map kinds onto HTTP statuses; the message text is
// for humans only.
type ErrorKind string

const (
	ErrKindValidation   ErrorKind = "validation"
	ErrKindConflict     ErrorKind = "conflict"
	ErrKindNotFound     ErrorKind = "not_found"
	ErrKindUnauthorized ErrorKind = "unauthorized"
	ErrKindForbidden    ErrorKind = "forbidden"
)

// Error is the domain error carried across the service boundary.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewValidation(message string) *Error {
	return &Error{Kind: ErrKindValidation, Message: message}
}

func NewConflict(message string) *Error {
	return &Error{Kind: ErrKindConflict, Message: message}
}

func NewNotFound(resource string) *Error {
	return &Error{Kind: ErrKindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func NewUnauthorized(message string) *Error {
	return &Error{Kind: ErrKindUnauthorized, Message: message}
}

func NewForbidden(message string) *Error {
	return &Error{Kind: ErrKindForbidden, Message: message}
}

// Domain failures, one per failure case so callers can compare by identity
// as well as by kind.
var (
	ErrDuplicateEmail      = NewConflict("user with this email already exists")
	ErrInvalidRole         = NewValidation("invalid role: must be 'Doctor' or 'Patient'")
	ErrInvalidCredentials  = NewUnauthorized("incorrect email or password")
	ErrInvalidToken        = NewUnauthorized("invalid or expired token")
	ErrDoctorNotFound      = NewNotFound("doctor")
	ErrAvailabilityMissing = NewNotFound("availability")
	ErrAppointmentMissing  = NewNotFound("appointment")
	ErrWindowOverlap       = NewConflict("availability overlaps with existing time slot")
	ErrInvalidWindow       = NewValidation("start time must be before end time")
	ErrPastWindow          = NewValidation("cannot set availability in the past")
	ErrSlotUnavailable     = NewConflict("this time slot is no longer available")
	ErrWrongDoctor         = NewValidation("availability does not belong to this doctor")
	ErrOutOfWindow         = NewValidation("appointment time must be within availability window")
	ErrDoubleBooked        = NewConflict("this time slot is already booked")
)
