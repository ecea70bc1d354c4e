package model

import (
	"time"

	"github.com/google/uuid"
)

// Availability is a doctor-declared time window open for booking. The
// is_available flag is consumed by a booking and restored on cancellation.
type Availability struct {
	Base
	DoctorID    uuid.UUID `json:"doctor_id" db:"doctor_id"`
	StartTime   time.Time `json:"start_time" db:"start_time"`
	EndTime     time.Time `json:"end_time" db:"end_time"`
	IsAvailable bool      `json:"is_available" db:"is_available"`
}

type CreateAvailabilityRequest struct {
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}
