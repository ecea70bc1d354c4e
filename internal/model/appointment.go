package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

// Appointment links a patient to a doctor's availability window at a
// concrete time. Appointments are never deleted, only status-transitioned.
type Appointment struct {
	Base
	DoctorID        uuid.UUID         `json:"doctor_id" db:"doctor_id"`
	PatientID       uuid.UUID         `json:"patient_id" db:"patient_id"`
	AvailabilityID  uuid.UUID         `json:"availability_id" db:"availability_id"`
	AppointmentTime time.Time         `json:"appointment_time" db:"appointment_time"`
	Status          AppointmentStatus `json:"status" db:"status"`
}

type BookAppointmentRequest struct {
	DoctorID        uuid.UUID `json:"doctor_id" binding:"required"`
	AvailabilityID  uuid.UUID `json:"availability_id" binding:"required"`
	AppointmentTime time.Time `json:"appointment_time" binding:"required"`
}
