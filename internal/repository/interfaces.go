package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medisched/appointment-api/internal/model"
)

// All repository interfaces in one file
type (
	// UserRepository handles identity storage
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		ListByRole(ctx context.Context, role model.Role) ([]*model.User, error)
	}

	// AvailabilityRepository handles doctor time windows
	AvailabilityRepository interface {
		Create(ctx context.Context, availability *model.Availability) error
		Get(ctx context.Context, id uuid.UUID) (*model.Availability, error)
		ListAvailable(ctx context.Context, doctorID uuid.UUID) ([]*model.Availability, error)
		// HasOverlap reports whether any *available* window of the doctor
		// intersects [start, end) with the open-interval test
		// existing.start < end AND existing.end > start.
		HasOverlap(ctx context.Context, doctorID uuid.UUID, start, end time.Time) (bool, error)
	}

	// AppointmentRepository handles bookings. Book and Cancel mutate the
	// appointment, its availability window and the event outbox in a single
	// transaction.
	AppointmentRepository interface {
		// Book inserts a scheduled appointment and flips the availability
		// flag atomically. It returns ErrSlotUnavailable or ErrDoubleBooked
		// when a racing booking got there first.
		Book(ctx context.Context, appointment *model.Appointment, patientEmail string) error
		// Cancel transitions the patient's scheduled appointment to
		// cancelled and re-opens its window. Returns ErrAppointmentMissing
		// when no matching (id, patient_id, scheduled) row exists.
		Cancel(ctx context.Context, id, patientID uuid.UUID, patientEmail string) (*model.Appointment, error)
		ListScheduledByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error)
		ListScheduledByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error)
	}

	// OutboxRepository drains appointment events to the broker
	OutboxRepository interface {
		GetPendingEventsWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
