package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/medisched/appointment-api/internal/model"
)

// Book runs the whole booking write path in one transaction. The
// availability row is locked first so two racing bookings serialize on it;
// the partial unique index on (availability_id) for scheduled appointments
// is the backstop if the flag and the conflict check ever disagree.
func (r *appointmentRepository) Book(ctx context.Context, appointment *model.Appointment, patientEmail string) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		var availability model.Availability
		err := tx.GetContext(ctx, &availability, `
			SELECT id, doctor_id, start_time, end_time, is_available,
				   created_at, updated_at
			FROM availabilities
			WHERE id = $1
			FOR UPDATE
		`, appointment.AvailabilityID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return model.ErrAvailabilityMissing
			}
			return fmt.Errorf("failed to lock availability: %w", err)
		}

		if !availability.IsAvailable {
			return model.ErrSlotUnavailable
		}

		var booked bool
		err = tx.GetContext(ctx, &booked, `
			SELECT EXISTS (
				SELECT 1 FROM appointments
				WHERE doctor_id = $1
				AND availability_id = $2
				AND status = $3
			)
		`, appointment.DoctorID, appointment.AvailabilityID, model.AppointmentStatusScheduled)
		if err != nil {
			return fmt.Errorf("failed to check conflicts: %w", err)
		}
		if booked {
			return model.ErrDoubleBooked
		}

		appointment.ID = uuid.New()
		appointment.Status = model.AppointmentStatusScheduled
		appointment.CreatedAt = time.Now()
		appointment.UpdatedAt = time.Now()

		_, err = tx.ExecContext(ctx, `
			INSERT INTO appointments (
				id, doctor_id, patient_id, availability_id,
				appointment_time, status, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`,
			appointment.ID,
			appointment.DoctorID,
			appointment.PatientID,
			appointment.AvailabilityID,
			appointment.AppointmentTime,
			appointment.Status,
			appointment.CreatedAt,
			appointment.UpdatedAt,
		)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "23505" {
				return model.ErrDoubleBooked
			}
			return fmt.Errorf("failed to create appointment: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE availabilities
			SET is_available = FALSE, updated_at = $2
			WHERE id = $1
		`, appointment.AvailabilityID, time.Now())
		if err != nil {
			return fmt.Errorf("failed to mark availability unavailable: %w", err)
		}

		return insertOutboxEvent(ctx, tx, model.EventAppointmentBooked, appointment, patientEmail)
	})
}

func (r *appointmentRepository) Cancel(ctx context.Context, id, patientID uuid.UUID, patientEmail string) (*model.Appointment, error) {
	var appointment model.Appointment
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &appointment, `
			UPDATE appointments
			SET status = $3, updated_at = $4
			WHERE id = $1
			AND patient_id = $2
			AND status = $5
			RETURNING id, doctor_id, patient_id, availability_id,
					  appointment_time, status, created_at, updated_at
		`, id, patientID, model.AppointmentStatusCancelled, time.Now(), model.AppointmentStatusScheduled)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return model.ErrAppointmentMissing
			}
			return fmt.Errorf("failed to cancel appointment: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE availabilities
			SET is_available = TRUE, updated_at = $2
			WHERE id = $1
		`, appointment.AvailabilityID, time.Now())
		if err != nil {
			return fmt.Errorf("failed to reopen availability: %w", err)
		}

		return insertOutboxEvent(ctx, tx, model.EventAppointmentCancelled, &appointment, patientEmail)
	})
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) ListScheduledByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error) {
	return r.listScheduled(ctx, "doctor_id", doctorID)
}

func (r *appointmentRepository) ListScheduledByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error) {
	return r.listScheduled(ctx, "patient_id", patientID)
}

func (r *appointmentRepository) listScheduled(ctx context.Context, column string, id uuid.UUID) ([]*model.Appointment, error) {
	query := fmt.Sprintf(`
		SELECT id, doctor_id, patient_id, availability_id,
			   appointment_time, status, created_at, updated_at
		FROM appointments
		WHERE %s = $1
		AND status = $2
		ORDER BY appointment_time ASC
	`, column)

	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, id, model.AppointmentStatusScheduled)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func insertOutboxEvent(ctx context.Context, tx *sqlx.Tx, eventType string, appointment *model.Appointment, patientEmail string) error {
	payload, err := json.Marshal(model.AppointmentEvent{
		AppointmentID:   appointment.ID,
		DoctorID:        appointment.DoctorID,
		PatientID:       appointment.PatientID,
		PatientEmail:    patientEmail,
		AppointmentTime: appointment.AppointmentTime,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO outbox_events (
			id, event_type, payload, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.New(), eventType, payload, model.OutboxStatusPending, time.Now(), time.Now())
	if err != nil {
		return fmt.Errorf("failed to create outbox event: %w", err)
	}
	return nil
}
