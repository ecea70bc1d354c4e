package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medisched/appointment-api/internal/model"
)

func (r *availabilityRepository) Create(ctx context.Context, availability *model.Availability) error {
	query := `
		INSERT INTO availabilities (
			id, doctor_id, start_time, end_time, is_available,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	availability.ID = uuid.New()
	availability.IsAvailable = true
	availability.CreatedAt = time.Now()
	availability.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		availability.ID,
		availability.DoctorID,
		availability.StartTime,
		availability.EndTime,
		availability.IsAvailable,
		availability.CreatedAt,
		availability.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create availability: %w", err)
	}
	return nil
}

func (r *availabilityRepository) Get(ctx context.Context, id uuid.UUID) (*model.Availability, error) {
	query := `
		SELECT id, doctor_id, start_time, end_time, is_available,
			   created_at, updated_at
		FROM availabilities
		WHERE id = $1
	`

	var availability model.Availability
	if err := r.db.GetContext(ctx, &availability, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get availability: %w", err)
	}
	return &availability, nil
}

func (r *availabilityRepository) ListAvailable(ctx context.Context, doctorID uuid.UUID) ([]*model.Availability, error) {
	query := `
		SELECT id, doctor_id, start_time, end_time, is_available,
			   created_at, updated_at
		FROM availabilities
		WHERE doctor_id = $1
		AND is_available = TRUE
		ORDER BY start_time ASC
	`

	var availabilities []*model.Availability
	if err := r.db.SelectContext(ctx, &availabilities, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list availabilities: %w", err)
	}
	return availabilities, nil
}

// HasOverlap ignores windows already consumed by a booking: a cancelled and
// reopened window may therefore coincide with one created in the meantime.
func (r *availabilityRepository) HasOverlap(ctx context.Context, doctorID uuid.UUID, start, end time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM availabilities
			WHERE doctor_id = $1
			AND is_available = TRUE
			AND start_time < $3
			AND end_time > $2
		)
	`

	var hasOverlap bool
	if err := r.db.GetContext(ctx, &hasOverlap, query, doctorID, start, end); err != nil {
		return false, fmt.Errorf("failed to check overlap: %w", err)
	}
	return hasOverlap, nil
}
