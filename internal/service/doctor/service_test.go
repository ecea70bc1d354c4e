package doctor

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medisched/appointment-api/internal/model"
)

type fakeAvailabilityRepo struct {
	windows []*model.Availability
}

func (r *fakeAvailabilityRepo) Create(ctx context.Context, a *model.Availability) error {
	a.ID = uuid.New()
	a.IsAvailable = true
	r.windows = append(r.windows, a)
	return nil
}

func (r *fakeAvailabilityRepo) Get(ctx context.Context, id uuid.UUID) (*model.Availability, error) {
	for _, w := range r.windows {
		if w.ID == id {
			return w, nil
		}
	}
	return nil, nil
}

func (r *fakeAvailabilityRepo) ListAvailable(ctx context.Context, doctorID uuid.UUID) ([]*model.Availability, error) {
	var out []*model.Availability
	for _, w := range r.windows {
		if w.DoctorID == doctorID && w.IsAvailable {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *fakeAvailabilityRepo) HasOverlap(ctx context.Context, doctorID uuid.UUID, start, end time.Time) (bool, error) {
	for _, w := range r.windows {
		if w.DoctorID == doctorID && w.IsAvailable && w.StartTime.Before(end) && w.EndTime.After(start) {
			return true, nil
		}
	}
	return false, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	user.ID = uuid.New()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) ListByRole(ctx context.Context, role model.Role) ([]*model.User, error) {
	var out []*model.User
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeAppointmentRepo struct {
	appointments []*model.Appointment
}

func (r *fakeAppointmentRepo) Book(ctx context.Context, a *model.Appointment, patientEmail string) error {
	a.ID = uuid.New()
	a.Status = model.AppointmentStatusScheduled
	r.appointments = append(r.appointments, a)
	return nil
}

func (r *fakeAppointmentRepo) Cancel(ctx context.Context, id, patientID uuid.UUID, patientEmail string) (*model.Appointment, error) {
	return nil, model.ErrAppointmentMissing
}

func (r *fakeAppointmentRepo) ListScheduledByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, a := range r.appointments {
		if a.DoctorID == doctorID && a.Status == model.AppointmentStatusScheduled {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) ListScheduledByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error) {
	return nil, nil
}

func newTestService() (*Service, *fakeAvailabilityRepo, *fakeUserRepo) {
	availRepo := &fakeAvailabilityRepo{}
	userRepo := &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
	return NewService(availRepo, &fakeAppointmentRepo{}, userRepo), availRepo, userRepo
}

func TestSetAvailability(t *testing.T) {
	svc, _, _ := newTestService()
	doctorID := uuid.New()

	start := time.Now().Add(24 * time.Hour)
	a, err := svc.SetAvailability(context.Background(), doctorID, &model.CreateAvailabilityRequest{
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.True(t, a.IsAvailable)
	assert.Equal(t, doctorID, a.DoctorID)
}

func TestSetAvailabilityOverlap(t *testing.T) {
	svc, _, _ := newTestService()
	doctorID := uuid.New()
	ctx := context.Background()

	start := time.Now().Add(24 * time.Hour)
	_, err := svc.SetAvailability(ctx, doctorID, &model.CreateAvailabilityRequest{
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	require.NoError(t, err)

	_, err = svc.SetAvailability(ctx, doctorID, &model.CreateAvailabilityRequest{
		StartTime: start.Add(30 * time.Minute),
		EndTime:   start.Add(90 * time.Minute),
	})
	assert.ErrorIs(t, err, model.ErrWindowOverlap)

	// Same window for a different doctor is fine
	_, err = svc.SetAvailability(ctx, uuid.New(), &model.CreateAvailabilityRequest{
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	assert.NoError(t, err)
}

func TestSetAvailabilityAdjacentWindows(t *testing.T) {
	svc, _, _ := newTestService()
	doctorID := uuid.New()
	ctx := context.Background()

	start := time.Now().Add(24 * time.Hour)
	_, err := svc.SetAvailability(ctx, doctorID, &model.CreateAvailabilityRequest{
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	require.NoError(t, err)

	// end == next start does not overlap
	_, err = svc.SetAvailability(ctx, doctorID, &model.CreateAvailabilityRequest{
		StartTime: start.Add(time.Hour),
		EndTime:   start.Add(2 * time.Hour),
	})
	assert.NoError(t, err)
}

func TestSetAvailabilityInvalidWindow(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	start := time.Now().Add(24 * time.Hour)

	_, err := svc.SetAvailability(ctx, uuid.New(), &model.CreateAvailabilityRequest{
		StartTime: start.Add(time.Hour),
		EndTime:   start,
	})
	assert.ErrorIs(t, err, model.ErrInvalidWindow)

	// Zero-length window is invalid too
	_, err = svc.SetAvailability(ctx, uuid.New(), &model.CreateAvailabilityRequest{
		StartTime: start,
		EndTime:   start,
	})
	assert.ErrorIs(t, err, model.ErrInvalidWindow)
}

func TestSetAvailabilityPastWindow(t *testing.T) {
	svc, _, _ := newTestService()

	start := time.Now().Add(-time.Hour)
	_, err := svc.SetAvailability(context.Background(), uuid.New(), &model.CreateAvailabilityRequest{
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
	})
	assert.ErrorIs(t, err, model.ErrPastWindow)
}

func TestListAvailability(t *testing.T) {
	svc, _, userRepo := newTestService()
	ctx := context.Background()

	doctor := &model.User{Email: "doc@example.com", Role: model.RoleDoctor}
	require.NoError(t, userRepo.Create(ctx, doctor))

	start := time.Now().Add(24 * time.Hour)
	_, err := svc.SetAvailability(ctx, doctor.ID, &model.CreateAvailabilityRequest{
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	require.NoError(t, err)

	windows, err := svc.ListAvailability(ctx, doctor.ID)
	require.NoError(t, err)
	assert.Len(t, windows, 1)
}

func TestListAvailabilityUnknownDoctor(t *testing.T) {
	svc, _, userRepo := newTestService()
	ctx := context.Background()

	_, err := svc.ListAvailability(ctx, uuid.New())
	assert.ErrorIs(t, err, model.ErrDoctorNotFound)

	// A patient id does not resolve to a doctor either
	patient := &model.User{Email: "pat@example.com", Role: model.RolePatient}
	require.NoError(t, userRepo.Create(ctx, patient))

	_, err = svc.ListAvailability(ctx, patient.ID)
	assert.ErrorIs(t, err, model.ErrDoctorNotFound)
}
