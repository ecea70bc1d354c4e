package doctor

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medisched/appointment-api/internal/model"
	"github.com/medisched/appointment-api/internal/repository"
)

type Service struct {
	availabilityRepo repository.AvailabilityRepository
	appointmentRepo  repository.AppointmentRepository
	userRepo         repository.UserRepository
}

func NewService(availabilityRepo repository.AvailabilityRepository,
	appointmentRepo repository.AppointmentRepository,
	userRepo repository.UserRepository) *Service {
	return &Service{
		availabilityRepo: availabilityRepo,
		appointmentRepo:  appointmentRepo,
		userRepo:         userRepo,
	}
}

// SetAvailability opens a new bookable window for the doctor. The overlap
// check only considers windows still flagged available; a window consumed by
// a booking does not block a new one, so a cancelled-and-reopened window may
// end up coinciding with an active one.
func (s *Service) SetAvailability(ctx context.Context, doctorID uuid.UUID, req *model.CreateAvailabilityRequest) (*model.Availability, error) {
	hasOverlap, err := s.availabilityRepo.HasOverlap(ctx, doctorID, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	if hasOverlap {
		return nil, model.ErrWindowOverlap
	}

	if !req.StartTime.Before(req.EndTime) {
		return nil, model.ErrInvalidWindow
	}

	if req.StartTime.Before(time.Now()) {
		return nil, model.ErrPastWindow
	}

	availability := &model.Availability{
		DoctorID:  doctorID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if err := s.availabilityRepo.Create(ctx, availability); err != nil {
		return nil, err
	}
	return availability, nil
}

// ListAvailability returns the doctor's open windows. 404s when the id does
// not resolve to a doctor.
func (s *Service) ListAvailability(ctx context.Context, doctorID uuid.UUID) ([]*model.Availability, error) {
	doctor, err := s.userRepo.Get(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil || doctor.Role != model.RoleDoctor {
		return nil, model.ErrDoctorNotFound
	}

	return s.availabilityRepo.ListAvailable(ctx, doctorID)
}

// UpcomingAppointments lists the doctor's scheduled appointments ordered by
// appointment time.
func (s *Service) UpcomingAppointments(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error) {
	return s.appointmentRepo.ListScheduledByDoctor(ctx, doctorID)
}
