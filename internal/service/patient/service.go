package patient

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/medisched/appointment-api/internal/model"
	"github.com/medisched/appointment-api/internal/repository"
)

const (
	doctorListCacheKey = "doctors"
	doctorListCacheTTL = 30 * time.Second
)

type Service struct {
	userRepo         repository.UserRepository
	availabilityRepo repository.AvailabilityRepository
	appointmentRepo  repository.AppointmentRepository
	cache            *cache.Cache
}

func NewService(userRepo repository.UserRepository,
	availabilityRepo repository.AvailabilityRepository,
	appointmentRepo repository.AppointmentRepository) *Service {
	return &Service{
		userRepo:         userRepo,
		availabilityRepo: availabilityRepo,
		appointmentRepo:  appointmentRepo,
		cache:            cache.New(doctorListCacheTTL, 2*doctorListCacheTTL),
	}
}

// ListDoctors returns the doctor directory, served through a short TTL cache.
func (s *Service) ListDoctors(ctx context.Context) ([]*model.User, error) {
	if cached, ok := s.cache.Get(doctorListCacheKey); ok {
		return cached.([]*model.User), nil
	}

	doctors, err := s.userRepo.ListByRole(ctx, model.RoleDoctor)
	if err != nil {
		return nil, err
	}

	s.cache.SetDefault(doctorListCacheKey, doctors)
	return doctors, nil
}

// InvalidateDoctorCache drops the cached directory, called when a doctor
// registers.
func (s *Service) InvalidateDoctorCache() {
	s.cache.Delete(doctorListCacheKey)
}

func (s *Service) GetDoctorAvailability(ctx context.Context, doctorID uuid.UUID) ([]*model.Availability, error) {
	doctor, err := s.userRepo.Get(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil || doctor.Role != model.RoleDoctor {
		return nil, model.ErrDoctorNotFound
	}

	return s.availabilityRepo.ListAvailable(ctx, doctorID)
}

// BookAppointment validates the booking request and hands the write to the
// repository, which runs the conflict check, the insert and the flag flip in
// one transaction. Validation order matches the checks' severity: doctor,
// window existence, flag, ownership, containment, conflict.
func (s *Service) BookAppointment(ctx context.Context, patientID uuid.UUID, req *model.BookAppointmentRequest) (*model.Appointment, error) {
	doctor, err := s.userRepo.Get(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil || doctor.Role != model.RoleDoctor {
		return nil, model.ErrDoctorNotFound
	}

	availability, err := s.availabilityRepo.Get(ctx, req.AvailabilityID)
	if err != nil {
		return nil, err
	}
	if availability == nil {
		return nil, model.ErrAvailabilityMissing
	}

	if !availability.IsAvailable {
		return nil, model.ErrSlotUnavailable
	}

	if availability.DoctorID != req.DoctorID {
		return nil, model.ErrWrongDoctor
	}

	// Containment is inclusive on both ends.
	if req.AppointmentTime.Before(availability.StartTime) || req.AppointmentTime.After(availability.EndTime) {
		return nil, model.ErrOutOfWindow
	}

	patient, err := s.userRepo.Get(ctx, patientID)
	if err != nil {
		return nil, err
	}
	var patientEmail string
	if patient != nil {
		patientEmail = patient.Email
	}

	appointment := &model.Appointment{
		DoctorID:        req.DoctorID,
		PatientID:       patientID,
		AvailabilityID:  req.AvailabilityID,
		AppointmentTime: req.AppointmentTime,
	}
	if err := s.appointmentRepo.Book(ctx, appointment, patientEmail); err != nil {
		return nil, err
	}
	return appointment, nil
}

// CancelAppointment cancels the caller's own scheduled appointment and
// reopens its window. A missing appointment and one owned by another patient
// are indistinguishable.
func (s *Service) CancelAppointment(ctx context.Context, appointmentID, patientID uuid.UUID) (*model.Appointment, error) {
	patient, err := s.userRepo.Get(ctx, patientID)
	if err != nil {
		return nil, err
	}
	var patientEmail string
	if patient != nil {
		patientEmail = patient.Email
	}

	return s.appointmentRepo.Cancel(ctx, appointmentID, patientID, patientEmail)
}

// MyAppointments lists the caller's scheduled appointments, doctor or
// patient side depending on role.
func (s *Service) MyAppointments(ctx context.Context, userID uuid.UUID, role model.Role) ([]*model.Appointment, error) {
	if role == model.RoleDoctor {
		return s.appointmentRepo.ListScheduledByDoctor(ctx, userID)
	}
	return s.appointmentRepo.ListScheduledByPatient(ctx, userID)
}
