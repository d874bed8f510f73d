package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	common_models "go-medidiagnose/internal/common/models"
	"go-medidiagnose/internal/features/audit"
	"go-medidiagnose/internal/features/user"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrInvalidWindow     = errors.New("appointment end must be after start")
	ErrPastWindow        = errors.New("appointment must be in the future")
	ErrSlotTaken         = errors.New("the doctor already has an appointment in that slot")
	ErrDoctorNotFound    = errors.New("doctor not found")
	ErrNotFound          = errors.New("appointment not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Notifier decouples the booking flow from the notification feature.
type Notifier interface {
	Notify(ctx context.Context, userID primitive.ObjectID, kind, title, body string) error
}

type BookInput struct {
	PatientID   string
	PatientName string
	DoctorID    string
	Service     string
	StartTime   time.Time
	EndTime     time.Time
	Notes       string
}

type AppointmentService interface {
	Book(ctx context.Context, in BookInput) (*Appointment, error)
	ListForPatient(ctx context.Context, patientID string) ([]Appointment, error)
	List(ctx context.Context, status, doctorID string, page, limit int64) ([]Appointment, int64, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}

type AppointmentServiceImpl struct {
	Repo         AppointmentRepository
	UserRepo     user.UserRepository
	Notifier     Notifier
	AuditService audit.AuditService
}

func NewAppointmentService(
	repo AppointmentRepository,
	userRepo user.UserRepository,
	notifier Notifier,
	auditService audit.AuditService,
) AppointmentService {
	return &AppointmentServiceImpl{
		Repo:         repo,
		UserRepo:     userRepo,
		Notifier:     notifier,
		AuditService: auditService,
	}
}

func (s *AppointmentServiceImpl) Book(ctx context.Context, in BookInput) (*Appointment, error) {
	if !in.EndTime.After(in.StartTime) {
		return nil, ErrInvalidWindow
	}
	if in.StartTime.Before(time.Now()) {
		return nil, ErrPastWindow
	}

	patient, err := s.UserRepo.FindByID(ctx, in.PatientID)
	if err != nil {
		return nil, errors.New("invalid patient id")
	}
	if in.PatientName == "" {
		in.PatientName = patient.FullName
	}

	doctor, err := s.UserRepo.FindByID(ctx, in.DoctorID)
	if err != nil || !doctor.IsStaff {
		return nil, ErrDoctorNotFound
	}

	// Read-then-write without a transaction: two concurrent bookings can
	// both pass this check. Acceptable at clinic load.
	overlapping, err := s.Repo.FindOverlapping(ctx, doctor.ID, in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}
	if len(overlapping) > 0 {
		return nil, ErrSlotTaken
	}

	appt := &Appointment{
		ID:          primitive.NewObjectID(),
		PatientID:   patient.ID,
		DoctorID:    doctor.ID,
		PatientName: in.PatientName,
		Service:     in.Service,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		Status:      StatusPending,
		Notes:       in.Notes,
		CreatedAt:   time.Now(),
	}

	if err := s.Repo.Create(ctx, appt); err != nil {
		return nil, err
	}

	_ = s.Notifier.Notify(ctx, doctor.ID, "appointment",
		"New appointment request",
		fmt.Sprintf("%s requested %s on %s", in.PatientName, in.Service, in.StartTime.Format("Jan 2 15:04")),
	)

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "appointments", appt.ID.Hex(), map[string]common_models.Change{
		"doctor_id": {New: doctor.ID.Hex()},
		"start":     {New: in.StartTime},
	})

	return appt, nil
}

func (s *AppointmentServiceImpl) ListForPatient(ctx context.Context, patientID string) ([]Appointment, error) {
	oid, err := primitive.ObjectIDFromHex(patientID)
	if err != nil {
		return nil, errors.New("invalid patient id")
	}

	appts, err := s.Repo.ListByPatient(ctx, oid)
	if err != nil {
		return nil, err
	}
	if appts == nil {
		appts = []Appointment{}
	}
	return appts, nil
}

func (s *AppointmentServiceImpl) List(ctx context.Context, status, doctorID string, page, limit int64) ([]Appointment, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	filter := bson.M{}
	if status != "" {
		filter["status"] = Status(status)
	}
	if doctorID != "" {
		oid, err := primitive.ObjectIDFromHex(doctorID)
		if err != nil {
			return nil, 0, errors.New("invalid doctor id")
		}
		filter["doctor_id"] = oid
	}

	appts, total, err := s.Repo.List(ctx, filter, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	if appts == nil {
		appts = []Appointment{}
	}
	return appts, total, nil
}

func (s *AppointmentServiceImpl) UpdateStatus(ctx context.Context, id string, status Status) error {
	appt, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}

	if !CanTransition(appt.Status, status) {
		return ErrInvalidTransition
	}

	if err := s.Repo.UpdateStatus(ctx, appt.ID, status); err != nil {
		return err
	}

	_ = s.Notifier.Notify(ctx, appt.PatientID, "appointment",
		"Appointment "+string(status),
		fmt.Sprintf("Your %s appointment on %s is now %s", appt.Service, appt.StartTime.Format("Jan 2 15:04"), status),
	)

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "appointments", id, map[string]common_models.Change{
		"status": {Old: appt.Status, New: status},
	})

	return nil
}
