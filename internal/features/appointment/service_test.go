package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	common_models "go-medidiagnose/internal/common/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeApptRepo struct {
	appts   map[string]*Appointment
	created []*Appointment
}

func newFakeApptRepo() *fakeApptRepo {
	return &fakeApptRepo{appts: map[string]*Appointment{}}
}

func (r *fakeApptRepo) Create(ctx context.Context, appt *Appointment) error {
	r.created = append(r.created, appt)
	r.appts[appt.ID.Hex()] = appt
	return nil
}

func (r *fakeApptRepo) FindByID(ctx context.Context, id string) (*Appointment, error) {
	if a, ok := r.appts[id]; ok {
		return a, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeApptRepo) FindOverlapping(ctx context.Context, doctorID primitive.ObjectID, start, end time.Time) ([]Appointment, error) {
	var out []Appointment
	for _, a := range r.appts {
		if a.DoctorID != doctorID {
			continue
		}
		if a.Status != StatusPending && a.Status != StatusConfirmed {
			continue
		}
		if a.StartTime.Before(end) && a.EndTime.After(start) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeApptRepo) ListByPatient(ctx context.Context, patientID primitive.ObjectID) ([]Appointment, error) {
	var out []Appointment
	for _, a := range r.appts {
		if a.PatientID == patientID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeApptRepo) List(ctx context.Context, filter bson.M, limit, offset int64) ([]Appointment, int64, error) {
	var out []Appointment
	for _, a := range r.appts {
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

func (r *fakeApptRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status Status) error {
	if a, ok := r.appts[id.Hex()]; ok {
		a.Status = status
		return nil
	}
	return mongo.ErrNoDocuments
}

func (r *fakeApptRepo) CountAll(ctx context.Context) (int64, error) {
	return int64(len(r.appts)), nil
}

func (r *fakeApptRepo) CountInWindow(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	for _, a := range r.appts {
		if !a.StartTime.Before(from) && a.StartTime.Before(to) {
			n++
		}
	}
	return n, nil
}

func (r *fakeApptRepo) EnsureIndexes(ctx context.Context) error { return nil }

type fakeUserRepo struct {
	users map[string]*common_models.User
}

func (r *fakeUserRepo) Create(ctx context.Context, user *common_models.User) error { return nil }

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*common_models.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*common_models.User, error) {
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) FindByIDs(ctx context.Context, ids []string) ([]common_models.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) List(ctx context.Context, filter bson.M, limit, offset int64) ([]common_models.User, int64, error) {
	return nil, 0, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id primitive.ObjectID) error { return nil }

func (r *fakeUserRepo) Count(ctx context.Context, filter bson.M) (int64, error) { return 0, nil }

func (r *fakeUserRepo) EnsureIndexes(ctx context.Context) error { return nil }

type fakeNotifier struct {
	sent []primitive.ObjectID
}

func (n *fakeNotifier) Notify(ctx context.Context, userID primitive.ObjectID, kind, title, body string) error {
	n.sent = append(n.sent, userID)
	return nil
}

type fakeAuditService struct{}

func (a *fakeAuditService) LogChange(ctx context.Context, action common_models.AuditAction, entity string, recordID string, changes map[string]common_models.Change) error {
	return nil
}

func (a *fakeAuditService) ListLogs(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]common_models.AuditLog, error) {
	return nil, nil
}

func testService() (*AppointmentServiceImpl, *fakeApptRepo, *fakeNotifier, *common_models.User, *common_models.User) {
	patient := &common_models.User{ID: primitive.NewObjectID(), Email: "pat@example.com", FullName: "Pat Example"}
	doctor := &common_models.User{ID: primitive.NewObjectID(), Email: "doc@example.com", FullName: "Dr Example", IsStaff: true}

	repo := newFakeApptRepo()
	notifier := &fakeNotifier{}
	svc := &AppointmentServiceImpl{
		Repo: repo,
		UserRepo: &fakeUserRepo{users: map[string]*common_models.User{
			patient.ID.Hex(): patient,
			doctor.ID.Hex():  doctor,
		}},
		Notifier:     notifier,
		AuditService: &fakeAuditService{},
	}
	return svc, repo, notifier, patient, doctor
}

func bookInput(patient, doctor *common_models.User, start time.Time) BookInput {
	return BookInput{
		PatientID: patient.ID.Hex(),
		DoctorID:  doctor.ID.Hex(),
		Service:   "MRI review",
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
	}
}

func TestBookAppointment(t *testing.T) {
	svc, repo, notifier, patient, doctor := testService()
	start := time.Now().Add(24 * time.Hour)

	appt, err := svc.Book(context.Background(), bookInput(patient, doctor, start))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if appt.Status != StatusPending {
		t.Errorf("Status = %q, want pending", appt.Status)
	}
	if appt.PatientName != patient.FullName {
		t.Errorf("PatientName = %q, want %q", appt.PatientName, patient.FullName)
	}
	if len(repo.created) != 1 {
		t.Errorf("created = %d, want 1", len(repo.created))
	}
	if len(notifier.sent) != 1 || notifier.sent[0] != doctor.ID {
		t.Errorf("notified = %v, want the doctor", notifier.sent)
	}
}

func TestBookRejectsOverlap(t *testing.T) {
	svc, _, _, patient, doctor := testService()
	start := time.Now().Add(24 * time.Hour)

	if _, err := svc.Book(context.Background(), bookInput(patient, doctor, start)); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	// Second request starts halfway through the first.
	_, err := svc.Book(context.Background(), bookInput(patient, doctor, start.Add(15*time.Minute)))
	if !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("err = %v, want ErrSlotTaken", err)
	}

	// Back to back is fine.
	if _, err := svc.Book(context.Background(), bookInput(patient, doctor, start.Add(30*time.Minute))); err != nil {
		t.Errorf("adjacent booking: %v", err)
	}
}

func TestBookWindowValidation(t *testing.T) {
	svc, _, _, patient, doctor := testService()

	in := bookInput(patient, doctor, time.Now().Add(24*time.Hour))
	in.EndTime = in.StartTime
	if _, err := svc.Book(context.Background(), in); !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("zero-length window err = %v, want ErrInvalidWindow", err)
	}

	past := bookInput(patient, doctor, time.Now().Add(-time.Hour))
	if _, err := svc.Book(context.Background(), past); !errors.Is(err, ErrPastWindow) {
		t.Errorf("past window err = %v, want ErrPastWindow", err)
	}
}

func TestBookRequiresStaffDoctor(t *testing.T) {
	svc, _, _, patient, _ := testService()

	in := bookInput(patient, patient, time.Now().Add(24*time.Hour))
	if _, err := svc.Book(context.Background(), in); !errors.Is(err, ErrDoctorNotFound) {
		t.Errorf("err = %v, want ErrDoctorNotFound", err)
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCompleted, StatusPending, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	svc, repo, notifier, patient, doctor := testService()
	start := time.Now().Add(24 * time.Hour)

	appt, err := svc.Book(context.Background(), bookInput(patient, doctor, start))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	if err := svc.UpdateStatus(context.Background(), appt.ID.Hex(), StatusConfirmed); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if repo.appts[appt.ID.Hex()].Status != StatusConfirmed {
		t.Error("status not persisted")
	}
	// Booking notified the doctor, confirmation notifies the patient.
	if len(notifier.sent) != 2 || notifier.sent[1] != patient.ID {
		t.Errorf("notified = %v", notifier.sent)
	}

	if err := svc.UpdateStatus(context.Background(), appt.ID.Hex(), StatusPending); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("confirmed->pending err = %v, want ErrInvalidTransition", err)
	}

	if err := svc.UpdateStatus(context.Background(), primitive.NewObjectID().Hex(), StatusConfirmed); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id err = %v, want ErrNotFound", err)
	}
}
