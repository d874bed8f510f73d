package appointment

import (
	"context"
	"time"

	"go-medidiagnose/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AppointmentRepository interface {
	Create(ctx context.Context, appt *Appointment) error
	FindByID(ctx context.Context, id string) (*Appointment, error)
	FindOverlapping(ctx context.Context, doctorID primitive.ObjectID, start, end time.Time) ([]Appointment, error)
	ListByPatient(ctx context.Context, patientID primitive.ObjectID) ([]Appointment, error)
	List(ctx context.Context, filter bson.M, limit, offset int64) ([]Appointment, int64, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status Status) error
	CountAll(ctx context.Context) (int64, error)
	CountInWindow(ctx context.Context, from, to time.Time) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type AppointmentRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewAppointmentRepository(mongodb *database.MongoDB) AppointmentRepository {
	return &AppointmentRepositoryImpl{
		Collection: mongodb.DB.Collection("appointments"),
	}
}

func (r *AppointmentRepositoryImpl) Create(ctx context.Context, appt *Appointment) error {
	_, err := r.Collection.InsertOne(ctx, appt)
	return err
}

func (r *AppointmentRepositoryImpl) FindByID(ctx context.Context, id string) (*Appointment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}

	var appt Appointment
	if err := r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&appt); err != nil {
		return nil, err
	}
	return &appt, nil
}

// FindOverlapping returns pending/confirmed appointments of the doctor that
// intersect [start, end).
func (r *AppointmentRepositoryImpl) FindOverlapping(ctx context.Context, doctorID primitive.ObjectID, start, end time.Time) ([]Appointment, error) {
	filter := bson.M{
		"doctor_id":  doctorID,
		"status":     bson.M{"$in": []Status{StatusPending, StatusConfirmed}},
		"start_time": bson.M{"$lt": end},
		"end_time":   bson.M{"$gt": start},
	}

	cursor, err := r.Collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var appts []Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *AppointmentRepositoryImpl) ListByPatient(ctx context.Context, patientID primitive.ObjectID) ([]Appointment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: -1}})

	cursor, err := r.Collection.Find(ctx, bson.M{"patient_id": patientID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var appts []Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *AppointmentRepositoryImpl) List(ctx context.Context, filter bson.M, limit, offset int64) ([]Appointment, int64, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	if offset > 0 {
		opts.SetSkip(offset)
	}

	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var appts []Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, 0, err
	}

	total, err := r.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return appts, total, nil
}

func (r *AppointmentRepositoryImpl) UpdateStatus(ctx context.Context, id primitive.ObjectID, status Status) error {
	res, err := r.Collection.UpdateByID(ctx, id, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *AppointmentRepositoryImpl) CountAll(ctx context.Context) (int64, error) {
	return r.Collection.CountDocuments(ctx, bson.M{})
}

func (r *AppointmentRepositoryImpl) CountInWindow(ctx context.Context, from, to time.Time) (int64, error) {
	return r.Collection.CountDocuments(ctx, bson.M{
		"start_time": bson.M{"$gte": from, "$lt": to},
		"status":     bson.M{"$in": []Status{StatusPending, StatusConfirmed}},
	})
}

func (r *AppointmentRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "doctor_id", Value: 1}, {Key: "start_time", Value: 1}}},
		{Keys: bson.D{{Key: "patient_id", Value: 1}}},
	})
	return err
}
