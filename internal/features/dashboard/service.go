package dashboard

import (
	"context"
	"time"

	"go-medidiagnose/internal/features/appointment"
	"go-medidiagnose/internal/features/record"
	"go-medidiagnose/internal/features/user"

	"go.mongodb.org/mongo-driver/bson"
)

type DashboardService interface {
	AdminStats(ctx context.Context) (*AdminStats, error)
	DoctorStats(ctx context.Context) (*DoctorStats, error)
}

type DashboardServiceImpl struct {
	UserRepo        user.UserRepository
	RecordRepo      record.RecordRepository
	AppointmentRepo appointment.AppointmentRepository
}

func NewDashboardService(
	userRepo user.UserRepository,
	recordRepo record.RecordRepository,
	appointmentRepo appointment.AppointmentRepository,
) DashboardService {
	return &DashboardServiceImpl{
		UserRepo:        userRepo,
		RecordRepo:      recordRepo,
		AppointmentRepo: appointmentRepo,
	}
}

func (s *DashboardServiceImpl) AdminStats(ctx context.Context) (*AdminStats, error) {
	stats := &AdminStats{}
	var err error

	if stats.TotalUsers, err = s.UserRepo.Count(ctx, bson.M{}); err != nil {
		return nil, err
	}
	if stats.ActiveUsers, err = s.UserRepo.Count(ctx, bson.M{"is_active": true}); err != nil {
		return nil, err
	}
	stats.SuspendedUsers = stats.TotalUsers - stats.ActiveUsers

	if stats.Doctors, err = s.UserRepo.Count(ctx, bson.M{"is_staff": true, "is_superuser": false}); err != nil {
		return nil, err
	}
	if stats.Patients, err = s.UserRepo.Count(ctx, bson.M{"is_staff": false, "is_superuser": false}); err != nil {
		return nil, err
	}
	if stats.TotalScans, err = s.RecordRepo.CountAll(ctx); err != nil {
		return nil, err
	}
	if stats.TotalAppointments, err = s.AppointmentRepo.CountAll(ctx); err != nil {
		return nil, err
	}

	return stats, nil
}

func (s *DashboardServiceImpl) DoctorStats(ctx context.Context) (*DoctorStats, error) {
	stats := &DoctorStats{}
	var err error

	if stats.TotalScans, err = s.RecordRepo.CountAll(ctx); err != nil {
		return nil, err
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	if stats.ScansThisWeek, err = s.RecordRepo.CountSince(ctx, weekAgo); err != nil {
		return nil, err
	}
	if stats.AbnormalScans, err = s.RecordRepo.CountAbnormal(ctx); err != nil {
		return nil, err
	}
	if stats.Patients, err = s.UserRepo.Count(ctx, bson.M{"is_staff": false, "is_superuser": false}); err != nil {
		return nil, err
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if stats.TodayAppointments, err = s.AppointmentRepo.CountInWindow(ctx, dayStart, dayStart.AddDate(0, 0, 1)); err != nil {
		return nil, err
	}

	return stats, nil
}
