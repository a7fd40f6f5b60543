package service

import (
	"context"
	"time"

	"github.com/ramit8508/Teacher-managment-system-sub000/internal/model"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/repository"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/rules"
)

// DashboardService assembles the admin overview. Read-only aggregates;
// nothing here mutates rule-engine state.
type DashboardService struct {
	dashboardRepo *repository.DashboardRepository
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(dashboardRepo *repository.DashboardRepository) *DashboardService {
	return &DashboardService{dashboardRepo: dashboardRepo}
}

// Summary retrieves the dashboard metrics as of now.
func (s *DashboardService) Summary(ctx context.Context) (*model.DashboardSummary, error) {
	students, teachers, classes, feeRecords, err := s.dashboardRepo.GetSummaryCounts(ctx)
	if err != nil {
		return nil, err
	}

	feeCounts, err := s.dashboardRepo.GetFeeStatusCounts(ctx)
	if err != nil {
		return nil, err
	}

	outstanding, err := s.dashboardRepo.GetOutstandingTotal(ctx)
	if err != nil {
		return nil, err
	}

	attendance, err := s.dashboardRepo.GetAttendanceCounts(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	return &model.DashboardSummary{
		TotalStudents:   students,
		TotalTeachers:   teachers,
		TotalClasses:    classes,
		TotalFeeRecords: feeRecords,
		OutstandingFees: outstanding,
		FeeStatusCounts: feeCounts,
		AttendanceToday: attendance,
	}, nil
}

// AttendanceByDay retrieves the status distribution for a given date.
func (s *DashboardService) AttendanceByDay(ctx context.Context, day time.Time) (map[rules.AttendanceStatus]int, error) {
	return s.dashboardRepo.GetAttendanceCounts(ctx, day)
}
