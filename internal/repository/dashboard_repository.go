package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/rules"
)

// DashboardRepository handles admin dashboard data access.
type DashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository creates a new DashboardRepository.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// GetSummaryCounts retrieves the high-level metrics for the dashboard.
func (r *DashboardRepository) GetSummaryCounts(ctx context.Context) (totalStudents, totalTeachers, totalClasses, totalFeeRecords int, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM students),
			(SELECT COUNT(*) FROM users WHERE role = 'teacher'),
			(SELECT COUNT(*) FROM class_assignments),
			(SELECT COUNT(*) FROM fee_records)`,
	).Scan(&totalStudents, &totalTeachers, &totalClasses, &totalFeeRecords)
	return
}

// GetFeeStatusCounts retrieves the distribution of fee records by status.
func (r *DashboardRepository) GetFeeStatusCounts(ctx context.Context) (map[rules.FeeStatus]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM fee_records GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[rules.FeeStatus]int)
	for rows.Next() {
		var status rules.FeeStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// GetOutstandingTotal sums the positive pending balances across all fees.
func (r *DashboardRepository) GetOutstandingTotal(ctx context.Context) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(pending_amount), 0) FROM fee_records WHERE pending_amount > 0`,
	).Scan(&total)
	return total, err
}

// GetAttendanceCounts retrieves the status distribution for one day.
func (r *DashboardRepository) GetAttendanceCounts(ctx context.Context, day time.Time) (map[rules.AttendanceStatus]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM attendance_records WHERE att_date = $1 GROUP BY status`,
		rules.DayOf(day))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[rules.AttendanceStatus]int)
	for rows.Next() {
		var status rules.AttendanceStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
