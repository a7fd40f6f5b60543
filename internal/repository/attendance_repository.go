package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/model"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/rules"
)

var (
	ErrAttendanceNotFound  = errors.New("attendance record not found")
	ErrAttendanceDuplicate = errors.New("attendance already marked for this slot")
)

// AttendanceRepository handles attendance data access. It implements the
// rule engine's AttendanceIndex so the guard's duplicate check and the
// table's unique constraint enforce the same invariant.
type AttendanceRepository struct {
	pool *pgxpool.Pool
}

// NewAttendanceRepository creates a new AttendanceRepository.
func NewAttendanceRepository(pool *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

const attendanceColumns = `id, student_id, class_label, att_date, status, marked_by, created_at`

// SlotTaken reports whether a record exists for the slot. Satisfies
// rules.AttendanceIndex; classLabel is canonical and day is date-only.
func (r *AttendanceRepository) SlotTaken(ctx context.Context, studentID int, classLabel string, day time.Time) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM attendance_records
		   WHERE student_id = $1 AND class_label = $2 AND att_date = $3
		 )`, studentID, classLabel, day,
	).Scan(&exists)
	return exists, err
}

// Create inserts an attendance record. The unique constraint backs the
// guard's duplicate check against races between check and insert.
func (r *AttendanceRepository) Create(ctx context.Context, a *model.AttendanceRecord) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO attendance_records (student_id, class_label, att_date, status, marked_by)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		a.StudentID, a.ClassLabel, rules.DayOf(a.Date), a.Status, a.MarkedBy,
	).Scan(&a.ID, &a.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAttendanceDuplicate
		}
		return err
	}
	return nil
}

// GetByID retrieves an attendance record by ID.
func (r *AttendanceRepository) GetByID(ctx context.Context, id int) (*model.AttendanceRecord, error) {
	a := &model.AttendanceRecord{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+attendanceColumns+` FROM attendance_records WHERE id = $1`, id,
	).Scan(&a.ID, &a.StudentID, &a.ClassLabel, &a.Date, &a.Status, &a.MarkedBy, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttendanceNotFound
		}
		return nil, err
	}
	return a, nil
}

// ListByStudent retrieves a student's attendance records, newest first.
func (r *AttendanceRepository) ListByStudent(ctx context.Context, studentID int) ([]model.AttendanceRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+attendanceColumns+` FROM attendance_records
		 WHERE student_id = $1 ORDER BY att_date DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAttendance(rows)
}

// ListByClass retrieves a class's records within a date range.
func (r *AttendanceRepository) ListByClass(ctx context.Context, classLabel string, from, to time.Time) ([]model.AttendanceRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+attendanceColumns+` FROM attendance_records
		 WHERE class_label = $1 AND att_date BETWEEN $2 AND $3
		 ORDER BY att_date, student_id`,
		classLabel, rules.DayOf(from), rules.DayOf(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAttendance(rows)
}

func collectAttendance(rows pgx.Rows) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	for rows.Next() {
		var a model.AttendanceRecord
		if err := rows.Scan(&a.ID, &a.StudentID, &a.ClassLabel, &a.Date, &a.Status, &a.MarkedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

// UpdateStatus changes the status of an existing record.
func (r *AttendanceRepository) UpdateStatus(ctx context.Context, id int, status rules.AttendanceStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE attendance_records SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAttendanceNotFound
	}
	return nil
}

// Delete removes an attendance record by ID.
func (r *AttendanceRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM attendance_records WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAttendanceNotFound
	}
	return nil
}
