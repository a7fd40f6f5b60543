package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/model"
)

var ErrAssignmentNotFound = errors.New("class assignment not found")

// ClassAssignmentRepository handles the class-to-teacher assignment table.
// It is the persistent backing of the rule engine's AssignmentRegistry.
type ClassAssignmentRepository struct {
	pool *pgxpool.Pool
}

// NewClassAssignmentRepository creates a new ClassAssignmentRepository.
func NewClassAssignmentRepository(pool *pgxpool.Pool) *ClassAssignmentRepository {
	return &ClassAssignmentRepository{pool: pool}
}

// Upsert creates the assignment for a class or replaces its teacher set.
// ClassLabel must already be canonical.
func (r *ClassAssignmentRepository) Upsert(ctx context.Context, a *model.ClassAssignment) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO class_assignments (class_label, teacher_ids)
		 VALUES ($1, $2)
		 ON CONFLICT (class_label)
		 DO UPDATE SET teacher_ids = EXCLUDED.teacher_ids, updated_at = CURRENT_TIMESTAMP
		 RETURNING id, created_at, updated_at`,
		a.ClassLabel, a.TeacherIDs,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

// GetByLabel retrieves the assignment for a canonical class label.
func (r *ClassAssignmentRepository) GetByLabel(ctx context.Context, classLabel string) (*model.ClassAssignment, error) {
	a := &model.ClassAssignment{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, class_label, teacher_ids, created_at, updated_at
		 FROM class_assignments WHERE class_label = $1`, classLabel,
	).Scan(&a.ID, &a.ClassLabel, &a.TeacherIDs, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	return a, nil
}

// List retrieves all assignments ordered by class label.
func (r *ClassAssignmentRepository) List(ctx context.Context) ([]model.ClassAssignment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, class_label, teacher_ids, created_at, updated_at
		 FROM class_assignments ORDER BY class_label`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []model.ClassAssignment
	for rows.Next() {
		var a model.ClassAssignment
		if err := rows.Scan(&a.ID, &a.ClassLabel, &a.TeacherIDs, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// AssignedClasses returns the canonical class labels a teacher is assigned
// to. This satisfies the rule engine's AssignmentRegistry read contract.
func (r *ClassAssignmentRepository) AssignedClasses(ctx context.Context, teacherID int) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT class_label FROM class_assignments WHERE $1 = ANY(teacher_ids)`, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}
	return labels, rows.Err()
}

// Delete removes the assignment for a canonical class label.
func (r *ClassAssignmentRepository) Delete(ctx context.Context, classLabel string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM class_assignments WHERE class_label = $1`, classLabel)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAssignmentNotFound
	}
	return nil
}
