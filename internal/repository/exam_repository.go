package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/model"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/rules"
)

var ErrExamNotFound = errors.New("exam record not found")

// ExamRepository handles examination records and their subject entries.
// Derived percentage and grade are recomputed through the rule engine in
// the same transaction as any subject write.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

const examColumns = `id, student_id, exam_name, term, percentage, grade, created_by, created_at, updated_at`

func toMarks(subjects []model.ExamSubject) []rules.SubjectMarks {
	marks := make([]rules.SubjectMarks, len(subjects))
	for i, s := range subjects {
		marks[i] = rules.SubjectMarks{Name: s.Name, TotalMarks: s.TotalMarks, ObtainedMarks: s.ObtainedMarks}
	}
	return marks
}

// Create inserts an exam record together with its subject entries and
// freshly derived state.
func (r *ExamRepository) Create(ctx context.Context, e *model.ExamRecord) error {
	state := rules.RecomputeExamState(toMarks(e.Subjects))
	e.Percentage = state.Percentage
	e.Grade = state.Grade

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx,
		`INSERT INTO exam_records (student_id, exam_name, term, percentage, grade, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		e.StudentID, e.ExamName, e.Term, e.Percentage, e.Grade, e.CreatedBy,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return err
	}

	if err := insertSubjects(ctx, tx, e.ID, e.Subjects); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertSubjects(ctx context.Context, tx pgx.Tx, examID int, subjects []model.ExamSubject) error {
	for i := range subjects {
		subjects[i].ExamID = examID
		subjects[i].Position = i
		if err := tx.QueryRow(ctx,
			`INSERT INTO exam_subjects (exam_id, position, name, total_marks, obtained_marks)
			 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			examID, i, subjects[i].Name, subjects[i].TotalMarks, subjects[i].ObtainedMarks,
		).Scan(&subjects[i].ID); err != nil {
			return err
		}
	}
	return nil
}

// GetByID retrieves an exam record with its subject entries.
func (r *ExamRepository) GetByID(ctx context.Context, id int) (*model.ExamRecord, error) {
	e := &model.ExamRecord{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+examColumns+` FROM exam_records WHERE id = $1`, id,
	).Scan(&e.ID, &e.StudentID, &e.ExamName, &e.Term, &e.Percentage, &e.Grade,
		&e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, exam_id, position, name, total_marks, obtained_marks
		 FROM exam_subjects WHERE exam_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var s model.ExamSubject
		if err := rows.Scan(&s.ID, &s.ExamID, &s.Position, &s.Name, &s.TotalMarks, &s.ObtainedMarks); err != nil {
			return nil, err
		}
		e.Subjects = append(e.Subjects, s)
	}
	return e, rows.Err()
}

// ListByStudent retrieves a student's exam records without subjects.
func (r *ExamRepository) ListByStudent(ctx context.Context, studentID int) ([]model.ExamRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+examColumns+` FROM exam_records WHERE student_id = $1 ORDER BY created_at DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectExams(rows)
}

// ListScoped retrieves exam records whose owning student is visible to
// the given scope. Exam visibility always delegates to student visibility.
func (r *ExamRepository) ListScoped(ctx context.Context, scope *rules.StudentScope) ([]model.ExamRecord, error) {
	if scope.Empty() {
		return []model.ExamRecord{}, nil
	}

	query := `SELECT e.id, e.student_id, e.exam_name, e.term, e.percentage, e.grade,
	                 e.created_by, e.created_at, e.updated_at
	          FROM exam_records e
	          JOIN students s ON s.id = e.student_id`
	var args []interface{}
	if !scope.All {
		query += ` WHERE (s.created_by = $1 OR s.class_label = ANY($2))`
		args = append(args, scope.OwnerID, scope.ClassLabels)
	}
	query += ` ORDER BY e.created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectExams(rows)
}

func collectExams(rows pgx.Rows) ([]model.ExamRecord, error) {
	var exams []model.ExamRecord
	for rows.Next() {
		var e model.ExamRecord
		if err := rows.Scan(&e.ID, &e.StudentID, &e.ExamName, &e.Term, &e.Percentage, &e.Grade,
			&e.CreatedBy, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

// ReplaceSubjects swaps the subject entries of an exam record and
// rederives percentage and grade, all in one transaction.
func (r *ExamRepository) ReplaceSubjects(ctx context.Context, examID int, examName, term string, subjects []model.ExamSubject) (*model.ExamRecord, error) {
	state := rules.RecomputeExamState(toMarks(subjects))

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	e := &model.ExamRecord{ID: examID, ExamName: examName, Term: term}
	err = tx.QueryRow(ctx,
		`UPDATE exam_records
		 SET exam_name = $1, term = $2, percentage = $3, grade = $4, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $5
		 RETURNING student_id, created_by, created_at, updated_at`,
		examName, term, state.Percentage, state.Grade, examID,
	).Scan(&e.StudentID, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}
	e.Percentage = state.Percentage
	e.Grade = state.Grade

	if _, err := tx.Exec(ctx, `DELETE FROM exam_subjects WHERE exam_id = $1`, examID); err != nil {
		return nil, err
	}
	if err := insertSubjects(ctx, tx, examID, subjects); err != nil {
		return nil, err
	}
	e.Subjects = subjects

	return e, tx.Commit(ctx)
}

// Delete removes an exam record and its subjects (FK cascade).
func (r *ExamRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM exam_records WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExamNotFound
	}
	return nil
}
