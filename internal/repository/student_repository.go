package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/model"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/rules"
)

var (
	ErrDuplicateRollNumber = errors.New("student with this roll number already exists in the class")
	ErrStudentNotFound     = errors.New("student not found")
)

// StudentRepository handles student data access. List queries take the
// resolved access scope so filtering happens in SQL rather than in
// handler code.
type StudentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

const studentColumns = `id, name, roll_number, class_label, guardian_name, created_by, created_at, updated_at`

func scanStudent(row pgx.Row) (*model.Student, error) {
	s := &model.Student{}
	err := row.Scan(&s.ID, &s.Name, &s.RollNumber, &s.ClassLabel, &s.GuardianName,
		&s.CreatedBy, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return s, nil
}

// GetByID retrieves a student by ID.
func (r *StudentRepository) GetByID(ctx context.Context, id int) (*model.Student, error) {
	return scanStudent(r.pool.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE id = $1`, id))
}

// scopeClause renders the access-scope filter as SQL. Labels in the scope
// are already canonical, as are stored class_label values, so plain
// equality is the correct comparison here.
func scopeClause(scope *rules.StudentScope, argIdx int, args []interface{}) (string, []interface{}, int) {
	if scope.All {
		return "", args, argIdx
	}
	clause := `(created_by = $` + strconv.Itoa(argIdx) +
		` OR class_label = ANY($` + strconv.Itoa(argIdx+1) + `))`
	args = append(args, scope.OwnerID, scope.ClassLabels)
	return clause, args, argIdx + 2
}

// ListScoped retrieves students visible to the given scope, paginated.
func (r *StudentRepository) ListScoped(ctx context.Context, scope *rules.StudentScope, limit, offset int) ([]model.Student, int, error) {
	if scope.Empty() {
		return []model.Student{}, 0, nil
	}

	var args []interface{}
	where, args, argIdx := scopeClause(scope, 1, args)
	cond := ""
	if where != "" {
		cond = ` WHERE ` + where
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM students`+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + studentColumns + ` FROM students` + cond +
		` ORDER BY name LIMIT $` + strconv.Itoa(argIdx) + ` OFFSET $` + strconv.Itoa(argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		var s model.Student
		if err := rows.Scan(&s.ID, &s.Name, &s.RollNumber, &s.ClassLabel, &s.GuardianName,
			&s.CreatedBy, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, err
		}
		students = append(students, s)
	}
	return students, total, rows.Err()
}

// Create inserts a new student. ClassLabel must already be canonical.
func (r *StudentRepository) Create(ctx context.Context, s *model.Student) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO students (name, roll_number, class_label, guardian_name, created_by)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		s.Name, s.RollNumber, s.ClassLabel, s.GuardianName, s.CreatedBy,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateRollNumber
		}
		return err
	}
	return nil
}

// Update modifies a student. ClassLabel must already be canonical.
func (r *StudentRepository) Update(ctx context.Context, s *model.Student) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE students SET name = $1, roll_number = $2, class_label = $3, guardian_name = $4, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $5`,
		s.Name, s.RollNumber, s.ClassLabel, s.GuardianName, s.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateRollNumber
		}
	}
	return err
}

// Delete removes a student by ID.
func (r *StudentRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	return err
}
