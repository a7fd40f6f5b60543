package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/model"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/rules"
)

var ErrFeeNotFound = errors.New("fee record not found")

// FeeRepository handles fee records and their append-only payment history.
// Derived fields (pending_amount, status) are recomputed through the rule
// engine inside the same transaction as the triggering write, so they are
// never persisted stale and concurrent payment appends on one record
// serialize on the row lock instead of losing increments.
type FeeRepository struct {
	pool *pgxpool.Pool
}

// NewFeeRepository creates a new FeeRepository.
func NewFeeRepository(pool *pgxpool.Pool) *FeeRepository {
	return &FeeRepository{pool: pool}
}

const feeColumns = `id, student_id, total_fee, paid_amount, pending_amount, due_date, status, created_by, created_at, updated_at`

func scanFee(row pgx.Row) (*model.FeeRecord, error) {
	f := &model.FeeRecord{}
	err := row.Scan(&f.ID, &f.StudentID, &f.TotalFee, &f.PaidAmount, &f.PendingAmount,
		&f.DueDate, &f.Status, &f.CreatedBy, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFeeNotFound
		}
		return nil, err
	}
	return f, nil
}

// Create inserts a new fee record with freshly derived state.
func (r *FeeRepository) Create(ctx context.Context, f *model.FeeRecord, now time.Time) error {
	state := rules.RecomputeFeeState(f.TotalFee, f.PaidAmount, f.DueDate, now)
	f.PendingAmount = state.PendingAmount
	f.Status = state.Status

	return r.pool.QueryRow(ctx,
		`INSERT INTO fee_records (student_id, total_fee, paid_amount, pending_amount, due_date, status, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		f.StudentID, f.TotalFee, f.PaidAmount, f.PendingAmount, f.DueDate, f.Status, f.CreatedBy,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
}

// GetByID retrieves a fee record with its payment history.
func (r *FeeRepository) GetByID(ctx context.Context, id int) (*model.FeeRecord, error) {
	f, err := scanFee(r.pool.QueryRow(ctx,
		`SELECT `+feeColumns+` FROM fee_records WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, fee_id, amount, method, note, paid_at
		 FROM fee_payments WHERE fee_id = $1 ORDER BY paid_at, id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p model.FeePayment
		if err := rows.Scan(&p.ID, &p.FeeID, &p.Amount, &p.Method, &p.Note, &p.PaidAt); err != nil {
			return nil, err
		}
		f.Payments = append(f.Payments, p)
	}
	return f, rows.Err()
}

// ListByStudent retrieves all fee records for one student.
func (r *FeeRepository) ListByStudent(ctx context.Context, studentID int) ([]model.FeeRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+feeColumns+` FROM fee_records WHERE student_id = $1 ORDER BY due_date`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFees(rows)
}

// ListScoped retrieves fee records whose owning student is visible to the
// given scope. Fee visibility always delegates to student visibility.
func (r *FeeRepository) ListScoped(ctx context.Context, scope *rules.StudentScope) ([]model.FeeRecord, error) {
	if scope.Empty() {
		return []model.FeeRecord{}, nil
	}

	query := `SELECT f.id, f.student_id, f.total_fee, f.paid_amount, f.pending_amount,
	                 f.due_date, f.status, f.created_by, f.created_at, f.updated_at
	          FROM fee_records f
	          JOIN students s ON s.id = f.student_id`
	var args []interface{}
	if !scope.All {
		query += ` WHERE (s.created_by = $1 OR s.class_label = ANY($2))`
		args = append(args, scope.OwnerID, scope.ClassLabels)
	}
	query += ` ORDER BY f.due_date`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFees(rows)
}

func collectFees(rows pgx.Rows) ([]model.FeeRecord, error) {
	var fees []model.FeeRecord
	for rows.Next() {
		var f model.FeeRecord
		if err := rows.Scan(&f.ID, &f.StudentID, &f.TotalFee, &f.PaidAmount, &f.PendingAmount,
			&f.DueDate, &f.Status, &f.CreatedBy, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		fees = append(fees, f)
	}
	return fees, rows.Err()
}

// AppendPayment atomically records a payment: the history insert, the
// paid_amount increase and the derived-state recompute happen in one
// transaction with the fee row locked, so two concurrent payments cannot
// lose an increment or leave derived fields half-applied.
func (r *FeeRepository) AppendPayment(ctx context.Context, feeID int, p *model.FeePayment, now time.Time) (*model.FeeRecord, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	f, err := scanFee(tx.QueryRow(ctx,
		`SELECT `+feeColumns+` FROM fee_records WHERE id = $1 FOR UPDATE`, feeID))
	if err != nil {
		return nil, err
	}

	p.FeeID = feeID
	if p.PaidAt.IsZero() {
		p.PaidAt = now
	}
	if err := tx.QueryRow(ctx,
		`INSERT INTO fee_payments (fee_id, amount, method, note, paid_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		p.FeeID, p.Amount, p.Method, p.Note, p.PaidAt,
	).Scan(&p.ID); err != nil {
		return nil, err
	}

	f.PaidAmount += p.Amount
	state := rules.RecomputeFeeState(f.TotalFee, f.PaidAmount, f.DueDate, now)
	f.PendingAmount = state.PendingAmount
	f.Status = state.Status

	if err := tx.QueryRow(ctx,
		`UPDATE fee_records
		 SET paid_amount = $1, pending_amount = $2, status = $3, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $4 RETURNING updated_at`,
		f.PaidAmount, f.PendingAmount, f.Status, feeID,
	).Scan(&f.UpdatedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	f.Payments = append(f.Payments, *p)
	return f, nil
}

// UpdateTerms changes the total fee and/or due date, rederiving state in
// the same transaction under the row lock.
func (r *FeeRepository) UpdateTerms(ctx context.Context, feeID int, totalFee float64, dueDate time.Time, now time.Time) (*model.FeeRecord, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	f, err := scanFee(tx.QueryRow(ctx,
		`SELECT `+feeColumns+` FROM fee_records WHERE id = $1 FOR UPDATE`, feeID))
	if err != nil {
		return nil, err
	}

	f.TotalFee = totalFee
	f.DueDate = dueDate
	state := rules.RecomputeFeeState(f.TotalFee, f.PaidAmount, f.DueDate, now)
	f.PendingAmount = state.PendingAmount
	f.Status = state.Status

	if err := tx.QueryRow(ctx,
		`UPDATE fee_records
		 SET total_fee = $1, due_date = $2, pending_amount = $3, status = $4, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $5 RETURNING updated_at`,
		f.TotalFee, f.DueDate, f.PendingAmount, f.Status, feeID,
	).Scan(&f.UpdatedAt); err != nil {
		return nil, err
	}

	return f, tx.Commit(ctx)
}

// Delete removes a fee record and its payment history (FK cascade).
func (r *FeeRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM fee_records WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrFeeNotFound
	}
	return nil
}
