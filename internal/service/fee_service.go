package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ramit8508/Teacher-managment-system-sub000/internal/model"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/repository"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/rules"
)

// FeeService handles fee records. Visibility always delegates to the
// owning student's scope; derived state is recomputed by the repository
// inside the same transaction as every triggering write.
type FeeService struct {
	feeRepo     *repository.FeeRepository
	studentRepo *repository.StudentRepository
	guard       *rules.MutationGuard
	audit       *AuditService
}

// NewFeeService creates a new FeeService.
func NewFeeService(feeRepo *repository.FeeRepository, studentRepo *repository.StudentRepository, guard *rules.MutationGuard, audit *AuditService) *FeeService {
	return &FeeService{feeRepo: feeRepo, studentRepo: studentRepo, guard: guard, audit: audit}
}

// authorizeStudent checks the actor's access to the owning student.
func (s *FeeService) authorizeStudent(ctx context.Context, actor rules.Actor, action string, studentID int) error {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return &rules.NotFoundError{Resource: "student"}
		}
		return err
	}
	return s.guard.AuthorizeStudent(ctx, actor, action, student.CreatedBy, student.ClassLabel)
}

// Create opens a fee record for a student in the actor's scope.
func (s *FeeService) Create(ctx context.Context, actor rules.Actor, req *model.CreateFeeRequest) (*model.FeeRecord, error) {
	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return nil, rules.NewValidationError("due_date", "must be a date in YYYY-MM-DD form")
	}
	if err := s.guard.ValidateFee(req.TotalFee, dueDate); err != nil {
		return nil, err
	}
	if err := s.authorizeStudent(ctx, actor, "create fee for", req.StudentID); err != nil {
		return nil, err
	}

	fee := &model.FeeRecord{
		StudentID: req.StudentID,
		TotalFee:  req.TotalFee,
		DueDate:   dueDate,
		CreatedBy: actor.ID,
	}
	if err := s.feeRepo.Create(ctx, fee, time.Now()); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor.ID, "create", "fee_record", fee.ID, fmt.Sprintf("total %.2f", fee.TotalFee))
	return fee, nil
}

// Get retrieves a fee record with history, scope-checked.
func (s *FeeService) Get(ctx context.Context, actor rules.Actor, id int) (*model.FeeRecord, error) {
	fee, err := s.feeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrFeeNotFound) {
			return nil, &rules.NotFoundError{Resource: "fee record"}
		}
		return nil, err
	}
	if err := s.authorizeStudent(ctx, actor, "read fee of", fee.StudentID); err != nil {
		return nil, err
	}
	return fee, nil
}

// List retrieves all fee records inside the actor's scope.
func (s *FeeService) List(ctx context.Context, actor rules.Actor) ([]model.FeeRecord, error) {
	scope, err := s.guard.Scope().ResolveStudentScope(ctx, actor)
	if err != nil {
		return nil, err
	}
	fees, err := s.feeRepo.ListScoped(ctx, scope)
	if err != nil {
		return nil, err
	}
	if fees == nil {
		fees = []model.FeeRecord{}
	}
	return fees, nil
}

// ListByStudent retrieves one student's fee records, scope-checked.
func (s *FeeService) ListByStudent(ctx context.Context, actor rules.Actor, studentID int) ([]model.FeeRecord, error) {
	if err := s.authorizeStudent(ctx, actor, "read fees of", studentID); err != nil {
		return nil, err
	}
	fees, err := s.feeRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if fees == nil {
		fees = []model.FeeRecord{}
	}
	return fees, nil
}

// AppendPayment records a payment against a fee record. The history
// append, paid-amount increase and derived-state recompute commit
// atomically in the repository.
func (s *FeeService) AppendPayment(ctx context.Context, actor rules.Actor, feeID int, req *model.AppendPaymentRequest) (*model.FeeRecord, error) {
	if err := s.guard.ValidatePayment(req.Amount); err != nil {
		return nil, err
	}

	fee, err := s.Get(ctx, actor, feeID)
	if err != nil {
		return nil, err
	}

	payment := &model.FeePayment{Amount: req.Amount, Method: req.Method, Note: req.Note}
	updated, err := s.feeRepo.AppendPayment(ctx, fee.ID, payment, time.Now())
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor.ID, "append_payment", "fee_record", fee.ID, fmt.Sprintf("amount %.2f", req.Amount))
	return updated, nil
}

// UpdateTerms changes a fee's total and due date, rederiving its state.
func (s *FeeService) UpdateTerms(ctx context.Context, actor rules.Actor, feeID int, totalFee float64, dueDateStr string) (*model.FeeRecord, error) {
	dueDate, err := time.Parse("2006-01-02", dueDateStr)
	if err != nil {
		return nil, rules.NewValidationError("due_date", "must be a date in YYYY-MM-DD form")
	}
	if err := s.guard.ValidateFee(totalFee, dueDate); err != nil {
		return nil, err
	}

	if _, err := s.Get(ctx, actor, feeID); err != nil {
		return nil, err
	}

	updated, err := s.feeRepo.UpdateTerms(ctx, feeID, totalFee, dueDate, time.Now())
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor.ID, "update_terms", "fee_record", feeID, fmt.Sprintf("total %.2f", totalFee))
	return updated, nil
}

// Delete removes a fee record the actor is authorized for.
func (s *FeeService) Delete(ctx context.Context, actor rules.Actor, feeID int) error {
	if _, err := s.Get(ctx, actor, feeID); err != nil {
		return err
	}
	if err := s.feeRepo.Delete(ctx, feeID); err != nil {
		return err
	}
	s.audit.Record(ctx, actor.ID, "delete", "fee_record", feeID, "")
	return nil
}
