package service

import (
	"context"
	"errors"

	"github.com/ramit8508/Teacher-managment-system-sub000/internal/model"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/repository"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/response"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/rules"
)

// StudentService handles student registration and scoped reads. Every
// write path canonicalizes the class label and passes the mutation guard
// before touching the repository.
type StudentService struct {
	studentRepo *repository.StudentRepository
	guard       *rules.MutationGuard
	audit       *AuditService
}

// NewStudentService creates a new StudentService.
func NewStudentService(studentRepo *repository.StudentRepository, guard *rules.MutationGuard, audit *AuditService) *StudentService {
	return &StudentService{studentRepo: studentRepo, guard: guard, audit: audit}
}

// Get retrieves a student visible to the actor. A student outside the
// actor's scope yields an AuthorizationError, not NotFound.
func (s *StudentService) Get(ctx context.Context, actor rules.Actor, id int) (*model.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return nil, &rules.NotFoundError{Resource: "student"}
		}
		return nil, err
	}
	if err := s.guard.AuthorizeStudent(ctx, actor, "read", student.CreatedBy, student.ClassLabel); err != nil {
		return nil, err
	}
	return student, nil
}

// List retrieves students inside the actor's access scope, paginated.
func (s *StudentService) List(ctx context.Context, actor rules.Actor, page, perPage int) ([]model.Student, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	scope, err := s.guard.Scope().ResolveStudentScope(ctx, actor)
	if err != nil {
		return nil, nil, err
	}

	students, total, err := s.studentRepo.ListScoped(ctx, scope, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, err
	}
	if students == nil {
		students = []model.Student{}
	}

	pagination := &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: (total + perPage - 1) / perPage,
	}
	return students, pagination, nil
}

// Create registers a student. The class label is canonicalized before
// storage; the creating actor becomes the ownership grant.
func (s *StudentService) Create(ctx context.Context, actor rules.Actor, req *model.CreateStudentRequest) (*model.Student, error) {
	if actor.Role != rules.RoleAdmin && actor.Role != rules.RoleTeacher {
		return nil, &rules.AuthorizationError{Action: "create", Resource: "student record"}
	}

	label, err := rules.CheckClassLabel(req.ClassLabel)
	if err != nil {
		return nil, err
	}

	student := &model.Student{
		Name:         req.Name,
		RollNumber:   req.RollNumber,
		ClassLabel:   label,
		GuardianName: req.GuardianName,
		CreatedBy:    actor.ID,
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		if errors.Is(err, repository.ErrDuplicateRollNumber) {
			return nil, &rules.ConflictError{Resource: "student", Detail: "roll number already taken in this class"}
		}
		return nil, err
	}

	s.audit.Record(ctx, actor.ID, "create", "student", student.ID, student.Name)
	return student, nil
}

// Update modifies a student the actor is authorized for.
func (s *StudentService) Update(ctx context.Context, actor rules.Actor, id int, req *model.UpdateStudentRequest) (*model.Student, error) {
	student, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	label, err := rules.CheckClassLabel(req.ClassLabel)
	if err != nil {
		return nil, err
	}

	student.Name = req.Name
	student.RollNumber = req.RollNumber
	student.ClassLabel = label
	student.GuardianName = req.GuardianName

	if err := s.studentRepo.Update(ctx, student); err != nil {
		if errors.Is(err, repository.ErrDuplicateRollNumber) {
			return nil, &rules.ConflictError{Resource: "student", Detail: "roll number already taken in this class"}
		}
		return nil, err
	}

	s.audit.Record(ctx, actor.ID, "update", "student", student.ID, student.Name)
	return student, nil
}

// Delete removes a student the actor is authorized for.
func (s *StudentService) Delete(ctx context.Context, actor rules.Actor, id int) error {
	student, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.studentRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actor.ID, "delete", "student", id, student.Name)
	return nil
}
