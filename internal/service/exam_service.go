package service

import (
	"context"
	"errors"

	"github.com/ramit8508/Teacher-managment-system-sub000/internal/model"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/repository"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/rules"
)

// ExamService handles examination records. Visibility delegates to the
// owning student's scope; percentage and grade are derived on every
// subject write, never accepted from clients.
type ExamService struct {
	examRepo    *repository.ExamRepository
	studentRepo *repository.StudentRepository
	guard       *rules.MutationGuard
	audit       *AuditService
}

// NewExamService creates a new ExamService.
func NewExamService(examRepo *repository.ExamRepository, studentRepo *repository.StudentRepository, guard *rules.MutationGuard, audit *AuditService) *ExamService {
	return &ExamService{examRepo: examRepo, studentRepo: studentRepo, guard: guard, audit: audit}
}

func (s *ExamService) authorizeStudent(ctx context.Context, actor rules.Actor, action string, studentID int) error {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return &rules.NotFoundError{Resource: "student"}
		}
		return err
	}
	return s.guard.AuthorizeStudent(ctx, actor, action, student.CreatedBy, student.ClassLabel)
}

func toSubjects(entries []model.SubjectEntry) ([]model.ExamSubject, []rules.SubjectMarks) {
	subjects := make([]model.ExamSubject, len(entries))
	marks := make([]rules.SubjectMarks, len(entries))
	for i, e := range entries {
		subjects[i] = model.ExamSubject{Name: e.Name, TotalMarks: e.TotalMarks, ObtainedMarks: e.ObtainedMarks}
		marks[i] = rules.SubjectMarks{Name: e.Name, TotalMarks: e.TotalMarks, ObtainedMarks: e.ObtainedMarks}
	}
	return subjects, marks
}

// Create records an exam result for a student in the actor's scope.
func (s *ExamService) Create(ctx context.Context, actor rules.Actor, req *model.CreateExamRequest) (*model.ExamRecord, error) {
	subjects, marks := toSubjects(req.Subjects)
	if err := s.guard.ValidateSubjects(marks); err != nil {
		return nil, err
	}
	if err := s.authorizeStudent(ctx, actor, "record exam for", req.StudentID); err != nil {
		return nil, err
	}

	exam := &model.ExamRecord{
		StudentID: req.StudentID,
		ExamName:  req.ExamName,
		Term:      req.Term,
		CreatedBy: actor.ID,
		Subjects:  subjects,
	}
	if err := s.examRepo.Create(ctx, exam); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor.ID, "create", "exam_record", exam.ID, exam.ExamName)
	return exam, nil
}

// Get retrieves an exam record with subjects, scope-checked.
func (s *ExamService) Get(ctx context.Context, actor rules.Actor, id int) (*model.ExamRecord, error) {
	exam, err := s.examRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrExamNotFound) {
			return nil, &rules.NotFoundError{Resource: "exam record"}
		}
		return nil, err
	}
	if err := s.authorizeStudent(ctx, actor, "read exam of", exam.StudentID); err != nil {
		return nil, err
	}
	return exam, nil
}

// List retrieves all exam records inside the actor's scope.
func (s *ExamService) List(ctx context.Context, actor rules.Actor) ([]model.ExamRecord, error) {
	scope, err := s.guard.Scope().ResolveStudentScope(ctx, actor)
	if err != nil {
		return nil, err
	}
	exams, err := s.examRepo.ListScoped(ctx, scope)
	if err != nil {
		return nil, err
	}
	if exams == nil {
		exams = []model.ExamRecord{}
	}
	return exams, nil
}

// ListByStudent retrieves one student's exam records, scope-checked.
func (s *ExamService) ListByStudent(ctx context.Context, actor rules.Actor, studentID int) ([]model.ExamRecord, error) {
	if err := s.authorizeStudent(ctx, actor, "read exams of", studentID); err != nil {
		return nil, err
	}
	exams, err := s.examRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if exams == nil {
		exams = []model.ExamRecord{}
	}
	return exams, nil
}

// Update replaces an exam's subject entries, rederiving its state.
func (s *ExamService) Update(ctx context.Context, actor rules.Actor, id int, req *model.UpdateExamRequest) (*model.ExamRecord, error) {
	subjects, marks := toSubjects(req.Subjects)
	if err := s.guard.ValidateSubjects(marks); err != nil {
		return nil, err
	}

	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}

	updated, err := s.examRepo.ReplaceSubjects(ctx, id, req.ExamName, req.Term, subjects)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor.ID, "update", "exam_record", id, req.ExamName)
	return updated, nil
}

// Delete removes an exam record the actor is authorized for.
func (s *ExamService) Delete(ctx context.Context, actor rules.Actor, id int) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	if err := s.examRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actor.ID, "delete", "exam_record", id, "")
	return nil
}
