package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ramit8508/Teacher-managment-system-sub000/internal/config"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/model"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/repository"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/rules"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// AttendanceService handles attendance marking and scoped reads. Creates
// pass through the mutation guard (canonical label + duplicate slot) and
// are broadcast on the live feed.
type AttendanceService struct {
	attendanceRepo *repository.AttendanceRepository
	studentRepo    *repository.StudentRepository
	guard          *rules.MutationGuard
	registry       rules.AssignmentRegistry
	audit          *AuditService
	rdb            *redis.Client
	log            zerolog.Logger
}

// NewAttendanceService creates a new AttendanceService.
func NewAttendanceService(
	attendanceRepo *repository.AttendanceRepository,
	studentRepo *repository.StudentRepository,
	guard *rules.MutationGuard,
	registry rules.AssignmentRegistry,
	audit *AuditService,
	rdb *redis.Client,
	log zerolog.Logger,
) *AttendanceService {
	return &AttendanceService{
		attendanceRepo: attendanceRepo,
		studentRepo:    studentRepo,
		guard:          guard,
		registry:       registry,
		audit:          audit,
		rdb:            rdb,
		log:            log.With().Str("component", "attendance_service").Logger(),
	}
}

func (s *AttendanceService) authorizeStudent(ctx context.Context, actor rules.Actor, action string, studentID int) error {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return &rules.NotFoundError{Resource: "student"}
		}
		return err
	}
	return s.guard.AuthorizeStudent(ctx, actor, action, student.CreatedBy, student.ClassLabel)
}

// Mark creates an attendance record. The guard canonicalizes the label,
// checks the actor's scope on the student ahead of the duplicate-slot
// probe and rejects occupied slots; the table's unique constraint backs
// the check against races.
func (s *AttendanceService) Mark(ctx context.Context, actor rules.Actor, req *model.MarkAttendanceRequest) (*model.AttendanceRecord, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, rules.NewValidationError("date", "must be a date in YYYY-MM-DD form")
	}

	student, err := s.studentRepo.GetByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return nil, &rules.NotFoundError{Resource: "student"}
		}
		return nil, err
	}

	label, err := s.guard.CheckAttendanceCreate(ctx, actor, rules.StudentRef{
		CreatedBy:  student.CreatedBy,
		ClassLabel: student.ClassLabel,
	}, rules.AttendanceInput{
		StudentID:  req.StudentID,
		ClassLabel: req.ClassLabel,
		Date:       date,
		Status:     rules.AttendanceStatus(req.Status),
	})
	if err != nil {
		return nil, err
	}

	record := &model.AttendanceRecord{
		StudentID:  req.StudentID,
		ClassLabel: label,
		Date:       rules.DayOf(date),
		Status:     rules.AttendanceStatus(req.Status),
		MarkedBy:   actor.ID,
	}
	if err := s.attendanceRepo.Create(ctx, record); err != nil {
		if errors.Is(err, repository.ErrAttendanceDuplicate) {
			return nil, &rules.ConflictError{
				Resource: "attendance",
				Detail:   "attendance already marked for this student, class and date",
			}
		}
		return nil, err
	}

	s.publish(ctx, record)
	s.audit.Record(ctx, actor.ID, "mark", "attendance", record.ID, label)
	return record, nil
}

// publish broadcasts the record on the live feed. Best-effort: feed
// subscribers are observers, not participants in the write.
func (s *AttendanceService) publish(ctx context.Context, record *model.AttendanceRecord) {
	event := model.AttendanceEvent{
		RecordID:   record.ID,
		StudentID:  record.StudentID,
		ClassLabel: record.ClassLabel,
		Date:       record.Date.Format("2006-01-02"),
		Status:     string(record.Status),
		MarkedBy:   record.MarkedBy,
	}
	raw, err := json.Marshal(event)
	if err != nil {
		s.log.Error().Err(err).Msg("marshal attendance event")
		return
	}
	if err := s.rdb.Publish(ctx, config.CacheKey.AttendanceFeedChannel(), raw).Err(); err != nil {
		s.log.Warn().Err(err).Msg("attendance event publish failed")
	}
}

// ListByStudent retrieves a student's attendance, scope-checked.
func (s *AttendanceService) ListByStudent(ctx context.Context, actor rules.Actor, studentID int) ([]model.AttendanceRecord, error) {
	if err := s.authorizeStudent(ctx, actor, "read attendance of", studentID); err != nil {
		return nil, err
	}
	records, err := s.attendanceRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []model.AttendanceRecord{}
	}
	return records, nil
}

// ListByClass retrieves a class's attendance within a date range. Admins
// see any class; a teacher must be assigned to it — ownership of
// individual students does not grant a whole-class view.
func (s *AttendanceService) ListByClass(ctx context.Context, actor rules.Actor, rawLabel string, from, to time.Time) ([]model.AttendanceRecord, error) {
	label, err := rules.CheckClassLabel(rawLabel)
	if err != nil {
		return nil, err
	}

	if actor.Role != rules.RoleAdmin {
		if actor.Role != rules.RoleTeacher {
			return nil, &rules.AuthorizationError{Action: "read", Resource: "class attendance"}
		}
		assigned, err := s.registry.AssignedClasses(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		found := false
		for _, a := range assigned {
			if rules.CanonicalClassLabel(a) == label {
				found = true
				break
			}
		}
		if !found {
			return nil, &rules.AuthorizationError{Action: "read", Resource: "class attendance"}
		}
	}

	records, err := s.attendanceRepo.ListByClass(ctx, label, from, to)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []model.AttendanceRecord{}
	}
	return records, nil
}

// UpdateStatus changes the status of a record the actor may mutate.
func (s *AttendanceService) UpdateStatus(ctx context.Context, actor rules.Actor, id int, status rules.AttendanceStatus) (*model.AttendanceRecord, error) {
	if !rules.ValidAttendanceStatus(status) {
		return nil, rules.NewValidationError("status", "must be one of present, absent, late, excused")
	}

	record, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAttendanceNotFound) {
			return nil, &rules.NotFoundError{Resource: "attendance record"}
		}
		return nil, err
	}
	if err := s.authorizeStudent(ctx, actor, "update attendance of", record.StudentID); err != nil {
		return nil, err
	}

	if err := s.attendanceRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	record.Status = status

	s.publish(ctx, record)
	s.audit.Record(ctx, actor.ID, "update", "attendance", id, string(status))
	return record, nil
}

// Delete removes an attendance record the actor may mutate.
func (s *AttendanceService) Delete(ctx context.Context, actor rules.Actor, id int) error {
	record, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAttendanceNotFound) {
			return &rules.NotFoundError{Resource: "attendance record"}
		}
		return err
	}
	if err := s.authorizeStudent(ctx, actor, "delete attendance of", record.StudentID); err != nil {
		return err
	}

	if err := s.attendanceRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actor.ID, "delete", "attendance", id, record.ClassLabel)
	return nil
}
