package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ramit8508/Teacher-managment-system-sub000/internal/config"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/model"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/repository"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/rules"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// CachedAssignmentRegistry serves the rule engine's AssignmentRegistry
// reads through Redis. Writes to assignments invalidate eagerly; the TTL
// bounds staleness if an invalidation is lost.
type CachedAssignmentRegistry struct {
	repo *repository.ClassAssignmentRepository
	rdb  *redis.Client
	ttl  time.Duration
	log  zerolog.Logger
}

// NewCachedAssignmentRegistry creates a registry cache in front of the
// assignment repository.
func NewCachedAssignmentRegistry(repo *repository.ClassAssignmentRepository, rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *CachedAssignmentRegistry {
	return &CachedAssignmentRegistry{
		repo: repo,
		rdb:  rdb,
		ttl:  ttl,
		log:  log.With().Str("component", "assignment_registry").Logger(),
	}
}

var _ rules.AssignmentRegistry = (*CachedAssignmentRegistry)(nil)

// AssignedClasses returns the canonical class labels assigned to a
// teacher, from cache when possible. Cache failures fall through to the
// repository — a cold cache must never deny access.
func (r *CachedAssignmentRegistry) AssignedClasses(ctx context.Context, teacherID int) ([]string, error) {
	key := config.CacheKey.TeacherClassesKey(teacherID)

	cached, err := r.rdb.Get(ctx, key).Result()
	if err == nil {
		var labels []string
		if err := json.Unmarshal([]byte(cached), &labels); err == nil {
			return labels, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		r.log.Warn().Err(err).Int("teacher_id", teacherID).Msg("assignment cache read failed")
	}

	labels, err := r.repo.AssignedClasses(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if labels == nil {
		labels = []string{}
	}

	if raw, err := json.Marshal(labels); err == nil {
		if err := r.rdb.Set(ctx, key, raw, r.ttl).Err(); err != nil {
			r.log.Warn().Err(err).Int("teacher_id", teacherID).Msg("assignment cache write failed")
		}
	}

	return labels, nil
}

// Invalidate drops the cached class set for the given teachers.
func (r *CachedAssignmentRegistry) Invalidate(ctx context.Context, teacherIDs []int) {
	if len(teacherIDs) == 0 {
		return
	}
	keys := make([]string, len(teacherIDs))
	for i, id := range teacherIDs {
		keys[i] = config.CacheKey.TeacherClassesKey(id)
	}
	if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
		r.log.Warn().Err(err).Msg("assignment cache invalidation failed")
	}
}

// ClassAssignmentService handles admin management of the class-to-teacher
// assignment table.
type ClassAssignmentService struct {
	assignmentRepo *repository.ClassAssignmentRepository
	userRepo       *repository.UserRepository
	registry       *CachedAssignmentRegistry
	audit          *AuditService
}

// NewClassAssignmentService creates a new ClassAssignmentService.
func NewClassAssignmentService(
	assignmentRepo *repository.ClassAssignmentRepository,
	userRepo *repository.UserRepository,
	registry *CachedAssignmentRegistry,
	audit *AuditService,
) *ClassAssignmentService {
	return &ClassAssignmentService{
		assignmentRepo: assignmentRepo,
		userRepo:       userRepo,
		registry:       registry,
		audit:          audit,
	}
}

// Upsert creates or replaces the teacher set for a class. The label is
// canonicalized first; every listed ID must belong to a teacher account.
func (s *ClassAssignmentService) Upsert(ctx context.Context, actor rules.Actor, req *model.UpsertClassAssignmentRequest) (*model.ClassAssignment, error) {
	label, err := rules.CheckClassLabel(req.ClassLabel)
	if err != nil {
		return nil, err
	}

	for _, id := range req.TeacherIDs {
		u, err := s.userRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return nil, rules.NewValidationError("teacher_ids", fmt.Sprintf("user %d does not exist", id))
			}
			return nil, err
		}
		if u.Role != rules.RoleTeacher {
			return nil, rules.NewValidationError("teacher_ids", fmt.Sprintf("user %d is not a teacher", id))
		}
	}

	// Invalidate both the previous and the new teacher set; a teacher
	// removed from the class must lose the cached grant too.
	previous, err := s.assignmentRepo.GetByLabel(ctx, label)
	if err != nil && !errors.Is(err, repository.ErrAssignmentNotFound) {
		return nil, err
	}

	assignment := &model.ClassAssignment{ClassLabel: label, TeacherIDs: req.TeacherIDs}
	if err := s.assignmentRepo.Upsert(ctx, assignment); err != nil {
		return nil, err
	}

	affected := assignment.TeacherIDs
	if previous != nil {
		affected = append(affected, previous.TeacherIDs...)
	}
	s.registry.Invalidate(ctx, affected)

	s.audit.Record(ctx, actor.ID, "upsert", "class_assignment", assignment.ID, label)
	return assignment, nil
}

// List retrieves all class assignments.
func (s *ClassAssignmentService) List(ctx context.Context) ([]model.ClassAssignment, error) {
	assignments, err := s.assignmentRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if assignments == nil {
		assignments = []model.ClassAssignment{}
	}
	return assignments, nil
}

// Delete removes the assignment for a class label (any accepted form).
func (s *ClassAssignmentService) Delete(ctx context.Context, actor rules.Actor, rawLabel string) error {
	label := rules.CanonicalClassLabel(rawLabel)

	previous, err := s.assignmentRepo.GetByLabel(ctx, label)
	if err != nil {
		if errors.Is(err, repository.ErrAssignmentNotFound) {
			return &rules.NotFoundError{Resource: "class assignment"}
		}
		return err
	}

	if err := s.assignmentRepo.Delete(ctx, label); err != nil {
		return err
	}
	s.registry.Invalidate(ctx, previous.TeacherIDs)

	s.audit.Record(ctx, actor.ID, "delete", "class_assignment", previous.ID, label)
	return nil
}
