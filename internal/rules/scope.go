package rules

import "context"

// Role is the acting user's role.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// Actor is the authenticated identity performing an operation.
// SuperAdmin is an explicit provisioning-time flag; it is never inferred
// from a username or email at call sites.
type Actor struct {
	ID         int
	Role       Role
	SuperAdmin bool
}

// AssignmentRegistry looks up the canonical class labels a teacher is
// assigned to. Implementations own freshness (a repository, a cache in
// front of one); the resolver only depends on this read contract.
type AssignmentRegistry interface {
	AssignedClasses(ctx context.Context, teacherID int) ([]string, error)
}

// StudentScope is the filter deciding which student records an actor may
// see or mutate. A zero-value scope denies everything.
type StudentScope struct {
	// All short-circuits filtering: every record is visible.
	All bool
	// OwnerID grants records the actor registered (created_by match).
	OwnerID int
	// ClassLabels grants records whose canonical class label is assigned
	// to the actor. Composes with OwnerID using OR semantics.
	ClassLabels []string
}

// Allows reports whether a student record with the given createdBy and raw
// class label falls inside the scope. The label is canonicalized before
// comparison so differently-spelled labels cannot leak records out of (or
// into) a teacher's view.
func (s *StudentScope) Allows(createdBy int, classLabel string) bool {
	if s.All {
		return true
	}
	if s.OwnerID != 0 && createdBy == s.OwnerID {
		return true
	}
	canonical := CanonicalClassLabel(classLabel)
	for _, label := range s.ClassLabels {
		if label == canonical {
			return true
		}
	}
	return false
}

// Empty reports whether the scope can never match any record.
func (s *StudentScope) Empty() bool {
	return !s.All && s.OwnerID == 0 && len(s.ClassLabels) == 0
}

// ScopeResolver decides record visibility from role plus dynamic class
// assignment. Two independent grants compose with OR semantics: ownership
// via created_by survives unassignment from a class, and a later class
// assignment grants access to students registered by someone else without
// touching their records.
type ScopeResolver struct {
	registry AssignmentRegistry
}

// NewScopeResolver creates a ScopeResolver backed by the given registry.
func NewScopeResolver(registry AssignmentRegistry) *ScopeResolver {
	return &ScopeResolver{registry: registry}
}

// ResolveStudentScope returns the visibility filter for the actor.
// Admins are unrestricted. Teachers see records they created plus records
// in their assigned classes. Every other role gets the deny-all scope.
func (r *ScopeResolver) ResolveStudentScope(ctx context.Context, actor Actor) (*StudentScope, error) {
	switch actor.Role {
	case RoleAdmin:
		return &StudentScope{All: true}, nil
	case RoleTeacher:
		assigned, err := r.registry.AssignedClasses(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		labels := make([]string, 0, len(assigned))
		for _, raw := range assigned {
			if canonical := CanonicalClassLabel(raw); canonical != "" {
				labels = append(labels, canonical)
			}
		}
		return &StudentScope{OwnerID: actor.ID, ClassLabels: labels}, nil
	default:
		return &StudentScope{}, nil
	}
}

// CanAccessStudent reports whether the actor may read or mutate a student
// record described by its createdBy reference and class label. Mutation
// paths must treat a false result as an AuthorizationError, not NotFound,
// so editable-state never diverges from queryable-state.
func (r *ScopeResolver) CanAccessStudent(ctx context.Context, actor Actor, createdBy int, classLabel string) (bool, error) {
	scope, err := r.ResolveStudentScope(ctx, actor)
	if err != nil {
		return false, err
	}
	return scope.Allows(createdBy, classLabel), nil
}
