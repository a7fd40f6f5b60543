package rules

import (
	"context"
	"time"
)

// AttendanceStatus is the recorded state of a student for one class day.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

// ValidAttendanceStatus reports whether s is one of the recognized statuses.
func ValidAttendanceStatus(s AttendanceStatus) bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused:
		return true
	}
	return false
}

// DayOf truncates t to its calendar date in UTC. Attendance uniqueness is
// date-only: two timestamps on the same day occupy the same slot no matter
// the wall-clock time they carry.
func DayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AttendanceIndex answers whether an attendance slot is already occupied.
// Implementations receive an already-canonical class label and a
// date-truncated day.
type AttendanceIndex interface {
	SlotTaken(ctx context.Context, studentID int, classLabel string, day time.Time) (bool, error)
}

// AttendanceInput is the raw client input for marking attendance.
type AttendanceInput struct {
	StudentID  int
	ClassLabel string
	Date       time.Time
	Status     AttendanceStatus
}

// StudentRef carries the ownership fields of an existing student record
// that scope decisions are made against.
type StudentRef struct {
	CreatedBy  int
	ClassLabel string
}

// MutationGuard orchestrates the rule engine ahead of any create/update:
// canonicalize class labels, check the actor's access scope, enforce
// uniqueness invariants and make sure derived fields are recomputed before
// commit. It performs no I/O of its own beyond the injected lookups.
type MutationGuard struct {
	scope      *ScopeResolver
	attendance AttendanceIndex
}

// NewMutationGuard creates a MutationGuard.
func NewMutationGuard(scope *ScopeResolver, attendance AttendanceIndex) *MutationGuard {
	return &MutationGuard{scope: scope, attendance: attendance}
}

// Scope exposes the underlying resolver for read paths.
func (g *MutationGuard) Scope() *ScopeResolver {
	return g.scope
}

// AuthorizeStudent checks that the actor may perform action on a student
// record described by its createdBy reference and class label. A failed
// check is an AuthorizationError so callers cannot confuse "forbidden"
// with "absent".
func (g *MutationGuard) AuthorizeStudent(ctx context.Context, actor Actor, action string, createdBy int, classLabel string) error {
	allowed, err := g.scope.CanAccessStudent(ctx, actor, createdBy, classLabel)
	if err != nil {
		return err
	}
	if !allowed {
		return &AuthorizationError{Action: action, Resource: "student record"}
	}
	return nil
}

// CheckAttendanceCreate validates an attendance create for the given actor
// and returns the canonical class label to store. The scope check runs
// before the duplicate probe: an actor outside the student's scope gets an
// AuthorizationError whether or not the slot is occupied, so the error
// type never reveals attendance state for students the actor cannot see.
// The duplicate check uses the canonical label and the date-truncated day,
// so "5-B" on 2024-05-01T09:00 and "5B" on 2024-05-01T14:00 collide as
// intended.
func (g *MutationGuard) CheckAttendanceCreate(ctx context.Context, actor Actor, student StudentRef, in AttendanceInput) (string, error) {
	if in.StudentID <= 0 {
		return "", NewValidationError("student_id", "student is required")
	}
	if in.Date.IsZero() {
		return "", NewValidationError("date", "date is required")
	}
	if !ValidAttendanceStatus(in.Status) {
		return "", NewValidationError("status", "must be one of present, absent, late, excused")
	}

	canonical, err := CheckClassLabel(in.ClassLabel)
	if err != nil {
		return "", err
	}

	if err := g.AuthorizeStudent(ctx, actor, "mark attendance for", student.CreatedBy, student.ClassLabel); err != nil {
		return "", err
	}

	taken, err := g.attendance.SlotTaken(ctx, in.StudentID, canonical, DayOf(in.Date))
	if err != nil {
		return "", err
	}
	if taken {
		return "", &ConflictError{
			Resource: "attendance",
			Detail:   "attendance already marked for this student, class and date",
		}
	}

	return canonical, nil
}

// ValidateFee checks the client-supplied parts of a fee record. Derived
// fields are recomputed, never validated, so they are not inputs here.
func (g *MutationGuard) ValidateFee(totalFee float64, dueDate time.Time) error {
	if totalFee < 0 {
		return NewValidationError("total_fee", "must not be negative")
	}
	if dueDate.IsZero() {
		return NewValidationError("due_date", "due date is required")
	}
	return nil
}

// ValidatePayment checks a single payment append.
func (g *MutationGuard) ValidatePayment(amount float64) error {
	if amount <= 0 {
		return NewValidationError("amount", "must be greater than zero")
	}
	return nil
}

// ValidateSubjects checks the subject entries of an examination record.
func (g *MutationGuard) ValidateSubjects(subjects []SubjectMarks) error {
	if len(subjects) == 0 {
		return NewValidationError("subjects", "at least one subject is required")
	}
	for _, sub := range subjects {
		if sub.Name == "" {
			return NewValidationError("subjects", "subject name is required")
		}
		if sub.TotalMarks < 0 {
			return NewValidationError("subjects", "total marks must not be negative")
		}
		if sub.ObtainedMarks < 0 {
			return NewValidationError("subjects", "obtained marks must not be negative")
		}
		if sub.ObtainedMarks > sub.TotalMarks {
			return NewValidationError("subjects", "obtained marks cannot exceed total marks")
		}
	}
	return nil
}
