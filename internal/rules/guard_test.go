package rules

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

// fakeAttendanceIndex records slots as "studentID/label/day" and counts
// lookups.
type fakeAttendanceIndex struct {
	slots map[string]bool
	calls int
	err   error
}

func slotKey(studentID int, label string, day time.Time) string {
	return fmt.Sprintf("%d/%s/%s", studentID, label, day.Format("2006-01-02"))
}

func (f *fakeAttendanceIndex) SlotTaken(_ context.Context, studentID int, label string, day time.Time) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return f.slots[slotKey(studentID, label, day)], nil
}

func newTestGuard(index AttendanceIndex, assignments map[int][]string) *MutationGuard {
	return NewMutationGuard(NewScopeResolver(&fakeRegistry{assignments: assignments}), index)
}

func TestCheckAttendanceCreate(t *testing.T) {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	index := &fakeAttendanceIndex{slots: map[string]bool{
		slotKey(1, "5B", day): true,
	}}
	g := newTestGuard(index, nil)
	ctx := context.Background()
	admin := Actor{ID: 1, Role: RoleAdmin}

	// Same student and date under a different class succeeds.
	label, err := g.CheckAttendanceCreate(ctx, admin, StudentRef{CreatedBy: 1, ClassLabel: "6A"}, AttendanceInput{
		StudentID: 1, ClassLabel: "6A", Date: day, Status: AttendancePresent,
	})
	if err != nil {
		t.Fatalf("different class: %v", err)
	}
	if label != "6A" {
		t.Errorf("label = %q, want 6A", label)
	}

	// Duplicate slot rejected even when the label spelling and the time
	// of day differ from the stored record.
	_, err = g.CheckAttendanceCreate(ctx, admin, StudentRef{CreatedBy: 1, ClassLabel: "5B"}, AttendanceInput{
		StudentID:  1,
		ClassLabel: "5-b",
		Date:       day.Add(14 * time.Hour),
		Status:     AttendanceAbsent,
	})
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("duplicate slot: err = %v, want ConflictError", err)
	}
}

func TestCheckAttendanceCreateScopeBeforeSlot(t *testing.T) {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	index := &fakeAttendanceIndex{slots: map[string]bool{
		slotKey(1, "9C", day): true,
	}}
	g := newTestGuard(index, map[int][]string{7: {"5B"}})
	ctx := context.Background()

	// Teacher 7 has no grant on 9C. The occupied slot must not surface as
	// a conflict, and the index must not even be consulted.
	student := StudentRef{CreatedBy: 2, ClassLabel: "9C"}
	in := AttendanceInput{StudentID: 1, ClassLabel: "9C", Date: day, Status: AttendancePresent}

	_, err := g.CheckAttendanceCreate(ctx, Actor{ID: 7, Role: RoleTeacher}, student, in)
	var authErr *AuthorizationError
	if !errors.As(err, &authErr) {
		t.Fatalf("out of scope: err = %v, want AuthorizationError", err)
	}
	if index.calls != 0 {
		t.Errorf("slot index consulted %d times before the scope check", index.calls)
	}

	// The same write from the student's owner reports the conflict.
	_, err = g.CheckAttendanceCreate(ctx, Actor{ID: 2, Role: RoleTeacher}, student, in)
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("owner duplicate: err = %v, want ConflictError", err)
	}
}

func TestCheckAttendanceCreateValidation(t *testing.T) {
	g := newTestGuard(&fakeAttendanceIndex{}, nil)
	ctx := context.Background()
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		in        AttendanceInput
		wantField string
	}{
		{"missing student", AttendanceInput{ClassLabel: "5B", Date: day, Status: AttendancePresent}, "student_id"},
		{"missing date", AttendanceInput{StudentID: 1, ClassLabel: "5B", Status: AttendancePresent}, "date"},
		{"bad status", AttendanceInput{StudentID: 1, ClassLabel: "5B", Date: day, Status: "asleep"}, "status"},
		{"missing class", AttendanceInput{StudentID: 1, Date: day, Status: AttendancePresent}, "class_label"},
		{"overlong class", AttendanceInput{StudentID: 1, ClassLabel: "Senior Blue House", Date: day, Status: AttendancePresent}, "class_label"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := g.CheckAttendanceCreate(ctx, Actor{ID: 1, Role: RoleAdmin}, StudentRef{CreatedBy: 1, ClassLabel: "5B"}, tc.in)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if ve.Field != tc.wantField {
				t.Errorf("field = %q, want %q", ve.Field, tc.wantField)
			}
		})
	}
}

func TestAuthorizeStudent(t *testing.T) {
	g := newTestGuard(&fakeAttendanceIndex{}, map[int][]string{7: {"5B"}})
	ctx := context.Background()

	if err := g.AuthorizeStudent(ctx, Actor{ID: 7, Role: RoleTeacher}, "update", 2, "5B"); err != nil {
		t.Errorf("assigned class: %v", err)
	}
	if err := g.AuthorizeStudent(ctx, Actor{ID: 1, Role: RoleAdmin}, "delete", 2, "9C"); err != nil {
		t.Errorf("admin: %v", err)
	}

	err := g.AuthorizeStudent(ctx, Actor{ID: 7, Role: RoleTeacher}, "update", 2, "9C")
	var authErr *AuthorizationError
	if !errors.As(err, &authErr) {
		t.Fatalf("err = %v, want AuthorizationError", err)
	}
}

func TestDayOf(t *testing.T) {
	in := time.Date(2024, 5, 1, 23, 45, 12, 999, time.FixedZone("X", 3*3600))
	got := DayOf(in)
	want := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("DayOf = %v, want %v", got, want)
	}
}

func TestValidateFee(t *testing.T) {
	g := newTestGuard(&fakeAttendanceIndex{}, nil)
	due := time.Now().Add(time.Hour)

	if err := g.ValidateFee(1000, due); err != nil {
		t.Errorf("valid fee: %v", err)
	}
	if err := g.ValidateFee(-1, due); err == nil {
		t.Error("negative total accepted")
	}
	if err := g.ValidateFee(1000, time.Time{}); err == nil {
		t.Error("zero due date accepted")
	}
	if err := g.ValidatePayment(0); err == nil {
		t.Error("zero payment accepted")
	}
	if err := g.ValidatePayment(50); err != nil {
		t.Errorf("valid payment: %v", err)
	}
}

func TestValidateSubjects(t *testing.T) {
	g := newTestGuard(&fakeAttendanceIndex{}, nil)

	if err := g.ValidateSubjects(nil); err == nil {
		t.Error("empty subjects accepted")
	}
	if err := g.ValidateSubjects([]SubjectMarks{{Name: "", TotalMarks: 100}}); err == nil {
		t.Error("unnamed subject accepted")
	}
	if err := g.ValidateSubjects([]SubjectMarks{{Name: "Maths", TotalMarks: 100, ObtainedMarks: 120}}); err == nil {
		t.Error("obtained above total accepted")
	}
	if err := g.ValidateSubjects([]SubjectMarks{{Name: "Maths", TotalMarks: 100, ObtainedMarks: 90}}); err != nil {
		t.Errorf("valid subjects: %v", err)
	}
}
