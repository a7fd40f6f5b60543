package rules

import (
	"context"
	"errors"
	"testing"
)

// fakeRegistry maps teacher ID to raw (possibly non-canonical) labels.
type fakeRegistry struct {
	assignments map[int][]string
	err         error
}

func (f *fakeRegistry) AssignedClasses(_ context.Context, teacherID int) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.assignments[teacherID], nil
}

func TestResolveStudentScopeAdmin(t *testing.T) {
	r := NewScopeResolver(&fakeRegistry{})
	scope, err := r.ResolveStudentScope(context.Background(), Actor{ID: 1, Role: RoleAdmin})
	if err != nil {
		t.Fatal(err)
	}
	if !scope.All {
		t.Error("admin scope should be unrestricted")
	}
	if !scope.Allows(99, "unknown") {
		t.Error("admin scope should allow any record")
	}
}

func TestResolveStudentScopeTeacher(t *testing.T) {
	reg := &fakeRegistry{assignments: map[int][]string{
		7: {"5-B", "Class 9 - Section C"}, // Registry labels get canonicalized too.
	}}
	r := NewScopeResolver(reg)

	scope, err := r.ResolveStudentScope(context.Background(), Actor{ID: 7, Role: RoleTeacher})
	if err != nil {
		t.Fatal(err)
	}

	// Ownership grant: created by this teacher, class irrelevant.
	if !scope.Allows(7, "12Z") {
		t.Error("teacher should see students they registered even outside assigned classes")
	}
	// Delegated grant: assigned class, registered by someone else.
	if !scope.Allows(3, "5B") {
		t.Error("teacher should see students in an assigned class regardless of creator")
	}
	// Label spelling must not matter on the record side either.
	if !scope.Allows(3, "5-b") {
		t.Error("scope must canonicalize the record label before comparing")
	}
	if !scope.Allows(3, "Class 9 Section C") {
		t.Error("scope must match the second assigned class")
	}
	// Neither grant applies.
	if scope.Allows(3, "6A") {
		t.Error("teacher should not see unrelated students")
	}
}

func TestResolveStudentScopeDeniesOtherRoles(t *testing.T) {
	r := NewScopeResolver(&fakeRegistry{})
	scope, err := r.ResolveStudentScope(context.Background(), Actor{ID: 4, Role: RoleStudent})
	if err != nil {
		t.Fatal(err)
	}
	if !scope.Empty() {
		t.Error("non-admin non-teacher roles must get the deny-all scope")
	}
	if scope.Allows(4, "5B") {
		t.Error("deny-all scope allowed a record")
	}
}

func TestCanAccessStudent(t *testing.T) {
	reg := &fakeRegistry{assignments: map[int][]string{7: {"5B"}}}
	r := NewScopeResolver(reg)
	ctx := context.Background()

	// Created by teacher 7 but class unassigned: ownership grant survives.
	ok, err := r.CanAccessStudent(ctx, Actor{ID: 7, Role: RoleTeacher}, 7, "11A")
	if err != nil || !ok {
		t.Errorf("ownership grant: ok=%v err=%v", ok, err)
	}

	// Assigned class, created by another teacher: delegated grant applies.
	ok, err = r.CanAccessStudent(ctx, Actor{ID: 7, Role: RoleTeacher}, 2, "5B")
	if err != nil || !ok {
		t.Errorf("delegated grant: ok=%v err=%v", ok, err)
	}

	ok, err = r.CanAccessStudent(ctx, Actor{ID: 7, Role: RoleTeacher}, 2, "6A")
	if err != nil || ok {
		t.Errorf("unrelated record: ok=%v err=%v", ok, err)
	}
}

func TestResolveStudentScopePropagatesRegistryError(t *testing.T) {
	wantErr := errors.New("registry down")
	r := NewScopeResolver(&fakeRegistry{err: wantErr})
	_, err := r.ResolveStudentScope(context.Background(), Actor{ID: 7, Role: RoleTeacher})
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
}
