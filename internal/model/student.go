package model

import "time"

// Student represents a registered student. ClassLabel is always stored in
// canonical form; CreatedBy records the account that registered the
// student and is one of the two access-scope grants.
type Student struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	RollNumber   string    `json:"roll_number"`
	ClassLabel   string    `json:"class_label,omitempty"`
	GuardianName string    `json:"guardian_name,omitempty"`
	CreatedBy    int       `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateStudentRequest is the payload for registering a student.
// ClassLabel accepts any recognized free-text form and is canonicalized
// before storage.
type CreateStudentRequest struct {
	Name         string `json:"name" binding:"required,min=2,max=100"`
	RollNumber   string `json:"roll_number" binding:"required,min=1,max=30"`
	ClassLabel   string `json:"class_label" binding:"omitempty,max=50"`
	GuardianName string `json:"guardian_name" binding:"omitempty,max=100"`
}

// UpdateStudentRequest is the payload for updating a student.
type UpdateStudentRequest struct {
	Name         string `json:"name" binding:"required,min=2,max=100"`
	RollNumber   string `json:"roll_number" binding:"required,min=1,max=30"`
	ClassLabel   string `json:"class_label" binding:"omitempty,max=50"`
	GuardianName string `json:"guardian_name" binding:"omitempty,max=100"`
}
