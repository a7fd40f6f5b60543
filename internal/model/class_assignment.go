package model

import "time"

// ClassAssignment grants a set of teachers delegated access to every
// student in one canonical class. ClassLabel is unique per assignment.
type ClassAssignment struct {
	ID         int       `json:"id"`
	ClassLabel string    `json:"class_label"`
	TeacherIDs []int     `json:"teacher_ids"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UpsertClassAssignmentRequest creates or replaces the teacher set for a
// class. The label accepts any recognized free-text form.
type UpsertClassAssignmentRequest struct {
	ClassLabel string `json:"class_label" binding:"required,min=1,max=50"`
	TeacherIDs []int  `json:"teacher_ids" binding:"required,min=1,dive,gt=0"`
}
