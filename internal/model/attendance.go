package model

import (
	"time"

	"github.com/ramit8508/Teacher-managment-system-sub000/internal/rules"
)

// AttendanceRecord marks one student's state for one class day. At most
// one record exists per (student, canonical class label, date); the date
// is compared date-only.
type AttendanceRecord struct {
	ID         int                    `json:"id"`
	StudentID  int                    `json:"student_id"`
	ClassLabel string                 `json:"class_label"`
	Date       time.Time              `json:"date"`
	Status     rules.AttendanceStatus `json:"status"`
	MarkedBy   int                    `json:"marked_by"`
	CreatedAt  time.Time              `json:"created_at"`
}

// MarkAttendanceRequest is the payload for creating an attendance record.
type MarkAttendanceRequest struct {
	StudentID  int    `json:"student_id" binding:"required,gt=0"`
	ClassLabel string `json:"class_label" binding:"required,min=1,max=50"`
	Date       string `json:"date" binding:"required,datetime=2006-01-02"`
	Status     string `json:"status" binding:"required,oneof=present absent late excused"`
}

// UpdateAttendanceRequest changes the status of an existing record.
type UpdateAttendanceRequest struct {
	Status string `json:"status" binding:"required,oneof=present absent late excused"`
}

// AttendanceEvent is published on the live feed when attendance is marked.
type AttendanceEvent struct {
	RecordID   int    `json:"record_id"`
	StudentID  int    `json:"student_id"`
	ClassLabel string `json:"class_label"`
	Date       string `json:"date"`
	Status     string `json:"status"`
	MarkedBy   int    `json:"marked_by"`
}
