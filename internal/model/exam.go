package model

import "time"

// ExamRecord holds one student's result sheet for a named examination.
// Percentage and Grade are derived from the subject entries on every
// write and never accepted from clients.
type ExamRecord struct {
	ID         int           `json:"id"`
	StudentID  int           `json:"student_id"`
	ExamName   string        `json:"exam_name"`
	Term       string        `json:"term,omitempty"`
	Percentage float64       `json:"percentage"`
	Grade      string        `json:"grade"`
	CreatedBy  int           `json:"created_by"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
	Subjects   []ExamSubject `json:"subjects,omitempty"`
}

// ExamSubject is one ordered subject entry of an exam record.
type ExamSubject struct {
	ID            int     `json:"id"`
	ExamID        int     `json:"exam_id"`
	Position      int     `json:"position"`
	Name          string  `json:"name"`
	TotalMarks    float64 `json:"total_marks"`
	ObtainedMarks float64 `json:"obtained_marks"`
}

// SubjectEntry is the client payload for one subject's marks.
type SubjectEntry struct {
	Name          string  `json:"name" binding:"required,min=1,max=100"`
	TotalMarks    float64 `json:"total_marks" binding:"gte=0"`
	ObtainedMarks float64 `json:"obtained_marks" binding:"gte=0"`
}

// CreateExamRequest is the payload for recording an exam result.
type CreateExamRequest struct {
	StudentID int            `json:"student_id" binding:"required,gt=0"`
	ExamName  string         `json:"exam_name" binding:"required,min=1,max=100"`
	Term      string         `json:"term" binding:"omitempty,max=50"`
	Subjects  []SubjectEntry `json:"subjects" binding:"required,min=1,dive"`
}

// UpdateExamRequest replaces the subject entries of an exam record.
type UpdateExamRequest struct {
	ExamName string         `json:"exam_name" binding:"required,min=1,max=100"`
	Term     string         `json:"term" binding:"omitempty,max=50"`
	Subjects []SubjectEntry `json:"subjects" binding:"required,min=1,dive"`
}
