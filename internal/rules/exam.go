package rules

// SubjectMarks is one subject entry in an examination record.
type SubjectMarks struct {
	Name          string
	TotalMarks    float64
	ObtainedMarks float64
}

// ExamState holds the derived fields of an examination record.
type ExamState struct {
	Percentage float64
	Grade      string
}

// RecomputeExamState derives the overall percentage and letter grade from
// the subject entries. Percentage is 0 when the summed total marks are 0.
// Must be re-run whenever a subject's marks change or a subject is added
// or removed.
func RecomputeExamState(subjects []SubjectMarks) ExamState {
	var total, obtained float64
	for _, sub := range subjects {
		total += sub.TotalMarks
		obtained += sub.ObtainedMarks
	}

	var percentage float64
	if total > 0 {
		percentage = 100 * obtained / total
	}

	return ExamState{
		Percentage: percentage,
		Grade:      GradeFor(percentage),
	}
}

// GradeFor maps a percentage onto a letter grade. Thresholds are inclusive
// lower bounds evaluated highest-first.
func GradeFor(percentage float64) string {
	switch {
	case percentage >= 90:
		return "A+"
	case percentage >= 80:
		return "A"
	case percentage >= 70:
		return "B"
	case percentage >= 60:
		return "C"
	case percentage >= 50:
		return "D"
	default:
		return "F"
	}
}
