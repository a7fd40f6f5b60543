package rules

import (
	"math"
	"testing"
)

func TestRecomputeExamState(t *testing.T) {
	cases := []struct {
		name     string
		subjects []SubjectMarks
		wantPct  float64
		wantGrd  string
	}{
		{
			name: "single subject full marks",
			subjects: []SubjectMarks{
				{Name: "Maths", TotalMarks: 100, ObtainedMarks: 100},
			},
			wantPct: 100, wantGrd: "A+",
		},
		{
			name: "mixed subjects",
			subjects: []SubjectMarks{
				{Name: "Maths", TotalMarks: 100, ObtainedMarks: 80},
				{Name: "Science", TotalMarks: 100, ObtainedMarks: 60},
			},
			wantPct: 70, wantGrd: "B",
		},
		{
			name: "uneven totals weight by marks",
			subjects: []SubjectMarks{
				{Name: "Maths", TotalMarks: 50, ObtainedMarks: 50},
				{Name: "English", TotalMarks: 150, ObtainedMarks: 50},
			},
			wantPct: 50, wantGrd: "D",
		},
		{
			name:     "no subjects",
			subjects: nil,
			wantPct:  0, wantGrd: "F",
		},
		{
			name: "zero total marks never divides by zero",
			subjects: []SubjectMarks{
				{Name: "Practical", TotalMarks: 0, ObtainedMarks: 0},
			},
			wantPct: 0, wantGrd: "F",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			state := RecomputeExamState(tc.subjects)
			if math.Abs(state.Percentage-tc.wantPct) > 1e-9 {
				t.Errorf("percentage = %v, want %v", state.Percentage, tc.wantPct)
			}
			if state.Grade != tc.wantGrd {
				t.Errorf("grade = %q, want %q", state.Grade, tc.wantGrd)
			}
		})
	}
}

func TestGradeBoundaries(t *testing.T) {
	cases := []struct {
		pct  float64
		want string
	}{
		{100, "A+"},
		{90, "A+"},
		{89.99, "A"},
		{80, "A"},
		{79.99, "B"},
		{70, "B"},
		{69.99, "C"},
		{60, "C"},
		{59.99, "D"},
		{50, "D"},
		{49.99, "F"},
		{0, "F"},
	}
	for _, tc := range cases {
		if got := GradeFor(tc.pct); got != tc.want {
			t.Errorf("GradeFor(%v) = %q, want %q", tc.pct, got, tc.want)
		}
	}
}
