package model

import "github.com/ramit8508/Teacher-managment-system-sub000/internal/rules"

// DashboardSummary aggregates the admin overview metrics.
type DashboardSummary struct {
	TotalStudents    int                            `json:"total_students"`
	TotalTeachers    int                            `json:"total_teachers"`
	TotalClasses     int                            `json:"total_classes"`
	TotalFeeRecords  int                            `json:"total_fee_records"`
	OutstandingFees  float64                        `json:"outstanding_fees"`
	FeeStatusCounts  map[rules.FeeStatus]int        `json:"fee_status_counts"`
	AttendanceToday  map[rules.AttendanceStatus]int `json:"attendance_today"`
}
