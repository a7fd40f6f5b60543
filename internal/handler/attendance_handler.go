package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/middleware"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/model"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/response"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/rules"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/service"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/validator"
)

// AttendanceHandler handles attendance marking and reads.
type AttendanceHandler struct {
	attendanceService *service.AttendanceService
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(attendanceService *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

// MarkAttendance godoc
// POST /api/v1/attendance
// Marks a student's attendance for one class day. A second mark for the
// same student, class and date is rejected with a conflict.
func (h *AttendanceHandler) MarkAttendance(c *gin.Context) {
	var req model.MarkAttendanceRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	record, err := h.attendanceService.Mark(c.Request.Context(), middleware.GetClaims(c).Actor(), &req)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"attendance": record})
}

// ListStudentAttendance godoc
// GET /api/v1/students/:id/attendance
func (h *AttendanceHandler) ListStudentAttendance(c *gin.Context) {
	studentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	records, err := h.attendanceService.ListByStudent(c.Request.Context(), middleware.GetClaims(c).Actor(), studentID)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"attendance": records})
}

// ListClassAttendance godoc
// GET /api/v1/attendance/class/:label?from=YYYY-MM-DD&to=YYYY-MM-DD
// Defaults to the current day when no range is given.
func (h *AttendanceHandler) ListClassAttendance(c *gin.Context) {
	label := c.Param("label")

	now := time.Now()
	from, to := now, now
	if fromStr := c.Query("from"); fromStr != "" {
		parsed, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
			return
		}
		from = parsed
	}
	if toStr := c.Query("to"); toStr != "" {
		parsed, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
			return
		}
		to = parsed
	}

	records, err := h.attendanceService.ListByClass(c.Request.Context(), middleware.GetClaims(c).Actor(), label, from, to)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"attendance": records})
}

// UpdateAttendance godoc
// PATCH /api/v1/attendance/:id
// Changes the status of an existing record.
func (h *AttendanceHandler) UpdateAttendance(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateAttendanceRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	record, err := h.attendanceService.UpdateStatus(c.Request.Context(), middleware.GetClaims(c).Actor(), id, rules.AttendanceStatus(req.Status))
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"attendance": record})
}

// DeleteAttendance godoc
// DELETE /api/v1/attendance/:id
func (h *AttendanceHandler) DeleteAttendance(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.attendanceService.Delete(c.Request.Context(), middleware.GetClaims(c).Actor(), id); err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "attendance record deleted successfully"})
}
