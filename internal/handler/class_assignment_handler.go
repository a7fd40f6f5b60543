package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/middleware"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/model"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/response"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/service"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/validator"
)

// ClassAssignmentHandler handles admin management of class-to-teacher
// assignments.
type ClassAssignmentHandler struct {
	assignmentService *service.ClassAssignmentService
}

// NewClassAssignmentHandler creates a new ClassAssignmentHandler.
func NewClassAssignmentHandler(assignmentService *service.ClassAssignmentService) *ClassAssignmentHandler {
	return &ClassAssignmentHandler{assignmentService: assignmentService}
}

// ListAssignments godoc
// GET /api/v1/admin/class-assignments
func (h *ClassAssignmentHandler) ListAssignments(c *gin.Context) {
	assignments, err := h.assignmentService.List(c.Request.Context())
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"assignments": assignments})
}

// UpsertAssignment godoc
// PUT /api/v1/admin/class-assignments
// Creates or replaces the teacher set for a class.
func (h *ClassAssignmentHandler) UpsertAssignment(c *gin.Context) {
	var req model.UpsertClassAssignmentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	assignment, err := h.assignmentService.Upsert(c.Request.Context(), middleware.GetClaims(c).Actor(), &req)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"assignment": assignment})
}

// DeleteAssignment godoc
// DELETE /api/v1/admin/class-assignments/:label
func (h *ClassAssignmentHandler) DeleteAssignment(c *gin.Context) {
	label := c.Param("label")
	if label == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	if err := h.assignmentService.Delete(c.Request.Context(), middleware.GetClaims(c).Actor(), label); err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "class assignment deleted successfully"})
}
