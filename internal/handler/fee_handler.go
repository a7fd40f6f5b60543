package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/middleware"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/model"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/response"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/service"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/validator"
)

// FeeHandler handles fee records and payment history.
type FeeHandler struct {
	feeService *service.FeeService
}

// NewFeeHandler creates a new FeeHandler.
func NewFeeHandler(feeService *service.FeeService) *FeeHandler {
	return &FeeHandler{feeService: feeService}
}

// ListFees godoc
// GET /api/v1/fees
// Lists fee records whose students are inside the actor's scope.
func (h *FeeHandler) ListFees(c *gin.Context) {
	fees, err := h.feeService.List(c.Request.Context(), middleware.GetClaims(c).Actor())
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"fees": fees})
}

// GetFee godoc
// GET /api/v1/fees/:id
// Returns a fee record with its payment history.
func (h *FeeHandler) GetFee(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	fee, err := h.feeService.Get(c.Request.Context(), middleware.GetClaims(c).Actor(), id)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"fee": fee})
}

// ListStudentFees godoc
// GET /api/v1/students/:id/fees
func (h *FeeHandler) ListStudentFees(c *gin.Context) {
	studentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	fees, err := h.feeService.ListByStudent(c.Request.Context(), middleware.GetClaims(c).Actor(), studentID)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"fees": fees})
}

// CreateFee godoc
// POST /api/v1/fees
func (h *FeeHandler) CreateFee(c *gin.Context) {
	var req model.CreateFeeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	fee, err := h.feeService.Create(c.Request.Context(), middleware.GetClaims(c).Actor(), &req)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"fee": fee})
}

// AppendPayment godoc
// POST /api/v1/fees/:id/payments
// Appends a payment to the fee's history and returns the updated record.
func (h *FeeHandler) AppendPayment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.AppendPaymentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	fee, err := h.feeService.AppendPayment(c.Request.Context(), middleware.GetClaims(c).Actor(), id, &req)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"fee": fee})
}

// UpdateFeeTerms godoc
// PUT /api/v1/fees/:id
// Changes a fee's total and due date. Payment history is untouched.
func (h *FeeHandler) UpdateFeeTerms(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateFeeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	fee, err := h.feeService.UpdateTerms(c.Request.Context(), middleware.GetClaims(c).Actor(), id, req.TotalFee, req.DueDate)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"fee": fee})
}

// DeleteFee godoc
// DELETE /api/v1/fees/:id
func (h *FeeHandler) DeleteFee(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.feeService.Delete(c.Request.Context(), middleware.GetClaims(c).Actor(), id); err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "fee record deleted successfully"})
}
