package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/response"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/service"
)

// DashboardHandler serves the admin overview aggregates.
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetSummary godoc
// GET /api/v1/admin/dashboard
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	summary, err := h.dashboardService.Summary(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"summary": summary})
}

// GetAttendanceByDay godoc
// GET /api/v1/admin/dashboard/attendance?date=YYYY-MM-DD
func (h *DashboardHandler) GetAttendanceByDay(c *gin.Context) {
	day := time.Now()
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
			return
		}
		day = parsed
	}

	counts, err := h.dashboardService.AttendanceByDay(c.Request.Context(), day)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"date":   day.Format("2006-01-02"),
		"counts": counts,
	})
}
