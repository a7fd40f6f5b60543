package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/config"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/handler"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/middleware"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/response"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/rules"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	User       *handler.UserHandler
	Student    *handler.StudentHandler
	Assignment *handler.ClassAssignmentHandler
	Attendance *handler.AttendanceHandler
	Fee        *handler.FeeHandler
	Exam       *handler.ExamHandler
	Dashboard  *handler.DashboardHandler
	WS         *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/logout", middleware.RequireJWT(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireJWT(authService), handlers.Auth.Me)
	}

	// ─── 2. Staff Group (Admins and Teachers) ──────────────────────────
	// The access scope is resolved per request inside the services, so
	// admins and teachers share these routes.
	api := router.Group("/api/v1")
	api.Use(
		middleware.RequireJWT(authService),
		middleware.RequireRole(rules.RoleAdmin, rules.RoleTeacher),
	)
	{
		api.GET("/students", handlers.Student.ListStudents)
		api.POST("/students", handlers.Student.CreateStudent)
		api.GET("/students/:id", handlers.Student.GetStudent)
		api.PUT("/students/:id", handlers.Student.UpdateStudent)
		api.DELETE("/students/:id", handlers.Student.DeleteStudent)

		api.GET("/students/:id/attendance", handlers.Attendance.ListStudentAttendance)
		api.GET("/students/:id/fees", handlers.Fee.ListStudentFees)
		api.GET("/students/:id/exams", handlers.Exam.ListStudentExams)

		api.POST("/attendance", handlers.Attendance.MarkAttendance)
		api.GET("/attendance/class/:label", handlers.Attendance.ListClassAttendance)
		api.PATCH("/attendance/:id", handlers.Attendance.UpdateAttendance)
		api.DELETE("/attendance/:id", handlers.Attendance.DeleteAttendance)

		api.GET("/fees", handlers.Fee.ListFees)
		api.POST("/fees", handlers.Fee.CreateFee)
		api.GET("/fees/:id", handlers.Fee.GetFee)
		api.PUT("/fees/:id", handlers.Fee.UpdateFeeTerms)
		api.DELETE("/fees/:id", handlers.Fee.DeleteFee)
		api.POST("/fees/:id/payments", handlers.Fee.AppendPayment)

		api.GET("/exams", handlers.Exam.ListExams)
		api.POST("/exams", handlers.Exam.CreateExam)
		api.GET("/exams/:id", handlers.Exam.GetExam)
		api.PUT("/exams/:id", handlers.Exam.UpdateExam)
		api.DELETE("/exams/:id", handlers.Exam.DeleteExam)
	}

	// ─── 3. Admin Group (JWT + RBAC) ───────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireJWT(authService), middleware.RequireAdmin())
	{
		adminAPI.GET("/users", handlers.User.ListUsers)
		adminAPI.POST("/users", handlers.User.CreateUser)
		adminAPI.GET("/users/:id", handlers.User.GetUser)
		adminAPI.PUT("/users/:id", handlers.User.UpdateUser)
		adminAPI.DELETE("/users/:id", handlers.User.DeleteUser)

		adminAPI.GET("/class-assignments", handlers.Assignment.ListAssignments)
		adminAPI.PUT("/class-assignments", handlers.Assignment.UpsertAssignment)
		adminAPI.DELETE("/class-assignments/:label", handlers.Assignment.DeleteAssignment)

		adminAPI.GET("/dashboard", handlers.Dashboard.GetSummary)
		adminAPI.GET("/dashboard/attendance", handlers.Dashboard.GetAttendanceByDay)
	}

	// ─── 4. WebSocket Group (WS Auth via query token) ──────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSAuth(authService))
	{
		ws.GET("/admin/attendance/stream", handlers.WS.AttendanceFeed)
	}

	return router
}
