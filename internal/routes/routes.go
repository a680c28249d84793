package routes

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"hospital-management-server/internal/config"
	"hospital-management-server/internal/handlers"
	"hospital-management-server/internal/middleware"
	"hospital-management-server/internal/models"
	"hospital-management-server/internal/scheduling"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, logger zerolog.Logger) error {
	grid, err := scheduling.NewGrid(cfg.Clinic.DayStart, cfg.Clinic.DayEnd, cfg.Clinic.SlotMinutes)
	if err != nil {
		return fmt.Errorf("invalid clinic slot grid: %w", err)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	appointmentHandler := handlers.NewAppointmentHandler(db, grid, logger)
	examHandler := handlers.NewMedicalExamHandler(db, time.Duration(cfg.Clinic.ExamEditHrs)*time.Hour)
	invoiceHandler := handlers.NewInvoiceHandler(db)
	shiftHandler := handlers.NewShiftHandler(db)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/profile", authHandler.UpdateProfile)
		}

		// User management routes
		userRoutes := private.Group("/users")
		{
			// Doctor directory - accessible by all authenticated users
			userRoutes.GET("/doctors", userHandler.GetDoctors)

			// Admin-only routes
			adminRoutes := userRoutes.Group("")
			adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
			{
				adminRoutes.POST("", userHandler.CreateUser)
				adminRoutes.GET("", userHandler.GetUsers)
				adminRoutes.GET("/:id", userHandler.GetUserByID)
				adminRoutes.PUT("/:id", userHandler.UpdateUser)
				adminRoutes.DELETE("/:id", userHandler.DeleteUser)
			}
		}

		// Appointment routes
		appointmentRoutes := private.Group("/appointments")
		{
			// Slot availability for a doctor and date
			appointmentRoutes.GET("/time-slots", appointmentHandler.GetTimeSlots)

			appointmentRoutes.POST("",
				middleware.RoleAuthMiddleware(models.RolePatient, models.RoleReceptionist, models.RoleDoctor, models.RoleAdmin),
				appointmentHandler.CreateAppointment)

			// Role scoping is applied inside the handler
			appointmentRoutes.GET("", appointmentHandler.ListAppointments)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)

			appointmentRoutes.PATCH("/:id",
				middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleNurse),
				appointmentHandler.UpdateAppointment)
			appointmentRoutes.POST("/:id/cancel", appointmentHandler.CancelAppointment)
			appointmentRoutes.POST("/:id/complete",
				middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleDoctor),
				appointmentHandler.CompleteAppointment)
			appointmentRoutes.POST("/:id/no-show",
				middleware.RoleAuthMiddleware(models.RoleAdmin),
				appointmentHandler.MarkNoShow)

			// Nurses record vital signs against the appointment
			appointmentRoutes.POST("/:id/vitals",
				middleware.RoleAuthMiddleware(models.RoleNurse, models.RoleAdmin),
				examHandler.RecordVitals)
		}

		// Medical exam routes
		examRoutes := private.Group("/medical-exams")
		{
			examRoutes.POST("",
				middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin),
				examHandler.CreateExam)
			examRoutes.GET("/patient/:patientId", examHandler.GetExamsForPatient)
			examRoutes.GET("/:id", examHandler.GetExamByID)
			examRoutes.PUT("/:id",
				middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin),
				examHandler.UpdateExam)
		}

		// Billing routes
		invoiceRoutes := private.Group("/invoices")
		{
			invoiceRoutes.POST("",
				middleware.RoleAuthMiddleware(models.RoleReceptionist, models.RoleAdmin),
				invoiceHandler.CreateInvoice)
			invoiceRoutes.GET("", invoiceHandler.ListInvoices)
			invoiceRoutes.GET("/:id", invoiceHandler.GetInvoiceByID)
			invoiceRoutes.POST("/:id/issue",
				middleware.RoleAuthMiddleware(models.RoleReceptionist, models.RoleAdmin),
				invoiceHandler.IssueInvoice)
			invoiceRoutes.POST("/:id/payments",
				middleware.RoleAuthMiddleware(models.RoleReceptionist, models.RoleAdmin),
				invoiceHandler.AddPayment)
			invoiceRoutes.POST("/:id/void",
				middleware.RoleAuthMiddleware(models.RoleAdmin),
				invoiceHandler.VoidInvoice)
		}

		// Staff schedule routes
		shiftRoutes := private.Group("/shifts")
		{
			shiftRoutes.GET("", shiftHandler.ListShifts)
			shiftRoutes.POST("",
				middleware.RoleAuthMiddleware(models.RoleAdmin),
				shiftHandler.CreateShift)
			shiftRoutes.PUT("/:id",
				middleware.RoleAuthMiddleware(models.RoleAdmin),
				shiftHandler.UpdateShift)
			shiftRoutes.DELETE("/:id",
				middleware.RoleAuthMiddleware(models.RoleAdmin),
				shiftHandler.DeleteShift)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})

	return nil
}
