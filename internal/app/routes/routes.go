package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/schoolmed/healthdesk/internal/app/controllers"
	"github.com/schoolmed/healthdesk/internal/middleware"
	"github.com/schoolmed/healthdesk/internal/pkg/realtime"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	studentController *controllers.StudentController,
	medicationController *controllers.MedicationController,
	auditController *controllers.AuditController,
	auditFeedHandler *realtime.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// Every record route requires an authenticated actor; audit entries
	// are attributed to the token subject
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	// Student record routes
	students := authenticated.Group("/students")
	{
		students.GET("", studentController.GetAllStudents)
		students.GET("/:id", studentController.GetStudentByID)
		students.POST("", studentController.CreateStudent)
		students.PUT("/:id", studentController.UpdateStudent)
		students.DELETE("/:id", studentController.DeleteStudent)
	}

	// Medication record routes
	medications := authenticated.Group("/medications")
	{
		medications.GET("", medicationController.GetAllMedications)
		medications.GET("/:id", medicationController.GetMedicationByID)
		medications.POST("", medicationController.CreateMedication)
		medications.PUT("/:id", medicationController.UpdateMedication)
		medications.DELETE("/:id", medicationController.DeleteMedication)
	}

	// Audit trail routes, restricted to administrators
	auditLogs := authenticated.Group("/audit-logs")
	auditLogs.Use(authMiddleware.RoleRequired("admin"))
	{
		auditLogs.GET("", auditController.ListAuditLogs)
		auditLogs.GET("/stream", auditFeedHandler.HandleConnection)
		auditLogs.GET("/:id", auditController.GetAuditLog)
	}
}
