package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/schoolmed/healthdesk/internal/app/models/dto"
	"github.com/schoolmed/healthdesk/internal/app/services"
	"github.com/schoolmed/healthdesk/internal/middleware"
)

// AuditController exposes the audit trail to the admin dashboard.
type AuditController struct {
	auditService *services.AuditService
}

// NewAuditController creates a new AuditController
func NewAuditController(auditService *services.AuditService) *AuditController {
	return &AuditController{
		auditService: auditService,
	}
}

// ListAuditLogs retrieves audit log entries
// @Summary List audit log entries
// @Description Retrieves a filtered, paginated list of submission audit entries, newest first
// @Tags audit-logs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param resource query string false "Filter by resource" Enums(student, medication)
// @Param action query string false "Filter by action" Enums(create, update, delete)
// @Param success query bool false "Filter by submission outcome"
// @Param page query int false "Page number (default 1)"
// @Param pageSize query int false "Page size (default 20, max 100)"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Audit entries retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /audit-logs [get]
func (c *AuditController) ListAuditLogs(ctx *gin.Context) {
	var req dto.ListAuditLogsRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		writeBindError(ctx, err, "Invalid audit log query")
		return
	}

	page, err := c.auditService.List(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      page,
		Timestamp: time.Now(),
	})
}

// GetAuditLog retrieves a single audit log entry
// @Summary Get an audit log entry
// @Description Retrieves one audit entry by its ID for the dashboard detail view
// @Tags audit-logs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Audit entry ID"
// @Success 200 {object} dto.APIResponse{data=models.AuditEntry} "Audit entry retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Audit entry not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /audit-logs/{id} [get]
func (c *AuditController) GetAuditLog(ctx *gin.Context) {
	entry, err := c.auditService.Get(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      entry,
		Timestamp: time.Now(),
	})
}
