package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/schoolmed/healthdesk/internal/app/models/dto"
	"github.com/schoolmed/healthdesk/internal/app/services"
	"github.com/schoolmed/healthdesk/internal/middleware"
)

// MedicationController handles medication record operations
type MedicationController struct {
	medicationService services.MedicationService
}

// NewMedicationController creates a new MedicationController
func NewMedicationController(medicationService services.MedicationService) *MedicationController {
	return &MedicationController{
		medicationService: medicationService,
	}
}

// CreateMedication handles medication record creation
// @Summary Create a new medication record
// @Description Validates the submitted medication draft and creates the record in the upstream health record system
// @Tags medications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateMedicationRequest true "Medication information"
// @Success 201 {object} dto.APIResponse "Medication created successfully"
// @Failure 400 {object} dto.ErrorResponse "Field validation errors"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 422 {object} dto.ErrorResponse "Submission could not be completed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /medications [post]
func (c *MedicationController) CreateMedication(ctx *gin.Context) {
	var req dto.CreateMedicationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		writeBindError(ctx, err, "Invalid medication data")
		return
	}
	req.CreatedBy = actorID(ctx)

	result := c.medicationService.Create(ctx, &req)
	writeSubmission(ctx, result, http.StatusCreated)
}

// UpdateMedication handles medication record updates
// @Summary Update a medication record
// @Description Validates the submitted patch and applies it to the medication record in the upstream system
// @Tags medications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Medication ID"
// @Param request body dto.UpdateMedicationRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse "Medication updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Field validation errors"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 422 {object} dto.ErrorResponse "Submission could not be completed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /medications/{id} [put]
func (c *MedicationController) UpdateMedication(ctx *gin.Context) {
	var req dto.UpdateMedicationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		writeBindError(ctx, err, "Invalid medication data")
		return
	}
	req.UpdatedBy = actorID(ctx)

	result := c.medicationService.Update(ctx, ctx.Param("id"), &req)
	writeSubmission(ctx, result, http.StatusOK)
}

// DeleteMedication handles medication record discontinuation
// @Summary Delete a medication record
// @Description Soft-deletes the medication record in the upstream system; historical data is retained
// @Tags medications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Medication ID"
// @Success 200 {object} dto.APIResponse "Medication deleted successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 422 {object} dto.ErrorResponse "Submission could not be completed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /medications/{id} [delete]
func (c *MedicationController) DeleteMedication(ctx *gin.Context) {
	result := c.medicationService.Delete(ctx, ctx.Param("id"), actorID(ctx))
	writeSubmission(ctx, result, http.StatusOK)
}

// GetMedicationByID retrieves a medication record
// @Summary Get medication by ID
// @Description Retrieves a single medication record, served from cache when fresh
// @Tags medications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Medication ID"
// @Success 200 {object} dto.APIResponse "Medication retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Medication not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /medications/{id} [get]
func (c *MedicationController) GetMedicationByID(ctx *gin.Context) {
	medication, err := c.medicationService.Get(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      medication,
		Timestamp: time.Now(),
	})
}

// GetAllMedications retrieves all medication records
// @Summary List medications
// @Description Retrieves all medication records, served from cache when fresh
// @Tags medications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Medications retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /medications [get]
func (c *MedicationController) GetAllMedications(ctx *gin.Context) {
	medications, err := c.medicationService.List(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      medications,
		Timestamp: time.Now(),
	})
}
