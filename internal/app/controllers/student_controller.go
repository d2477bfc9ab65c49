package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/schoolmed/healthdesk/internal/app/models/dto"
	"github.com/schoolmed/healthdesk/internal/app/services"
	"github.com/schoolmed/healthdesk/internal/middleware"
)

// StudentController handles student record operations
type StudentController struct {
	studentService services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService) *StudentController {
	return &StudentController{
		studentService: studentService,
	}
}

// CreateStudent handles student record creation
// @Summary Create a new student record
// @Description Validates the submitted student draft and creates the record in the upstream health record system
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest true "Student information"
// @Success 201 {object} dto.APIResponse "Student created successfully"
// @Failure 400 {object} dto.ErrorResponse "Field validation errors"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 422 {object} dto.ErrorResponse "Submission could not be completed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		writeBindError(ctx, err, "Invalid student data")
		return
	}
	req.CreatedBy = actorID(ctx)

	result := c.studentService.Create(ctx, &req)
	writeSubmission(ctx, result, http.StatusCreated)
}

// UpdateStudent handles student record updates
// @Summary Update a student record
// @Description Validates the submitted patch and applies it to the student record in the upstream system
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param request body dto.UpdateStudentRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse "Student updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Field validation errors"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 422 {object} dto.ErrorResponse "Submission could not be completed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	var req dto.UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		writeBindError(ctx, err, "Invalid student data")
		return
	}
	req.UpdatedBy = actorID(ctx)

	result := c.studentService.Update(ctx, ctx.Param("id"), &req)
	writeSubmission(ctx, result, http.StatusOK)
}

// DeleteStudent handles student record deactivation
// @Summary Delete a student record
// @Description Soft-deletes the student record in the upstream system; historical data is retained
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse "Student deleted successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 422 {object} dto.ErrorResponse "Submission could not be completed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	result := c.studentService.Delete(ctx, ctx.Param("id"), actorID(ctx))
	writeSubmission(ctx, result, http.StatusOK)
}

// GetStudentByID retrieves a student record
// @Summary Get student by ID
// @Description Retrieves a single student record, served from cache when fresh
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse "Student retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [get]
func (c *StudentController) GetStudentByID(ctx *gin.Context) {
	student, err := c.studentService.Get(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      student,
		Timestamp: time.Now(),
	})
}

// GetAllStudents retrieves all student records
// @Summary List students
// @Description Retrieves all student records, served from cache when fresh
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Students retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [get]
func (c *StudentController) GetAllStudents(ctx *gin.Context) {
	students, err := c.studentService.List(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      students,
		Timestamp: time.Now(),
	})
}
