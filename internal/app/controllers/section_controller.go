package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clasit/syllabus-manager/internal/app/models"
	"github.com/clasit/syllabus-manager/internal/app/models/dto"
	"github.com/clasit/syllabus-manager/internal/app/services"
	"github.com/clasit/syllabus-manager/internal/middleware"
)

// SectionController manages individual section records
type SectionController struct {
	sectionService *services.SectionService
}

// NewSectionController creates a new SectionController
func NewSectionController(sectionService *services.SectionService) *SectionController {
	return &SectionController{
		sectionService: sectionService,
	}
}

func parseSectionID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid section record ID")
		errorDetail = errorDetail.WithDetails("Section record ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// CreateSection creates a single section record from explicit data
// @Summary Create a section record
// @Description Inserts one section record with its semester, department and level tags
// @Tags sections
// @Accept json
// @Produce json
// @Param request body dto.CreateSectionRequest true "Section information"
// @Success 201 {object} dto.APIResponse{data=models.CourseSection} "Section created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid section data"
// @Failure 409 {object} dto.ErrorResponse "Section already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /sections [post]
func (c *SectionController) CreateSection(ctx *gin.Context) {
	var req dto.CreateSectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid section data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	section := &models.CourseSection{
		CourseCode:    req.CourseCode,
		CourseTitle:   req.CourseTitle,
		SectionNumber: req.SectionNumber,
		Instructors:   req.Instructors,
	}
	scope := models.Scope{Term: req.Semester, Department: req.Department, Level: req.Level}

	if err := c.sectionService.CreateSection(ctx, section, scope); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      section,
		Timestamp: time.Now(),
	})
}

// GetSection retrieves a section record by ID
// @Summary Get section record by ID
// @Description Retrieves a specific section record by its local identifier
// @Tags sections
// @Produce json
// @Param id path int true "Section record ID"
// @Success 200 {object} dto.APIResponse{data=models.CourseSection} "Section retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid section record ID"
// @Failure 404 {object} dto.ErrorResponse "Section not found"
// @Router /sections/{id} [get]
func (c *SectionController) GetSection(ctx *gin.Context) {
	id, ok := parseSectionID(ctx)
	if !ok {
		return
	}

	section, err := c.sectionService.GetSection(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      section,
		Timestamp: time.Now(),
	})
}

// AttachSyllabus uploads and attaches a syllabus document to a section
// @Summary Attach a syllabus document
// @Description Stores an uploaded syllabus document and records it on the section
// @Tags sections
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Section record ID"
// @Param syllabus formData file true "Syllabus document"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Syllabus attached successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 404 {object} dto.ErrorResponse "Section not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /sections/{id}/syllabus [post]
func (c *SectionController) AttachSyllabus(ctx *gin.Context) {
	id, ok := parseSectionID(ctx)
	if !ok {
		return
	}

	fileHeader, err := ctx.FormFile("syllabus")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "syllabus file is required")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	path, err := c.sectionService.AttachSyllabus(ctx, id, fileHeader)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Attached syllabus: " + path},
		Timestamp: time.Now(),
	})
}

// DetachSyllabus removes a section's syllabus document
// @Summary Detach the syllabus document
// @Description Deletes the stored syllabus document and clears it from the section
// @Tags sections
// @Produce json
// @Param id path int true "Section record ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Syllabus detached successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid section record ID"
// @Failure 404 {object} dto.ErrorResponse "Section or syllabus not found"
// @Router /sections/{id}/syllabus [delete]
func (c *SectionController) DetachSyllabus(ctx *gin.Context) {
	id, ok := parseSectionID(ctx)
	if !ok {
		return
	}

	if err := c.sectionService.DetachSyllabus(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Removed syllabus"},
		Timestamp: time.Now(),
	})
}
