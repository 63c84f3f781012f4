package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clasit/syllabus-manager/internal/app/models"
	"github.com/clasit/syllabus-manager/internal/app/models/dto"
	"github.com/clasit/syllabus-manager/internal/app/services"
	"github.com/clasit/syllabus-manager/internal/middleware"
)

// CatalogController serves the cached external catalog
type CatalogController struct {
	catalog services.CatalogSource
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(catalog services.CatalogSource) *CatalogController {
	return &CatalogController{
		catalog: catalog,
	}
}

// GetSections returns the flattened catalog mapping for one scope
// @Summary Get catalog sections
// @Description Returns the cached external catalog for a scope, one record per section ID
// @Tags catalog
// @Produce json
// @Param semester query string true "Semester term code"
// @Param department query string true "Department code"
// @Param level query string true "Program level code"
// @Success 200 {object} dto.APIResponse{data=map[string]models.CatalogSection} "Catalog retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Missing scope parameters"
// @Failure 502 {object} dto.ErrorResponse "Catalog feed unavailable"
// @Router /catalog/sections [get]
func (c *CatalogController) GetSections(ctx *gin.Context) {
	var req dto.ScopeRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Semester, department and level are required")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	scope := models.Scope{Term: req.Semester, Department: req.Department, Level: req.Level}
	sections, err := c.catalog.Get(ctx, scope, nil)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      sections,
		Timestamp: time.Now(),
	})
}
