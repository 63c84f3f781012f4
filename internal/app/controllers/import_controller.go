package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clasit/syllabus-manager/internal/app/models/dto"
	"github.com/clasit/syllabus-manager/internal/app/services"
	"github.com/clasit/syllabus-manager/internal/middleware"
	"github.com/clasit/syllabus-manager/internal/pkg/filestorage"
)

// ImportController handles taxonomy filter imports
type ImportController struct {
	importService *services.ImportService
	files         *filestorage.LocalStorage
}

// NewImportController creates a new ImportController
func NewImportController(importService *services.ImportService, files *filestorage.LocalStorage) *ImportController {
	return &ImportController{
		importService: importService,
		files:         files,
	}
}

// ImportFilters imports taxonomy terms from an uploaded filters file
// @Summary Import taxonomy filter terms
// @Description Parses an uploaded filters JSON file and upserts the named list as taxonomy terms
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param import-name formData string true "Filter list name (terms, departments or progLevels)"
// @Param import-filter-file formData file true "Filters JSON file"
// @Success 200 {object} dto.APIResponse{data=dto.ImportResultResponse} "Import attempted"
// @Failure 400 {object} dto.ErrorResponse "Unrecognized filter name or malformed upload"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /import/filters [post]
func (c *ImportController) ImportFilters(ctx *gin.Context) {
	filterName := ctx.PostForm("import-name")
	if filterName == "" {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeImportConfig, "import-name is required")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	fileHeader, err := ctx.FormFile("import-filter-file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeImportUpload, "import-filter-file is required")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	// The upload is staged to a temp path, read once and removed; nothing
	// durable is kept from the file itself.
	stagedPath, err := c.files.StageTemp(fileHeader)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	data, err := c.files.ReadAndRemove(stagedPath)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	imported, err := c.importService.Import(ctx, filterName, data)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.ImportResultResponse{
			Imported: imported,
			Message:  "Imported " + filterName + " filter terms",
		},
		Timestamp: time.Now(),
	})
}

// ListFilterTerms returns the imported terms of one filter list
// @Summary List imported filter terms
// @Description Returns the taxonomy terms previously imported for the named filter list
// @Tags import
// @Produce json
// @Param name path string true "Filter list name (terms, departments or progLevels)"
// @Success 200 {object} dto.APIResponse{data=[]models.TaxonomyTerm} "Terms retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Unrecognized filter name"
// @Router /import/filters/{name} [get]
func (c *ImportController) ListFilterTerms(ctx *gin.Context) {
	terms, err := c.importService.ListTerms(ctx, ctx.Param("name"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      terms,
		Timestamp: time.Now(),
	})
}
