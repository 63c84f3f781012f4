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

// SyncController drives catalog reconciliation operations
type SyncController struct {
	syncService *services.SyncService
}

// NewSyncController creates a new SyncController
func NewSyncController(syncService *services.SyncService) *SyncController {
	return &SyncController{
		syncService: syncService,
	}
}

// Match previews which local records the feed still confirms
// @Summary Match local records against the feed
// @Description Returns the intersection of locally stored section IDs with the scope's current catalog
// @Tags sync
// @Produce json
// @Param semester query string true "Semester term code"
// @Param department query string true "Department code"
// @Param level query string true "Program level code"
// @Success 200 {object} dto.APIResponse{data=dto.MatchResponse} "Match computed successfully"
// @Failure 400 {object} dto.ErrorResponse "Missing scope parameters"
// @Failure 502 {object} dto.ErrorResponse "Catalog feed unavailable"
// @Router /sync/match [get]
func (c *SyncController) Match(ctx *gin.Context) {
	var req dto.ScopeRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Semester, department and level are required")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	scope := models.Scope{Term: req.Semester, Department: req.Department, Level: req.Level}
	matched, err := c.syncService.Match(ctx, scope)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.MatchResponse{Matched: matched, Count: len(matched)},
		Timestamp: time.Now(),
	})
}

// CreateCourses populates a scope from the external catalog
// @Summary Create section records from the feed
// @Description Inserts one local record per feed course (first section only) for a scope
// @Tags sync
// @Accept json
// @Produce json
// @Param request body dto.ScopeRequest true "Target scope"
// @Success 200 {object} dto.APIResponse{data=dto.SyncResultResponse} "Batch attempted"
// @Failure 400 {object} dto.ErrorResponse "Missing scope parameters"
// @Failure 502 {object} dto.ErrorResponse "Catalog feed unavailable"
// @Router /sync/create [post]
func (c *SyncController) CreateCourses(ctx *gin.Context) {
	var req dto.ScopeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Semester, department and level are required")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	scope := models.Scope{Term: req.Semester, Department: req.Department, Level: req.Level}
	result, err := c.syncService.CreateCourses(ctx, scope)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SyncResultResponse{
			Created: result.Created,
			Failed:  result.Failed,
			Message: result.Message,
		},
		Timestamp: time.Now(),
	})
}

// UpdateCourses refreshes matched records from the external catalog
// @Summary Update matched section records from the feed
// @Description Overwrites every matched local record with the feed's current fields for a scope
// @Tags sync
// @Accept json
// @Produce json
// @Param request body dto.ScopeRequest true "Target scope"
// @Success 200 {object} dto.APIResponse{data=dto.SyncResultResponse} "Batch attempted"
// @Failure 400 {object} dto.ErrorResponse "Missing scope parameters"
// @Failure 502 {object} dto.ErrorResponse "Catalog feed unavailable"
// @Router /sync/update [post]
func (c *SyncController) UpdateCourses(ctx *gin.Context) {
	var req dto.ScopeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Semester, department and level are required")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	scope := models.Scope{Term: req.Semester, Department: req.Department, Level: req.Level}
	result, err := c.syncService.UpdateCourses(ctx, scope)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SyncResultResponse{
			Updated: result.Updated,
			Failed:  result.Failed,
			Message: result.Message,
		},
		Timestamp: time.Now(),
	})
}
