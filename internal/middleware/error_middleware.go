package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/clasit/syllabus-manager/internal/app/models/dto"
	"github.com/clasit/syllabus-manager/internal/pkg/apperrors"
)

// HandleAPIError maps service errors onto API responses. Cache
// unavailability never reaches this point (the catalog cache absorbs it as
// a forced miss) and single-record write failures only reduce a batch's
// aggregate counts.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrFetchFailed):
		c.JSON(502, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeExternalServiceError, "Course catalog feed is unavailable"),
		})
	case errors.Is(err, apperrors.ErrImportConfig):
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeImportConfig, "Unrecognized import filter name"),
		})
	case errors.Is(err, apperrors.ErrImportUpload):
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeImportUpload, "Malformed import upload"),
		})
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error()),
		})
	case errors.Is(err, apperrors.ErrSectionNotFound), errors.Is(err, apperrors.ErrNoSyllabus), errors.Is(err, apperrors.ErrResourceNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error()),
		})
	case errors.Is(err, apperrors.ErrSectionAlreadyExists), errors.Is(err, apperrors.ErrConflict):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, err.Error()),
		})
	default:
		c.JSON(500, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
		})
	}
}
