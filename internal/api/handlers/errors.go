package handlers

import (
	"net/http"

	"pixelforge/internal/models"
	"pixelforge/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// handleServiceError maps service error types onto HTTP responses. Every
// handler funnels failures through here so the error payload stays uniform.
func handleServiceError(c *gin.Context, err error, operation string) {
	ctx := c.Request.Context()
	requestID := c.GetString("request_id")

	switch e := err.(type) {
	case models.ValidationError:
		logger.WarnWithContext(ctx, "Validation error",
			zap.String("field", e.Field),
			zap.String("message", e.Message),
			zap.String("request_id", requestID),
			zap.String("operation", operation))
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Validation failed",
			Message: e.Error(),
			Code:    http.StatusBadRequest,
		})

	case models.AuthError:
		logger.WarnWithContext(ctx, "Authentication error",
			zap.String("reason", e.Reason),
			zap.String("request_id", requestID),
			zap.String("operation", operation))
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "Unauthorized",
			Message: e.Error(),
			Code:    http.StatusUnauthorized,
		})

	case models.ConflictError:
		logger.WarnWithContext(ctx, "Conflict",
			zap.String("resource", e.Resource),
			zap.String("field", e.Field),
			zap.String("request_id", requestID),
			zap.String("operation", operation))
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "Conflict",
			Message: e.Error(),
			Code:    http.StatusConflict,
		})

	case models.NotFoundError:
		logger.WarnWithContext(ctx, "Resource not found",
			zap.String("resource", e.Resource),
			zap.String("id", e.ID),
			zap.String("request_id", requestID),
			zap.String("operation", operation))
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "Not found",
			Message: e.Error(),
			Code:    http.StatusNotFound,
		})

	case models.DecodeError:
		logger.WarnWithContext(ctx, "Image decode error",
			zap.String("reason", e.Reason),
			zap.String("request_id", requestID),
			zap.String("operation", operation))
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid image",
			Message: e.Error(),
			Code:    http.StatusBadRequest,
		})

	case models.InvalidParametersError:
		logger.WarnWithContext(ctx, "Invalid operation parameters",
			zap.String("operation_type", e.Operation),
			zap.String("reason", e.Reason),
			zap.String("request_id", requestID),
			zap.String("operation", operation))
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid parameters",
			Message: e.Error(),
			Code:    http.StatusBadRequest,
		})

	case models.UnsupportedFormatError, models.UnsupportedFilterError, models.UnsupportedOperationError:
		logger.WarnWithContext(ctx, "Unsupported operation",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.String("operation", operation))
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Unsupported operation",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})

	case models.ProcessingError:
		logger.ErrorWithContext(ctx, "Processing error",
			zap.String("operation_type", e.Operation),
			zap.String("reason", e.Reason),
			zap.String("request_id", requestID),
			zap.String("operation", operation))
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:   "Processing failed",
			Message: e.Error(),
			Code:    http.StatusUnprocessableEntity,
		})

	case models.StorageError:
		logger.ErrorWithContext(ctx, "Storage error",
			zap.String("storage_operation", e.Operation),
			zap.String("backend", e.Backend),
			zap.String("reason", e.Reason),
			zap.String("request_id", requestID),
			zap.String("operation", operation))
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error:   "Storage unavailable",
			Message: "Temporary service unavailability",
			Code:    http.StatusServiceUnavailable,
		})

	default:
		logger.ErrorWithContext(ctx, "Unknown error",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.String("operation", operation))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Internal server error",
			Message: "An unexpected error occurred",
			Code:    http.StatusInternalServerError,
		})
	}
}
