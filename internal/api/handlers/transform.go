package handlers

import (
	"net/http"
	"strconv"

	"pixelforge/internal/models"
	"pixelforge/internal/service"
	"pixelforge/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TransformHandler handles transformation HTTP requests
type TransformHandler struct {
	transformService service.TransformService
}

// NewTransformHandler creates a new transform handler
func NewTransformHandler(transformService service.TransformService) *TransformHandler {
	return &TransformHandler{transformService: transformService}
}

// Transform applies an operation list to an image
// POST /api/v1/images/:id/transform
func (h *TransformHandler) Transform(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)

	imageID, ok := pathID(c)
	if !ok {
		return
	}

	var req models.TransformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	logger.InfoWithContext(ctx, "Processing transform request",
		zap.Int64("image_id", imageID),
		zap.Int("operations", len(req.Operations)))

	result, err := h.transformService.Transform(ctx, userID, imageID, req.Operations)
	if err != nil {
		handleServiceError(c, err, "transform")
		return
	}

	c.JSON(http.StatusOK, result)
}

// List retrieves the user's transformations
// GET /api/v1/transformations?image_id=1
func (h *TransformHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)

	var imageID *int64
	if raw := c.Query("image_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "Invalid image_id",
				Message: "image_id must be a positive integer",
				Code:    http.StatusBadRequest,
			})
			return
		}
		imageID = &id
	}

	transformations, err := h.transformService.List(ctx, userID, imageID)
	if err != nil {
		handleServiceError(c, err, "list transformations")
		return
	}

	c.JSON(http.StatusOK, gin.H{"transformations": transformations})
}

// Delete removes a transformation
// DELETE /api/v1/transformations/:id
func (h *TransformHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)

	transformationID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.transformService.Delete(ctx, userID, transformationID); err != nil {
		handleServiceError(c, err, "delete transformation")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transformation deleted successfully"})
}
