package handlers

import (
	"io"
	"net/http"
	"strconv"

	"pixelforge/internal/config"
	"pixelforge/internal/models"
	"pixelforge/internal/service"
	"pixelforge/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ImageHandler handles image-related HTTP requests
type ImageHandler struct {
	imageService service.ImageService
	config       *config.Config
}

// NewImageHandler creates a new image handler
func NewImageHandler(imageService service.ImageService, cfg *config.Config) *ImageHandler {
	return &ImageHandler{
		imageService: imageService,
		config:       cfg,
	}
}

// Upload handles image upload requests
// POST /api/v1/images/upload
func (h *ImageHandler) Upload(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)

	logger.InfoWithContext(ctx, "Processing image upload",
		zap.String("client_ip", c.ClientIP()))

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Missing image file",
			Message: "Request must contain a 'file' field",
			Code:    http.StatusBadRequest,
		})
		return
	}
	defer file.Close()

	if header.Size > h.config.Image.MaxFileSize {
		c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
			Error:   "File too large",
			Message: "Uploaded file exceeds the size limit",
			Code:    http.StatusRequestEntityTooLarge,
		})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to read file data", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "File read error",
			Message: "Failed to read uploaded file",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	img, err := h.imageService.Upload(ctx, userID, service.UploadInput{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		handleServiceError(c, err, "upload")
		return
	}

	c.JSON(http.StatusCreated, img)
}

// List handles paginated image listing
// GET /api/v1/images?page=1&limit=20
func (h *ImageHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := h.imageService.List(ctx, userID, page, limit)
	if err != nil {
		handleServiceError(c, err, "list images")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get handles single image retrieval
// GET /api/v1/images/:id
func (h *ImageHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)

	imageID, ok := pathID(c)
	if !ok {
		return
	}

	img, err := h.imageService.Get(ctx, userID, imageID)
	if err != nil {
		handleServiceError(c, err, "get image")
		return
	}

	c.JSON(http.StatusOK, img)
}

// Delete handles cascading image deletion
// DELETE /api/v1/images/:id
func (h *ImageHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)

	imageID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.imageService.Delete(ctx, userID, imageID); err != nil {
		handleServiceError(c, err, "delete image")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image deleted successfully"})
}

// currentUserID reads the authenticated user set by the auth middleware
func currentUserID(c *gin.Context) int64 {
	return c.GetInt64("user_id")
}

// pathID parses the :id path parameter, writing the error response itself
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid ID",
			Message: "ID must be a positive integer",
			Code:    http.StatusBadRequest,
		})
		return 0, false
	}
	return id, true
}
