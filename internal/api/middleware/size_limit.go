package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"pixelforge/internal/models"
	"pixelforge/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestSizeLimit middleware rejects oversized request bodies early
func RequestSizeLimit(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			c.Next()
			return
		}

		if contentLengthStr := c.Request.Header.Get("Content-Length"); contentLengthStr != "" {
			contentLength, err := strconv.ParseInt(contentLengthStr, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, models.ErrorResponse{
					Error:   "Invalid Content-Length",
					Message: "Content-Length header contains invalid value",
					Code:    http.StatusBadRequest,
				})
				c.Abort()
				return
			}

			if contentLength > maxSize {
				logger.WarnWithContext(c.Request.Context(), "Request size exceeds limit",
					zap.Int64("content_length", contentLength),
					zap.Int64("max_size", maxSize),
					zap.String("client_ip", c.ClientIP()))

				c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
					Error:   "Request too large",
					Message: fmt.Sprintf("Request size %d bytes exceeds maximum allowed size of %d bytes", contentLength, maxSize),
					Code:    http.StatusRequestEntityTooLarge,
				})
				c.Abort()
				return
			}
		}

		// Guard against bodies that lie about (or omit) Content-Length.
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)

		c.Next()
	}
}
