package middleware

import (
	"net/http"
	"strings"

	"pixelforge/internal/models"
	"pixelforge/internal/service"
	"pixelforge/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// UserIDKey is the context key holding the authenticated user ID
	UserIDKey = "user_id"
)

// Auth middleware verifies the bearer token and attaches the user ID to the
// request context
func Auth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			unauthorized(c, "missing or malformed Authorization header")
			return
		}

		userID, err := authService.VerifyToken(c.Request.Context(), token)
		if err != nil {
			logger.WarnWithContext(c.Request.Context(), "Token verification failed",
				zap.String("client_ip", c.ClientIP()),
				zap.Error(err))
			unauthorized(c, "invalid or expired token")
			return
		}

		c.Set(UserIDKey, userID)

		ctx := logger.WithUserID(c.Request.Context(), userID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// bearerToken extracts the token from an "Authorization: Bearer ..." header
func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func unauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.JSON(http.StatusUnauthorized, models.ErrorResponse{
		Error:   "Unauthorized",
		Message: message,
		Code:    http.StatusUnauthorized,
	})
	c.Abort()
}
