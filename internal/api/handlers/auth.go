package handlers

import (
	"net/http"

	"pixelforge/internal/models"
	"pixelforge/internal/service"
	"pixelforge/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler handles account and token HTTP requests
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles account creation
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()

	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	user, err := h.authService.Register(ctx, req)
	if err != nil {
		handleServiceError(c, err, "register")
		return
	}

	logger.InfoWithContext(ctx, "Registration completed",
		zap.Int64("user_id", user.ID))
	c.JSON(http.StatusCreated, user.ToResponse())
}

// Login handles credential verification and token issuing
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	token, err := h.authService.Login(ctx, req)
	if err != nil {
		handleServiceError(c, err, "login")
		return
	}

	c.JSON(http.StatusOK, token)
}
