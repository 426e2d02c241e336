package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pixelforge/internal/models"
	"pixelforge/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthRouter(svc *testutil.MockAuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewAuthHandler(svc)

	router := gin.New()
	router.POST("/api/auth/register", handler.Register)
	router.POST("/api/auth/login", handler.Login)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("successful_registration", func(t *testing.T) {
		svc := &testutil.MockAuthService{
			RegisterFunc: func(ctx context.Context, input models.RegisterRequest) (*models.User, error) {
				return &models.User{
					ID:        1,
					Username:  input.Username,
					Email:     input.Email,
					IsActive:  true,
					CreatedAt: time.Now(),
				}, nil
			},
		}
		router := setupAuthRouter(svc)

		w := postJSON(router, "/api/auth/register", `{"username":"alice","email":"alice@example.com","password":"password123"}`)
		assert.Equal(t, http.StatusCreated, w.Code)

		var resp models.UserResponse
		require.NoError(t, testutil.ParseJSONResponse(w, &resp))
		assert.Equal(t, "alice", resp.Username)
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("missing_fields", func(t *testing.T) {
		router := setupAuthRouter(&testutil.MockAuthService{})

		w := postJSON(router, "/api/auth/register", `{"username":"alice"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("validation_error", func(t *testing.T) {
		svc := &testutil.MockAuthService{
			RegisterFunc: func(ctx context.Context, input models.RegisterRequest) (*models.User, error) {
				return nil, models.ValidationError{Field: "password", Message: "too short"}
			},
		}
		router := setupAuthRouter(svc)

		w := postJSON(router, "/api/auth/register", `{"username":"alice","email":"alice@example.com","password":"x"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate_username", func(t *testing.T) {
		svc := &testutil.MockAuthService{
			RegisterFunc: func(ctx context.Context, input models.RegisterRequest) (*models.User, error) {
				return nil, models.ConflictError{Resource: "user", Field: "username"}
			},
		}
		router := setupAuthRouter(svc)

		w := postJSON(router, "/api/auth/register", `{"username":"alice","email":"alice@example.com","password":"password123"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("successful_login", func(t *testing.T) {
		svc := &testutil.MockAuthService{
			LoginFunc: func(ctx context.Context, input models.LoginRequest) (*models.TokenResponse, error) {
				return &models.TokenResponse{AccessToken: "token", TokenType: "bearer", ExpiresIn: 3600}, nil
			},
		}
		router := setupAuthRouter(svc)

		w := postJSON(router, "/api/auth/login", `{"username":"alice","password":"password123"}`)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp models.TokenResponse
		require.NoError(t, testutil.ParseJSONResponse(w, &resp))
		assert.Equal(t, "bearer", resp.TokenType)
		assert.Equal(t, "token", resp.AccessToken)
	})

	t.Run("bad_credentials", func(t *testing.T) {
		svc := &testutil.MockAuthService{
			LoginFunc: func(ctx context.Context, input models.LoginRequest) (*models.TokenResponse, error) {
				return nil, models.AuthError{Reason: "invalid username or password"}
			},
		}
		router := setupAuthRouter(svc)

		w := postJSON(router, "/api/auth/login", `{"username":"alice","password":"wrong"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed_body", func(t *testing.T) {
		router := setupAuthRouter(&testutil.MockAuthService{})

		w := postJSON(router, "/api/auth/login", `{broken`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
