package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"pixelforge/internal/config"
	"pixelforge/internal/models"
	"pixelforge/internal/repository"
	"pixelforge/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthServiceImpl implements the AuthService interface with bcrypt password
// hashing and HS256 bearer tokens
type AuthServiceImpl struct {
	repo   repository.UserRepository
	secret []byte
	expiry time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(repo repository.UserRepository, cfg *config.AuthConfig) AuthService {
	return &AuthServiceImpl{
		repo:   repo,
		secret: []byte(cfg.JWTSecret),
		expiry: cfg.TokenExpiry,
	}
}

// Register creates a new user account
func (s *AuthServiceImpl) Register(ctx context.Context, input models.RegisterRequest) (*models.User, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	logger.InfoWithContext(ctx, "User registered",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username))
	return user, nil
}

// Login verifies credentials and issues a bearer token
func (s *AuthServiceImpl) Login(ctx context.Context, input models.LoginRequest) (*models.TokenResponse, error) {
	user, err := s.repo.GetUserByUsername(ctx, input.Username)
	if err != nil {
		if _, ok := err.(models.NotFoundError); ok {
			return nil, models.AuthError{Reason: "invalid username or password"}
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, models.AuthError{Reason: "account is disabled"}
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return nil, models.AuthError{Reason: "invalid username or password"}
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(user.ID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	logger.InfoWithContext(ctx, "User logged in", zap.Int64("user_id", user.ID))
	return &models.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.expiry.Seconds()),
	}, nil
}

// VerifyToken validates a bearer token and returns the user ID
func (s *AuthServiceImpl) VerifyToken(ctx context.Context, tokenString string) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, models.AuthError{Reason: "invalid or expired token"}
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return 0, models.AuthError{Reason: "malformed token claims"}
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, models.AuthError{Reason: "malformed token subject"}
	}

	// The account may have been disabled since the token was issued.
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return 0, models.AuthError{Reason: "unknown user"}
	}
	if !user.IsActive {
		return 0, models.AuthError{Reason: "account is disabled"}
	}

	return userID, nil
}
