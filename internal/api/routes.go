package api

import (
	"pixelforge/internal/api/handlers"
	"pixelforge/internal/api/middleware"
	"pixelforge/internal/config"
	"pixelforge/internal/service"

	"github.com/gin-gonic/gin"
)

// Router holds the HTTP router and dependencies
type Router struct {
	engine           *gin.Engine
	config           *config.Config
	authService      service.AuthService
	authHandler      *handlers.AuthHandler
	imageHandler     *handlers.ImageHandler
	transformHandler *handlers.TransformHandler
	healthHandler    *handlers.HealthHandler
}

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(
	cfg *config.Config,
	authService service.AuthService,
	imageService service.ImageService,
	transformService service.TransformService,
	healthService service.HealthService,
) *Router {
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	router := &Router{
		engine:           engine,
		config:           cfg,
		authService:      authService,
		authHandler:      handlers.NewAuthHandler(authService),
		imageHandler:     handlers.NewImageHandler(imageService, cfg),
		transformHandler: handlers.NewTransformHandler(transformService),
		healthHandler:    handlers.NewHealthHandler(healthService),
	}

	router.setupMiddleware()
	router.setupRoutes()

	return router
}

// setupMiddleware configures all middleware
func (r *Router) setupMiddleware() {
	r.engine.Use(gin.Logger())
	r.engine.Use(gin.Recovery())

	// Request ID middleware for tracing
	r.engine.Use(middleware.RequestID())

	r.engine.Use(middleware.SecurityHeaders(r.config))
	r.engine.Use(middleware.CORS(r.config))
	r.engine.Use(middleware.RateLimit(r.config))

	// Uploads carry multipart overhead beyond the raw file size
	r.engine.Use(middleware.RequestSizeLimit(r.config.Image.MaxFileSize + 1024*1024))
}

// setupRoutes configures all API routes
func (r *Router) setupRoutes() {
	// Health check endpoint (no prefix)
	r.engine.GET("/health", r.healthHandler.Health)

	// Public auth endpoints
	auth := r.engine.Group("/api/auth")
	{
		auth.POST("/register", r.authHandler.Register)
		auth.POST("/login", r.authHandler.Login)
	}

	// Authenticated API v1 routes
	v1 := r.engine.Group("/api/v1")
	v1.Use(middleware.Auth(r.authService))
	{
		images := v1.Group("/images")
		{
			images.POST("/upload", r.imageHandler.Upload)
			images.GET("", r.imageHandler.List)
			images.GET("/:id", r.imageHandler.Get)
			images.DELETE("/:id", r.imageHandler.Delete)
			images.POST("/:id/transform", r.transformHandler.Transform)
		}

		transformations := v1.Group("/transformations")
		{
			transformations.GET("", r.transformHandler.List)
			transformations.DELETE("/:id", r.transformHandler.Delete)
		}
	}

	// Serve blobs directly when using local storage
	if r.config.Storage.Type == "local" {
		r.engine.Static("/files", r.config.Local.Directory)
	}
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
