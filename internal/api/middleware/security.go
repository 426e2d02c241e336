package middleware

import (
	"pixelforge/internal/config"

	"github.com/gin-gonic/gin"
)

// SecurityHeaders middleware adds security headers to responses
func SecurityHeaders(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Prevent MIME type sniffing
		c.Header("X-Content-Type-Options", "nosniff")

		// Prevent clickjacking
		c.Header("X-Frame-Options", "DENY")

		// Referrer policy
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// Content Security Policy (basic)
		if cfg.IsProduction() {
			csp := "default-src 'self'; " +
				"img-src 'self' data: https:; " +
				"object-src 'none'; " +
				"base-uri 'self'; " +
				"form-action 'self'"
			c.Header("Content-Security-Policy", csp)
		}

		// HSTS for production
		if cfg.IsProduction() {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
