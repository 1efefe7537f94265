package middleware

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"liftout/config"
)

// CORSConfig defines the config for CORS middleware
type CORSConfig struct {
	AllowedOrigins   []string
	AllowCredentials bool
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	MaxAge           int
}

// DefaultCORSConfig returns a default CORS config allowing the frontend origin
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins:   []string{config.AppConfig.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposedHeaders:   []string{"Content-Length"},
		MaxAge:           3600,
	}
}

// CORS creates a new CORS middleware handler
func CORS(cfgs ...CORSConfig) fiber.Handler {
	cfg := DefaultCORSConfig()
	if len(cfgs) > 0 {
		cfg = cfgs[0]
	}

	return func(c *fiber.Ctx) error {
		origin := c.Get("Origin")

		allowed := ""
		for _, o := range cfg.AllowedOrigins {
			if o == "*" || o == origin {
				allowed = o
				break
			}
		}

		if allowed != "" {
			c.Set("Access-Control-Allow-Origin", allowed)
			if cfg.AllowCredentials {
				c.Set("Access-Control-Allow-Credentials", "true")
			}
			c.Set("Access-Control-Expose-Headers", strings.Join(cfg.ExposedHeaders, ", "))
		}

		if c.Method() == fiber.MethodOptions {
			c.Set("Access-Control-Allow-Methods", strings.Join(cfg.AllowedMethods, ", "))
			c.Set("Access-Control-Allow-Headers", strings.Join(cfg.AllowedHeaders, ", "))
			c.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
			return c.SendStatus(fiber.StatusNoContent)
		}

		return c.Next()
	}
}
