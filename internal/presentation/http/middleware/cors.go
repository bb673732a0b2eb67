package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sangkips/investify-pos/internal/config"
)

// CORSMiddleware allows the till UI's origins.
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     cfg.AllowedMethods,
		AllowHeaders:     cfg.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length", "Content-Type", RequestIDHeader, replayedHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
		}
	}
	if len(corsConfig.AllowMethods) == 0 {
		corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}

	required := []string{"Authorization", "Content-Type", RequestIDHeader, IdempotencyKeyHeader, BranchHeader}
	if len(corsConfig.AllowHeaders) == 0 {
		corsConfig.AllowHeaders = append([]string{"Accept", "Origin", "Cache-Control"}, required...)
	} else {
		for _, h := range required {
			if !contains(corsConfig.AllowHeaders, h) {
				corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, h)
			}
		}
	}

	return cors.New(corsConfig)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
