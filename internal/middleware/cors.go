package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows any origin when origenes is empty, otherwise only the listed ones.
// Requests from other origins are rejected with 403.
func CORS(origenes []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if len(origenes) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origenes
	}
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-ID"}
	cfg.ExposeHeaders = []string{"X-Request-ID"}
	cfg.MaxAge = 12 * time.Hour
	return cors.New(cfg)
}
