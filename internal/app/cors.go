package app

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// corsMiddleware allows the configured origins, or any origin outside
// production when none are configured.
func corsMiddleware(cfg Config) gin.HandlerFunc {
	conf := cors.DefaultConfig()
	conf.AddAllowHeaders("Authorization", "Idempotency-Key", "X-Request-ID", "X-Client-Type")
	conf.AddExposeHeaders("X-Request-ID", "Content-Disposition")
	conf.AllowCredentials = true
	conf.MaxAge = 12 * time.Hour

	switch {
	case len(cfg.CORSOrigins) > 0:
		conf.AllowOrigins = cfg.CORSOrigins
	case !cfg.IsProduction():
		conf.AllowOriginFunc = func(origin string) bool { return true }
	default:
		conf.AllowOrigins = []string{}
		conf.AllowOriginFunc = func(origin string) bool { return false }
	}

	return cors.New(conf)
}
