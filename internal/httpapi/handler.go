package httpapi

import (
	"vipclub-backend/pkg/config"
	"vipclub-backend/pkg/health"
	"vipclub-backend/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var Module = fx.Module("httpapi",
	fx.Provide(ProvideEngine),
	fx.Invoke(registerHealthEndpoints),
)

// ProvideEngine builds the root gin engine. Service modules attach their
// route groups through fx.Invoke hooks.
func ProvideEngine(cfg *config.Config) *gin.Engine {
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Error())

	return r
}

func registerHealthEndpoints(r *gin.Engine, h health.HealthService) {
	r.GET("/healthz", h.Liveness)
	r.GET("/readyz", h.Readiness)
}

// AdminGroup returns the company-scoped admin route group.
func AdminGroup(r *gin.Engine) *gin.RouterGroup {
	return r.Group("/api/v1", middleware.CompanyID())
}
