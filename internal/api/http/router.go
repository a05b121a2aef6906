package http

import (
	"github.com/EternisAI/kvgate/internal/api/http/handler"
	"github.com/EternisAI/kvgate/internal/api/http/middleware"
	"github.com/EternisAI/kvgate/internal/auth"
	"github.com/EternisAI/kvgate/internal/metrics"
	"github.com/EternisAI/kvgate/internal/profiles"
	"github.com/EternisAI/kvgate/internal/store"
	"github.com/gin-gonic/gin"
)

// Services are acquired once at startup and shared by every handler.
type Services struct {
	Store    store.Store
	Profiles profiles.Repository
	Metrics  *metrics.Metrics
	Auth     auth.Config
}

func SetupRoute(engine *gin.Engine, srvs *Services) {
	engine.Use(middleware.RequestLogger())

	if srvs.Metrics != nil {
		engine.Use(srvs.Metrics.Middleware())
		engine.GET("/metrics", gin.WrapH(srvs.Metrics.Handler()))
	}

	healthHandler := handler.NewHealthHandler(srvs.Store)
	engine.GET("/health", healthHandler.Check)
	engine.GET("/ready", healthHandler.Ready)

	var guard []gin.HandlerFunc
	if srvs.Auth.Enabled() {
		guard = append(guard, middleware.JWTAuth(srvs.Auth.JWTSecret))
	}

	kvHandler := handler.NewKVHandler(srvs.Store)
	engine.POST("/write", append(guard, kvHandler.Write)...)
	engine.GET("/read/:key", kvHandler.Read)

	if srvs.Profiles != nil {
		agentsHandler := handler.NewAgentsHandler(srvs.Profiles)
		engine.POST("/agents/", append(guard, agentsHandler.CreateAgent)...)
		engine.GET("/agents/:agent_id", agentsHandler.GetAgent)
	}
}
