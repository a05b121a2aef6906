package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/EternisAI/kvgate/internal/api/http/dto"
	"github.com/gin-gonic/gin"
)

const readyProbeTimeout = 2 * time.Second

// Pinger is the liveness probe the readiness endpoint issues per request.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	pinger Pinger
}

func NewHealthHandler(pinger Pinger) *HealthHandler {
	return &HealthHandler{pinger: pinger}
}

func (h *HealthHandler) Check(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
}

func (h *HealthHandler) Ready(ctx *gin.Context) {
	if h.pinger == nil {
		ctx.JSON(http.StatusOK, dto.HealthResponse{Status: "ready"})
		return
	}

	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), readyProbeTimeout)
	defer cancel()

	if err := h.pinger.Ping(pingCtx); err != nil {
		ctx.JSON(http.StatusServiceUnavailable, dto.HealthResponse{Status: "unavailable", Error: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, dto.HealthResponse{Status: "ready"})
}
