package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/EternisAI/kvgate/internal/api/http/dto"
	"github.com/EternisAI/kvgate/internal/profiles"
	"github.com/gin-gonic/gin"
)

type AgentsHandler struct {
	profiles profiles.Repository
}

func NewAgentsHandler(repo profiles.Repository) *AgentsHandler {
	return &AgentsHandler{profiles: repo}
}

// CreateAgent saves an agent profile and returns its pk as a JSON string
// POST /agents/
func (h *AgentsHandler) CreateAgent(c *gin.Context) {
	var req dto.CreateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pk, err := h.profiles.Save(c.Request.Context(), req.ToProfile())
	if err != nil {
		if errors.Is(err, profiles.ErrInvalidProfile) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		slog.Error("Failed to save agent profile", "error", err, "pk", req.PK)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	slog.Info("Agent profile saved", "pk", pk)
	c.JSON(http.StatusOK, pk)
}

// GetAgent returns "first_name last_name" for an agent profile
// GET /agents/:agent_id
func (h *AgentsHandler) GetAgent(c *gin.Context) {
	agentID := c.Param("agent_id")

	profile, err := h.profiles.Get(c.Request.Context(), agentID)
	if err != nil {
		if errors.Is(err, profiles.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "agent not found"})
			return
		}
		slog.Error("Failed to get agent profile", "error", err, "agent_id", agentID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, profile.DisplayName())
}
