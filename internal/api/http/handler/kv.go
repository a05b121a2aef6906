package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/EternisAI/kvgate/internal/api/http/dto"
	"github.com/EternisAI/kvgate/internal/store"
	"github.com/gin-gonic/gin"
)

type KVHandler struct {
	store store.Store
}

func NewKVHandler(s store.Store) *KVHandler {
	return &KVHandler{store: s}
}

// Write stores a value under a key
// POST /write
func (h *KVHandler) Write(c *gin.Context) {
	var req dto.WriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.Set(c.Request.Context(), *req.Key, *req.Value); err != nil {
		slog.Error("Failed to write value", "error", err, "key", *req.Key)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.WriteResponse{
		Message: fmt.Sprintf("Successfully wrote value for key: %s", *req.Key),
	})
}

// Read returns the value stored under a key
// GET /read/:key
func (h *KVHandler) Read(c *gin.Context) {
	key := c.Param("key")

	value, err := h.store.Get(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Key not found"})
			return
		}
		slog.Error("Failed to read value", "error", err, "key", key)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.ReadResponse{Key: key, Value: value})
}
