package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupHealthRouter(h *HealthHandler) *gin.Engine {
	r := gin.New()
	r.GET("/health", h.Check)
	r.GET("/ready", h.Ready)
	return r
}

func TestHealthCheck(t *testing.T) {
	r := setupHealthRouter(NewHealthHandler(nil))

	w := doJSON(r, "GET", "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestReadyWhenStoreAnswers(t *testing.T) {
	s := &MockStore{}
	s.On("Ping").Return(nil)
	r := setupHealthRouter(NewHealthHandler(s))

	w := doJSON(r, "GET", "/ready", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ready"}`, w.Body.String())
}

func TestReadyWhenStoreDown(t *testing.T) {
	s := &MockStore{}
	s.On("Ping").Return(errors.New("connection refused"))
	r := setupHealthRouter(NewHealthHandler(s))

	w := doJSON(r, "GET", "/ready", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}
