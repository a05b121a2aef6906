package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/EternisAI/kvgate/internal/api/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T, router *gin.Engine) {
	rr := doJSON(router, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(router, "GET", "/ready", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestKeyValue(t *testing.T, router *gin.Engine) {
	t.Run("write then read", func(t *testing.T) {
		rr := doJSON(router, "POST", "/write", map[string]string{"key": "k", "value": "v"})
		require.Equal(t, http.StatusOK, rr.Code)

		var writeResp dto.WriteResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &writeResp))
		assert.Equal(t, "Successfully wrote value for key: k", writeResp.Message)

		rr = doJSON(router, "GET", "/read/k", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var readResp dto.ReadResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &readResp))
		assert.Equal(t, "k", readResp.Key)
		assert.Equal(t, "v", readResp.Value)
	})

	t.Run("read missing key", func(t *testing.T) {
		rr := doJSON(router, "GET", "/read/missing", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("write missing value", func(t *testing.T) {
		rr := doJSON(router, "POST", "/write", map[string]string{"key": "k"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
