package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgents(t *testing.T, router *gin.Engine) {
	t.Run("create with pk then get", func(t *testing.T) {
		body := map[string]string{"first_name": "Ada", "last_name": "Lovelace", "pk": "ada"}
		rr := doJSON(router, "POST", "/agents/", body)
		require.Equal(t, http.StatusOK, rr.Code)

		var pk string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pk))
		assert.Equal(t, "ada", pk)

		rr = doJSON(router, "GET", "/agents/ada", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var name string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &name))
		assert.Equal(t, "Ada Lovelace", name)
	})

	t.Run("create without pk", func(t *testing.T) {
		body := map[string]string{"first_name": "Grace", "last_name": "Hopper"}
		rr := doJSON(router, "POST", "/agents/", body)
		require.Equal(t, http.StatusOK, rr.Code)

		var pk string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pk))
		_, err := uuid.Parse(pk)
		require.NoError(t, err)

		rr = doJSON(router, "GET", "/agents/"+pk, nil)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("get unknown agent", func(t *testing.T) {
		rr := doJSON(router, "GET", "/agents/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
