package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/EternisAI/kvgate/internal/api/http/dto"
	"github.com/EternisAI/kvgate/internal/auth"
	"github.com/EternisAI/kvgate/internal/metrics"
	"github.com/EternisAI/kvgate/internal/profiles"
	"github.com/EternisAI/kvgate/internal/store"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(t *testing.T, authCfg auth.Config) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	engine := gin.New()
	SetupRoute(engine, &Services{
		Store:    store.NewRedisStore(client),
		Profiles: profiles.NewRedisRepository(client, ""),
		Metrics:  metrics.New(),
		Auth:     authCfg,
	})
	return engine, mr
}

func do(r *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	r, mr := setupRouter(t, auth.Config{})

	w := do(r, "POST", "/write", map[string]string{"key": "k", "value": "v"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	mr.CheckGet(t, "k", "v")

	w = do(r, "GET", "/read/k", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.ReadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "v", resp.Value)

	w = do(r, "GET", "/read/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAgentRoundTrip(t *testing.T) {
	r, _ := setupRouter(t, auth.Config{})

	w := do(r, "POST", "/agents/", map[string]string{"first_name": "Ada", "last_name": "Lovelace", "pk": "ada"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `"ada"`, w.Body.String())

	w = do(r, "GET", "/agents/ada", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `"Ada Lovelace"`, w.Body.String())
}

func TestHealthAndReady(t *testing.T) {
	r, mr := setupRouter(t, auth.Config{})

	assert.Equal(t, http.StatusOK, do(r, "GET", "/health", nil, "").Code)
	assert.Equal(t, http.StatusOK, do(r, "GET", "/ready", nil, "").Code)

	mr.SetError("LOADING Redis is loading the dataset in memory")
	assert.Equal(t, http.StatusServiceUnavailable, do(r, "GET", "/ready", nil, "").Code)
	assert.Equal(t, http.StatusOK, do(r, "GET", "/health", nil, "").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := setupRouter(t, auth.Config{})
	do(r, "GET", "/read/missing", nil, "")

	w := do(r, "GET", "/metrics", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",route="/read/:key",status="404"} 1`)
}

func TestMutatingRoutesRequireTokenWhenAuthEnabled(t *testing.T) {
	cfg := auth.Config{JWTSecret: "s3cret"}
	r, _ := setupRouter(t, cfg)

	w := do(r, "POST", "/write", map[string]string{"key": "k", "value": "v"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, "POST", "/agents/", map[string]string{"first_name": "A", "last_name": "B"}, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := auth.GenerateToken(cfg, "operator", "admin")
	require.NoError(t, err)

	w = do(r, "POST", "/write", map[string]string{"key": "k", "value": "v"}, token)
	assert.Equal(t, http.StatusOK, w.Code)

	// Reads stay open.
	w = do(r, "GET", "/read/k", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}
