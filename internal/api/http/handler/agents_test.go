package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/EternisAI/kvgate/internal/profiles"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Save(ctx context.Context, p profiles.Profile) (string, error) {
	args := m.Called(p)
	return args.String(0), args.Error(1)
}

func (m *MockRepository) Get(ctx context.Context, pk string) (profiles.Profile, error) {
	args := m.Called(pk)
	return args.Get(0).(profiles.Profile), args.Error(1)
}

func setupAgentsRouter(h *AgentsHandler) *gin.Engine {
	r := gin.New()
	r.POST("/agents/", h.CreateAgent)
	r.GET("/agents/:agent_id", h.GetAgent)
	return r
}

func TestCreateAgent(t *testing.T) {
	repo := &MockRepository{}
	repo.On("Save", mock.MatchedBy(func(p profiles.Profile) bool {
		return p.PK == "agent-1" && p.FirstName == "Ada" && p.LastName == "Lovelace"
	})).Return("agent-1", nil)
	r := setupAgentsRouter(NewAgentsHandler(repo))

	w := doJSON(r, "POST", "/agents/", map[string]string{"first_name": "Ada", "last_name": "Lovelace", "pk": "agent-1"})

	assert.Equal(t, http.StatusOK, w.Code)
	var pk string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pk))
	assert.Equal(t, "agent-1", pk)
	repo.AssertExpectations(t)
}

func TestCreateAgentMissingName(t *testing.T) {
	repo := &MockRepository{}
	r := setupAgentsRouter(NewAgentsHandler(repo))

	w := doJSON(r, "POST", "/agents/", map[string]string{"last_name": "Lovelace"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	repo.AssertNotCalled(t, "Save", mock.Anything)
}

func TestCreateAgentInvalidPK(t *testing.T) {
	repo := &MockRepository{}
	repo.On("Save", mock.Anything).Return("", profiles.ErrInvalidProfile)
	r := setupAgentsRouter(NewAgentsHandler(repo))

	w := doJSON(r, "POST", "/agents/", map[string]string{"first_name": "A", "last_name": "B", "pk": "a b"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAgentPersistenceError(t *testing.T) {
	repo := &MockRepository{}
	repo.On("Save", mock.Anything).Return("", errors.New("connection refused"))
	r := setupAgentsRouter(NewAgentsHandler(repo))

	w := doJSON(r, "POST", "/agents/", map[string]string{"first_name": "A", "last_name": "B"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetAgent(t *testing.T) {
	repo := &MockRepository{}
	repo.On("Get", "agent-1").Return(profiles.Profile{PK: "agent-1", FirstName: "Ada", LastName: "Lovelace"}, nil)
	r := setupAgentsRouter(NewAgentsHandler(repo))

	w := doJSON(r, "GET", "/agents/agent-1", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `"Ada Lovelace"`, w.Body.String())
}

func TestGetAgentNotFound(t *testing.T) {
	repo := &MockRepository{}
	repo.On("Get", "nobody").Return(profiles.Profile{}, profiles.ErrProfileNotFound)
	r := setupAgentsRouter(NewAgentsHandler(repo))

	w := doJSON(r, "GET", "/agents/nobody", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetAgentPersistenceError(t *testing.T) {
	repo := &MockRepository{}
	repo.On("Get", "agent-1").Return(profiles.Profile{}, errors.New("i/o timeout"))
	r := setupAgentsRouter(NewAgentsHandler(repo))

	w := doJSON(r, "GET", "/agents/agent-1", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
