package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OnelioViera/drinking-app-v1/internal/domain"
	"github.com/OnelioViera/drinking-app-v1/internal/service"
)

func TestSobrietyLifecycle(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()
	token := ts.registerUser("alex@example.com")

	// Nothing tracked yet.
	rec := ts.do(http.MethodGet, "/api/v1/sobriety/", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Start from an explicit instant.
	started := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	rec = ts.do(http.MethodPost, "/api/v1/sobriety/start", token, service.StartRequest{StartedAt: started})
	require.Equal(t, http.StatusOK, rec.Code)

	period := decode[domain.SobrietyPeriod](t, rec).Data
	assert.True(t, period.StartedAt.Equal(started))
	assert.Equal(t, 0, period.ResetCount)

	// Now it reads back.
	rec = ts.do(http.MethodGet, "/api/v1/sobriety/", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Reset bumps the counter.
	rec = ts.do(http.MethodPost, "/api/v1/sobriety/reset", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[domain.SobrietyPeriod](t, rec).Data.ResetCount)
}

func TestSobrietyStartEmptyBodyMeansNow(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()
	token := ts.registerUser("alex@example.com")

	before := time.Now()
	rec := ts.do(http.MethodPost, "/api/v1/sobriety/start", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	period := decode[domain.SobrietyPeriod](t, rec).Data
	assert.False(t, period.StartedAt.Before(before.Add(-time.Second)))
}

func TestSobrietyIsolatedPerUser(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()
	tokenA := ts.registerUser("a@example.com")
	tokenB := ts.registerUser("b@example.com")

	rec := ts.do(http.MethodPost, "/api/v1/sobriety/start", tokenA, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(http.MethodGet, "/api/v1/sobriety/", tokenB, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChatEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()
	token := ts.registerUser("alex@example.com")

	rec := ts.do(http.MethodPost, "/api/v1/chat", token, map[string]any{
		"message": "I have a craving",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	reply := decode[service.ChatResponse](t, rec).Data
	assert.Contains(t, reply.Reply, "Cravings")
}

func TestChatEndpoint_EmptyMessage(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()
	token := ts.registerUser("alex@example.com")

	rec := ts.do(http.MethodPost, "/api/v1/chat", token, map[string]any{"message": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	rec := ts.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	health := decode[HealthResponse](t, rec).Data
	assert.Equal(t, "healthy", health.Status)
	assert.Contains(t, health.Components, "database")
}
