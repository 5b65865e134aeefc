package container_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/pantrymatch/v1/internal/infrastructure/container"
	"github.com/pantrymatch/v1/internal/infrastructure/http/apiserver"
	"github.com/pantrymatch/v1/internal/ports/inbound"
)

func inMemoryEnv(t *testing.T) {
	t.Setenv("PANTRYMATCH_DATABASE_DRIVER", "sqlite")
	t.Setenv("PANTRYMATCH_DATABASE_PATH", "file::memory:")
	t.Setenv("PANTRYMATCH_REDIS_ENABLED", "false")
	t.Setenv("PANTRYMATCH_MONITORING_ENABLE_TRACING", "false")
	t.Setenv("PANTRYMATCH_APP_SEED_DEMO", "true")
}

func TestModule_GraphIsComplete(t *testing.T) {
	err := fx.ValidateApp(container.Module)

	assert.NoError(t, err)
}

func TestModule_BuildsServingServer(t *testing.T) {
	// Arrange
	inMemoryEnv(t)
	var (
		server  *apiserver.Server
		catalog inbound.CatalogService
	)

	// Act
	app := fx.New(
		fx.NopLogger,
		container.Module,
		fx.Populate(&server, &catalog),
	)

	// Assert
	require.NoError(t, app.Err())
	require.NotNil(t, server)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var health struct {
		Status string `json:"status"`
		Checks []struct {
			Name string `json:"name"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	require.Len(t, health.Checks, 1)
	assert.Equal(t, "database", health.Checks[0].Name)

	cuisines, err := catalog.ListCuisines(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, cuisines, "demo data is seeded")
}
