package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/config"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Storage.Driver = config.StorageMemory
	cfg.JWT.Secret = "bootstrap-test"
	cfg.JWT.AccessTokenExpiration = "15m"
	cfg.JWT.Issuer = "unirecords.test"
	cfg.Records.DeletePolicy = string(models.DeletePolicyRestrict)
	cfg.Seed.Enabled = true
	return cfg
}

func TestMemoryStackServesSeededData(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	lgr := zerolog.Nop()

	store, err := SetupStore(ctx, cfg, lgr)
	require.NoError(t, err)
	defer store.Close()

	deps, err := BuildDependencies(cfg, store, lgr)
	require.NoError(t, err)
	SeedDefaultData(ctx, cfg, deps)

	courses, err := deps.CatalogService.ListCourses(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, courses)

	router := SetupRouter(cfg, deps, lgr)
	token, _, err := deps.JWTService.GenerateToken(models.Session{Subject: "jane", Role: models.RoleStudent, StudentNumber: "STU001"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/students/by-number/STU001/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Seeded course CS101 is registered, so the restrict policy refuses the delete.
	assert.Error(t, deps.CatalogService.DeleteCourse(ctx, courses[0].ID))
}

func TestSetupStoreRejectsUnknownDriver(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.Driver = "bolt"
	_, err := SetupStore(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}
