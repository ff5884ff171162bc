package common

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"ecoscore-go/internal/api"
	"ecoscore-go/internal/config"
	"ecoscore-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestInitializeServices_CSVWithDemoUsers(t *testing.T) {
	ctx := context.Background()
	cfg := &models.Config{
		Store:           models.StoreConfig{Backend: config.BackendCSV, CSVDir: t.TempDir()},
		Rollover:        models.RolloverConfig{PeriodDays: 7},
		CreateDemoUsers: true,
	}

	services, err := InitializeServices(ctx, cfg, api.WithPasswordCost(bcrypt.MinCost))
	require.NoError(t, err)
	defer services.Close()

	require.NoError(t, services.Start(ctx))

	users, err := InitializeUsers(ctx, services.Api, "")
	require.NoError(t, err)
	assert.Len(t, users, len(demoUsers))

	assert.Zero(t, SeedDemoUsers(ctx, services.Api))
	assert.NoError(t, services.Api.Authenticate(ctx, "alice", DemoPassword))

	one, err := InitializeUsers(ctx, services.Api, "bob")
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Empty(t, one[0].Password)

	_, err = InitializeUsers(ctx, services.Api, "mallory")
	assert.Error(t, err)
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	st, err := OpenStore(ctx, models.StoreConfig{
		Backend: config.BackendSQLite,
		Database: models.DatabaseConfig{
			Path:         filepath.Join(t.TempDir(), "eco.db"),
			MaxOpenConns: 1,
			PingTimeout:  time.Second,
		},
	})
	require.NoError(t, err)
	st.Close()

	_, err = OpenStore(ctx, models.StoreConfig{Backend: "mongo"})
	assert.Error(t, err)

	_, err = OpenStore(ctx, models.StoreConfig{Backend: config.BackendSQLite})
	assert.Error(t, err)
}
