package container

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booksite-backend/internal/config"
	"booksite-backend/internal/domains/author/model/authortest"
	"booksite-backend/internal/domains/author/service"
	"booksite-backend/internal/infrastructure/database"
	"booksite-backend/internal/infrastructure/database/databasetest"
	"booksite-backend/pkg/cache"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Environment: "development", LogLevel: "error", AutoMigrate: true},
		Redis: config.RedisConfig{
			Enabled: true,
			Host:    "127.0.0.1:1",
			TTL:     time.Minute,
		},
	}
}

func TestNew_WiresAuthorService(t *testing.T) {
	ctx := context.Background()
	c, err := New(ctx, testConfig(), databasetest.SQLiteConfig(t))
	require.NoError(t, err)
	t.Cleanup(c.Cleanup)

	assert.IsType(t, cache.Noop{}, c.Cache, "unreachable redis falls back to no cache")

	a, err := c.AuthorService.Register(ctx, service.RegisterInput{
		Email:    "wired@example.com",
		Hash:     authortest.ValidHash,
		Username: "wired",
	})
	require.NoError(t, err)

	got, err := c.AuthorService.GetByID(ctx, a.ID().String())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "wired", got.Username())
}

func TestNew_DatabaseFailure(t *testing.T) {
	_, err := New(context.Background(), testConfig(), &database.DBConfig{Driver: "oracle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to database")
}

func TestCleanup_Idempotent(t *testing.T) {
	c, err := New(context.Background(), testConfig(), databasetest.SQLiteConfig(t))
	require.NoError(t, err)

	c.Cleanup()
	c.Cleanup()
	assert.Nil(t, c.DB.Conn)
}
