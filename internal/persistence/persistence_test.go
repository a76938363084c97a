package persistence

import (
	"context"
	"io/fs"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/garage-service/internal/config"
)

func TestNewRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	r := NewRedis(config.RedisConfig{Enabled: true, Addr: mr.Addr()}, zap.NewNop())
	defer r.Close()
	require.True(t, r.Enabled())
	assert.NoError(t, r.Ping(context.Background()))

	mr.Close()
	assert.Error(t, r.Ping(context.Background()))
}

func TestNewRedis_Disabled(t *testing.T) {
	r := NewRedis(config.RedisConfig{Enabled: false, Addr: "127.0.0.1:1"}, zap.NewNop())
	assert.False(t, r.Enabled())
	assert.Nil(t, r.Client)
	assert.Error(t, r.Ping(context.Background()))
	r.Close()
}

func TestNewPostgres_EmptyDSNUsesMemory(t *testing.T) {
	pg, err := NewPostgres(context.Background(), config.PostgresConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, pg.Enabled())
	assert.Nil(t, pg.PoolHandle())
	assert.NoError(t, pg.Ping(context.Background()))
	pg.Close()

	var missing *Postgres
	assert.False(t, missing.Enabled())
	assert.Nil(t, missing.PoolHandle())
}

func TestNewPostgres_BadDSN(t *testing.T) {
	_, err := NewPostgres(context.Background(), config.PostgresConfig{DSN: "postgres://%zz"}, zap.NewNop())
	assert.Error(t, err)
}

func TestRunMigrations_SkipsWithoutPool(t *testing.T) {
	assert.NoError(t, RunMigrations(context.Background(), nil, zap.NewNop()))
}

func TestMigrationsEmbedded(t *testing.T) {
	files, err := fs.Glob(migrationsFS, migrationsDir+"/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	raw, err := fs.ReadFile(migrationsFS, files[0])
	require.NoError(t, err)
	assert.Contains(t, string(raw), "-- +goose Up")
	assert.Contains(t, string(raw), "garage_reviews_one_per_customer")
}
