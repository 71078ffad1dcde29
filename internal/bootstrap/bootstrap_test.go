package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/hostelpg/internal/config"
)

func TestCorsConfig(t *testing.T) {
	all := corsConfig("*")
	assert.True(t, all.AllowAllOrigins)
	assert.False(t, all.AllowCredentials)

	empty := corsConfig("  ")
	assert.True(t, empty.AllowAllOrigins)

	listed := corsConfig("http://localhost:5173, https://hostelpg.app ,")
	assert.False(t, listed.AllowAllOrigins)
	assert.True(t, listed.AllowCredentials)
	assert.Equal(t, []string{"http://localhost:5173", "https://hostelpg.app"}, listed.AllowOrigins)
	assert.Contains(t, listed.ExposeHeaders, "Content-Disposition")
}

func TestSetupRevocationStore_Memory(t *testing.T) {
	store, client, err := SetupRevocationStore(&config.Config{}, zerolog.Nop())
	require.NoError(t, err)
	assert.Nil(t, client)

	ctx := context.Background()
	require.NoError(t, store.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))
	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestSetupRevocationStore_Redis(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := &config.Config{}
	cfg.Redis.Addr = mr.Addr()

	store, client, err := SetupRevocationStore(cfg, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, client)
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	require.NoError(t, store.Revoke(ctx, "jti-2", time.Now().Add(time.Hour)))
	revoked, err := store.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.NotEmpty(t, mr.Keys())
}

func TestSetupRevocationStore_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := &config.Config{}
	cfg.Redis.Addr = addr

	store, client, err := SetupRevocationStore(cfg, zerolog.Nop())
	require.Error(t, err)
	assert.Nil(t, store)
	assert.Nil(t, client)
}
