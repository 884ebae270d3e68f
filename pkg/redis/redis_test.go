package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func configFor(mr *miniredis.Miniredis) Config {
	return Config{Host: mr.Host(), Port: mr.Port(), PoolSize: 2}
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewClient(context.Background(), configFor(mr), zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.NoError(t, c.Healthy(context.Background()))
	require.NoError(t, c.Set(context.Background(), "k", "v", 0).Err())
	mr.CheckGet(t, "k", "v")
	assert.NoError(t, c.Close())
}

func TestNewClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := configFor(mr)
	mr.Close()

	c, err := NewClient(context.Background(), cfg, zaptest.NewLogger(t))
	assert.Error(t, err)
	assert.Nil(t, c)
	assert.Contains(t, err.Error(), cfg.Addr())
}

func TestClient_HealthyAfterServerStops(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := NewClient(context.Background(), configFor(mr), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	mr.Close()
	assert.Error(t, c.Healthy(context.Background()))
}
