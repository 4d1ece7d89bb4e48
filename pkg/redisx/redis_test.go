package redisx

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func TestNewRedis(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cfg := RedisConfig{RedisType: "miniredis"}
	cfg.Prepare()
	client, closer, err := NewRedis(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, client.Set(ctx, "k", "v", 0).Err())
	require.Equal(t, "v", client.Get(ctx, "k").Val())
	require.NoError(t, closer())

	mr := miniredis.RunT(t)
	cfg = RedisConfig{Address: mr.Addr()}
	cfg.Prepare()
	require.Equal(t, "standalone", cfg.RedisType)
	client, closer, err = NewRedis(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer() })
	require.NoError(t, client.Ping(ctx).Err())

	_, _, err = NewRedis(ctx, RedisConfig{RedisType: "memcached"})
	require.ErrorContains(t, err, "illegal redis type")
}
