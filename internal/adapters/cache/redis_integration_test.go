//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/jsamuelsen/quoteboard/internal/domain"
)

func TestRedisCache_Container(t *testing.T) {
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	rdb := NewClient(Options{Addr: endpoint})
	t.Cleanup(func() { _ = rdb.Close() })

	c := NewRedisCache(rdb, "quoteboard-test:")

	_, err = c.Get(ctx, "top:10")
	assert.True(t, domain.IsNotFound(err))

	require.NoError(t, c.Set(ctx, "top:10", []byte(`[{"ID":1}]`), time.Minute))

	value, err := c.Get(ctx, "top:10")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"ID":1}]`, string(value))

	raw, err := rdb.Get(ctx, "quoteboard-test:top:10").Result()
	require.NoError(t, err)
	assert.NotEmpty(t, raw)

	require.NoError(t, c.Delete(ctx, "top:10"))
	require.NoError(t, c.Delete(ctx, "top:10"))

	_, err = c.Get(ctx, "top:10")
	assert.True(t, domain.IsNotFound(err))

	assert.NoError(t, NewHealthChecker(rdb).Check(ctx))
}
