package cache

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jsamuelsen/quoteboard/internal/platform/telemetry"
)

// MetricsHook records every Redis command in Prometheus.
type MetricsHook struct{}

var _ redis.Hook = (*MetricsHook)(nil)

// DialHook implements redis.Hook.
func (h *MetricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		if err != nil {
			telemetry.RedisOpsTotal.WithLabelValues("dial", "error").Inc()
		}

		return conn, err
	}
}

// ProcessHook implements redis.Hook.
func (h *MetricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)

		telemetry.RedisOpsTotal.WithLabelValues(cmd.Name(), status(err)).Inc()
		telemetry.RedisOpDuration.WithLabelValues(cmd.Name()).Observe(time.Since(start).Seconds())

		return err
	}
}

// ProcessPipelineHook implements redis.Hook. A pipeline counts as one operation.
func (h *MetricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)

		telemetry.RedisOpsTotal.WithLabelValues("pipeline", status(err)).Inc()
		telemetry.RedisOpDuration.WithLabelValues("pipeline").Observe(time.Since(start).Seconds())

		return err
	}
}

// status treats a cache miss as a success.
func status(err error) string {
	if err != nil && !errors.Is(err, redis.Nil) {
		return "error"
	}

	return "success"
}
