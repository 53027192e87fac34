package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jsamuelsen/quoteboard/internal/platform/logging"
)

const defaultSlowThreshold = 200 * time.Millisecond

// gormLogger sends GORM's output to slog, preferring the request logger in
// ctx so query lines carry request and trace ids.
type gormLogger struct {
	base  *slog.Logger
	level logger.LogLevel
	slow  time.Duration
}

var _ logger.Interface = (*gormLogger)(nil)

func newGormLogger(base *slog.Logger, slow time.Duration) *gormLogger {
	if base == nil {
		base = slog.Default()
	}

	if slow <= 0 {
		slow = defaultSlowThreshold
	}

	return &gormLogger{
		base:  base.With(slog.String("component", "gorm")),
		level: logger.Warn,
		slow:  slow,
	}
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *l
	clone.level = level

	return &clone
}

func (l *gormLogger) Info(ctx context.Context, msg string, args ...any) {
	if l.level >= logger.Info {
		l.logger(ctx).InfoContext(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, args ...any) {
	if l.level >= logger.Warn {
		l.logger(ctx).WarnContext(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, args ...any) {
	if l.level >= logger.Error {
		l.logger(ctx).ErrorContext(ctx, fmt.Sprintf(msg, args...))
	}
}

// Trace logs failed statements at error level and slow ones at warn level.
// Missing records and duplicate keys surface as domain errors and are not
// logged here.
func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)

	switch {
	case err != nil && l.level >= logger.Error && !expected(err):
		sql, rows := fc()
		l.logger(ctx).ErrorContext(ctx, "query failed",
			slog.String("sql", sql),
			slog.Int64("rows", rows),
			slog.Duration("elapsed", elapsed),
			slog.Any("error", err),
		)
	case elapsed > l.slow && l.level >= logger.Warn:
		sql, rows := fc()
		l.logger(ctx).WarnContext(ctx, "slow query",
			slog.String("sql", sql),
			slog.Int64("rows", rows),
			slog.Duration("elapsed", elapsed),
			slog.Duration("threshold", l.slow),
		)
	case l.level >= logger.Info:
		sql, rows := fc()
		l.logger(ctx).DebugContext(ctx, "query",
			slog.String("sql", sql),
			slog.Int64("rows", rows),
			slog.Duration("elapsed", elapsed),
		)
	}
}

func expected(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, gorm.ErrDuplicatedKey)
}

func (l *gormLogger) logger(ctx context.Context) *slog.Logger {
	if reqLogger, ok := logging.Lookup(ctx); ok {
		return reqLogger.With(slog.String("component", "gorm"))
	}

	return l.base
}
