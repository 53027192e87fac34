package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestQueryName(t *testing.T) {
	tests := []struct {
		sql  string
		want string
	}{
		{sql: "SELECT * FROM quotes", want: "SELECT"},
		{sql: "\n\tupdate quotes set views = views + 1", want: "UPDATE"},
		{sql: "", want: "unknown"},
		{sql: "   ", want: "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, queryName(tt.sql))
	}
}

func TestMetricsTracer_EndWithoutStartIsNoop(t *testing.T) {
	tracer := &MetricsTracer{}

	assert.NotPanics(t, func() {
		tracer.TraceQueryEnd(context.Background(), nil, pgx.TraceQueryEndData{Err: errors.New("boom")})
	})

	ctx := tracer.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT 1"})
	assert.NotPanics(t, func() {
		tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{})
	})
}
