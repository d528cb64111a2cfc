package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pinger struct{ err error }

func (p pinger) Ping() error { return p.err }

func TestCollect_NothingConfigured(t *testing.T) {
	r := Collect(context.Background(), nil, nil, time.Now())
	assert.Equal(t, "issue", r.Status)
	assert.Equal(t, "disconnected", r.Dependencies["database"].Status)
	assert.Equal(t, "disconnected", r.Dependencies["redis"].Status)
	assert.Equal(t, 0, r.Traffic.TotalRequests)
	assert.NotEmpty(t, r.Runtime.GoVersion)
}

func TestCollect_WithMiniredis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	ctx := context.Background()

	r := Collect(ctx, rdb, pinger{}, time.Now().Add(-time.Minute))
	assert.Equal(t, "ok", r.Status)
	assert.Equal(t, "connected", r.Dependencies["redis"].Status)
	assert.NotNil(t, r.Dependencies["database"].PingMs)
	assert.Equal(t, "100", r.Traffic.SuccessRate)
	assert.GreaterOrEqual(t, r.Runtime.UptimeSeconds, int64(59))

	require.NoError(t, rdb.Set(ctx, "health:estate:req_total", "10", 0).Err())
	require.NoError(t, rdb.Set(ctx, "health:estate:req_errors", "2", 0).Err())
	require.NoError(t, rdb.Set(ctx, "health:estate:res_time_total", "150.5", 0).Err())

	r = Collect(ctx, rdb, pinger{}, time.Now())
	assert.Equal(t, 10, r.Traffic.TotalRequests)
	assert.Equal(t, 2, r.Traffic.FailedCount)
	assert.Equal(t, "80.0", r.Traffic.SuccessRate)
	assert.Equal(t, 15.05, r.Traffic.AvgResponseTime)
}

func TestCollect_DatabaseDown(t *testing.T) {
	r := Collect(context.Background(), nil, pinger{err: errors.New("refused")}, time.Now())
	assert.Equal(t, "error", r.Dependencies["database"].Status)
	assert.Nil(t, r.Dependencies["database"].PingMs)
	assert.Equal(t, "issue", r.Status)
}
