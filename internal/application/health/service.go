// Package health reports the state of the service's dependencies.
package health

import (
	"context"
	"math"
	"runtime"
	"strconv"
	"time"

	"estate-backend/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// DBPinger is optional for health check. If nil, database is reported as disconnected.
type DBPinger interface {
	Ping() error
}

type Report struct {
	Status       string               `json:"status"`
	Runtime      RuntimeInfo          `json:"runtime"`
	Traffic      TrafficInfo          `json:"traffic"`
	Dependencies map[string]DepStatus `json:"dependencies"`
}

type RuntimeInfo struct {
	UptimeSeconds int64  `json:"uptimeSeconds"`
	HeapMB        int    `json:"heapMb"`
	Goroutines    int    `json:"goroutines"`
	GoVersion     string `json:"goVersion"`
}

type TrafficInfo struct {
	TotalRequests   int     `json:"totalRequests"`
	FailedCount     int     `json:"failedCount"`
	SuccessRate     string  `json:"successRate"`
	AvgResponseTime float64 `json:"avgResponseMs"`
}

type DepStatus struct {
	Status string `json:"status"`
	PingMs *int64 `json:"pingMs"`
}

// Collect pings the database and Redis and reads the request counters kept by
// middleware.RequestStats. Status is "ok" only when both dependencies answer.
func Collect(ctx context.Context, rdb *redis.Client, db DBPinger, started time.Time) Report {
	r := Report{
		Dependencies: make(map[string]DepStatus, 2),
		Traffic:      TrafficInfo{SuccessRate: "100"},
	}

	r.Dependencies["database"] = ping(db != nil, func() error { return db.Ping() })
	r.Dependencies["redis"] = ping(rdb != nil, func() error { return rdb.Ping(ctx).Err() })

	if r.Dependencies["redis"].Status == "connected" {
		r.Traffic = readTraffic(ctx, rdb)
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	uptime := int64(time.Since(started).Seconds())
	if uptime < 0 {
		uptime = 0
	}
	r.Runtime = RuntimeInfo{
		UptimeSeconds: uptime,
		HeapMB:        int(m.HeapInuse / 1024 / 1024),
		Goroutines:    runtime.NumGoroutine(),
		GoVersion:     runtime.Version(),
	}

	r.Status = "issue"
	if r.Dependencies["database"].Status == "connected" && r.Dependencies["redis"].Status == "connected" {
		r.Status = "ok"
	}
	return r
}

func ping(present bool, fn func() error) DepStatus {
	if !present {
		return DepStatus{Status: "disconnected"}
	}
	start := time.Now()
	if err := fn(); err != nil {
		return DepStatus{Status: "error"}
	}
	ms := time.Since(start).Milliseconds()
	return DepStatus{Status: "connected", PingMs: &ms}
}

func readTraffic(ctx context.Context, rdb *redis.Client) TrafficInfo {
	t := TrafficInfo{SuccessRate: "100"}
	vals, err := rdb.MGet(ctx, middleware.KeyReqTotal, middleware.KeyReqErrors, middleware.KeyResTime).Result()
	if err != nil {
		return t
	}
	t.TotalRequests = atoi(vals[0])
	t.FailedCount = atoi(vals[1])
	if t.TotalRequests > 0 {
		ok := t.TotalRequests - t.FailedCount
		t.SuccessRate = strconv.FormatFloat(float64(ok)/float64(t.TotalRequests)*100, 'f', 1, 64)
		if s, isStr := vals[2].(string); isStr {
			total, _ := strconv.ParseFloat(s, 64)
			t.AvgResponseTime = math.Round(total/float64(t.TotalRequests)*100) / 100
		}
	}
	return t
}

func atoi(v interface{}) int {
	s, _ := v.(string)
	n, _ := strconv.Atoi(s)
	return n
}
