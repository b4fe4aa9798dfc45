package middleware

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
)

const bytesPerMB = 1024 * 1024

// Metrics counts requests per route template. Route templates rather than
// raw paths keep the endpoint map bounded regardless of how many ids exist.
type Metrics struct {
	totalRequests  atomic.Int64
	activeRequests atomic.Int64
	totalErrors    atomic.Int64
	totalLatencyMs atomic.Int64
	maxLatencyMs   atomic.Int64
	startTime      time.Time

	mu                sync.Mutex
	endpointCounts    map[string]int64
	endpointLatencies map[string]int64
	statusCodes       map[int]int64
}

func NewMetrics() *Metrics {
	return &Metrics{
		startTime:         time.Now(),
		endpointCounts:    make(map[string]int64),
		endpointLatencies: make(map[string]int64),
		statusCodes:       make(map[int]int64),
	}
}

func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			m.activeRequests.Add(1)
			start := time.Now()

			err := next(c)
			if err != nil {
				// Resolve the status now so it is counted correctly.
				c.Error(err)
			}

			latencyMs := time.Since(start).Milliseconds()
			m.activeRequests.Add(-1)
			m.totalRequests.Add(1)
			m.totalLatencyMs.Add(latencyMs)

			for {
				current := m.maxLatencyMs.Load()
				if latencyMs <= current || m.maxLatencyMs.CompareAndSwap(current, latencyMs) {
					break
				}
			}

			status := c.Response().Status
			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			endpoint := c.Request().Method + " " + path

			m.mu.Lock()
			m.endpointCounts[endpoint]++
			m.endpointLatencies[endpoint] += latencyMs
			m.statusCodes[status]++
			m.mu.Unlock()
			if status >= 400 {
				m.totalErrors.Add(1)
			}

			return nil
		}
	}
}

type RuntimeStats struct {
	AllocMB     float64 `json:"alloc_mb"`
	SysMB       float64 `json:"sys_mb"`
	HeapInUseMB float64 `json:"heap_in_use_mb"`
	NumGC       uint32  `json:"num_gc"`
	Goroutines  int     `json:"goroutines"`
}

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	TotalRequests  int64            `json:"total_requests"`
	ActiveRequests int64            `json:"active_requests"`
	TotalErrors    int64            `json:"total_errors"`
	ErrorRate      float64          `json:"error_rate_pct"`
	AvgLatencyMs   float64          `json:"avg_latency_ms"`
	MaxLatencyMs   int64            `json:"max_latency_ms"`
	UptimeSeconds  float64          `json:"uptime_seconds"`
	EndpointCounts map[string]int64 `json:"endpoint_counts"`
	EndpointAvgMs  map[string]int64 `json:"endpoint_avg_latency_ms"`
	StatusCodes    map[int]int64    `json:"status_codes"`
	Runtime        RuntimeStats     `json:"runtime"`
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	total := m.totalRequests.Load()
	errs := m.totalErrors.Load()

	snap := MetricsSnapshot{
		TotalRequests:  total,
		ActiveRequests: m.activeRequests.Load(),
		TotalErrors:    errs,
		MaxLatencyMs:   m.maxLatencyMs.Load(),
		UptimeSeconds:  time.Since(m.startTime).Seconds(),
		Runtime:        readRuntimeStats(),
	}
	if total > 0 {
		snap.AvgLatencyMs = float64(m.totalLatencyMs.Load()) / float64(total)
		snap.ErrorRate = float64(errs) / float64(total) * 100
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	snap.EndpointCounts = make(map[string]int64, len(m.endpointCounts))
	snap.EndpointAvgMs = make(map[string]int64, len(m.endpointCounts))
	for k, v := range m.endpointCounts {
		snap.EndpointCounts[k] = v
		if v > 0 {
			snap.EndpointAvgMs[k] = m.endpointLatencies[k] / v
		}
	}
	snap.StatusCodes = make(map[int]int64, len(m.statusCodes))
	for k, v := range m.statusCodes {
		snap.StatusCodes[k] = v
	}
	return snap
}

func readRuntimeStats() RuntimeStats {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return RuntimeStats{
		AllocMB:     float64(ms.Alloc) / bytesPerMB,
		SysMB:       float64(ms.Sys) / bytesPerMB,
		HeapInUseMB: float64(ms.HeapInuse) / bytesPerMB,
		NumGC:       ms.NumGC,
		Goroutines:  runtime.NumGoroutine(),
	}
}
