package metrics

import (
	"runtime"
	"time"
)

// ServerMetrics are the metrics an engine records.
type ServerMetrics struct {
	// RequestsTotal counts answered requests. Labels: method, status.
	RequestsTotal *Counter
	// RequestDuration is the time from read to write, latency included.
	// Labels: method.
	RequestDuration *Histogram
	// FileReadsTotal counts disk reads of file-backed payloads.
	// Labels: route (index in the route table), result (ok, error).
	FileReadsTotal *Counter
	// ActiveConnections is the number of connections being handled.
	ActiveConnections *Gauge
	// UptimeSeconds and Goroutines are sampled on every scrape.
	UptimeSeconds *Gauge
	Goroutines    *Gauge
}

// NewServerMetrics registers the engine metrics on r.
func NewServerMetrics(r *Registry) *ServerMetrics {
	m := &ServerMetrics{
		RequestsTotal: r.NewCounter(
			"stubd_requests_total",
			"Total number of answered requests",
			"method", "status",
		),
		RequestDuration: r.NewHistogram(
			"stubd_request_duration_seconds",
			"Duration of requests in seconds, simulated latency included",
			DefaultBuckets,
			"method",
		),
		FileReadsTotal: r.NewCounter(
			"stubd_file_reads_total",
			"Disk reads of file-backed payloads",
			"route", "result",
		),
		ActiveConnections: r.NewGauge(
			"stubd_active_connections",
			"Number of connections being handled",
		),
		UptimeSeconds: r.NewGauge(
			"stubd_uptime_seconds",
			"Server uptime in seconds",
		),
		Goroutines: r.NewGauge(
			"go_goroutines",
			"Number of goroutines that currently exist",
		),
	}

	m.ActiveConnections.Vec().Set(0)
	start := time.Now()
	r.OnCollect(func() {
		m.UptimeSeconds.Vec().Set(time.Since(start).Seconds())
		m.Goroutines.Vec().Set(float64(runtime.NumGoroutine()))
	})
	return m
}
