// Package metrics provides Prometheus-compatible metrics for the stub server.
//
// It implements the Prometheus text exposition format (version 0.0.4) for
// three metric types:
//
//   - Counter: monotonically increasing value (requests served)
//   - Gauge: value that can go up or down (open connections)
//   - Histogram: distribution of observations in buckets (request latency)
//
// All metrics are safe for concurrent use. Each engine owns its own Registry
// and ServerMetrics, so several servers can run in one process:
//
//	reg := metrics.NewRegistry()
//	m := metrics.NewServerMetrics(reg)
//	m.RequestsTotal.MustWithLabels("GET", "200").Inc()
//	_ = reg.WriteText(os.Stdout)
package metrics
