package metrics

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter(t *testing.T) {
	t.Run("without labels", func(t *testing.T) {
		r := NewRegistry()
		c := r.NewCounter("test_counter", "A test counter")

		require.NoError(t, c.Inc())
		require.NoError(t, c.Add(3))

		samples := c.Collect()
		require.Len(t, samples, 1)
		assert.Equal(t, 4.0, samples[0].Value)
	})

	t.Run("with labels", func(t *testing.T) {
		r := NewRegistry()
		c := r.NewCounter("requests", "Requests", "method", "status")

		c.MustWithLabels("GET", "200").Inc()
		c.MustWithLabels("GET", "200").Inc()
		require.NoError(t, c.MustWithLabels("POST", "400").Add(5))

		samples := c.Collect()
		require.Len(t, samples, 2)
		assert.Equal(t, map[string]string{"method": "GET", "status": "200"}, samples[0].Labels)
		assert.Equal(t, 2.0, samples[0].Value)
		assert.Equal(t, 5.0, samples[1].Value)
	})

	t.Run("wrong label count", func(t *testing.T) {
		r := NewRegistry()
		c := r.NewCounter("test", "test", "a", "b")
		_, err := c.WithLabels("only_one")
		assert.True(t, errors.Is(err, ErrLabelCountMismatch))
		assert.Panics(t, func() { c.MustWithLabels() })
	})

	t.Run("negative add", func(t *testing.T) {
		r := NewRegistry()
		c := r.NewCounter("test", "test")
		assert.ErrorIs(t, c.Add(-1), ErrNegativeCounterValue)
	})

	t.Run("concurrent increments", func(t *testing.T) {
		r := NewRegistry()
		c := r.NewCounter("test", "test", "k")
		var wg sync.WaitGroup
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 100 {
					c.MustWithLabels("x").Inc()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 5000.0, c.MustWithLabels("x").Value())
	})
}

func TestGauge(t *testing.T) {
	r := NewRegistry()
	g := r.NewGauge("conns", "Connections")

	v := g.Vec()
	v.Inc()
	v.Inc()
	v.Dec()
	assert.Equal(t, 1.0, v.Value())
	v.Set(7)
	assert.Equal(t, 7.0, g.Vec().Value())
}

func TestHistogram(t *testing.T) {
	r := NewRegistry()
	h := r.NewHistogram("latency", "Latency", []float64{1, 0.1}, "method")

	v, err := h.WithLabels("GET")
	require.NoError(t, err)
	v.Observe(0.05)
	v.Observe(0.5)
	v.Observe(3)
	assert.Equal(t, uint64(3), v.Count())

	got := map[string]float64{}
	for _, s := range h.Collect() {
		got[s.Name+"|"+s.Labels["le"]] = s.Value
	}
	assert.Equal(t, 1.0, got["latency_bucket|0.1"])
	assert.Equal(t, 2.0, got["latency_bucket|1"])
	assert.Equal(t, 3.0, got["latency_bucket|+Inf"])
	assert.InDelta(t, 3.55, got["latency_sum|"], 1e-9)
	assert.Equal(t, 3.0, got["latency_count|"])
}

func TestRegistry_Duplicate(t *testing.T) {
	r := NewRegistry()
	r.NewCounter("x", "x")
	assert.Panics(t, func() { r.NewGauge("x", "x") })
}

func TestRegistry_WriteText(t *testing.T) {
	r := NewRegistry()
	c := r.NewCounter("stubd_requests_total", "Total requests\nsecond line", "method", "status")
	r.NewGauge("empty_gauge", "never set")
	c.MustWithLabels("GET", `a"b`).Inc()

	var buf bytes.Buffer
	require.NoError(t, r.WriteText(&buf))
	out := buf.String()

	assert.Contains(t, out, "# HELP stubd_requests_total Total requests\\nsecond line\n")
	assert.Contains(t, out, "# TYPE stubd_requests_total counter\n")
	assert.Contains(t, out, `stubd_requests_total{method="GET",status="a\"b"} 1`+"\n")
	assert.NotContains(t, out, "empty_gauge")
}

func TestServerMetrics(t *testing.T) {
	r := NewRegistry()
	m := NewServerMetrics(r)

	m.RequestsTotal.MustWithLabels("GET", "200").Inc()
	m.FileReadsTotal.MustWithLabels("0", "ok").Inc()
	m.ActiveConnections.Vec().Inc()

	var buf bytes.Buffer
	require.NoError(t, r.WriteText(&buf))
	out := buf.String()

	for _, want := range []string{
		`stubd_requests_total{method="GET",status="200"} 1`,
		`stubd_file_reads_total{result="ok",route="0"} 1`,
		"stubd_active_connections 1",
		"stubd_uptime_seconds ",
		"go_goroutines ",
	} {
		assert.True(t, strings.Contains(out, want), "missing %q in:\n%s", want, out)
	}
}
