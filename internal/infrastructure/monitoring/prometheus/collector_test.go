package prometheus

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/LexiFuzz-NER/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/LexiFuzz-NER/pkg/errors"
)

func newTestCollector(t *testing.T) MetricsCollector {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "test", Subsystem: "unit"}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

// scrapeMetrics exports the registry through the textfile writer and returns
// the exposition text.
func scrapeMetrics(t *testing.T, collector MetricsCollector) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metrics.prom")
	require.NoError(t, collector.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestNewMetricsCollector_EmptyNamespace(t *testing.T) {
	_, err := NewMetricsCollector(CollectorConfig{}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConfigInvalid))
}

func TestNewMetricsCollector_RuntimeCollectors(t *testing.T) {
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "rt", EnableGoMetrics: true}, nil)
	require.NoError(t, err)
	assert.Contains(t, scrapeMetrics(t, c), "go_goroutines")
}

func TestRegisterCounter(t *testing.T) {
	c := newTestCollector(t)
	vec := c.RegisterCounter("requests_total", "help", "status")
	vec.WithLabelValues("ok").Inc()
	vec.With(map[string]string{"status": "ok"}).Add(2)

	assert.Contains(t, scrapeMetrics(t, c), `test_unit_requests_total{status="ok"} 3`)
}

func TestRegisterCounter_SameNameReturnsExisting(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("dup_total", "help").WithLabelValues().Inc()
	c.RegisterCounter("dup_total", "help").WithLabelValues().Inc()

	assert.Contains(t, scrapeMetrics(t, c), "test_unit_dup_total 2")
}

func TestRegister_TypeMismatchIsNoop(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("clash", "help")

	g := c.RegisterGauge("clash", "help")
	assert.IsType(t, noopGaugeVec{}, g)
	g.WithLabelValues().Set(5)

	h := c.RegisterHistogram("clash", "help", nil)
	assert.IsType(t, noopHistogramVec{}, h)
	h.WithLabelValues().Observe(1)
}

func TestRegister_InvalidNameIsNoop(t *testing.T) {
	c := newTestCollector(t)
	vec := c.RegisterCounter("bad-name", "help")
	assert.IsType(t, noopCounterVec{}, vec)
	vec.WithLabelValues().Inc()
}

func TestRegisterGauge(t *testing.T) {
	c := newTestCollector(t)
	g := c.RegisterGauge("phrases", "help", "category")
	g.WithLabelValues("ORG").Set(3)
	g.With(map[string]string{"category": "ORG"}).Inc()
	g.WithLabelValues("ORG").Dec()
	g.WithLabelValues("ORG").Add(1)

	assert.Contains(t, scrapeMetrics(t, c), `test_unit_phrases{category="ORG"} 4`)
}

func TestRegisterHistogram_DefaultBuckets(t *testing.T) {
	c := newTestCollector(t)
	h := c.RegisterHistogram("latency_seconds", "help", nil)
	h.WithLabelValues().Observe(0.002)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_latency_seconds_bucket{le="0.005"} 1`)
	assert.Contains(t, out, `test_unit_latency_seconds_bucket{le="0.001"} 0`)
	assert.Contains(t, out, "test_unit_latency_seconds_count 1")
}

func TestMustRegister(t *testing.T) {
	c := newTestCollector(t)
	extra := prometheus.NewCounter(prometheus.CounterOpts{Name: "extra_total", Help: "help"})
	c.MustRegister(extra)
	extra.Inc()
	assert.Contains(t, scrapeMetrics(t, c), "extra_total 1")
	assert.Panics(t, func() { c.MustRegister(extra) })
}

func TestWriteTextfile(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("written_total", "help").WithLabelValues().Add(7)

	path := filepath.Join(t.TempDir(), "nested", "lexifuzz.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# TYPE test_unit_written_total counter")
	assert.Contains(t, string(data), "test_unit_written_total 7")
}

func TestWriteTextfile_Unwritable(t *testing.T) {
	c := newTestCollector(t)
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	err := c.WriteTextfile(filepath.Join(blocker, "sub", "m.prom"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeIO))
}

func TestGatherer(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("gathered_total", "help").WithLabelValues().Inc()

	families, err := c.Gatherer().Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, strings.Join(names, ","), "test_unit_gathered_total")
}

func TestTimer(t *testing.T) {
	c := newTestCollector(t)
	h := c.RegisterHistogram("timer_seconds", "help", nil)

	timer := NewTimer(h.WithLabelValues())
	time.Sleep(time.Millisecond)
	d := timer.ObserveDuration()
	assert.GreaterOrEqual(t, d, time.Millisecond)
	assert.Contains(t, scrapeMetrics(t, c), "test_unit_timer_seconds_count 1")

	assert.NotPanics(t, func() { NewTimer(nil).ObserveDuration() })
}

func TestCollector_ConcurrentRegistration(t *testing.T) {
	c := newTestCollector(t)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RegisterCounter("concurrent_total", "help").WithLabelValues().Inc()
		}()
	}
	wg.Wait()
	assert.Contains(t, scrapeMetrics(t, c), "test_unit_concurrent_total 10")
}
