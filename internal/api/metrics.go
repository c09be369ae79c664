package api

import (
	"fmt"
	"io"
	"net/http"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"minimalapi/internal/version"
)

// MetricsCollector collects request and cache metrics and renders them in
// the Prometheus text format
type MetricsCollector struct {
	requestsTotal    *Counter
	errorsTotal      *Counter
	cacheResolutions *Counter
	requestDuration  *Histogram
	goroutines       *Gauge
	memoryAlloc      *Gauge

	startTime time.Time
}

// labelSet turns label values into a sorted-stable series key
type labelSet []string

func (ls labelSet) key(values []string) string {
	if len(ls) == 0 || len(values) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(ls))
	for i, label := range ls {
		if i < len(values) {
			pairs = append(pairs, label+"="+strconv.Quote(values[i]))
		}
	}
	return "{" + strings.Join(pairs, ",") + "}"
}

// Counter is a monotonically increasing counter
type Counter struct {
	name   string
	help   string
	labels labelSet
	values sync.Map // map[string]*uint64
}

// Histogram tracks distributions of values
type Histogram struct {
	name    string
	help    string
	labels  labelSet
	buckets []float64
	values  sync.Map // map[string]*histogramValue
}

type histogramValue struct {
	mu      sync.Mutex
	sum     float64
	count   uint64
	buckets []uint64 // per-bucket, last is +Inf
}

// Gauge is a metric that can go up and down
type Gauge struct {
	name   string
	help   string
	labels labelSet
	values sync.Map // map[string]*float64
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		requestsTotal: &Counter{
			name:   "minimalapi_http_requests_total",
			help:   "Total number of HTTP requests",
			labels: labelSet{"method", "route", "status"},
		},
		errorsTotal: &Counter{
			name:   "minimalapi_errors_total",
			help:   "Total number of error responses by code",
			labels: labelSet{"code"},
		},
		cacheResolutions: &Counter{
			name:   "minimalapi_cache_resolutions_total",
			help:   "Total number of cache lookups by registry label",
			labels: labelSet{"label"},
		},
		requestDuration: &Histogram{
			name:    "minimalapi_http_request_duration_seconds",
			help:    "Duration of HTTP requests in seconds",
			labels:  labelSet{"method", "route"},
			buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		goroutines: &Gauge{
			name: "minimalapi_goroutines",
			help: "Number of goroutines",
		},
		memoryAlloc: &Gauge{
			name: "minimalapi_memory_alloc_bytes",
			help: "Allocated memory in bytes",
		},
		startTime: time.Now(),
	}
}

// RecordRequest records a completed HTTP request
func (m *MetricsCollector) RecordRequest(method, route string, status int, duration time.Duration) {
	m.requestsTotal.Inc(method, route, strconv.Itoa(status))
	m.requestDuration.Observe(duration.Seconds(), method, route)
}

// RecordError records an error response
func (m *MetricsCollector) RecordError(code string) {
	m.errorsTotal.Inc(code)
}

// RecordCacheResolution records a cache lookup through the registry
func (m *MetricsCollector) RecordCacheResolution(label string) {
	m.cacheResolutions.Inc(label)
}

// WritePrometheus writes metrics in Prometheus text format
func (m *MetricsCollector) WritePrometheus(w io.Writer) {
	m.goroutines.Set(float64(runtime.NumGoroutine()))
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	m.memoryAlloc.Set(float64(memStats.Alloc))

	fmt.Fprintf(w, "# HELP minimalapi_info Build information\n")
	fmt.Fprintf(w, "# TYPE minimalapi_info gauge\n")
	fmt.Fprintf(w, "minimalapi_info{version=%q} 1\n\n", version.Version)

	fmt.Fprintf(w, "# HELP minimalapi_uptime_seconds Time since the server started\n")
	fmt.Fprintf(w, "# TYPE minimalapi_uptime_seconds counter\n")
	fmt.Fprintf(w, "minimalapi_uptime_seconds %.3f\n\n", time.Since(m.startTime).Seconds())

	m.requestsTotal.write(w)
	m.errorsTotal.write(w)
	m.cacheResolutions.write(w)
	m.requestDuration.write(w)
	m.goroutines.write(w)
	m.memoryAlloc.write(w)
}

func sortedKeys(values *sync.Map) []string {
	var keys []string
	values.Range(func(key, _ interface{}) bool {
		keys = append(keys, key.(string))
		return true
	})
	sort.Strings(keys)
	return keys
}

// Inc adds one to the series for labelValues
func (c *Counter) Inc(labelValues ...string) {
	c.Add(1, labelValues...)
}

// Add adds delta to the series for labelValues
func (c *Counter) Add(delta uint64, labelValues ...string) {
	val, _ := c.values.LoadOrStore(c.labels.key(labelValues), new(uint64))
	atomic.AddUint64(val.(*uint64), delta)
}

// Value returns the current count for labelValues
func (c *Counter) Value(labelValues ...string) uint64 {
	val, ok := c.values.Load(c.labels.key(labelValues))
	if !ok {
		return 0
	}
	return atomic.LoadUint64(val.(*uint64))
}

func (c *Counter) write(w io.Writer) {
	fmt.Fprintf(w, "# HELP %s %s\n", c.name, c.help)
	fmt.Fprintf(w, "# TYPE %s counter\n", c.name)
	for _, key := range sortedKeys(&c.values) {
		val, _ := c.values.Load(key)
		fmt.Fprintf(w, "%s%s %d\n", c.name, key, atomic.LoadUint64(val.(*uint64)))
	}
	fmt.Fprintln(w)
}

// Observe records value in the series for labelValues
func (h *Histogram) Observe(value float64, labelValues ...string) {
	val, _ := h.values.LoadOrStore(h.labels.key(labelValues), &histogramValue{
		buckets: make([]uint64, len(h.buckets)+1),
	})
	hv := val.(*histogramValue)

	idx := sort.SearchFloat64s(h.buckets, value)

	hv.mu.Lock()
	defer hv.mu.Unlock()
	hv.sum += value
	hv.count++
	hv.buckets[idx]++
}

func (h *Histogram) write(w io.Writer) {
	fmt.Fprintf(w, "# HELP %s %s\n", h.name, h.help)
	fmt.Fprintf(w, "# TYPE %s histogram\n", h.name)
	for _, key := range sortedKeys(&h.values) {
		val, _ := h.values.Load(key)
		hv := val.(*histogramValue)

		hv.mu.Lock()
		var cumulative uint64
		for i, bound := range h.buckets {
			cumulative += hv.buckets[i]
			fmt.Fprintf(w, "%s_bucket%s %d\n", h.name, withLE(key, strconv.FormatFloat(bound, 'g', -1, 64)), cumulative)
		}
		cumulative += hv.buckets[len(h.buckets)]
		fmt.Fprintf(w, "%s_bucket%s %d\n", h.name, withLE(key, "+Inf"), cumulative)
		fmt.Fprintf(w, "%s_sum%s %.6f\n", h.name, key, hv.sum)
		fmt.Fprintf(w, "%s_count%s %d\n", h.name, key, hv.count)
		hv.mu.Unlock()
	}
	fmt.Fprintln(w)
}

func withLE(key, le string) string {
	if key == "" {
		return `{le="` + le + `"}`
	}
	return key[:len(key)-1] + `,le="` + le + `"}`
}

// Set replaces the series value for labelValues
func (g *Gauge) Set(value float64, labelValues ...string) {
	v := value
	g.values.Store(g.labels.key(labelValues), &v)
}

func (g *Gauge) write(w io.Writer) {
	fmt.Fprintf(w, "# HELP %s %s\n", g.name, g.help)
	fmt.Fprintf(w, "# TYPE %s gauge\n", g.name)
	for _, key := range sortedKeys(&g.values) {
		val, _ := g.values.Load(key)
		fmt.Fprintf(w, "%s%s %g\n", g.name, key, *val.(*float64))
	}
	fmt.Fprintln(w)
}

// handleMetrics handles the /metrics endpoint
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	s.metrics.WritePrometheus(w)
}
