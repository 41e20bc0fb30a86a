package monitoring

import (
	"runtime"
	"sort"
	"sync"
	"time"
)

// Metric names recorded by the application service.
const (
	MetricClassifications  = "spam_classifications_total"
	MetricSpamDetected     = "spam_detected_total"
	MetricHamDetected      = "spam_ham_detected_total"
	MetricNeedsInput       = "spam_needs_input_total"
	MetricPredictionErrors = "spam_prediction_errors_total"
	MetricParseErrors      = "spam_parse_errors_total"
	MetricClassifyLatency  = "spam_classify_latency_seconds"
	MetricCacheHitRate     = "spam_cache_hit_rate"
	MetricVocabularySize   = "spam_vocabulary_size"
	MetricTrainingExamples = "spam_training_examples"
)

// DefaultLatencyBuckets are upper bounds in seconds for classification latency.
var DefaultLatencyBuckets = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1}

// MetricsRegistry manages application metrics
type MetricsRegistry struct {
	metrics map[string]Metric
	mutex   sync.RWMutex

	startTime time.Time
}

// Metric interface for all metric types
type Metric interface {
	Name() string
	Type() MetricType
	Value() interface{}
	Labels() map[string]string
	Timestamp() time.Time
	Reset()
}

// MetricType defines the type of metric
type MetricType int

const (
	Counter MetricType = iota
	Gauge
	Histogram
)

// String returns the Prometheus name of the metric type
func (t MetricType) String() string {
	switch t {
	case Counter:
		return "counter"
	case Gauge:
		return "gauge"
	case Histogram:
		return "histogram"
	default:
		return "untyped"
	}
}

// MarshalText encodes the type by name in JSON exports
func (t MetricType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// CounterMetric represents a monotonically increasing counter
type CounterMetric struct {
	name      string
	labels    map[string]string
	value     int64
	timestamp time.Time
	mutex     sync.RWMutex
}

// GaugeMetric represents a value that can go up and down
type GaugeMetric struct {
	name      string
	labels    map[string]string
	value     float64
	timestamp time.Time
	mutex     sync.RWMutex
}

// HistogramMetric collects observations and counts them in cumulative buckets
type HistogramMetric struct {
	name      string
	labels    map[string]string
	buckets   []float64
	counts    []int64
	sum       float64
	count     int64
	timestamp time.Time
	mutex     sync.RWMutex
}

// RuntimeMetrics is a snapshot of Go runtime statistics
type RuntimeMetrics struct {
	MemoryUsage    int64         `json:"memory_usage_bytes"`
	HeapSize       int64         `json:"heap_size_bytes"`
	GoroutineCount int           `json:"goroutine_count"`
	GCCount        int64         `json:"gc_count"`
	Uptime         time.Duration `json:"uptime"`
	Timestamp      time.Time     `json:"timestamp"`
}

// NewMetricsRegistry creates a new metrics registry
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		metrics:   make(map[string]Metric),
		startTime: time.Now(),
	}
}

// RegisterCounter registers a counter, returning the existing one if the
// name is already taken by a counter.
func (mr *MetricsRegistry) RegisterCounter(name string, labels map[string]string) *CounterMetric {
	mr.mutex.Lock()
	defer mr.mutex.Unlock()

	if existing, ok := mr.metrics[name].(*CounterMetric); ok {
		return existing
	}

	counter := &CounterMetric{
		name:      name,
		labels:    labels,
		timestamp: time.Now(),
	}

	mr.metrics[name] = counter
	return counter
}

// RegisterGauge registers a gauge, returning the existing one if the name
// is already taken by a gauge.
func (mr *MetricsRegistry) RegisterGauge(name string, labels map[string]string) *GaugeMetric {
	mr.mutex.Lock()
	defer mr.mutex.Unlock()

	if existing, ok := mr.metrics[name].(*GaugeMetric); ok {
		return existing
	}

	gauge := &GaugeMetric{
		name:      name,
		labels:    labels,
		timestamp: time.Now(),
	}

	mr.metrics[name] = gauge
	return gauge
}

// RegisterHistogram registers a histogram with the given upper bounds.
func (mr *MetricsRegistry) RegisterHistogram(name string, labels map[string]string, buckets []float64) *HistogramMetric {
	mr.mutex.Lock()
	defer mr.mutex.Unlock()

	if existing, ok := mr.metrics[name].(*HistogramMetric); ok {
		return existing
	}

	sorted := append([]float64(nil), buckets...)
	sort.Float64s(sorted)

	histogram := &HistogramMetric{
		name:      name,
		labels:    labels,
		buckets:   sorted,
		counts:    make([]int64, len(sorted)),
		timestamp: time.Now(),
	}

	mr.metrics[name] = histogram
	return histogram
}

// GetMetric retrieves a metric by name
func (mr *MetricsRegistry) GetMetric(name string) (Metric, bool) {
	mr.mutex.RLock()
	defer mr.mutex.RUnlock()

	metric, exists := mr.metrics[name]
	return metric, exists
}

// GetAllMetrics returns all registered metrics sorted by name
func (mr *MetricsRegistry) GetAllMetrics() []Metric {
	mr.mutex.RLock()
	defer mr.mutex.RUnlock()

	metrics := make([]Metric, 0, len(mr.metrics))
	for _, metric := range mr.metrics {
		metrics = append(metrics, metric)
	}
	sort.Slice(metrics, func(i, j int) bool {
		return metrics[i].Name() < metrics[j].Name()
	})

	return metrics
}

// Runtime returns current Go runtime statistics
func (mr *MetricsRegistry) Runtime() *RuntimeMetrics {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return &RuntimeMetrics{
		MemoryUsage:    int64(memStats.Alloc),
		HeapSize:       int64(memStats.HeapAlloc),
		GoroutineCount: runtime.NumGoroutine(),
		GCCount:        int64(memStats.NumGC),
		Uptime:         time.Since(mr.startTime),
		Timestamp:      time.Now(),
	}
}

// CounterMetric implementation

func (c *CounterMetric) Name() string {
	return c.name
}

func (c *CounterMetric) Type() MetricType {
	return Counter
}

func (c *CounterMetric) Value() interface{} {
	return c.Get()
}

func (c *CounterMetric) Labels() map[string]string {
	return c.labels
}

func (c *CounterMetric) Timestamp() time.Time {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.timestamp
}

func (c *CounterMetric) Reset() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.value = 0
	c.timestamp = time.Now()
}

func (c *CounterMetric) Inc() {
	c.Add(1)
}

// Add increases the counter; negative deltas are ignored.
func (c *CounterMetric) Add(value int64) {
	if value < 0 {
		return
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.value += value
	c.timestamp = time.Now()
}

func (c *CounterMetric) Get() int64 {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.value
}

// GaugeMetric implementation

func (g *GaugeMetric) Name() string {
	return g.name
}

func (g *GaugeMetric) Type() MetricType {
	return Gauge
}

func (g *GaugeMetric) Value() interface{} {
	return g.Get()
}

func (g *GaugeMetric) Labels() map[string]string {
	return g.labels
}

func (g *GaugeMetric) Timestamp() time.Time {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return g.timestamp
}

func (g *GaugeMetric) Reset() {
	g.Set(0)
}

func (g *GaugeMetric) Set(value float64) {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	g.value = value
	g.timestamp = time.Now()
}

func (g *GaugeMetric) Add(value float64) {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	g.value += value
	g.timestamp = time.Now()
}

func (g *GaugeMetric) Get() float64 {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return g.value
}

// HistogramMetric implementation

func (h *HistogramMetric) Name() string {
	return h.name
}

func (h *HistogramMetric) Type() MetricType {
	return Histogram
}

func (h *HistogramMetric) Value() interface{} {
	buckets, counts := h.GetBuckets()
	return map[string]interface{}{
		"buckets": buckets,
		"counts":  counts,
		"sum":     h.GetSum(),
		"count":   h.GetCount(),
	}
}

func (h *HistogramMetric) Labels() map[string]string {
	return h.labels
}

func (h *HistogramMetric) Timestamp() time.Time {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.timestamp
}

func (h *HistogramMetric) Reset() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for i := range h.counts {
		h.counts[i] = 0
	}
	h.sum = 0
	h.count = 0
	h.timestamp = time.Now()
}

func (h *HistogramMetric) Observe(value float64) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	// Buckets are cumulative
	for i, bucket := range h.buckets {
		if value <= bucket {
			h.counts[i]++
		}
	}

	h.sum += value
	h.count++
	h.timestamp = time.Now()
}

// ObserveDuration records d in seconds
func (h *HistogramMetric) ObserveDuration(d time.Duration) {
	h.Observe(d.Seconds())
}

func (h *HistogramMetric) GetCount() int64 {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.count
}

func (h *HistogramMetric) GetSum() float64 {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.sum
}

func (h *HistogramMetric) GetBuckets() ([]float64, []int64) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	buckets := make([]float64, len(h.buckets))
	counts := make([]int64, len(h.counts))

	copy(buckets, h.buckets)
	copy(counts, h.counts)

	return buckets, counts
}
