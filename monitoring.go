package structavro

import (
	"reflect"
	"sync"
	"time"
)

// ObservabilityHook defines hooks for monitoring derivation and encoding
// operations. Implementations must be safe for concurrent use.
type ObservabilityHook interface {
	// Called before a schema derivation starts (cache misses only).
	OnDeriveStart(t reflect.Type)

	// Called after a derivation completes (success or failure).
	OnDeriveComplete(t reflect.Type, duration time.Duration, err error)

	// Called after a record encoding completes (success or failure).
	OnEncodeComplete(t reflect.Type, duration time.Duration, err error)
}

// MetricsCollector defines the interface for collecting and reporting
// metrics.
type MetricsCollector interface {
	IncrementCounter(name string, tags map[string]string)
	RecordTiming(name string, duration time.Duration, tags map[string]string)
}

// Metric names emitted by the Deriver.
const (
	MetricDeriveCacheHit  = "derive.cache.hit"
	MetricDeriveCacheMiss = "derive.cache.miss"
	MetricDeriveErrors    = "derive.errors"
	MetricDeriveTime      = "derive.time"
	MetricEncodeErrors    = "encode.errors"
	MetricEncodeTime      = "encode.time"
)

// NoOpObservabilityHook is a no-op implementation of ObservabilityHook.
type NoOpObservabilityHook struct{}

func (NoOpObservabilityHook) OnDeriveStart(t reflect.Type) {}
func (NoOpObservabilityHook) OnDeriveComplete(t reflect.Type, duration time.Duration, err error) {
}
func (NoOpObservabilityHook) OnEncodeComplete(t reflect.Type, duration time.Duration, err error) {
}

// NoOpMetricsCollector is a no-op implementation of MetricsCollector.
type NoOpMetricsCollector struct{}

func (NoOpMetricsCollector) IncrementCounter(name string, tags map[string]string) {}
func (NoOpMetricsCollector) RecordTiming(name string, duration time.Duration, tags map[string]string) {
}

// InMemoryMetricsCollector is a simple in-memory implementation for testing
// and development.
type InMemoryMetricsCollector struct {
	mu       sync.Mutex
	counters map[string]int64
	timings  []TimingMetric
}

// TimingMetric is one recorded timing sample.
type TimingMetric struct {
	Name     string
	Duration time.Duration
	Tags     map[string]string
}

// NewInMemoryMetricsCollector creates a new in-memory metrics collector.
func NewInMemoryMetricsCollector() *InMemoryMetricsCollector {
	return &InMemoryMetricsCollector{counters: make(map[string]int64)}
}

func (m *InMemoryMetricsCollector) IncrementCounter(name string, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name]++
}

func (m *InMemoryMetricsCollector) RecordTiming(name string, duration time.Duration, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timings = append(m.timings, TimingMetric{Name: name, Duration: duration, Tags: tags})
}

// CounterValue returns the current value of a counter.
func (m *InMemoryMetricsCollector) CounterValue(name string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[name]
}

// Timings returns a snapshot of the recorded timing samples.
func (m *InMemoryMetricsCollector) Timings() []TimingMetric {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]TimingMetric, len(m.timings))
	copy(out, m.timings)
	return out
}
