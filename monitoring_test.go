package structavro

import (
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHook struct {
	mu        sync.Mutex
	started   []reflect.Type
	derived   []reflect.Type
	deriveErr error
	encoded   []reflect.Type
}

func (h *recordingHook) OnDeriveStart(t reflect.Type) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started = append(h.started, t)
}

func (h *recordingHook) OnDeriveComplete(t reflect.Type, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.derived = append(h.derived, t)
	h.deriveErr = err
}

func (h *recordingHook) OnEncodeComplete(t reflect.Type, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.encoded = append(h.encoded, t)
}

func TestObservabilityHook_DeriveAndEncode(t *testing.T) {
	hook := &recordingHook{}
	d := newTestDeriver(t, WithObservabilityHook(hook))

	_, err := d.Encode(Pizza{Name: "observed"})
	require.NoError(t, err)

	pizzaType := reflect.TypeFor[Pizza]()
	assert.Contains(t, hook.started, pizzaType)
	assert.Contains(t, hook.derived, pizzaType)
	assert.NoError(t, hook.deriveErr)
	assert.Equal(t, []reflect.Type{pizzaType}, hook.encoded)

	t.Run("cache hits skip the derive hooks", func(t *testing.T) {
		before := len(hook.started)
		_, err := d.Encode(Pizza{Name: "again"})
		require.NoError(t, err)
		assert.Len(t, hook.started, before)
	})
}

func TestObservabilityHook_DeriveFailure(t *testing.T) {
	hook := &recordingHook{}
	d := newTestDeriver(t, WithObservabilityHook(hook))

	_, err := d.Schema(map[int]string{})
	require.Error(t, err)
	assert.Error(t, hook.deriveErr)
}

func TestInMemoryMetricsCollector(t *testing.T) {
	m := NewInMemoryMetricsCollector()
	m.IncrementCounter("x", nil)
	m.IncrementCounter("x", nil)
	m.RecordTiming("y", time.Millisecond, map[string]string{"type": "Pizza"})

	assert.Equal(t, int64(2), m.CounterValue("x"))
	assert.Equal(t, int64(0), m.CounterValue("missing"))

	timings := m.Timings()
	require.Len(t, timings, 1)
	assert.Equal(t, "y", timings[0].Name)
	assert.Equal(t, time.Millisecond, timings[0].Duration)
}

func TestMetrics_ErrorCounters(t *testing.T) {
	metrics := NewInMemoryMetricsCollector()
	d := newTestDeriver(t, WithMetricsCollector(metrics))

	_, err := d.Schema(map[int]string{})
	require.Error(t, err)
	assert.Equal(t, int64(1), metrics.CounterValue(MetricDeriveErrors))
}
