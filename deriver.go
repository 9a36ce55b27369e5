package structavro

import (
	"reflect"
	"sync"
	"time"
)

// Deriver derives schemas from Go type shapes and encodes values into
// generic records. Derivation output depends only on type shape and the
// configuration, so each Deriver memoizes one plan per distinct type and
// shares it read-only across concurrent callers. The cache is populated on
// first use and never invalidated.
type Deriver struct {
	config  Config
	hook    ObservabilityHook
	metrics MetricsCollector

	mu    sync.RWMutex
	plans map[reflect.Type]*plan
}

// New creates a Deriver with the given options. The resulting configuration
// is validated and defaults applied.
func New(opts ...Option) (*Deriver, error) {
	d := &Deriver{
		hook:    NoOpObservabilityHook{},
		metrics: NoOpMetricsCollector{},
		plans:   make(map[reflect.Type]*plan),
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	if err := d.config.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Config returns a copy of the deriver's effective configuration.
func (d *Deriver) Config() Config { return d.config }

// planFor returns the memoized derivation plan for a type, deriving it on
// first use.
func (d *Deriver) planFor(t reflect.Type) (*plan, error) {
	d.mu.RLock()
	pl, ok := d.plans[t]
	d.mu.RUnlock()
	if ok {
		d.metrics.IncrementCounter(MetricDeriveCacheHit, nil)
		return pl, nil
	}

	d.metrics.IncrementCounter(MetricDeriveCacheMiss, nil)
	d.hook.OnDeriveStart(t)
	start := time.Now()
	pl, err := d.derive(t, t.String(), newDeriveState())
	elapsed := time.Since(start)
	d.hook.OnDeriveComplete(t, elapsed, err)
	d.metrics.RecordTiming(MetricDeriveTime, elapsed, map[string]string{"type": t.String()})
	if err != nil {
		d.metrics.IncrementCounter(MetricDeriveErrors, nil)
		return nil, err
	}

	d.mu.Lock()
	if existing, ok := d.plans[t]; ok {
		pl = existing
	} else {
		d.plans[t] = pl
	}
	d.mu.Unlock()
	return pl, nil
}
