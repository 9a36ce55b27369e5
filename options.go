package structavro

// Option configures a Deriver during construction.
type Option func(d *Deriver) error

// WithConfig replaces the whole configuration. The config is validated (and
// defaults applied) by New after all options run.
func WithConfig(cfg Config) Option {
	return func(d *Deriver) error {
		d.config = cfg
		return nil
	}
}

// WithNamespace sets the namespace attached to derived record and enum
// types.
func WithNamespace(namespace string) Option {
	return func(d *Deriver) error {
		d.config.Namespace = namespace
		return nil
	}
}

// WithDecimal sets the default precision and scale for big.Rat fields that
// carry no decimal tag.
func WithDecimal(precision, scale int) Option {
	return func(d *Deriver) error {
		d.config.DecimalPrecision = precision
		d.config.DecimalScale = scale
		return nil
	}
}

// WithFieldNames selects the field-name style (FieldNamesAsIs,
// FieldNamesSnake, or FieldNamesCamel).
func WithFieldNames(style string) Option {
	return func(d *Deriver) error {
		d.config.FieldNames = style
		return nil
	}
}

// WithObservabilityHook installs a hook notified around derivations and
// encodings.
func WithObservabilityHook(hook ObservabilityHook) Option {
	return func(d *Deriver) error {
		d.hook = hook
		return nil
	}
}

// WithMetricsCollector installs a metrics collector for derivation and
// encoding counters and timings.
func WithMetricsCollector(metrics MetricsCollector) Option {
	return func(d *Deriver) error {
		d.metrics = metrics
		return nil
	}
}
