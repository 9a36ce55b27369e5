package structavro

import "fmt"

// Field-name styles applied to Go field names that carry no explicit rename.
const (
	FieldNamesAsIs  = "asis"
	FieldNamesSnake = "snake"
	FieldNamesCamel = "camel"
)

// Defaults applied by Config.Validate.
const (
	DefaultDecimalPrecision = 8
	DefaultDecimalScale     = 2
	DefaultFieldNames       = FieldNamesAsIs
)

// Config holds the configuration for creating a Deriver.
//
// This struct contains only data, no behavior. Configuration can be loaded
// from any source (environment variables, .env files, YAML files, code) and
// passed explicitly via WithConfig.
//
// All fields are optional; zero values mean "use the default".
type Config struct {
	// Namespace is attached to every derived record and enum type,
	// qualifying their simple names. Empty means unqualified names.
	Namespace string `yaml:"namespace"`

	// DecimalPrecision and DecimalScale are the decimal shape applied to
	// big.Rat fields that carry no decimal tag.
	//
	// Defaults: 8 and 2.
	DecimalPrecision int `yaml:"decimal_precision"`
	DecimalScale     int `yaml:"decimal_scale"`

	// FieldNames selects how Go field names map to record field names when
	// a field has no avro tag rename: "asis" keeps the Go name, "snake"
	// lowers it with underscores, "camel" lowers the first rune.
	//
	// Default: "asis".
	FieldNames string `yaml:"field_names"`
}

// Validate checks that the configuration is valid and applies defaults to
// unset fields.
func (c *Config) Validate() error {
	if c.DecimalPrecision == 0 {
		c.DecimalPrecision = DefaultDecimalPrecision
	}
	if c.DecimalScale == 0 && c.DecimalPrecision == DefaultDecimalPrecision {
		c.DecimalScale = DefaultDecimalScale
	}
	if c.DecimalPrecision < 0 {
		return fmt.Errorf("%w: decimal precision must be positive, got %d",
			ErrInvalidConfiguration, c.DecimalPrecision)
	}
	if c.DecimalScale < 0 || c.DecimalScale > c.DecimalPrecision {
		return fmt.Errorf("%w: decimal scale must be within [0, %d], got %d",
			ErrInvalidConfiguration, c.DecimalPrecision, c.DecimalScale)
	}
	if c.FieldNames == "" {
		c.FieldNames = DefaultFieldNames
	}
	switch c.FieldNames {
	case FieldNamesAsIs, FieldNamesSnake, FieldNamesCamel:
	default:
		return fmt.Errorf("%w: unknown field name style %q",
			ErrInvalidConfiguration, c.FieldNames)
	}
	return nil
}
