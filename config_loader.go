package structavro

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names read by LoadConfigFromEnvironment.
const (
	EnvNamespace        = "STRUCTAVRO_NAMESPACE"
	EnvDecimalPrecision = "STRUCTAVRO_DECIMAL_PRECISION"
	EnvDecimalScale     = "STRUCTAVRO_DECIMAL_SCALE"
	EnvFieldNames       = "STRUCTAVRO_FIELD_NAMES"
)

// LoadConfigFromEnvironment loads configuration from environment variables.
//
// All variables are optional; defaults are applied through Config.Validate.
// It follows the 12-factor app methodology where configuration is read from
// the environment.
func LoadConfigFromEnvironment() (Config, error) {
	return configFromValues(os.Getenv(EnvNamespace),
		os.Getenv(EnvDecimalPrecision),
		os.Getenv(EnvDecimalScale),
		os.Getenv(EnvFieldNames))
}

// LoadConfigFromDotenv reads a .env file and builds a Config from the
// STRUCTAVRO_* entries it contains, without touching the process
// environment.
func LoadConfigFromDotenv(path string) (Config, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read dotenv file %s: %w", path, err)
	}
	return configFromValues(values[EnvNamespace],
		values[EnvDecimalPrecision],
		values[EnvDecimalScale],
		values[EnvFieldNames])
}

// LoadConfig loads configuration from a YAML file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func configFromValues(namespace, precision, scale, fieldNames string) (Config, error) {
	cfg := Config{
		Namespace:  namespace,
		FieldNames: fieldNames,
	}
	var err error
	if precision != "" {
		cfg.DecimalPrecision, err = strconv.Atoi(precision)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s must be an integer, got %q",
				ErrInvalidConfiguration, EnvDecimalPrecision, precision)
		}
	}
	if scale != "" {
		cfg.DecimalScale, err = strconv.Atoi(scale)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s must be an integer, got %q",
				ErrInvalidConfiguration, EnvDecimalScale, scale)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
