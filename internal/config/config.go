package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/arledger/arledger/internal/validator"
	"github.com/spf13/viper"
)

type Configuration struct {
	Logging        LoggingConfig        `validate:"required"`
	Reconciliation ReconciliationConfig `validate:"required"`
	Aggregation    AggregationConfig    `validate:"required"`
}

type LoggingConfig struct {
	Level string `validate:"required,oneof=debug info warn error"`
}

type ReconciliationConfig struct {
	// ToleranceMinorUnits is the allowed gap, in minor currency units,
	// between a stated invoice total and the computed total
	ToleranceMinorUnits int64 `mapstructure:"tolerance_minor_units" validate:"gte=0"`
	// DefaultTermsDays is used when a payment-terms label cannot be parsed
	DefaultTermsDays int `mapstructure:"default_terms_days" validate:"gt=0"`
}

type AggregationConfig struct {
	// Workers bounds the pool used to shard batch reconciliation and
	// aggregation merges
	Workers int `validate:"gt=0"`
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/arledger")

	// Set up environment variables support
	v.SetEnvPrefix("ARLEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	v.SetDefault("logging.level", "info")
	v.SetDefault("reconciliation.tolerance_minor_units", 1)
	v.SetDefault("reconciliation.default_terms_days", 30)
	v.SetDefault("aggregation.workers", 4)

	// Read config file if exists
	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// GetDefaultConfig returns a validated configuration with all defaults,
// useful for tests and library embedding where no config file exists.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Logging: LoggingConfig{Level: "info"},
		Reconciliation: ReconciliationConfig{
			ToleranceMinorUnits: 1,
			DefaultTermsDays:    30,
		},
		Aggregation: AggregationConfig{Workers: 4},
	}
}

func (c Configuration) Validate() error {
	return validator.ValidateRequest(c)
}
