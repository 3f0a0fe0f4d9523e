package app

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the monthly close.
type Config struct {
	AppEnv    string `envconfig:"APP_ENV" default:"development"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	FECDir           string `envconfig:"FEC_DIR" default:"data/fec" validate:"required"`
	MappingFile      string `envconfig:"MAPPING_FILE" default:"data/mappings/mapping_pcg.xlsx" validate:"required"`
	BUSplitFile      string `envconfig:"SPLIT_CA_COGS_FILE" default:"data/inputs/split_ca_cogs.xlsx" validate:"required"`
	PayrollSplitFile string `envconfig:"SPLIT_RH_FILE" default:"data/inputs/split_rh.xlsx" validate:"required"`
	OutputDir        string `envconfig:"OUTPUT_DIR" default:"output" validate:"required"`

	// IFRS16Policy selects the lease reclassification: "additive" keeps
	// rent as booked and layers activation + depreciation on top, "retag"
	// reproduces the legacy in-place reclassification.
	IFRS16Policy string `envconfig:"IFRS16_POLICY" default:"additive" validate:"oneof=additive retag"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return nil, fmt.Errorf("app: invalid configuration: %w", err)
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// LeasePolicyRetag reports whether the legacy retag reclassification is
// configured instead of the additive default.
func (c *Config) LeasePolicyRetag() bool {
	return c != nil && c.IFRS16Policy == "retag"
}
