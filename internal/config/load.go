package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Load overlays the settings known to v (config file, environment, bound
// flags) on top of NewDefaultConfig and validates the result.
func Load(v *viper.Viper) (*Config, error) {
	cfg := NewDefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
