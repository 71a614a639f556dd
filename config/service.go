package config

import (
	"github.com/kbukum/asyncq/logger"
	"github.com/kbukum/asyncq/validation"
)

var validEnvironments = []string{"development", "staging", "production"}

// ServiceConfig contains the fields every asyncq command needs.
// Commands extend it by embedding it in their own config structs.
//
// Example:
//
//	type QueryConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Input string `yaml:"input" mapstructure:"input"`
//	}
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// GetServiceConfig returns the base ServiceConfig.
// When embedded, the method is promoted to the embedding struct.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig {
	return c
}

// ApplyDefaults applies default values to the base configuration.
// Embedding structs should call c.ServiceConfig.ApplyDefaults() first.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	c.Logging.ApplyDefaults()
	if c.Debug && c.Logging.Level == "info" {
		c.Logging.Level = "debug"
	}
}

// Validate validates the base configuration fields.
// Embedding structs should call c.ServiceConfig.Validate() first.
func (c *ServiceConfig) Validate() error {
	v := validation.New().
		Required("name", c.Name).
		OneOf("environment", c.Environment, validEnvironments)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return c.Logging.Validate()
}
