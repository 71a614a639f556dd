package main

import (
	"github.com/kbukum/asyncq/config"
	"github.com/kbukum/asyncq/validation"
)

// Aggregate names accepted by the aggregate setting.
const (
	AggregateSum     = "sum"
	AggregateMin     = "min"
	AggregateMax     = "max"
	AggregateAverage = "average"
)

// QueryConfig describes one grouping query over a JSON-lines file.
type QueryConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Input      string       `yaml:"input" mapstructure:"input" validate:"required"`
	Filter     FilterConfig `yaml:"filter" mapstructure:"filter"`
	GroupBy    string       `yaml:"group_by" mapstructure:"group_by" validate:"required"`
	ValueField string       `yaml:"value_field" mapstructure:"value_field" validate:"required"`
	Aggregate  string       `yaml:"aggregate" mapstructure:"aggregate" validate:"required,oneof=sum min max average"`
	Order      string       `yaml:"order" mapstructure:"order" validate:"oneof=asc desc"`
	ChunkSize  int          `yaml:"chunk_size" mapstructure:"chunk_size" validate:"gt=0"`
}

// FilterConfig keeps only records whose Field renders as Equals.
// An empty Field disables filtering.
type FilterConfig struct {
	Field  string `yaml:"field" mapstructure:"field"`
	Equals string `yaml:"equals" mapstructure:"equals"`
}

// ApplyDefaults fills in unset query settings.
func (c *QueryConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	if c.Name == "" {
		c.Name = "asyncq"
	}
	if c.Aggregate == "" {
		c.Aggregate = AggregateSum
	}
	if c.Order == "" {
		c.Order = "asc"
	}
	if c.ChunkSize == 0 {
		c.ChunkSize = 100
	}
}

// Validate checks the service settings and then the query settings.
func (c *QueryConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	return validation.Validate(c)
}
