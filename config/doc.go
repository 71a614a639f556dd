// Package config provides configuration loading and validation for asyncq
// commands.
//
// It uses Viper to load configuration from files and environment variables,
// supporting multiple formats (YAML, JSON, TOML), and godotenv for .env files.
//
// # Usage
//
//	var cfg QueryConfig
//	err := config.LoadConfig("asyncq", &cfg, config.WithEnvPrefix("ASYNCQ"))
//
// Environment variables override file values. With a prefix set, only
// variables starting with PREFIX_ are considered and the prefix is stripped,
// so ASYNCQ_FILTER_FIELD sets filter.field.
package config
