// Package logger provides structured logging for asyncq using zerolog.
//
// It supports JSON and console output, level configuration and
// component-scoped loggers carrying structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.New(&cfg.Logging, "asyncq").WithComponent("query")
//	log.Info("query completed", logger.Fields("groups", 4))
package logger
