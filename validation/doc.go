// Package validation provides argument and configuration checks.
//
// Operator entry points use NotNil to reject missing sources, selectors and
// comparers before any enumeration starts. Configuration structs are checked
// with struct tags through the validator library, or programmatically by
// collecting field errors.
//
// # Struct Tag Validation
//
//	type QueryConfig struct {
//	    Input     string `validate:"required"`
//	    Aggregate string `validate:"oneof=sum min max average"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("input", cfg.Input).OneOf("order", cfg.Order, []string{"asc", "desc"})
//	if appErr := v.Validate(); appErr != nil { ... }
package validation
