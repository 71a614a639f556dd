package validation

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/kbukum/asyncq/errors"
)

func TestValidatorRequired(t *testing.T) {
	v := New()
	v.Required("input", "data.jsonl")
	if v.HasErrors() {
		t.Error("expected no errors for valid input")
	}

	v2 := New()
	v2.Required("input", "")
	if !v2.HasErrors() {
		t.Error("expected error for empty required field")
	}

	v3 := New()
	v3.Required("input", "   ")
	if !v3.HasErrors() {
		t.Error("expected error for whitespace-only required field")
	}
}

func TestValidatorOneOf(t *testing.T) {
	allowed := []string{"asc", "desc"}

	if New().OneOf("order", "asc", allowed).HasErrors() {
		t.Error("expected no error for allowed value")
	}
	if New().OneOf("order", "", allowed).HasErrors() {
		t.Error("expected empty value to be skipped")
	}
	v := New().OneOf("order", "sideways", allowed)
	if !v.HasErrors() {
		t.Fatal("expected error for disallowed value")
	}
	if !strings.Contains(v.Errors()[0].Message, "asc, desc") {
		t.Errorf("expected message to list allowed values, got %q", v.Errors()[0].Message)
	}
}

func TestValidatorMin(t *testing.T) {
	if New().Min("size", 1, 1).HasErrors() {
		t.Error("expected no error at the bound")
	}
	if !New().Min("size", 0, 1).HasErrors() {
		t.Error("expected error below the bound")
	}
}

func TestValidatorCustom(t *testing.T) {
	if New().Custom(true, "f", "bad").HasErrors() {
		t.Error("expected no error when condition holds")
	}
	if !New().Custom(false, "f", "bad").HasErrors() {
		t.Error("expected error when condition fails")
	}
}

func TestValidatorValidate(t *testing.T) {
	if appErr := New().Validate(); appErr != nil {
		t.Errorf("expected nil, got %v", appErr)
	}

	v := New().Required("input", "").Required("group_by", "")
	appErr := v.Validate()
	if appErr == nil {
		t.Fatal("expected an error")
	}
	if appErr.Code != errors.ErrCodeInvalidConfig {
		t.Errorf("expected INVALID_CONFIG, got %s", appErr.Code)
	}
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 2 {
		t.Errorf("expected 2 field errors in details, got %v", appErr.Details["fields"])
	}
}

func TestIsNil_Table(t *testing.T) {
	var nilFunc func(int) int
	var nilPtr *int
	var nilMap map[string]int
	var nilCtx context.Context
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"untyped nil", nil, true},
		{"nil func", nilFunc, true},
		{"nil pointer", nilPtr, true},
		{"nil map", nilMap, true},
		{"nil interface", nilCtx, true},
		{"func", func(int) int { return 0 }, false},
		{"int", 0, false},
		{"string", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNil(tt.value); got != tt.want {
				t.Errorf("IsNil = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNotNil(t *testing.T) {
	var selector func(int) int
	err := NotNil("selector", selector)
	if !stderrors.Is(err, errors.ErrInvalidArgument) {
		t.Fatalf("expected INVALID_ARGUMENT, got %v", err)
	}
	if !strings.Contains(err.Error(), "selector") {
		t.Errorf("expected error to name the argument, got %q", err.Error())
	}
	if err := NotNil("selector", func(int) int { return 1 }); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestStructValidateValid(t *testing.T) {
	type Query struct {
		Input     string `mapstructure:"input" validate:"required"`
		Aggregate string `mapstructure:"aggregate" validate:"oneof=sum min max average"`
	}

	if err := Validate(Query{Input: "in.jsonl", Aggregate: "sum"}); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestStructValidateInvalid(t *testing.T) {
	type Query struct {
		Input     string `mapstructure:"input" validate:"required"`
		Aggregate string `mapstructure:"aggregate" validate:"oneof=sum min max average"`
	}

	err := Validate(Query{Input: "", Aggregate: "median"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	errStr := err.Error()
	if !strings.Contains(errStr, "input") {
		t.Errorf("expected error to mention 'input', got %q", errStr)
	}
	if !strings.Contains(errStr, "aggregate") {
		t.Errorf("expected error to mention 'aggregate', got %q", errStr)
	}
	if !stderrors.Is(err, errors.ErrInvalidConfig) {
		t.Errorf("expected INVALID_CONFIG, got %v", err)
	}
}

func TestStructValidateMaxMin(t *testing.T) {
	type Input struct {
		Code string `mapstructure:"code" validate:"required,min=3,max=10"`
	}

	if err := Validate(Input{Code: "abc"}); err != nil {
		t.Errorf("expected valid, got %v", err)
	}

	if err := Validate(Input{Code: "ab"}); err == nil {
		t.Error("expected error for code too short")
	}
}
