package errors

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("auth_token", "is required", nil)

	if err.Field != "auth_token" {
		t.Errorf("Expected field to be 'auth_token', got '%s'", err.Field)
	}

	expected := "validation error on field 'auth_token': is required"
	if err.Error() != expected {
		t.Errorf("Expected error message to be '%s', got '%s'", expected, err.Error())
	}
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	if errs.Error() != "validation failed" {
		t.Errorf("Expected 'validation failed' for empty errors, got '%s'", errs.Error())
	}

	errs = append(errs, *NewValidationError("ra", "is required", nil))
	expected := "validation failed: ra is required"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for single error, got '%s'", expected, errs.Error())
	}

	errs = append(errs, *NewValidationErrorWithRule("time_min", "must be at least 0", "min", -1))
	expected = "validation failed: 2 field errors"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for multiple errors, got '%s'", expected, errs.Error())
	}
}

func TestToValidationErrors(t *testing.T) {
	type request struct {
		AuthToken string `validate:"required"`
		TimeMin   int    `validate:"min=0"`
	}

	v := validator.New()
	err := v.Struct(request{TimeMin: -5})
	if err == nil {
		t.Fatal("expected a validation error")
	}

	converted := ToValidationErrors(err)
	if len(converted) != 2 {
		t.Fatalf("expected 2 field errors, got %d", len(converted))
	}

	if converted[0].Rule != "required" {
		t.Errorf("Expected first rule to be 'required', got '%s'", converted[0].Rule)
	}
	if converted[1].Message != "must be at least 0" {
		t.Errorf("Unexpected message for min rule: '%s'", converted[1].Message)
	}
}
