package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/edusync/task-automation-service/internal/errors"
	"github.com/edusync/task-automation-service/internal/models"
)

// Validator wraps the struct validator with the service's custom tags.
type Validator struct {
	structValidator *validator.Validate
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)

	return &Validator{structValidator: structValidator}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate runs struct validation and converts failures to the shared
// ValidationErrors type so handlers can render field-level details.
func (v *Validator) Validate(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if converted := apperrors.ToValidationErrors(err); len(converted) > 0 {
			return converted
		}
		return err
	}
	return nil
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("task_filter", validateTaskFilter)
	validate.RegisterValidation("pacing_minutes", validatePacingMinutes)
	validate.RegisterValidation("export_format", validateExportFormat)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateTaskFilter(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case models.TaskFilterPending, models.TaskFilterExpired:
		return true
	}
	return false
}

// validatePacingMinutes bounds the human-pacing window to one day.
func validatePacingMinutes(fl validator.FieldLevel) bool {
	v := fl.Field().Int()
	return v >= 0 && v <= 1440
}

func validateExportFormat(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case models.ExportFormatXLSX, models.ExportFormatCSV, models.ExportFormatJSON:
		return true
	}
	return false
}
