package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/Aidin1998/taskapi/pkg/errors"
	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator with the task API rules and messages
type Validator struct {
	validator *validator.Validate
}

// NewValidator creates a validator reporting fields by their JSON names
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	validator := &Validator{validator: v}
	validator.registerCustomValidators()
	return validator
}

// registerCustomValidators registers custom validation rules
func (v *Validator) registerCustomValidators() {
	// notblank rejects strings made only of whitespace
	v.validator.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

// ValidateStruct validates s and returns an Unprocessable error carrying one entry per failed rule
func (v *Validator) ValidateStruct(s interface{}) error {
	err := v.validator.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	verr := errors.Unprocessable.Explain("Validation failed")
	for _, fe := range fieldErrs {
		verr = verr.WithField(fe.Tag(), fe.Field(), v.getErrorMessage(fe))
	}
	return verr
}

// getErrorMessage renders a human readable message for a failed rule
func (v *Validator) getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("The %s field is required.", fe.Field())
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("The %s field must be at least %s characters.", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("The %s field is invalid.", fe.Field())
	}
}
