package dto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/noah-isme/employee-admin-client/pkg/errors"
)

// Validate checks payload against its struct tags and converts failures into
// a validation error listing one message per field.
func Validate(v *validator.Validate, payload any, message string) error {
	if v == nil {
		v = validator.New()
	}
	err := v.Struct(payload)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
	}
	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		name := fieldName(fe)
		if _, seen := fields[name]; seen {
			continue
		}
		fields[name] = describe(name, fe)
	}
	out := appErrors.Validation(message, fields)
	out.Err = err
	return out
}

func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		ns = ns[idx+1:]
	}
	if idx := strings.Index(ns, "["); idx >= 0 {
		ns = ns[:idx]
	}
	return strings.ToLower(ns)
}

func describe(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if strings.Contains(fe.Namespace(), "[") {
			return fmt.Sprintf("%s must not contain blank entries", field)
		}
		return fmt.Sprintf("%s is required", field)
	case "gte", "lte":
		return fmt.Sprintf("%s must be between %s", field, rangeFor(field))
	case "unique":
		return fmt.Sprintf("%s must not contain duplicates", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func rangeFor(field string) string {
	switch field {
	case "age":
		return "0 and 120"
	case "attendance":
		return "0 and 100"
	default:
		return "the allowed bounds"
	}
}
