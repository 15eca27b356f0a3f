// Package validation builds the struct validator used across the portal and
// phrases its failures per field.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sadhana-school/portal/internal/core/domain"
)

// New returns a validator that reports json field names.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Message phrases one failed rule.
func Message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "eqfield":
		return field + " must match " + strings.ToLower(fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or more", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return field + " is invalid"
	}
}

// Fields converts validator failures to field errors. phrase may override
// Message; an empty result falls back to it. ok is false when err is not a
// validation failure.
func Fields(err error, phrase func(validator.FieldError) string) (fields []domain.FieldError, ok bool) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil, false
	}
	fields = make([]domain.FieldError, 0, len(ve))
	for _, fe := range ve {
		msg := ""
		if phrase != nil {
			msg = phrase(fe)
		}
		if msg == "" {
			msg = Message(fe)
		}
		fields = append(fields, domain.FieldError{Field: fe.Field(), Message: msg})
	}
	return fields, true
}
