package handler

import (
	"github.com/go-playground/validator/v10"

	"github.com/sadhana-school/portal/internal/core/service"
	"github.com/sadhana-school/portal/internal/pkg/validation"
)

// echoValidator checks request bodies bound by handlers.
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns the echo.Validator of the portal. Field names in
// messages are the json names.
func NewValidator() *echoValidator {
	return &echoValidator{v: validation.New()}
}

// Validate satisfies the echo.Validator interface. Failures are returned as
// *service.ValidationError.
func (ev *echoValidator) Validate(i any) error {
	err := ev.v.Struct(i)
	if err == nil {
		return nil
	}
	if fields, ok := validation.Fields(err, nil); ok {
		return &service.ValidationError{Fields: fields}
	}
	return err
}
