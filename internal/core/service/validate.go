package service

import (
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sadhana-school/portal/internal/core/domain"
	"github.com/sadhana-school/portal/internal/pkg/validation"
)

var validate = validation.New()

// ValidationError lists invalid input fields. It matches domain.ErrValidation.
type ValidationError struct {
	Fields []domain.FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return domain.ErrValidation }

func invalid(field, message string) error {
	return &ValidationError{Fields: []domain.FieldError{{Field: field, Message: message}}}
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid(field, field+" is required")
	}
	return nil
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	if fields, ok := validation.Fields(err, nil); ok {
		return &ValidationError{Fields: fields}
	}
	return err
}

// partial collects dashboard sections that could not be loaded. A rejected
// credential is never absorbed so the caller can end the session.
type partial struct {
	logger zerolog.Logger

	mu     sync.Mutex
	failed []string
}

func (p *partial) absorb(section string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrUnauthorized) {
		return err
	}
	p.logger.Warn().Err(err).Str("section", section).Msg("dashboard section unavailable")
	p.mu.Lock()
	p.failed = append(p.failed, section)
	p.mu.Unlock()
	return nil
}

func (p *partial) sections() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.failed...)
}
