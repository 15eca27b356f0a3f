package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sadhana-school/portal/internal/core/domain"
	"github.com/sadhana-school/portal/internal/core/service"
	"github.com/sadhana-school/portal/internal/core/wizard"
	"github.com/sadhana-school/portal/internal/infrastructure/backend"
)

// LoginPath is where a signed-out browser is sent.
const LoginPath = "/auth/login"

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error    string              `json:"error"`
	Step     string              `json:"step,omitempty"`
	Fields   []domain.FieldError `json:"fields,omitempty"`
	Stage    string              `json:"stage,omitempty"`
	Redirect string              `json:"redirect,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps validation, backend, payment and session errors to their HTTP codes.
//   - Sends signed-out callers back to the login page.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// Input rejected before reaching the backend.
	var stepErr *wizard.StepError
	if errors.As(err, &stepErr) {
		return http.StatusUnprocessableEntity, errorResponse{
			Error:  stepErr.Message,
			Step:   stepErr.Step.String(),
			Fields: stepErr.Fields,
		}
	}
	var valErr *service.ValidationError
	if errors.As(err, &valErr) {
		return http.StatusUnprocessableEntity, errorResponse{Error: valErr.Error(), Fields: valErr.Fields}
	}

	var payErr *service.PaymentError
	if errors.As(err, &payErr) {
		code, msg := http.StatusBadGateway, backend.GenericMessage
		var apiErr *backend.APIError
		switch {
		case errors.As(err, &apiErr):
			msg = apiErr.Message
		case errors.Is(err, domain.ErrInvalidOrder):
			msg = "Payment gateway returned an invalid order"
		}
		return code, errorResponse{Error: msg, Stage: payErr.Stage}
	}

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Status == http.StatusUnauthorized:
			return http.StatusUnauthorized, errorResponse{Error: apiErr.Message, Redirect: LoginPath}
		case apiErr.Status < http.StatusInternalServerError:
			return apiErr.Status, errorResponse{Error: apiErr.Message}
		default:
			return http.StatusBadGateway, errorResponse{Error: apiErr.Message}
		}
	}

	switch {
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized, errorResponse{Error: "please sign in", Redirect: LoginPath}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "access forbidden"}
	case errors.Is(err, domain.ErrDraftNotFound):
		return http.StatusNotFound, errorResponse{Error: "registration not found"}
	case errors.Is(err, service.ErrNoFacultyProfile), errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrEmptyMessage):
		return http.StatusUnprocessableEntity, errorResponse{Error: "message is required"}
	case errors.Is(err, wizard.ErrNoNextStep),
		errors.Is(err, wizard.ErrNotConfirming),
		errors.Is(err, wizard.ErrAlreadyDone):
		return http.StatusConflict, errorResponse{Error: err.Error()}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		log.Warn().Err(err).Str("path", c.Path()).Msg("backend unreachable")
		return http.StatusBadGateway, errorResponse{Error: backend.GenericMessage}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
