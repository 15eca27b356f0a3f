package backend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sadhana-school/portal/internal/core/domain"
)

// GenericMessage is shown when a failed response carries nothing readable.
const GenericMessage = "Something went wrong. Please try again."

// APIError is a non-2xx answer from the school backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend responded %d: %s", e.Status, e.Message)
}

// Unwrap exposes the domain sentinel matching the status, if any.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	}
	return nil
}

func newAPIError(status int, body []byte) *APIError {
	msg := ErrorMessage(body)
	if msg == "" {
		msg = GenericMessage
	}
	return &APIError{Status: status, Message: msg}
}

// ErrorMessage extracts a user-facing message from an error response body.
// It understands plain strings and objects carrying detail, message or error,
// where the value may itself be a string, an object or a list of validation
// items. List messages are joined with " • ".
func ErrorMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}
	var v any
	if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
		return trimmed
	}

	detail := v
	if obj, ok := v.(map[string]any); ok {
		detail = firstPresent(obj, "detail", "message", "error")
		if detail == nil {
			detail = obj
		}
	}

	switch d := detail.(type) {
	case nil:
		return ""
	case string:
		return d
	case []any:
		parts := make([]string, 0, len(d))
		for _, item := range d {
			if s := itemMessage(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " • ")
	case map[string]any:
		if s := stringField(d, "msg", "message"); s != "" {
			return s
		}
		return compact(d)
	default:
		return fmt.Sprint(d)
	}
}

func firstPresent(obj map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func itemMessage(item any) string {
	switch it := item.(type) {
	case string:
		return it
	case map[string]any:
		if s := stringField(it, "msg", "message", "detail"); s != "" {
			return s
		}
		return compact(it)
	case nil:
		return ""
	default:
		return compact(it)
	}
}

func stringField(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := obj[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func compact(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
