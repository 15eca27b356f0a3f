package backend

import (
	"errors"
	"net/http"
	"testing"

	"github.com/sadhana-school/portal/internal/core/domain"
)

func TestErrorMessage(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"empty", ``, ""},
		{"plain text", `Internal Server Error`, "Internal Server Error"},
		{"json string", `"boom"`, "boom"},
		{"detail string", `{"detail":"Invalid email or password"}`, "Invalid email or password"},
		{"message", `{"message":"nope"}`, "nope"},
		{"error", `{"error":"bad"}`, "bad"},
		{"detail wins over message", `{"detail":"d","message":"m"}`, "d"},
		{
			"validation list",
			`{"detail":[{"loc":["body","email"],"msg":"field required"},{"message":"too short"},"plain"]}`,
			"field required • too short • plain",
		},
		{"object detail msg", `{"detail":{"msg":"inner"}}`, "inner"},
		{"object detail fallback", `{"detail":{"code":7}}`, `{"code":7}`},
		{"no known keys", `{"code":7}`, `{"code":7}`},
		{"number", `42`, "42"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ErrorMessage([]byte(tc.body)); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestAPIError_Unwrap(t *testing.T) {
	err := newAPIError(http.StatusUnauthorized, []byte(`{"detail":"expired"}`))
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized")
	}
	if err.Message != "expired" {
		t.Fatalf("unexpected message %q", err.Message)
	}

	generic := newAPIError(http.StatusInternalServerError, nil)
	if generic.Message != GenericMessage {
		t.Fatalf("expected generic message, got %q", generic.Message)
	}
	if errors.Unwrap(generic) != nil {
		t.Fatalf("500 should not map to a sentinel")
	}
}

func TestAccountID(t *testing.T) {
	cases := []struct {
		name string
		raw  map[string]any
		want string
	}{
		{"user_id", map[string]any{"user_id": "usr_1", "email": "a@b.c"}, "usr_1"},
		{"email prefix", map[string]any{"email": "asha@school.in", "_id": "x"}, "asha"},
		{"storage id", map[string]any{"_id": "abc"}, "abc"},
		{"nothing", map[string]any{}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AccountID(tc.raw); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
