package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/sadhana-school/portal/internal/core/domain"
)

func TestThemeHandler_ToggleAndPersist(t *testing.T) {
	st := newMemStorage()
	ws := newWorkspace(t, fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("theme must not call the backend")
	}), st)

	c, rec := newContext(ws, http.MethodPost, "/preferences/theme/toggle", "")
	if err := NewThemeHandler().Toggle(c); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	var resp themeResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Theme != domain.ThemeDark {
		t.Fatalf("expected dark after toggle, got %q", resp.Theme)
	}
	if st.m["theme"] != "dark" {
		t.Fatalf("theme not persisted, storage=%v", st.m)
	}

	c, rec = newContext(ws, http.MethodPut, "/preferences/theme", `{"theme":"light"}`)
	if err := NewThemeHandler().Put(c); err != nil {
		t.Fatalf("put: %v", err)
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Theme != domain.ThemeLight || st.m["theme"] != "light" {
		t.Fatalf("expected light, got %q (stored %q)", resp.Theme, st.m["theme"])
	}
}

func TestThemeHandler_PutRejectsUnknownTheme(t *testing.T) {
	ws := newWorkspace(t, fakeBackend(t, func(http.ResponseWriter, *http.Request) {}), newMemStorage())
	c, _ := newContext(ws, http.MethodPut, "/preferences/theme", `{"theme":"sepia"}`)

	if err := NewThemeHandler().Put(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
