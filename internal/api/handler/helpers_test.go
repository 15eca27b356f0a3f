package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/sadhana-school/portal/internal/api/workspace"
	"github.com/sadhana-school/portal/internal/core/service"
	"github.com/sadhana-school/portal/internal/core/session"
	"github.com/sadhana-school/portal/internal/infrastructure/backend"
)

type memStorage struct {
	mu sync.Mutex
	m  map[string]string
}

func newMemStorage() *memStorage {
	return &memStorage{m: map[string]string{}}
}

func (s *memStorage) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *memStorage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

func (s *memStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

// fakeBackend serves the school backend API from h.
func fakeBackend(t *testing.T, h http.HandlerFunc) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return backend.New(backend.Config{BaseURL: srv.URL}, zerolog.Nop())
}

// meHandler answers /api/auth/me for the bearer "tok" with the given user
// JSON and delegates every other path to next.
func meHandler(user string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/me" {
			if r.Header.Get("Authorization") != "Bearer tok" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = io.WriteString(w, user)
			return
		}
		next(w, r)
	}
}

func newWorkspace(t *testing.T, client *backend.Client, st *memStorage) *workspace.Workspace {
	t.Helper()
	ctx := context.Background()
	sess := session.New(st, client, zerolog.Nop())
	if err := sess.Bootstrap(ctx); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	theme, err := service.NewThemeService(ctx, st)
	if err != nil {
		t.Fatalf("theme: %v", err)
	}
	return &workspace.Workspace{SessionID: "sid-1", Session: sess, API: client.As(sess), Theme: theme}
}

func newContext(ws *workspace.Workspace, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if ws != nil {
		workspace.Set(c, ws)
	}
	return c, rec
}

// counterValue reads one counter sample from a freshly gathered registry.
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue next
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}
