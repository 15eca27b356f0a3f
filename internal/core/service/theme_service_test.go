package service

import (
	"context"
	"sync"
	"testing"

	"github.com/sadhana-school/portal/internal/core/domain"
)

type memStorage struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemStorage() *memStorage { return &memStorage{data: map[string]string{}} }

func (m *memStorage) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStorage) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func TestThemeService_DefaultsToLight(t *testing.T) {
	storage := newMemStorage()
	storage.data[ThemeKey] = "purple"

	svc, err := NewThemeService(context.Background(), storage)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if svc.Current() != domain.ThemeLight {
		t.Fatalf("expected light, got %s", svc.Current())
	}
}

func TestThemeService_TogglePersistsAndPublishes(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()
	svc, _ := NewThemeService(ctx, storage)

	var seen []domain.Theme
	svc.Subscribe(func(th domain.Theme) { seen = append(seen, th) })

	got, err := svc.Toggle(ctx)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got != domain.ThemeDark || storage.data[ThemeKey] != "dark" {
		t.Fatalf("expected dark persisted, got %s / %q", got, storage.data[ThemeKey])
	}

	reloaded, _ := NewThemeService(ctx, storage)
	if reloaded.Current() != domain.ThemeDark {
		t.Fatalf("expected dark after reload")
	}

	_ = svc.Set(ctx, domain.ThemeDark)
	if len(seen) != 1 || seen[0] != domain.ThemeDark {
		t.Fatalf("expected a single change notification, got %v", seen)
	}
}
