package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/sadhana-school/portal/internal/core/domain"
	"github.com/sadhana-school/portal/internal/core/ports"
)

// ThemeKey is the storage key holding the theme preference.
const ThemeKey = "theme"

// ThemeService holds one client's theme preference and writes it through
// to storage.
type ThemeService struct {
	storage ports.Storage

	mu      sync.RWMutex
	current domain.Theme
	subs    []func(domain.Theme)
}

// NewThemeService loads the persisted theme. Unknown or missing values read
// as light.
func NewThemeService(ctx context.Context, storage ports.Storage) (*ThemeService, error) {
	stored, _, err := storage.Get(ctx, ThemeKey)
	if err != nil {
		return nil, fmt.Errorf("read theme: %w", err)
	}
	return &ThemeService{storage: storage, current: domain.ParseTheme(stored)}, nil
}

func (s *ThemeService) Current() domain.Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set persists and publishes a theme.
func (s *ThemeService) Set(ctx context.Context, theme domain.Theme) error {
	theme = domain.ParseTheme(string(theme))
	if err := s.storage.Set(ctx, ThemeKey, string(theme)); err != nil {
		return fmt.Errorf("persist theme: %w", err)
	}

	s.mu.Lock()
	changed := s.current != theme
	s.current = theme
	subs := append([]func(domain.Theme){}, s.subs...)
	s.mu.Unlock()

	if changed {
		for _, fn := range subs {
			fn(theme)
		}
	}
	return nil
}

// Toggle flips between light and dark.
func (s *ThemeService) Toggle(ctx context.Context) (domain.Theme, error) {
	next := s.Current().Opposite()
	if err := s.Set(ctx, next); err != nil {
		return s.Current(), err
	}
	return next, nil
}

// Subscribe registers fn for theme changes.
func (s *ThemeService) Subscribe(fn func(domain.Theme)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}
