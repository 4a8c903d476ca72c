// Package settings holds the global bot configuration row: command prefix,
// default language and presence status.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/strawberry-py/strawberry-go/internal/i18n"
)

// Keys accepted by Set.
const (
	KeyPrefix   = "prefix"
	KeyLanguage = "language"
	KeyStatus   = "status"
)

// StatusAuto lets the bot pick its status from the measured latency.
const StatusAuto = "auto"

var (
	// ErrUnknownKey is returned by Set for keys other than prefix, language
	// and status.
	ErrUnknownKey = errors.New("unknown settings key")
	// ErrInvalidValue is returned by Set for values the key does not accept.
	ErrInvalidValue = errors.New("invalid settings value")
)

// Statuses lists the accepted values of the status key.
var Statuses = []string{"online", "idle", "dnd", "invisible", StatusAuto}

// Settings is the global bot configuration.
type Settings struct {
	Prefix   string
	Language string
	Status   string
}

// Default returns the settings of a fresh database.
func Default() Settings {
	return Settings{Prefix: "!", Language: "en", Status: "online"}
}

// Keys returns the settable keys in display order.
func Keys() []string {
	return []string{KeyPrefix, KeyLanguage, KeyStatus}
}

// Get returns the value stored under key.
func (s Settings) Get(key string) (string, bool) {
	switch key {
	case KeyPrefix:
		return s.Prefix, true
	case KeyLanguage:
		return s.Language, true
	case KeyStatus:
		return s.Status, true
	}

	return "", false
}

// Store persists the settings row.
type Store interface {
	// Load returns the settings, creating the row with defaults when missing.
	Load(ctx context.Context) (Settings, error)
	Save(ctx context.Context, s Settings) error
}

// Service keeps the current settings in memory.
type Service struct {
	store  Store
	logger *zap.Logger

	mu        sync.RWMutex
	current   Settings
	listeners []func(Settings)
}

// NewService creates a Service holding the defaults until Load is called.
func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{
		store:   store,
		logger:  logger.Named("settings"),
		current: Default(),
	}
}

// Load reads the settings from the store.
func (s *Service) Load(ctx context.Context) error {
	loaded, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	s.mu.Lock()
	s.current = loaded
	s.mu.Unlock()

	s.logger.Info("Settings loaded",
		zap.String("prefix", loaded.Prefix),
		zap.String("language", loaded.Language),
		zap.String("status", loaded.Status))

	return nil
}

// Get returns a copy of the current settings.
func (s *Service) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current
}

// Language implements i18n.GlobalLanguage.
func (s *Service) Language() string {
	return s.Get().Language
}

// OnChange registers fn to be called with the new settings after each Set.
func (s *Service) OnChange(fn func(Settings)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listeners = append(s.listeners, fn)
}

// Set validates and stores a single value.
func (s *Service) Set(ctx context.Context, key, value string) (Settings, error) {
	value = strings.TrimSpace(value)

	s.mu.Lock()
	next := s.current
	switch key {
	case KeyPrefix:
		if value == "" || strings.ContainsAny(value, " \t\n") {
			s.mu.Unlock()
			return Settings{}, fmt.Errorf("%w: prefix %q", ErrInvalidValue, value)
		}
		next.Prefix = value
	case KeyLanguage:
		if !i18n.IsLanguage(value) {
			s.mu.Unlock()
			return Settings{}, fmt.Errorf("%w: language %q", ErrInvalidValue, value)
		}
		next.Language = value
	case KeyStatus:
		if !IsStatus(value) {
			s.mu.Unlock()
			return Settings{}, fmt.Errorf("%w: status %q", ErrInvalidValue, value)
		}
		next.Status = value
	default:
		s.mu.Unlock()
		return Settings{}, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}

	if err := s.store.Save(ctx, next); err != nil {
		s.mu.Unlock()
		return Settings{}, fmt.Errorf("failed to save settings: %w", err)
	}
	s.current = next
	listeners := append([]func(Settings){}, s.listeners...)
	s.mu.Unlock()

	s.logger.Info("Settings updated", zap.String("key", key), zap.String("value", value))
	for _, fn := range listeners {
		fn(next)
	}

	return next, nil
}

// IsStatus reports whether status is an accepted status value.
func IsStatus(status string) bool {
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}

	return false
}
