// Package modules tracks which command modules are enabled.
package modules

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/strawberry-py/strawberry-go/internal/storage"
)

const storageModule = "core.modules"

var (
	ErrUnknownModule = errors.New("unknown module")
	// ErrProtected is returned when disabling a module the bot cannot run
	// without.
	ErrProtected = errors.New("module cannot be disabled")
)

// Status is the state of one module.
type Status struct {
	Name      string
	Enabled   bool
	Protected bool
}

// Registry knows every module and whether it is enabled. Modules are enabled
// unless they were disabled explicitly.
type Registry struct {
	storage *storage.Storage
	logger  *zap.Logger

	mu        sync.RWMutex
	known     map[string]struct{}
	protected map[string]struct{}
	state     map[string]bool
}

// NewRegistry creates an empty Registry.
func NewRegistry(s *storage.Storage, logger *zap.Logger) *Registry {
	return &Registry{
		storage:   s,
		logger:    logger.Named("modules"),
		known:     make(map[string]struct{}),
		protected: make(map[string]struct{}),
		state:     make(map[string]bool),
	}
}

// Register adds modules.
func (r *Registry) Register(names ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range names {
		r.known[name] = struct{}{}
	}
}

// Protect registers modules that may never be disabled.
func (r *Registry) Protect(names ...string) {
	r.Register(names...)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range names {
		r.protected[name] = struct{}{}
	}
}

// Load reads the stored state of every registered module.
func (r *Registry) Load(ctx context.Context) error {
	for _, name := range r.names() {
		enabled, err := storage.Get(ctx, r.storage, storageModule, storage.Global, name, true)
		if err != nil {
			return fmt.Errorf("failed to load state of module %s: %w", name, err)
		}

		r.mu.Lock()
		r.state[name] = enabled
		r.mu.Unlock()
	}

	return nil
}

// Enabled reports whether the module may run. Unknown modules are enabled.
func (r *Registry) Enabled(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.protected[name]; ok {
		return true
	}
	enabled, ok := r.state[name]

	return !ok || enabled
}

// SetEnabled changes and stores the state of a module.
func (r *Registry) SetEnabled(ctx context.Context, name string, enabled bool) error {
	r.mu.RLock()
	_, known := r.known[name]
	_, protected := r.protected[name]
	r.mu.RUnlock()

	if !known {
		return fmt.Errorf("%w: %s", ErrUnknownModule, name)
	}
	if protected && !enabled {
		return fmt.Errorf("%w: %s", ErrProtected, name)
	}

	if err := storage.Set(ctx, r.storage, storageModule, storage.Global, name, enabled); err != nil {
		return fmt.Errorf("failed to store state of module %s: %w", name, err)
	}

	r.mu.Lock()
	r.state[name] = enabled
	r.mu.Unlock()

	r.logger.Info("Module state changed", zap.String("module", name), zap.Bool("enabled", enabled))

	return nil
}

// List returns the state of all modules sorted by name.
func (r *Registry) List() []Status {
	names := r.names()

	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Status, 0, len(names))
	for _, name := range names {
		_, protected := r.protected[name]
		enabled, ok := r.state[name]
		list = append(list, Status{
			Name:      name,
			Enabled:   protected || !ok || enabled,
			Protected: protected,
		})
	}

	return list
}

func (r *Registry) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.known))
	for name := range r.known {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
