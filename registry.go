package invoke

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrDuplicateType is returned when a type name is registered twice.
	ErrDuplicateType = errors.New("invoker type already registered")

	// ErrUnknownType is returned when resolving a name that was never
	// registered.
	ErrUnknownType = errors.New("unknown invoker type")

	// ErrInvalidConfig is returned for malformed step configuration, such
	// as a missing "type" field or a missing required adapter key.
	ErrInvalidConfig = errors.New("invalid invoker config")
)

// Registry maps invoker type names to constructors. It is populated with the
// built-in set at startup and may be extended by callers before first use;
// registration is append-only and there is no removal.
type Registry struct {
	mu    sync.RWMutex
	ctors map[string]Constructor
}

func NewRegistry() *Registry {
	return &Registry{ctors: make(map[string]Constructor)}
}

// Register associates name with ctor. Registering a name twice fails:
// collisions are rejected, never overwritten.
func (r *Registry) Register(name string, ctor Constructor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ctors[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateType, name)
	}
	r.ctors[name] = ctor
	return nil
}

// Resolve returns the constructor registered under name.
func (r *Registry) Resolve(name string) (Constructor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ctor, ok := r.ctors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	return ctor, nil
}

// Types returns the registered type names, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.ctors))
	for name := range r.ctors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
