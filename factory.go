package invoke

import (
	"errors"
	"fmt"

	"github.com/genieflow/invoke/logging"
)

// ErrPoolSize is returned when a pool is requested with a non-positive size.
var ErrPoolSize = errors.New("pool size must be positive")

// TypeKey is the mandatory step-configuration field naming the invoker type.
const TypeKey = "type"

// Factory turns step configuration into invoker instances. It holds the
// process-wide defaults (keyed by invoker type name) and resolves type names
// against a Registry. Step-level configuration takes precedence, key by key,
// over the process-wide defaults for the same type.
type Factory struct {
	defaults map[string]Config
	registry *Registry
}

// NewFactory creates a factory over registry. defaults may be nil.
func NewFactory(defaults map[string]Config, registry *Registry) *Factory {
	if defaults == nil {
		defaults = make(map[string]Config)
	}
	return &Factory{defaults: defaults, registry: registry}
}

// Registry returns the registry the factory resolves against, so callers can
// register additional types before first use.
func (f *Factory) Registry() *Registry {
	return f.registry
}

// CreateInvoker builds the invoker described by step. step must carry a
// "type" field naming a registered invoker type. The constructor receives
// the effective configuration: the process-wide defaults for that type (an
// empty mapping if none) with every key present in step overlaid on top.
func (f *Factory) CreateInvoker(step Config) (Invoker, error) {
	typeName, inv, err := f.create(step)
	if err != nil {
		return nil, err
	}
	logging.Op().Debug("created invoker", "type", typeName)
	return inv, nil
}

func (f *Factory) create(step Config) (string, Invoker, error) {
	raw, ok := step[TypeKey]
	if !ok {
		return "", nil, fmt.Errorf("%w: missing %q field", ErrInvalidConfig, TypeKey)
	}
	typeName, ok := raw.(string)
	if !ok {
		return "", nil, fmt.Errorf("%w: %q field must be a string", ErrInvalidConfig, TypeKey)
	}

	ctor, err := f.registry.Resolve(typeName)
	if err != nil {
		return "", nil, err
	}

	effective := f.defaults[typeName].Merge(step)
	inv, err := ctor(effective)
	if err != nil {
		return "", nil, fmt.Errorf("construct %q invoker: %w", typeName, err)
	}
	return typeName, inv, nil
}

// CreatePool builds size invokers from the same step configuration and
// places them in a new Pool. Construction is all-or-nothing: the first
// constructor failure aborts and no partial pool is returned.
func (f *Factory) CreatePool(size int, step Config) (*Pool, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrPoolSize, size)
	}

	pool := NewPool(size)
	var typeName string
	for i := 0; i < size; i++ {
		tn, inv, err := f.create(step)
		if err != nil {
			return nil, err
		}
		typeName = tn
		pool.Release(inv)
	}
	logging.Op().Debug("created invoker pool", "type", typeName, "size", size)
	return pool, nil
}
