// Package invoke is a pluggable invocation subsystem for pipelines. A
// pipeline step declares, by type name and configuration, which external
// capability should handle it; the factory resolves the name against a
// registry of constructors, merges step configuration over process-wide
// defaults, and produces a ready-to-use invoker (or a bounded pool of
// identically configured invokers shared across concurrent steps).
package invoke

import "context"

// Invoker is the capability contract every adapter satisfies: a single
// synchronous text-in/text-out operation. Instances must be stateless at the
// contract level — successive calls to the same instance see the same
// behavior. Internal connection reuse is fine.
//
// Failure policy is adapter-specific: most adapters return errors to the
// caller, but bounded-query adapters report backing-store failures as data
// inside their structured output and never return them.
type Invoker interface {
	Invoke(ctx context.Context, input string) (string, error)
}

// Constructor builds an invoker from its effective configuration. It must
// fail with a descriptive error when a required key is absent, and must have
// no observable side effects beyond establishing client connections.
type Constructor func(cfg Config) (Invoker, error)

// Func adapts a plain function to the Invoker interface.
type Func func(ctx context.Context, input string) (string, error)

func (f Func) Invoke(ctx context.Context, input string) (string, error) {
	return f(ctx, input)
}
