// Package cached wraps another invoker with result memoization. Identical
// inputs within the TTL are answered from the cache instead of the wrapped
// capability, which matters for expensive chat or query invocations repeated
// across pipeline runs.
//
// The wrapped invoker is described inline, so a step config looks like:
//
//	type: cached
//	ttl: 600
//	wraps:
//	  type: neo4j
//	  limit: 100
package cached

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/genieflow/invoke"
	"github.com/genieflow/invoke/cache"
	"github.com/genieflow/invoke/logging"
)

// TypeName is the registry name of this adapter.
const TypeName = "cached"

// DefaultTTL applies when the step config carries no ttl key.
const DefaultTTL = 5 * time.Minute

// Invoker memoizes another invoker's results.
type Invoker struct {
	inner invoke.Invoker
	store cache.Cache
	scope string
	ttl   time.Duration
}

// Constructor returns the constructor for the caching invoker. It needs the
// factory (to build the wrapped invoker from the "wraps" mapping) and the
// cache backend, so it is registered with a closure rather than a plain
// function — typically right after the factory is assembled.
func Constructor(factory *invoke.Factory, store cache.Cache) invoke.Constructor {
	return func(cfg invoke.Config) (invoke.Invoker, error) {
		wraps, ok := cfg.Sub("wraps")
		if !ok {
			return nil, fmt.Errorf("%w: cached invoker needs a %q mapping",
				invoke.ErrInvalidConfig, "wraps")
		}

		inner, err := factory.CreateInvoker(wraps)
		if err != nil {
			return nil, fmt.Errorf("construct wrapped invoker: %w", err)
		}

		r := invoke.NewConfigReader(cfg, "CACHED")
		ttl := DefaultTTL
		if seconds, ok := r.Float("ttl"); ok && seconds >= 0 {
			ttl = time.Duration(seconds * float64(time.Second))
		}

		scope, _ := wraps[invoke.TypeKey].(string)
		return &Invoker{inner: inner, store: store, scope: scope, ttl: ttl}, nil
	}
}

// Invoke answers from the cache when possible, otherwise delegates and
// stores the result. Cache failures are logged and treated as misses; they
// never mask the wrapped invoker's behavior.
func (inv *Invoker) Invoke(ctx context.Context, input string) (string, error) {
	sum := sha256.Sum256([]byte(input))
	key := inv.scope + ":" + hex.EncodeToString(sum[:])

	if val, err := inv.store.Get(ctx, key); err == nil {
		logging.Op().Debug("invocation cache hit", "key", key)
		return string(val), nil
	} else if !errors.Is(err, cache.ErrNotFound) {
		logging.Op().Warn("invocation cache read failed", "key", key, "error", err)
	}

	out, err := inv.inner.Invoke(ctx, input)
	if err != nil {
		return "", err
	}

	if err := inv.store.Set(ctx, key, []byte(out), inv.ttl); err != nil {
		logging.Op().Warn("invocation cache write failed", "key", key, "error", err)
	}
	return out, nil
}
