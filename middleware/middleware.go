// Package middleware decorates invokers with cross-cutting concerns. The
// wrappers preserve the capability contract, so a decorated invoker can sit
// in a pool or behind the factory like any other.
package middleware

import (
	"context"
	"time"

	"github.com/genieflow/invoke"
	"github.com/genieflow/invoke/metrics"
	"github.com/genieflow/invoke/observability"
)

// WithMetrics counts and times every invocation under the given type name.
func WithMetrics(typeName string, inner invoke.Invoker) invoke.Invoker {
	return invoke.Func(func(ctx context.Context, input string) (string, error) {
		start := time.Now()
		out, err := inner.Invoke(ctx, input)

		status := "ok"
		if err != nil {
			status = "error"
		}
		metrics.RecordInvocation(typeName, status, time.Since(start))
		return out, err
	})
}

// WithTracing opens a span around every invocation.
func WithTracing(typeName string, inner invoke.Invoker) invoke.Invoker {
	return invoke.Func(func(ctx context.Context, input string) (string, error) {
		ctx, span := observability.StartSpan(ctx, "invoke."+typeName,
			observability.AttrInvokerType.String(typeName),
			observability.AttrInputBytes.Int(len(input)),
		)
		defer span.End()

		out, err := inner.Invoke(ctx, input)
		if err != nil {
			observability.SetSpanError(span, err)
			return out, err
		}
		span.SetAttributes(observability.AttrOutputBytes.Int(len(out)))
		return out, nil
	})
}

// Instrument applies both tracing and metrics.
func Instrument(typeName string, inner invoke.Invoker) invoke.Invoker {
	return WithTracing(typeName, WithMetrics(typeName, inner))
}
