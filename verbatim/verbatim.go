// Package verbatim is the identity invoker, mostly useful for wiring tests
// and as the smallest example of the capability contract.
package verbatim

import (
	"context"

	"github.com/genieflow/invoke"
)

// TypeName is the registry name of this adapter.
const TypeName = "verbatim"

// Invoker returns its input unchanged.
type Invoker struct{}

// New ignores its configuration; the verbatim invoker has none.
func New(cfg invoke.Config) (invoke.Invoker, error) {
	return Invoker{}, nil
}

func (Invoker) Invoke(ctx context.Context, input string) (string, error) {
	return input, nil
}
