// Package builtin assembles the registry of built-in invoker types. Callers
// may extend the returned registry with their own types before first use.
package builtin

import (
	"fmt"

	"github.com/genieflow/invoke"
	"github.com/genieflow/invoke/apicall"
	"github.com/genieflow/invoke/chat"
	"github.com/genieflow/invoke/graph"
	"github.com/genieflow/invoke/similarity"
	"github.com/genieflow/invoke/sqlquery"
	"github.com/genieflow/invoke/verbatim"
)

// Registry returns a fresh registry holding the built-in invoker set.
func Registry() *invoke.Registry {
	r := invoke.NewRegistry()
	mustRegister(r, verbatim.TypeName, verbatim.New)
	mustRegister(r, chat.TypeName, chat.New)
	mustRegister(r, chat.TypeNameJSON, chat.NewJSON)
	mustRegister(r, similarity.TypeName, similarity.New)
	mustRegister(r, apicall.TypeName, apicall.New)
	mustRegister(r, graph.TypeName, graph.New)
	mustRegister(r, sqlquery.TypeName, sqlquery.New)
	return r
}

// mustRegister panics on duplicates; the built-in set is fixed and distinct,
// so a collision here is a programming error.
func mustRegister(r *invoke.Registry, name string, ctor invoke.Constructor) {
	if err := r.Register(name, ctor); err != nil {
		panic(fmt.Sprintf("builtin registry: %v", err))
	}
}
