package builtin

import (
	"context"
	"errors"
	"testing"

	"github.com/genieflow/invoke"
)

func TestRegistry_BuiltinSetResolves(t *testing.T) {
	r := Registry()

	for _, name := range []string{
		"verbatim",
		"azure_openai_chat",
		"azure_openai_chat_json",
		"similarity",
		"api",
		"neo4j",
		"sql",
	} {
		if _, err := r.Resolve(name); err != nil {
			t.Fatalf("builtin %q missing: %v", name, err)
		}
	}
}

func TestRegistry_ExtensibleBeforeUse(t *testing.T) {
	r := Registry()

	err := r.Register("custom", func(cfg invoke.Config) (invoke.Invoker, error) {
		return invoke.Func(func(ctx context.Context, input string) (string, error) {
			return input, nil
		}), nil
	})
	if err != nil {
		t.Fatalf("extending with a new name must work: %v", err)
	}

	if err := r.Register("verbatim", nil); !errors.Is(err, invoke.ErrDuplicateType) {
		t.Fatalf("overriding a builtin must fail, got %v", err)
	}
}
