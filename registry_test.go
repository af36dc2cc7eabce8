package invoke

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func echoCtor(cfg Config) (Invoker, error) {
	return Func(func(ctx context.Context, input string) (string, error) {
		return input, nil
	}), nil
}

func TestRegistry_DuplicateRejected(t *testing.T) {
	r := NewRegistry()

	if err := r.Register("verbatim", echoCtor); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	err := r.Register("verbatim", echoCtor)
	if !errors.Is(err, ErrDuplicateType) {
		t.Fatalf("expected ErrDuplicateType, got %v", err)
	}
}

func TestRegistry_DistinctNamesResolveIndependently(t *testing.T) {
	r := NewRegistry()

	if err := r.Register("alpha", echoCtor); err != nil {
		t.Fatalf("register alpha: %v", err)
	}
	if err := r.Register("beta", echoCtor); err != nil {
		t.Fatalf("register beta: %v", err)
	}

	for _, name := range []string{"alpha", "beta"} {
		if _, err := r.Resolve(name); err != nil {
			t.Fatalf("resolve %s: %v", name, err)
		}
	}
}

func TestRegistry_UnknownType(t *testing.T) {
	r := NewRegistry()

	_, err := r.Resolve("nope")
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestRegistry_TypesSorted(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"neo4j", "api", "verbatim"} {
		if err := r.Register(name, echoCtor); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}

	got := r.Types()
	want := []string{"api", "neo4j", "verbatim"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Types() = %v, want %v", got, want)
	}
}
