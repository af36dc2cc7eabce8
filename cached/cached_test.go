package cached

import (
	"context"
	"errors"
	"testing"

	"github.com/genieflow/invoke"
	"github.com/genieflow/invoke/cache"
)

func newCachedFactory(t *testing.T, calls *int) *invoke.Factory {
	t.Helper()

	registry := invoke.NewRegistry()
	err := registry.Register("counting", func(cfg invoke.Config) (invoke.Invoker, error) {
		return invoke.Func(func(ctx context.Context, input string) (string, error) {
			*calls++
			return "result:" + input, nil
		}), nil
	})
	if err != nil {
		t.Fatalf("register counting: %v", err)
	}

	factory := invoke.NewFactory(nil, registry)
	store := cache.NewInMemory()
	t.Cleanup(func() { store.Close() })

	if err := registry.Register(TypeName, Constructor(factory, store)); err != nil {
		t.Fatalf("register cached: %v", err)
	}
	return factory
}

func TestInvoke_MemoizesByInput(t *testing.T) {
	var calls int
	factory := newCachedFactory(t, &calls)

	inv, err := factory.CreateInvoker(invoke.Config{
		"type":  TypeName,
		"wraps": map[string]any{"type": "counting"},
	})
	if err != nil {
		t.Fatalf("CreateInvoker: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		out, err := inv.Invoke(ctx, "same input")
		if err != nil {
			t.Fatalf("Invoke: %v", err)
		}
		if out != "result:same input" {
			t.Fatalf("unexpected output %q", out)
		}
	}
	if calls != 1 {
		t.Fatalf("wrapped invoker must run once, ran %d times", calls)
	}

	if _, err := inv.Invoke(ctx, "other input"); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if calls != 2 {
		t.Fatalf("distinct input must miss, got %d calls", calls)
	}
}

func TestInvoke_ErrorsAreNotCached(t *testing.T) {
	registry := invoke.NewRegistry()
	attempts := 0
	err := registry.Register("flaky", func(cfg invoke.Config) (invoke.Invoker, error) {
		return invoke.Func(func(ctx context.Context, input string) (string, error) {
			attempts++
			if attempts == 1 {
				return "", errors.New("transient")
			}
			return "recovered", nil
		}), nil
	})
	if err != nil {
		t.Fatalf("register flaky: %v", err)
	}

	factory := invoke.NewFactory(nil, registry)
	store := cache.NewInMemory()
	defer store.Close()
	if err := registry.Register(TypeName, Constructor(factory, store)); err != nil {
		t.Fatalf("register cached: %v", err)
	}

	inv, err := factory.CreateInvoker(invoke.Config{
		"type":  TypeName,
		"wraps": map[string]any{"type": "flaky"},
	})
	if err != nil {
		t.Fatalf("CreateInvoker: %v", err)
	}

	ctx := context.Background()
	if _, err := inv.Invoke(ctx, "q"); err == nil {
		t.Fatal("first call must fail")
	}
	out, err := inv.Invoke(ctx, "q")
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if out != "recovered" {
		t.Fatalf("failure must not be memoized, got %q", out)
	}
}

func TestConstructor_MissingWraps(t *testing.T) {
	var calls int
	factory := newCachedFactory(t, &calls)

	_, err := factory.CreateInvoker(invoke.Config{"type": TypeName})
	if !errors.Is(err, invoke.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}
