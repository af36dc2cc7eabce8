package verbatim

import (
	"context"
	"testing"

	"github.com/genieflow/invoke"
)

func TestVerbatim(t *testing.T) {
	inv, err := New(invoke.Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	text := "The Quick Brown Fox Jumped over the lazy dog."
	out, err := inv.Invoke(context.Background(), text)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if out != text {
		t.Fatalf("expected input back, got %q", out)
	}
}
