package apicall

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/genieflow/invoke"
)

func TestInvoke_PostsInputReturnsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != "question" {
			t.Errorf("unexpected body %q", body)
		}
		io.WriteString(w, "answer")
	}))
	defer server.Close()

	inv, err := New(invoke.Config{"url": server.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	out, err := inv.Invoke(context.Background(), "question")
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if out != "answer" {
		t.Fatalf("expected response body, got %q", out)
	}
}

func TestInvoke_NonSuccessStatusIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	inv, err := New(invoke.Config{"url": server.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = inv.Invoke(context.Background(), "question")
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestNew_MissingURL(t *testing.T) {
	_, err := New(invoke.Config{})
	if err == nil {
		t.Fatal("expected missing url error")
	}
}
