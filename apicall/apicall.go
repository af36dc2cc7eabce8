// Package apicall forwards invocation input to an HTTP endpoint and returns
// the response body. It is the generic escape hatch for capabilities that
// already live behind a service.
package apicall

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/genieflow/invoke"
	"github.com/genieflow/invoke/logging"
)

// TypeName is the registry name of this adapter.
const TypeName = "api"

// EnvPrefix is the environment fallback prefix, e.g. API_URL.
const EnvPrefix = "API"

const defaultTimeout = 60 * time.Second

// Invoker posts input to one configured URL.
type Invoker struct {
	client      *http.Client
	url         string
	method      string
	contentType string
}

// New constructs the invoker. Keys (each with an API_* environment
// alternative): url (required), method (default POST), content_type
// (default text/plain) and timeout (seconds, default 60).
func New(cfg invoke.Config) (invoke.Invoker, error) {
	r := invoke.NewConfigReader(cfg, EnvPrefix)

	url, err := r.Require("url")
	if err != nil {
		return nil, err
	}

	timeout := defaultTimeout
	if seconds, ok := r.Float("timeout"); ok && seconds > 0 {
		timeout = time.Duration(seconds * float64(time.Second))
	}

	return &Invoker{
		client:      &http.Client{Timeout: timeout},
		url:         url,
		method:      strings.ToUpper(r.String("method", http.MethodPost)),
		contentType: r.String("content_type", "text/plain; charset=utf-8"),
	}, nil
}

// Invoke sends input to the endpoint. Transport failures and non-2xx
// statuses are errors; this adapter does not swallow them.
func (inv *Invoker) Invoke(ctx context.Context, input string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, inv.method, inv.url, strings.NewReader(input))
	if err != nil {
		return "", fmt.Errorf("build api request: %w", err)
	}
	req.Header.Set("Content-Type", inv.contentType)

	logging.Op().Debug("invoking api endpoint", "url", inv.url, "method", inv.method)

	resp, err := inv.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("api request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read api response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("api endpoint returned status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return string(body), nil
}
