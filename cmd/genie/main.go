package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/genieflow/invoke"
	"github.com/genieflow/invoke/builtin"
	"github.com/genieflow/invoke/cache"
	"github.com/genieflow/invoke/cached"
	"github.com/genieflow/invoke/logging"
	"github.com/genieflow/invoke/metrics"
	"github.com/genieflow/invoke/middleware"
	"github.com/genieflow/invoke/observability"
)

var (
	defaultsPath string
	logLevel     string
	metricsAddr  string
	otlpEndpoint string
	redisAddr    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "genie",
		Short: "Genie - pluggable capability invoker",
		Long:  "Run a configured invoker against stdin and print its output",
	}

	rootCmd.PersistentFlags().StringVar(&defaultsPath, "defaults", "", "YAML file with process-wide invoker defaults")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	rootCmd.PersistentFlags().StringVar(&otlpEndpoint, "otlp-endpoint", "", "export traces to this OTLP HTTP endpoint")
	rootCmd.PersistentFlags().StringVar(&redisAddr, "redis", "", "Redis address for the shared invocation cache")

	rootCmd.AddCommand(
		typesCmd(),
		invokeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func typesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the available invoker types",
		RunE: func(cmd *cobra.Command, args []string) error {
			factory, store, err := buildFactory()
			if err != nil {
				return err
			}
			defer store.Close()
			for _, name := range factory.Registry().Types() {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func invokeCmd() *cobra.Command {
	var (
		typeName string
		sets     []string
	)

	cmd := &cobra.Command{
		Use:   "invoke",
		Short: "Invoke a capability with stdin as input",
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.SetLevelFromString(logLevel)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if otlpEndpoint != "" {
				shutdown, err := observability.Init(ctx, observability.Config{
					Endpoint:    otlpEndpoint,
					ServiceName: "genie",
					SampleRate:  1.0,
				})
				if err != nil {
					return err
				}
				defer func() {
					flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					shutdown(flushCtx)
				}()
			}

			if metricsAddr != "" {
				metrics.Init("genie")
				go func() {
					if err := http.ListenAndServe(metricsAddr, metrics.Handler()); err != nil {
						logging.Op().Error("metrics listener failed", "error", err)
					}
				}()
			}

			factory, store, err := buildFactory()
			if err != nil {
				return err
			}
			defer store.Close()

			step := invoke.Config{invoke.TypeKey: typeName}
			for _, kv := range sets {
				key, value, found := strings.Cut(kv, "=")
				if !found {
					return fmt.Errorf("--set expects key=value, got %q", kv)
				}
				step[key] = value
			}

			inv, err := factory.CreateInvoker(step)
			if err != nil {
				return err
			}
			inv = middleware.Instrument(typeName, inv)

			input, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}

			requestID := uuid.New().String()
			logging.Op().Info("invoking", "request_id", requestID, "type", typeName)

			start := time.Now()
			output, err := inv.Invoke(ctx, string(input))
			if err != nil {
				logging.Op().Error("invocation failed",
					"request_id", requestID, "error", err,
					"duration_ms", time.Since(start).Milliseconds())
				return err
			}
			logging.Op().Info("invocation finished",
				"request_id", requestID,
				"duration_ms", time.Since(start).Milliseconds())

			fmt.Println(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "", "invoker type name (required)")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "step configuration overrides, key=value")
	cmd.MarkFlagRequired("type")
	return cmd
}

// buildFactory assembles the registry, the process-wide defaults and the
// invocation cache the "cached" type wraps around other invokers.
func buildFactory() (*invoke.Factory, cache.Cache, error) {
	defaults := make(map[string]invoke.Config)
	if defaultsPath != "" {
		loaded, err := invoke.LoadDefaults(defaultsPath)
		if err != nil {
			return nil, nil, err
		}
		defaults = loaded
	}

	registry := builtin.Registry()
	factory := invoke.NewFactory(defaults, registry)

	var store cache.Cache
	if redisAddr != "" {
		store = cache.NewRedis(cache.RedisConfig{Addr: redisAddr})
	} else {
		store = cache.NewInMemory()
	}
	if err := registry.Register(cached.TypeName, cached.Constructor(factory, store)); err != nil {
		return nil, nil, err
	}
	return factory, store, nil
}
