// Package sqlquery is the Postgres counterpart of the graph adapter: the
// same bounded-result contract (record limit, truncation flag, failure as
// data) over a lazily shared pgx connection pool.
package sqlquery

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/genieflow/invoke"
	"github.com/genieflow/invoke/logging"
	"github.com/genieflow/invoke/queryresult"
)

// TypeName is the registry name of this adapter.
const TypeName = "sql"

// EnvPrefix is the environment fallback prefix, e.g. SQL_DATABASE_URI.
const EnvPrefix = "SQL"

// DefaultLimit caps the rows pulled per query when no limit is configured.
const DefaultLimit = 1000

const verifyTimeout = 10 * time.Second

// One connection pool per process, created by the first construction and
// pinged once. Never torn down implicitly.
var shared struct {
	once sync.Once
	pool *pgxpool.Pool
	err  error
}

func sharedPool(r *invoke.ConfigReader) (*pgxpool.Pool, error) {
	shared.once.Do(func() {
		dsn, err := r.Require("database_uri")
		if err != nil {
			shared.err = err
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
		defer cancel()

		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			shared.err = fmt.Errorf("create postgres pool: %w", err)
			return
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			shared.err = fmt.Errorf("verify postgres connectivity: %w", err)
			return
		}

		logging.Op().Info("postgres pool ready")
		shared.pool = pool
	})
	return shared.pool, shared.err
}

// Invoker executes bounded SQL queries against the shared pool.
type Invoker struct {
	pool    *pgxpool.Pool
	limit   int
	timeout time.Duration // 0 = no client-side deadline
}

// New constructs the invoker from its effective configuration.
//
// Keys (each with an SQL_* environment alternative): database_uri (required
// on the construction that creates the shared pool), limit (default 1000)
// and query_timeout (seconds; zero or unset leaves enforcement to the
// server).
func New(cfg invoke.Config) (invoke.Invoker, error) {
	r := invoke.NewConfigReader(cfg, EnvPrefix)

	pool, err := sharedPool(r)
	if err != nil {
		return nil, err
	}

	inv := &Invoker{
		pool:  pool,
		limit: r.Int("limit", DefaultLimit),
	}
	if seconds, ok := r.Float("query_timeout"); ok && seconds > 0 {
		inv.timeout = time.Duration(seconds * float64(time.Second))
	}
	return inv, nil
}

// Invoke runs input as a SQL query and returns the JSON-encoded QueryResult.
// Backing-store failures surface in the result, not as a returned error.
func (inv *Invoker) Invoke(ctx context.Context, input string) (string, error) {
	queryHash := logging.Hash(input)
	logging.Op().Info("executing sql query", "query_hash", queryHash)

	if inv.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, inv.timeout)
		defer cancel()
	}

	result := inv.run(ctx, input)

	logging.Op().Info("executed sql query",
		"query_hash", queryHash,
		"records", len(result.Records),
		"has_more", result.HasMore,
		"failed", result.Error != nil,
	)
	return result.Encode(), nil
}

func (inv *Invoker) run(ctx context.Context, query string) queryresult.QueryResult {
	rows, err := inv.pool.Query(ctx, query)
	if err != nil {
		return queryresult.Failure(err)
	}
	defer rows.Close()
	return collect(rows, inv.limit)
}
