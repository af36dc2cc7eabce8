// Package graph is the Neo4j query invoker. It executes a Cypher query with
// a per-query timeout and a record limit, and answers with the JSON encoding
// of a queryresult.QueryResult. Backing-store failures during a query are
// reported inside that result, never returned as errors; only construction
// (including the one-time connectivity check) can fail.
package graph

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/genieflow/invoke"
	"github.com/genieflow/invoke/logging"
	"github.com/genieflow/invoke/queryresult"
)

// TypeName is the registry name of this adapter.
const TypeName = "neo4j"

// EnvPrefix is the environment fallback prefix for configuration keys, e.g.
// NEO4J_DATABASE_URI for database_uri.
const EnvPrefix = "NEO4J"

// DefaultLimit caps the number of records pulled from a query result when no
// limit is configured.
const DefaultLimit = 1000

const verifyTimeout = 10 * time.Second

// The driver is shared by every graph invoker in the process: created lazily
// by the first construction, connectivity-verified once, and never torn down
// implicitly. Later constructions reuse it without re-verifying, whatever
// connection keys they carry.
var shared struct {
	once   sync.Once
	driver neo4j.DriverWithContext
	err    error
}

func sharedDriver(r *invoke.ConfigReader) (neo4j.DriverWithContext, error) {
	shared.once.Do(func() {
		uri, err := r.Require("database_uri")
		if err != nil {
			shared.err = err
			return
		}
		username, err := r.Require("username")
		if err != nil {
			shared.err = err
			return
		}
		password, err := r.Require("password")
		if err != nil {
			shared.err = err
			return
		}

		driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
		if err != nil {
			shared.err = fmt.Errorf("create neo4j driver: %w", err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
		defer cancel()
		if err := driver.VerifyConnectivity(ctx); err != nil {
			shared.err = fmt.Errorf("verify neo4j connectivity: %w", err)
			return
		}

		logging.Op().Info("neo4j driver ready", "uri", uri)
		shared.driver = driver
	})
	return shared.driver, shared.err
}

// Invoker executes bounded Cypher queries against the shared driver.
type Invoker struct {
	driver       neo4j.DriverWithContext
	databaseName string
	limit        int
	timeout      *time.Duration // nil = server default, 0 = wait indefinitely
	writeQueries bool
}

// New constructs the invoker from its effective configuration.
//
// Keys (each with a NEO4J_* environment alternative):
//   - database_uri, username, password: connection parameters, required on
//     the construction that creates the shared driver
//   - database_name: optional, defaults to the server's home database
//   - limit: maximum records returned per query, default 1000
//   - query_timeout: seconds to wait for a query; 0 waits indefinitely,
//     unset uses the server default
//   - write_queries: declare write intent to the server, default false
func New(cfg invoke.Config) (invoke.Invoker, error) {
	r := invoke.NewConfigReader(cfg, EnvPrefix)

	driver, err := sharedDriver(r)
	if err != nil {
		return nil, err
	}

	inv := &Invoker{
		driver:       driver,
		databaseName: r.String("database_name", ""),
		limit:        r.Int("limit", DefaultLimit),
		writeQueries: r.Bool("write_queries", false),
	}
	inv.timeout = parseTimeout(r)
	return inv, nil
}

// parseTimeout keeps the tri-state timeout semantics: absent key means
// "server default" (nil), an explicit zero means wait indefinitely.
func parseTimeout(r *invoke.ConfigReader) *time.Duration {
	seconds, ok := r.Float("query_timeout")
	if !ok {
		return nil
	}
	d := time.Duration(seconds * float64(time.Second))
	return &d
}

// Invoke runs input as a Cypher query and returns the JSON-encoded
// QueryResult. The returned error is always nil for backing-store failures;
// those surface in the result's error field.
func (inv *Invoker) Invoke(ctx context.Context, input string) (string, error) {
	queryHash := logging.Hash(input)
	logging.Op().Info("executing graph query", "query_hash", queryHash)
	logging.Op().Debug("graph query text", "query", input)

	result := inv.run(ctx, input)
	encoded := result.Encode()

	logging.Op().Info("executed graph query",
		"query_hash", queryHash,
		"records", len(result.Records),
		"has_more", result.HasMore,
		"failed", result.Error != nil,
	)
	return encoded, nil
}

func (inv *Invoker) run(ctx context.Context, query string) queryresult.QueryResult {
	mode := neo4j.AccessModeRead
	if inv.writeQueries {
		mode = neo4j.AccessModeWrite
	}

	session := inv.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: inv.databaseName,
		AccessMode:   mode,
	})
	defer session.Close(ctx)

	var configurers []func(*neo4j.TransactionConfig)
	if inv.timeout != nil {
		configurers = append(configurers, neo4j.WithTxTimeout(*inv.timeout))
	}

	result, err := session.Run(ctx, query, nil, configurers...)
	if err != nil {
		return queryresult.Failure(err)
	}
	return collect(ctx, result, inv.limit)
}
