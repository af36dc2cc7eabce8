package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"

	"github.com/genieflow/invoke/queryresult"
)

// cursor is the subset of neo4j.ResultWithContext the collector consumes,
// kept narrow so tests can drive it without a live database.
type cursor interface {
	Keys() ([]string, error)
	Next(ctx context.Context) bool
	Record() *db.Record
	Peek(ctx context.Context) bool
	Err() error
}

// collect pulls at most limit records from cur, then peeks for one more to
// decide has_more. A peek against a cursor the fetch already exhausted reads
// as "no more", not as an error. Stream errors become a failure result.
func collect(ctx context.Context, cur cursor, limit int) queryresult.QueryResult {
	records := make([][]any, 0)
	for len(records) < limit && cur.Next(ctx) {
		records = append(records, cur.Record().Values)
	}
	if err := cur.Err(); err != nil {
		return queryresult.Failure(err)
	}

	headers, err := cur.Keys()
	if err != nil {
		return queryresult.Failure(err)
	}
	if headers == nil {
		headers = []string{}
	}

	hasMore := false
	if len(records) == limit {
		hasMore = cur.Peek(ctx)
	}

	return queryresult.QueryResult{
		Headers: headers,
		Records: records,
		HasMore: hasMore,
	}
}
