package sqlquery

import (
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/genieflow/invoke/queryresult"
)

// rowSet is the subset of pgx.Rows the collector consumes; narrowed for
// testability.
type rowSet interface {
	FieldDescriptions() []pgconn.FieldDescription
	Next() bool
	Values() ([]any, error)
	Err() error
}

// collect pulls at most limit rows, then advances once more to decide
// has_more; the extra row is discarded. Stream errors become a failure
// result.
func collect(rows rowSet, limit int) queryresult.QueryResult {
	headers := make([]string, 0, len(rows.FieldDescriptions()))
	for _, fd := range rows.FieldDescriptions() {
		headers = append(headers, fd.Name)
	}

	records := make([][]any, 0)
	for len(records) < limit && rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return queryresult.Failure(err)
		}
		records = append(records, values)
	}

	hasMore := false
	if len(records) == limit {
		hasMore = rows.Next()
	}

	if err := rows.Err(); err != nil {
		return queryresult.Failure(err)
	}

	return queryresult.QueryResult{
		Headers: headers,
		Records: records,
		HasMore: hasMore,
	}
}
