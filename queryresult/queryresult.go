// Package queryresult defines the structured outcome of a bounded query
// execution. Both success-with-truncation and backing-store failure are
// expressed in the same shape, so downstream consumers always receive
// parseable output.
package queryresult

import "encoding/json"

// QueryResult is the output contract of the bounded query adapters.
//
// Error is set only when Headers and Records are both empty; HasMore is true
// iff strictly more rows existed beyond the configured limit at the moment
// the fetch completed.
type QueryResult struct {
	Headers []string `json:"headers"`
	Records [][]any  `json:"records"`
	HasMore bool     `json:"has_more"`
	Error   *string  `json:"error"`
}

// Failure wraps a backing-store error as a result: empty headers and
// records, no truncation, and the error message as data.
func Failure(err error) QueryResult {
	msg := err.Error()
	return QueryResult{
		Headers: []string{},
		Records: [][]any{},
		Error:   &msg,
	}
}

// Encode serializes the result as JSON. Records occasionally hold driver
// values that cannot be marshaled; that too is reported as data rather than
// propagated.
func (r QueryResult) Encode() string {
	if r.Headers == nil {
		r.Headers = []string{}
	}
	if r.Records == nil {
		r.Records = [][]any{}
	}
	data, err := json.Marshal(r)
	if err != nil {
		data, _ = json.Marshal(Failure(err))
	}
	return string(data)
}
