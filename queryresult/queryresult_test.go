package queryresult

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestEncode_FieldOrderAndNullError(t *testing.T) {
	r := QueryResult{
		Headers: []string{"name", "age"},
		Records: [][]any{{"ada", 36}},
		HasMore: true,
	}

	got := r.Encode()
	want := `{"headers":["name","age"],"records":[["ada",36]],"has_more":true,"error":null}`
	if got != want {
		t.Fatalf("Encode() = %s, want %s", got, want)
	}
}

func TestEncode_EmptyResultHasEmptyCollections(t *testing.T) {
	got := QueryResult{}.Encode()

	if strings.Contains(got, "null,") {
		t.Fatalf("headers/records must encode as [], got %s", got)
	}

	var decoded QueryResult
	if err := json.Unmarshal([]byte(got), &decoded); err != nil {
		t.Fatalf("output must be valid JSON: %v", err)
	}
	if len(decoded.Headers) != 0 || len(decoded.Records) != 0 || decoded.HasMore {
		t.Fatalf("unexpected decoded result: %+v", decoded)
	}
}

func TestFailure_ShapeInvariant(t *testing.T) {
	r := Failure(errors.New("connection refused"))

	if len(r.Headers) != 0 || len(r.Records) != 0 || r.HasMore {
		t.Fatalf("failure result must be empty: %+v", r)
	}
	if r.Error == nil || *r.Error != "connection refused" {
		t.Fatalf("failure message missing: %+v", r.Error)
	}
}
