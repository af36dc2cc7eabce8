package invoke

import (
	"errors"
	"testing"
)

func TestConfigMerge_PureUnion(t *testing.T) {
	base := Config{"limit": 50, "username": "genie"}
	step := Config{"query_timeout": 5}

	got := base.Merge(step)

	if got["limit"] != 50 || got["username"] != "genie" || got["query_timeout"] != 5 {
		t.Fatalf("union merge wrong: %v", got)
	}
}

func TestConfigMerge_StepOverridesPerKey(t *testing.T) {
	base := Config{"limit": 50, "username": "genie", "password": "secret"}
	step := Config{"limit": 10, "username": "other"}

	got := base.Merge(step)

	if got["limit"] != 10 {
		t.Fatalf("expected step limit 10, got %v", got["limit"])
	}
	if got["username"] != "other" {
		t.Fatalf("expected step username, got %v", got["username"])
	}
	if got["password"] != "secret" {
		t.Fatalf("non-overlapping default must survive, got %v", got["password"])
	}
}

func TestConfigMerge_FullOverlap(t *testing.T) {
	base := Config{"a": 1, "b": 2}
	step := Config{"a": 10, "b": 20}

	got := base.Merge(step)
	if got["a"] != 10 || got["b"] != 20 {
		t.Fatalf("full override wrong: %v", got)
	}
}

func TestConfigMerge_ShallowReplacesNested(t *testing.T) {
	base := Config{"nested": map[string]any{"keep": 1, "drop": 2}}
	step := Config{"nested": map[string]any{"keep": 9}}

	got := base.Merge(step)
	nested, ok := got.Sub("nested")
	if !ok {
		t.Fatal("nested mapping missing")
	}
	if nested["keep"] != 9 {
		t.Fatalf("expected overlay value, got %v", nested["keep"])
	}
	if _, exists := nested["drop"]; exists {
		t.Fatal("shallow merge must replace nested mappings wholesale")
	}
}

func TestConfigMerge_DoesNotMutateInputs(t *testing.T) {
	base := Config{"limit": 50}
	step := Config{"limit": 10}

	_ = base.Merge(step)

	if base["limit"] != 50 {
		t.Fatalf("base mutated: %v", base["limit"])
	}
}

func TestConfigReader_EnvFallback(t *testing.T) {
	t.Setenv("NEO4J_PASSWORD", "from-env")

	r := NewConfigReader(Config{"username": "genie"}, "NEO4J")

	if got := r.String("username", ""); got != "genie" {
		t.Fatalf("config value wins: got %q", got)
	}
	if got := r.String("password", ""); got != "from-env" {
		t.Fatalf("env fallback: got %q", got)
	}
	if got := r.String("database_name", "neo4j"); got != "neo4j" {
		t.Fatalf("default applies last: got %q", got)
	}
}

func TestConfigReader_ConfigBeatsEnv(t *testing.T) {
	t.Setenv("NEO4J_USERNAME", "env-user")

	r := NewConfigReader(Config{"username": "cfg-user"}, "NEO4J")
	if got := r.String("username", ""); got != "cfg-user" {
		t.Fatalf("config must take precedence over env, got %q", got)
	}
}

func TestConfigReader_RequireMissing(t *testing.T) {
	r := NewConfigReader(Config{}, "NEO4J")

	_, err := r.Require("database_uri")
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestConfigReader_FloatPresence(t *testing.T) {
	r := NewConfigReader(Config{"query_timeout": 0}, "NEO4J")

	v, ok := r.Float("query_timeout")
	if !ok || v != 0 {
		t.Fatalf("explicit zero must be present: %v %v", v, ok)
	}

	if _, ok := r.Float("missing"); ok {
		t.Fatal("absent key must report not present")
	}
}

func TestConfigReader_Coercions(t *testing.T) {
	r := NewConfigReader(Config{
		"limit":         "250",
		"write_queries": "true",
		"top_k":         float64(7),
	}, "X")

	if got := r.Int("limit", 0); got != 250 {
		t.Fatalf("string int coercion: got %d", got)
	}
	if !r.Bool("write_queries", false) {
		t.Fatal("string bool coercion failed")
	}
	if got := r.Int("top_k", 0); got != 7 {
		t.Fatalf("float int coercion: got %d", got)
	}
}
