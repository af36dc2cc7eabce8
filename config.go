package invoke

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the configuration mapping handed to a Constructor. Values come
// from YAML or JSON decoding, so scalars may arrive as string, int, int64,
// float64 or bool; the accessors coerce between them.
type Config map[string]any

// Merge returns a new Config holding the receiver's entries with every key
// present in overlay written over it. The merge is shallow: an overlay value
// replaces a same-keyed nested mapping wholesale, it is not deep-merged.
// Neither input is mutated.
func (c Config) Merge(overlay Config) Config {
	merged := make(Config, len(c)+len(overlay))
	for k, v := range c {
		merged[k] = v
	}
	for k, v := range overlay {
		merged[k] = v
	}
	return merged
}

// Sub returns the nested mapping under key, if present.
func (c Config) Sub(key string) (Config, bool) {
	v, ok := c[key]
	if !ok {
		return nil, false
	}
	switch m := v.(type) {
	case Config:
		return m, true
	case map[string]any:
		return Config(m), true
	}
	return nil, false
}

// LoadDefaults reads process-wide invoker defaults from a YAML file. The
// document is a mapping keyed by invoker type name, each value a mapping of
// adapter-specific defaults.
func LoadDefaults(path string) (map[string]Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	defaults := make(map[string]Config)
	if err := yaml.Unmarshal(data, &defaults); err != nil {
		return nil, fmt.Errorf("parse defaults %s: %w", path, err)
	}
	return defaults, nil
}

// ConfigReader resolves adapter configuration keys with an environment
// variable fallback: a key absent from the mapping is looked up as
// <PREFIX>_<KEY> (uppercase) in the environment before the default applies.
type ConfigReader struct {
	cfg    Config
	prefix string
}

func NewConfigReader(cfg Config, prefix string) *ConfigReader {
	return &ConfigReader{cfg: cfg, prefix: prefix}
}

// Lookup returns the raw value for key from the config mapping, or from the
// environment fallback, and whether either was present.
func (r *ConfigReader) Lookup(key string) (any, bool) {
	if v, ok := r.cfg[key]; ok {
		return v, true
	}
	if v, ok := os.LookupEnv(r.prefix + "_" + strings.ToUpper(key)); ok {
		return v, true
	}
	return nil, false
}

// Require returns the string value for key or an error naming the key and
// its environment alternative.
func (r *ConfigReader) Require(key string) (string, error) {
	v, ok := r.Lookup(key)
	if !ok {
		return "", fmt.Errorf("%w: missing %q (or env %s_%s)",
			ErrInvalidConfig, key, r.prefix, strings.ToUpper(key))
	}
	return asString(v), nil
}

func (r *ConfigReader) String(key, def string) string {
	v, ok := r.Lookup(key)
	if !ok {
		return def
	}
	return asString(v)
}

func (r *ConfigReader) Int(key string, def int) int {
	v, ok := r.Lookup(key)
	if !ok {
		return def
	}
	if n, ok := asInt(v); ok {
		return n
	}
	return def
}

func (r *ConfigReader) Bool(key string, def bool) bool {
	v, ok := r.Lookup(key)
	if !ok {
		return def
	}
	if b, ok := asBool(v); ok {
		return b
	}
	return def
}

// Float returns the float value for key and whether it was present at all.
// Callers that distinguish "unset" from zero (e.g. query timeouts) use the
// second return.
func (r *ConfigReader) Float(key string) (float64, bool) {
	v, ok := r.Lookup(key)
	if !ok {
		return 0, false
	}
	f, ok := asFloat(v)
	return f, ok
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func asBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		return parsed, err == nil
	}
	return false, false
}
