package settings

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/roach88/nosqlcore/internal/errs"
	"github.com/roach88/nosqlcore/internal/reader"
	"github.com/roach88/nosqlcore/internal/value"
)

// ErrMissingKey is returned when a requested setting does not exist.
var ErrMissingKey = errors.New("setting not found")

// Settings is an immutable flat map from dotted keys to values.
type Settings struct {
	values map[string]any
}

// New copies values into a Settings. Keys must be non-empty and values
// non-nil.
func New(values map[string]any) (Settings, error) {
	out := make(map[string]any, len(values))
	for k, v := range values {
		if k == "" {
			return Settings{}, errs.NilArgument("key")
		}
		if v == nil {
			return Settings{}, errs.NilArgument(k)
		}
		out[k] = value.Clone(v)
	}
	return Settings{values: out}, nil
}

// Parse reads YAML and flattens nested mappings into dotted keys:
// {db: {host: x}} becomes db.host = x. Null values are dropped.
func Parse(data []byte) (Settings, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings: %w", err)
	}
	flat := make(map[string]any)
	flatten("", doc, flat)
	return New(flat)
}

// Load reads a configuration file through viper (any format viper knows)
// and overlays environment variables starting with envPrefix:
// APP_DB_HOST sets db.host for prefix "APP_". An empty prefix disables the
// overlay.
func Load(path, envPrefix string) (Settings, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Settings{}, fmt.Errorf("failed to read settings %s: %w", path, err)
	}

	if envPrefix != "" {
		prefix := strings.ToUpper(envPrefix)
		for _, env := range os.Environ() {
			key, val, ok := strings.Cut(env, "=")
			if !ok || !strings.HasPrefix(key, prefix) {
				continue
			}
			// APP_DB_HOST -> db.host
			prop := strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(key, prefix), "_", "."))
			prop = strings.TrimPrefix(prop, ".")
			if prop != "" {
				v.Set(prop, val)
			}
		}
	}

	flat := make(map[string]any)
	for _, k := range v.AllKeys() {
		if val := v.Get(k); val != nil {
			flat[k] = val
		}
	}

	slog.Debug("settings loaded", "path", path, "keys", len(flat))
	return New(flat)
}

func flatten(prefix string, node map[string]any, out map[string]any) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch child := v.(type) {
		case nil:
		case map[string]any:
			flatten(key, child, out)
		default:
			out[key] = v
		}
	}
}

// Get returns a copy of the value stored under key, without secret
// handling.
func (s Settings) Get(key string) (any, bool) {
	v, ok := s.values[key]
	if !ok {
		return nil, false
	}
	return value.Clone(v), true
}

// Keys returns all keys in sorted order.
func (s Settings) Keys() []string {
	return slices.Sorted(maps.Keys(s.values))
}

// Len returns the number of settings.
func (s Settings) Len() int { return len(s.values) }

// Resolve returns the value under key with any secret marker unwrapped.
func (s Settings) Resolve(key string) (any, bool) {
	v, ok := s.Get(key)
	if !ok {
		return nil, false
	}
	return Apply(v, s), true
}

// As resolves key and converts the result to T with the process-wide
// reader registry.
func As[T any](s Settings, key string) (T, error) {
	var zero T
	v, ok := s.Resolve(key)
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrMissingKey, key)
	}
	out, err := reader.As[T](reader.Default(), v)
	if err != nil {
		return zero, fmt.Errorf("setting %s: %w", key, err)
	}
	return out, nil
}
