package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ConfigFileEnv names the environment variable holding an optional YAML file.
const ConfigFileEnv = "OCU_CONFIG"

const envPrefix = "ocu_"

// koanfLookup exposes a loaded koanf instance as a Lookuper. YAML lists are
// flattened back into the comma-separated form the converters expect.
type koanfLookup struct {
	k *koanf.Koanf
}

func (l koanfLookup) Lookup(name string) (string, bool) {
	if !l.k.Exists(name) {
		return "", false
	}
	switch v := l.k.Get(name).(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, ","), true
	default:
		return fmt.Sprint(v), true
	}
}

// LoadStore builds a Store by layering sources.
// Order of precedence (low -> high):
//  1. file (YAML) if OCU_CONFIG is set
//  2. env (bare workflow variable names, or the same names prefixed OCU_)
func LoadStore(_ context.Context) (*Store, error) {
	k := koanf.New(".")

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// Launcher workflows export variables under their plain names, e.g.
	// conference_domains; OCU_CONFERENCE_DOMAINS maps to the same key.
	envProvider := env.Provider("", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, envPrefix)
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	return NewStore(koanfLookup{k: k}), nil
}

// Load builds the layered Store and parses it into Preferences.
func Load(ctx context.Context) (*Preferences, error) {
	store, err := LoadStore(ctx)
	if err != nil {
		return nil, err
	}
	return Parse(store)
}
