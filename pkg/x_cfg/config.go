// Package x_cfg loads the htree host configuration: defaults, then a JSON
// file, then HTREE_* environment overrides.
package x_cfg

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/rskv-p/htree/pkg/x_log"
)

const (
	EnvConfigPath     = "HTREE_CONFIG"
	DefaultConfigPath = "./htree.json"
	envPrefix         = "HTREE_"
)

// Config is the host configuration.
type Config struct {
	Log         x_log.Config `json:"log" mapstructure:"log"`
	HTTPAddress string       `json:"http_address" mapstructure:"http_address"`
	JWTSecret   string       `json:"jwt_secret" mapstructure:"jwt_secret"`
	MaxBody     int64        `json:"max_body" mapstructure:"max_body"` // bytes accepted per request
	RootKey     string       `json:"root_key" mapstructure:"root_key"` // created by serve when the tree is empty
}

func defaults() Config {
	return Config{
		Log:         x_log.DefaultConfig(),
		HTTPAddress: ":8080",
		MaxBody:     1 << 20,
		RootKey:     "root",
	}
}

// Load resolves the config file (path, HTREE_CONFIG, ./htree.json), decodes
// it over the defaults and applies environment overrides. A missing file is
// not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		if env := os.Getenv(EnvConfigPath); env != "" {
			path = env
		} else {
			path = DefaultConfigPath
		}
	}

	cfg := defaults()
	raw := map[string]any{}

	data, err := os.ReadFile(filepath.Clean(path))
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse config from %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config from %s: %w", path, err)
	}

	mergeEnv(raw, os.Environ())

	if err := decode(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return &cfg, nil
}

func decode(raw map[string]any, out *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// mergeEnv copies HTREE_* variables into raw. HTREE_LOG_LEVEL lands in
// raw["log"]["level"], HTREE_HTTP_ADDRESS in raw["http_address"].
func mergeEnv(raw map[string]any, environ []string) {
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(k, envPrefix) || k == EnvConfigPath {
			continue
		}
		name := strings.ToLower(strings.TrimPrefix(k, envPrefix))
		if sub, found := strings.CutPrefix(name, "log_"); found {
			logRaw, _ := raw["log"].(map[string]any)
			if logRaw == nil {
				logRaw = map[string]any{}
				raw["log"] = logRaw
			}
			logRaw[sub] = v
			continue
		}
		raw[name] = v
	}
}
