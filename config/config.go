// Package config loads amisform settings from YAML or TOML files and turns
// them into a configured Validator, logger and server options.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Default values for configuration fields.
const (
	DefaultLanguage      = "zh-CN"
	DefaultAddr          = "127.0.0.1:8080"
	DefaultMetricsPath   = "/metrics"
	DefaultMaxBodyBytes  = int64(1 << 20)
	DefaultCacheSize     = 512
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
	DefaultDuplicateKeys = "ignore"
)

// Config is the root configuration.
type Config struct {
	// Language selects the built-in message table ("zh-CN", "en-US").
	Language string `yaml:"language" toml:"language"`

	// DisableScript turns off every expression: conditions are skipped and
	// form rules are not evaluated.
	DisableScript bool `yaml:"disable_script" toml:"disable_script"`

	Parse ParseConfig `yaml:"parse" toml:"parse"`

	// Messages overrides single entries of the message table.
	Messages map[string]string `yaml:"messages" toml:"messages"`

	// MessagesFile is a .yaml, .toml or .json file with more overrides.
	// Entries in Messages win over the file.
	MessagesFile string `yaml:"messages_file" toml:"messages_file"`

	Expression ExpressionConfig `yaml:"expression" toml:"expression"`
	Server     ServerConfig     `yaml:"server" toml:"server"`
	Log        LogConfig        `yaml:"log" toml:"log"`
}

// ParseConfig mirrors amisform.ParseOpt.
type ParseConfig struct {
	AllowComments     bool  `yaml:"allow_comments" toml:"allow_comments"`
	AllowUnquotedKeys bool  `yaml:"allow_unquoted_keys" toml:"allow_unquoted_keys"`
	AllowSingleQuotes bool  `yaml:"allow_single_quotes" toml:"allow_single_quotes"`
	MaxDepth          int   `yaml:"max_depth" toml:"max_depth"`
	MaxBytes          int64 `yaml:"max_bytes" toml:"max_bytes"`

	// DuplicateKeys is "ignore", "warn" or "error".
	DuplicateKeys string `yaml:"duplicate_keys" toml:"duplicate_keys"`
}

// ExpressionConfig tunes the JavaScript evaluator.
type ExpressionConfig struct {
	// Timeout bounds a single expression (0 = no limit).
	Timeout   time.Duration `yaml:"timeout" toml:"timeout"`
	CacheSize int           `yaml:"cache_size" toml:"cache_size"`
}

// ServerConfig configures `amisform serve`.
type ServerConfig struct {
	Addr         string `yaml:"addr" toml:"addr"`
	SchemaDir    string `yaml:"schema_dir" toml:"schema_dir"`
	Watch        bool   `yaml:"watch" toml:"watch"`
	MetricsPath  string `yaml:"metrics_path" toml:"metrics_path"`
	MaxBodyBytes int64  `yaml:"max_body_bytes" toml:"max_body_bytes"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`   // debug, info, warn, error
	Format string `yaml:"format" toml:"format"` // text or json
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero fields with their defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	if cfg.Parse.DuplicateKeys == "" {
		cfg.Parse.DuplicateKeys = DefaultDuplicateKeys
	}
	if cfg.Expression.CacheSize == 0 {
		cfg.Expression.CacheSize = DefaultCacheSize
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultAddr
	}
	if cfg.Server.MetricsPath == "" {
		cfg.Server.MetricsPath = DefaultMetricsPath
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

// Load reads a configuration file. The format follows the extension:
// .yaml and .yml are YAML, .toml is TOML. Defaults are applied and the
// result is validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}
	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		_, err = toml.Decode(string(data), &cfg)
	default:
		return nil, fmt.Errorf("unsupported configuration format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}
	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
