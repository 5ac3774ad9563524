package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	typherr "github.com/typhonlabs/typhon/pkg/errors"
)

type Config struct {
	Log       LogConfig       `koanf:"log"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Chaos     ChaosConfig     `koanf:"chaos"`
	Domains   DomainsConfig   `koanf:"domains"`
	RAG       RAGConfig       `koanf:"rag"`
	Journal   JournalConfig   `koanf:"journal"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, text
}

type TelemetryConfig struct {
	Exporter string `koanf:"exporter"` // stdout, otlp
	Endpoint string `koanf:"endpoint"`
	Insecure bool   `koanf:"insecure"`
}

// ChaosConfig holds the per-category fault policy. Section names are
// kept single-word so TYPHON_CHAOS_INSTABILITY_RATE style environment
// variables map cleanly onto nested keys.
type ChaosConfig struct {
	Instability CategoryConfig `koanf:"instability"`
	Sloppiness  CategoryConfig `koanf:"sloppiness"`
	RAG         CategoryConfig `koanf:"rag"`
	RateLimit   CategoryConfig `koanf:"ratelimit"`
	Corruption  CategoryConfig `koanf:"corruption"`
}

type CategoryConfig struct {
	Enabled bool    `koanf:"enabled"`
	Rate    float64 `koanf:"rate"`
}

// Categories returns the policy keyed by engine category name.
func (c ChaosConfig) Categories() map[string]CategoryConfig {
	return map[string]CategoryConfig{
		"tool_instability": c.Instability,
		"sloppiness":       c.Sloppiness,
		"rag_chaos":        c.RAG,
		"rate_limit":       c.RateLimit,
		"data_corruption":  c.Corruption,
	}
}

type DomainsConfig struct {
	Enabled []string `koanf:"enabled"`
}

type RAGConfig struct {
	Provider   string `koanf:"provider"` // inmemory, qdrant
	QdrantAddr string `koanf:"qdrant_addr"`
	Collection string `koanf:"collection"`
	Limit      int    `koanf:"limit"`
}

type JournalConfig struct {
	Path string `koanf:"path"`
}

// Global k instance
var k = koanf.New(".")

func Load(path string) (*Config, error) {
	// Defaults
	k.Set("log.level", "info")
	k.Set("log.format", "text")
	k.Set("telemetry.exporter", "stdout")

	k.Set("chaos.instability.rate", 0.25)
	k.Set("chaos.sloppiness.rate", 0.30)
	k.Set("chaos.rag.rate", 0.20)
	k.Set("chaos.ratelimit.rate", 0.15)
	k.Set("chaos.corruption.rate", 0.20)

	k.Set("domains.enabled", []string{"finance"})
	k.Set("rag.provider", "inmemory")
	k.Set("rag.qdrant_addr", "localhost:6334")
	k.Set("rag.collection", "typhon_knowledge")
	k.Set("rag.limit", 3)
	k.Set("journal.path", "typhon_faults.db")

	// 1. Load from file
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// 2. Load from ENV (TYPHON_CHAOS_INSTABILITY_RATE -> chaos.instability.rate)
	if err := k.Load(env.Provider("TYPHON_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "TYPHON_")), "_", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadWithProfile loads the base config then overlays a profile-specific
// file (config.dev.yaml next to config.yaml) when one exists.
func LoadWithProfile(path, profile string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	overlay := profileConfigPath(path, profile)
	if overlay == "" {
		return cfg, nil
	}
	if err := k.Load(file.Provider(overlay), yaml.Parser()); err != nil {
		return nil, err
	}

	var merged Config
	if err := k.Unmarshal("", &merged); err != nil {
		return nil, err
	}
	if err := merged.validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// LoadWithCLI parses --config/--profile/--env/--set flags from args and
// loads configuration with those overrides applied last.
func LoadWithCLI(args []string) (*Config, error) {
	path, profile, overrides, err := parseCLIOverrides(args)
	if err != nil {
		return nil, err
	}

	cfg, err := LoadWithProfile(path, profile)
	if err != nil {
		return nil, err
	}

	if len(overrides) == 0 {
		return cfg, nil
	}
	for key, value := range overrides {
		k.Set(key, value)
	}

	var merged Config
	if err := k.Unmarshal("", &merged); err != nil {
		return nil, err
	}
	if err := merged.validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

func parseCLIOverrides(args []string) (path, profile string, overrides map[string]any, err error) {
	overrides = make(map[string]any)

	next := func(i int, flag string) (string, error) {
		if i+1 >= len(args) {
			return "", fmt.Errorf("flag %s requires a value", flag)
		}
		return args[i+1], nil
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--config":
			if path, err = next(i, arg); err != nil {
				return "", "", nil, err
			}
			i++
		case strings.HasPrefix(arg, "--config="):
			path = strings.TrimPrefix(arg, "--config=")
		case arg == "--profile", arg == "--env":
			if profile, err = next(i, arg); err != nil {
				return "", "", nil, err
			}
			i++
		case strings.HasPrefix(arg, "--profile="):
			profile = strings.TrimPrefix(arg, "--profile=")
		case strings.HasPrefix(arg, "--env="):
			profile = strings.TrimPrefix(arg, "--env=")
		case arg == "--set":
			raw, err := next(i, arg)
			if err != nil {
				return "", "", nil, err
			}
			i++
			key, value, err := parseSetValue(raw)
			if err != nil {
				return "", "", nil, err
			}
			overrides[key] = value
		case strings.HasPrefix(arg, "--set="):
			key, value, err := parseSetValue(strings.TrimPrefix(arg, "--set="))
			if err != nil {
				return "", "", nil, err
			}
			overrides[key] = value
		}
	}
	return path, profile, overrides, nil
}

func parseSetValue(raw string) (string, any, error) {
	key, value, ok := strings.Cut(raw, "=")
	if !ok || key == "" {
		return "", nil, fmt.Errorf("invalid --set value %q, want key=value", raw)
	}
	// Coerce scalars so numeric and boolean overrides unmarshal cleanly.
	if b, err := strconv.ParseBool(value); err == nil {
		return key, b, nil
	}
	if n, err := strconv.ParseFloat(value, 64); err == nil {
		return key, n, nil
	}
	return key, value, nil
}

// profileConfigPath resolves the profile overlay next to the base config
// file, returning "" when there is nothing to overlay.
func profileConfigPath(base, profile string) string {
	if base == "" || profile == "" {
		return ""
	}
	dir := filepath.Dir(base)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(filepath.Base(base), ext)
	overlay := filepath.Join(dir, name+"."+profile+ext)
	if _, err := os.Stat(overlay); err != nil {
		return ""
	}
	return overlay
}

func (c *Config) validate() error {
	for name, cat := range c.Chaos.Categories() {
		if cat.Rate < 0 || cat.Rate > 1 {
			return typherr.New(typherr.CodeConfigError,
				fmt.Sprintf("chaos rate for %s must be within [0, 1], got %v", name, cat.Rate), nil).
				WithContext("category", name).
				WithContext("rate", cat.Rate)
		}
	}
	if c.RAG.Limit < 0 {
		return typherr.New(typherr.CodeConfigError,
			fmt.Sprintf("rag.limit must be non-negative, got %d", c.RAG.Limit), nil)
	}
	return nil
}
