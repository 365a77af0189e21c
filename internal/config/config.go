package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Optimiser/internal/weights"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Hermes    HermesConfig    `yaml:"hermes"`
	WordPress WordPressConfig `yaml:"wordpress"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Cache     CacheConfig     `yaml:"cache"`
	Weights   WeightsConfig   `yaml:"weights"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	AdminToken  string `yaml:"admin_token"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	URL    string `yaml:"url"`
}

type HermesConfig struct {
	URL string `yaml:"url"`
}

type WordPressConfig struct {
	URL           string `yaml:"url"`
	Username      string `yaml:"username"`
	AppPassword   string `yaml:"app_password"`
	TimeoutMs     int    `yaml:"timeout_ms"`
	FetchRendered bool   `yaml:"fetch_rendered"`
}

type AnalysisConfig struct {
	Parallelism   int  `yaml:"parallelism"`
	TimeoutMs     int  `yaml:"timeout_ms"`
	SkipUnchanged bool `yaml:"skip_unchanged"`
}

type CacheConfig struct {
	Documents int `yaml:"documents"`
	TTLMs     int `yaml:"ttl_ms"`
}

// WeightsConfig overrides entries of the shipped weight table. Missing ids
// keep their default.
type WeightsConfig struct {
	Context   map[string]float64 `yaml:"context"`
	Factor    map[string]float64 `yaml:"factor"`
	Operation map[string]float64 `yaml:"operation"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) AnalysisTimeout() time.Duration {
	return time.Duration(c.Analysis.TimeoutMs) * time.Millisecond
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLMs) * time.Millisecond
}

func (c *Config) WordPressTimeout() time.Duration {
	return time.Duration(c.WordPress.TimeoutMs) * time.Millisecond
}

// WeightRegistry builds the shipped weights with the configured overrides
// applied on top.
func (c *Config) WeightRegistry() (*weights.Registry, error) {
	return weights.New(weights.Overrides{
		weights.NamespaceContext:   c.Weights.Context,
		weights.NamespaceFactor:    c.Weights.Factor,
		weights.NamespaceOperation: c.Weights.Operation,
	})
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
		},
		Database: DatabaseConfig{
			Driver: "postgres",
		},
		Hermes: HermesConfig{
			URL: "nats://localhost:4222",
		},
		WordPress: WordPressConfig{
			URL:       "http://localhost:8080",
			TimeoutMs: 10000,
		},
		Analysis: AnalysisConfig{
			Parallelism:   4,
			TimeoutMs:     60000,
			SkipUnchanged: true,
		},
		Cache: CacheConfig{
			Documents: 256,
			TTLMs:     600000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("config: unknown database driver %q", c.Database.Driver)
	}
	if c.Analysis.Parallelism < 1 {
		return fmt.Errorf("config: analysis.parallelism must be at least 1, got %d", c.Analysis.Parallelism)
	}
	if c.Analysis.TimeoutMs <= 0 {
		return fmt.Errorf("config: analysis.timeout_ms must be positive")
	}
	if _, err := c.WeightRegistry(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("OPTIMISER_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("OPTIMISER_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("OPTIMISER_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("OPTIMISER_DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("OPTIMISER_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("OPTIMISER_HERMES_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("OPTIMISER_WORDPRESS_URL"); v != "" {
		cfg.WordPress.URL = v
	}
	if v := os.Getenv("OPTIMISER_WORDPRESS_USERNAME"); v != "" {
		cfg.WordPress.Username = v
	}
	if v := os.Getenv("OPTIMISER_WORDPRESS_APP_PASSWORD"); v != "" {
		cfg.WordPress.AppPassword = v
	}
	if v := os.Getenv("OPTIMISER_ANALYSIS_PARALLELISM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.Parallelism = n
		}
	}
	if v := os.Getenv("OPTIMISER_ANALYSIS_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.TimeoutMs = n
		}
	}
	if v := os.Getenv("OPTIMISER_SKIP_UNCHANGED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Analysis.SkipUnchanged = b
		}
	}
	if v := os.Getenv("OPTIMISER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("OPTIMISER_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
