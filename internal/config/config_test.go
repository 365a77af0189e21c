package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MikeSquared-Agency/Optimiser/internal/weights"
)

var envVars = []string{
	"OPTIMISER_PORT", "OPTIMISER_METRICS_PORT", "OPTIMISER_ADMIN_TOKEN",
	"OPTIMISER_DATABASE_DRIVER", "OPTIMISER_DATABASE_URL", "OPTIMISER_HERMES_URL",
	"OPTIMISER_WORDPRESS_URL", "OPTIMISER_WORDPRESS_USERNAME", "OPTIMISER_WORDPRESS_APP_PASSWORD",
	"OPTIMISER_ANALYSIS_PARALLELISM", "OPTIMISER_ANALYSIS_TIMEOUT_MS", "OPTIMISER_SKIP_UNCHANGED",
	"OPTIMISER_LOG_LEVEL", "OPTIMISER_LOG_FORMAT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envVars {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8700 {
		t.Errorf("expected port 8700, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 8701 {
		t.Errorf("expected metrics port 8701, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("expected postgres driver, got %s", cfg.Database.Driver)
	}
	if cfg.Hermes.URL != "nats://localhost:4222" {
		t.Errorf("expected nats URL, got %s", cfg.Hermes.URL)
	}
	if cfg.Analysis.Parallelism != 4 {
		t.Errorf("expected parallelism 4, got %d", cfg.Analysis.Parallelism)
	}
	if !cfg.Analysis.SkipUnchanged {
		t.Error("expected skip_unchanged=true by default")
	}
	if cfg.Cache.Documents != 256 {
		t.Errorf("expected 256 cached documents, got %d", cfg.Cache.Documents)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging defaults %+v", cfg.Logging)
	}

	if cfg.AnalysisTimeout() != time.Minute {
		t.Errorf("expected AnalysisTimeout 1m, got %v", cfg.AnalysisTimeout())
	}
	if cfg.CacheTTL() != 10*time.Minute {
		t.Errorf("expected CacheTTL 10m, got %v", cfg.CacheTTL())
	}
	if cfg.WordPressTimeout() != 10*time.Second {
		t.Errorf("expected WordPressTimeout 10s, got %v", cfg.WordPressTimeout())
	}

	w, err := cfg.WeightRegistry()
	if err != nil {
		t.Fatalf("WeightRegistry: %v", err)
	}
	if got, want := w.Get(weights.NamespaceContext, "technical_seo"), weights.MustDefault().Get(weights.NamespaceContext, "technical_seo"); got != want {
		t.Errorf("expected default context weight %v, got %v", want, got)
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPTIMISER_PORT", "9000")
	t.Setenv("OPTIMISER_METRICS_PORT", "9001")
	t.Setenv("OPTIMISER_ADMIN_TOKEN", "secret-token")
	t.Setenv("OPTIMISER_DATABASE_DRIVER", "sqlite")
	t.Setenv("OPTIMISER_DATABASE_URL", "/tmp/optimiser.db")
	t.Setenv("OPTIMISER_HERMES_URL", "nats://nats:4222")
	t.Setenv("OPTIMISER_WORDPRESS_URL", "https://site.example")
	t.Setenv("OPTIMISER_WORDPRESS_USERNAME", "editor")
	t.Setenv("OPTIMISER_WORDPRESS_APP_PASSWORD", "abcd efgh")
	t.Setenv("OPTIMISER_ANALYSIS_PARALLELISM", "8")
	t.Setenv("OPTIMISER_ANALYSIS_TIMEOUT_MS", "5000")
	t.Setenv("OPTIMISER_SKIP_UNCHANGED", "false")
	t.Setenv("OPTIMISER_LOG_LEVEL", "debug")
	t.Setenv("OPTIMISER_LOG_FORMAT", "text")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9000 || cfg.Server.MetricsPort != 9001 {
		t.Errorf("unexpected ports %d/%d", cfg.Server.Port, cfg.Server.MetricsPort)
	}
	if cfg.Server.AdminToken != "secret-token" {
		t.Errorf("expected admin token 'secret-token', got '%s'", cfg.Server.AdminToken)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.URL != "/tmp/optimiser.db" {
		t.Errorf("unexpected database %+v", cfg.Database)
	}
	if cfg.Hermes.URL != "nats://nats:4222" {
		t.Errorf("expected hermes URL, got '%s'", cfg.Hermes.URL)
	}
	if cfg.WordPress.URL != "https://site.example" || cfg.WordPress.Username != "editor" || cfg.WordPress.AppPassword != "abcd efgh" {
		t.Errorf("unexpected wordpress %+v", cfg.WordPress)
	}
	if cfg.Analysis.Parallelism != 8 {
		t.Errorf("expected parallelism 8, got %d", cfg.Analysis.Parallelism)
	}
	if cfg.AnalysisTimeout() != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", cfg.AnalysisTimeout())
	}
	if cfg.Analysis.SkipUnchanged {
		t.Error("expected skip_unchanged disabled")
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "text" {
		t.Errorf("unexpected logging %+v", cfg.Logging)
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "optimiser.yaml")
	data := `
server:
  port: 7000
database:
  driver: sqlite
  url: ./optimiser.db
weights:
  context:
    media: 0.5
  operation:
    external_links: 0
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("expected port 7000, got %d", cfg.Server.Port)
	}
	// untouched sections keep their defaults
	if cfg.Server.MetricsPort != 8701 {
		t.Errorf("expected metrics port 8701, got %d", cfg.Server.MetricsPort)
	}

	w, err := cfg.WeightRegistry()
	if err != nil {
		t.Fatalf("WeightRegistry: %v", err)
	}
	if got := w.Get(weights.NamespaceContext, "media"); got != 0.5 {
		t.Errorf("expected media weight 0.5, got %v", got)
	}
	if got := w.Get(weights.NamespaceOperation, "external_links"); got != 0 {
		t.Errorf("expected external_links weight 0, got %v", got)
	}
	if got := w.Get(weights.NamespaceOperation, "internal_links"); got != 0.6 {
		t.Errorf("expected default internal_links weight 0.6, got %v", got)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	clearEnv(t)

	t.Setenv("OPTIMISER_DATABASE_DRIVER", "mysql")
	if _, err := Load(""); err == nil {
		t.Error("expected error for unknown driver")
	}

	t.Setenv("OPTIMISER_DATABASE_DRIVER", "")
	os.Unsetenv("OPTIMISER_DATABASE_DRIVER")
	t.Setenv("OPTIMISER_ANALYSIS_PARALLELISM", "0")
	if _, err := Load(""); err == nil {
		t.Error("expected error for zero parallelism")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
