package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"cloud-quote/core/types"
	"cloud-quote/internal/errors"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv(EnvDatabaseURL, "")
	t.Setenv(EnvLogLevel, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Catalog.Source != SourceFile || cfg.Engine.DefaultOptimizer != types.OptimizerCost {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv(EnvDatabaseURL, "")
	t.Setenv(EnvLogLevel, "")

	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg := Default()
	cfg.Engine.DefaultOptimizer = types.OptimizerCO2
	cfg.Engine.CurrencyRate = decimal.RequireFromString("0.92")
	cfg.Engine.TermPrefixes = []string{"on-demand"}
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Engine.DefaultOptimizer != types.OptimizerCO2 {
		t.Errorf("optimizer = %s", loaded.Engine.DefaultOptimizer)
	}
	if !loaded.Engine.CurrencyRate.Equal(decimal.RequireFromString("0.92")) {
		t.Errorf("currency rate = %s", loaded.Engine.CurrencyRate)
	}

	ec := loaded.EngineConfig()
	if ec.DefaultOptimizer != types.OptimizerCO2 || len(ec.TermPrefixes) != 1 || ec.Parallel != 4 {
		t.Errorf("engine config = %+v", ec)
	}
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv(EnvDatabaseURL, "")
	t.Setenv(EnvLogLevel, "")

	tests := []struct {
		name    string
		content string
	}{
		{"malformed json", "{"},
		{"unknown optimizer", `{"engine": {"default_optimizer": "speed"}}`},
		{"unknown source", `{"catalog": {"source": "s3"}}`},
		{"postgres without url", `{"catalog": {"source": "postgres"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if !errors.IsType(err, errors.TypeConfig) {
				t.Errorf("got %v, want config error", err)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	env := map[string]string{
		EnvDatabaseURL: "postgres://quote@localhost/catalog",
		EnvLogLevel:    "DEBUG",
	}
	cfg.ApplyEnv(func(k string) string { return env[k] })

	if cfg.Catalog.Source != SourcePostgres || cfg.Catalog.DatabaseURL != env[EnvDatabaseURL] {
		t.Errorf("catalog = %+v", cfg.Catalog)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %s", cfg.Logging.Level)
	}
}
