package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.URL == "" {
		t.Error("Database.URL default missing")
	}
	if cfg.Database.MaxConns != 10 || cfg.Database.MinConns != 2 {
		t.Errorf("pool defaults = %d/%d", cfg.Database.MaxConns, cfg.Database.MinConns)
	}
	if cfg.Cache.URL != "" {
		t.Errorf("Cache.URL = %q, want disabled by default", cfg.Cache.URL)
	}
	if cfg.Content.Root != "ops/seed" {
		t.Errorf("Content.Root = %q", cfg.Content.Root)
	}
	if cfg.Content.BackupDir != "ops/seed/.backups" {
		t.Errorf("Content.BackupDir = %q, want derived from root", cfg.Content.BackupDir)
	}
	if cfg.Content.JCode != "CA" || cfg.Content.CourseCode != "DE-ONLINE" {
		t.Errorf("identity defaults = %s/%s", cfg.Content.JCode, cfg.Content.CourseCode)
	}
	if cfg.Seed.UpdateExisting {
		t.Error("Seed.UpdateExisting should default to false")
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("log defaults = %s/%s", cfg.Log.Level, cfg.Log.Format)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SEED_DATABASE_URL", "postgres://app:secret@db:5432/content")
	t.Setenv("SEED_DATABASE_MAX_CONNS", "25")
	t.Setenv("SEED_CACHE_URL", "redis://localhost:6379/1")
	t.Setenv("SEED_CONTENT_ROOT", "/data/content")
	t.Setenv("SEED_DEFAULT_J_CODE", "TX")
	t.Setenv("SEED_UPDATE_EXISTING", "true")
	t.Setenv("SEED_LOG_FORMAT", "json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.URL != "postgres://app:secret@db:5432/content" {
		t.Errorf("Database.URL = %q", cfg.Database.URL)
	}
	if cfg.Database.MaxConns != 25 {
		t.Errorf("MaxConns = %d", cfg.Database.MaxConns)
	}
	if cfg.Cache.URL != "redis://localhost:6379/1" {
		t.Errorf("Cache.URL = %q", cfg.Cache.URL)
	}
	if cfg.Content.BackupDir != "/data/content/.backups" {
		t.Errorf("BackupDir = %q, want derived from overridden root", cfg.Content.BackupDir)
	}
	if cfg.Content.JCode != "TX" {
		t.Errorf("JCode = %q", cfg.Content.JCode)
	}
	if !cfg.Seed.UpdateExisting {
		t.Error("UpdateExisting not read from environment")
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q", cfg.Log.Format)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty content root", func(c *Config) { c.Content.Root = "" }, "SEED_CONTENT_ROOT"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "SEED_LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "SEED_LOG_FORMAT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(cfg)
			err = cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want mention of %s", err, tt.want)
			}
		})
	}
}
