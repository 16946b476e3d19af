package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vango-dev/viewport/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Inspector.Port != DefaultPort {
		t.Errorf("Inspector.Port = %d, want %d", cfg.Inspector.Port, DefaultPort)
	}
	if cfg.Inspector.Host != DefaultHost {
		t.Errorf("Inspector.Host = %q, want %q", cfg.Inspector.Host, DefaultHost)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.Tracing.Enabled {
		t.Error("Tracing.Enabled = true, want false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Path() != "" {
		t.Errorf("Path() = %q, want empty", cfg.Path())
	}
	if got := cfg.Inspector.Addr(); got != "localhost:7070" {
		t.Errorf("Addr() = %q, want localhost:7070", got)
	}
	if cfg.Inspector.PushInterval != time.Second {
		t.Errorf("PushInterval = %v, want 1s", cfg.Inspector.PushInterval)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "viewport.yaml")
	data := `log:
  level: debug
  format: json
tracing:
  enabled: true
  exporter: none
inspector:
  port: 8081
  push_interval: 250ms
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v, want debug/json", cfg.Log)
	}
	if !cfg.Tracing.Enabled || cfg.Tracing.Exporter != "none" {
		t.Errorf("Tracing = %+v", cfg.Tracing)
	}
	if cfg.Inspector.Port != 8081 {
		t.Errorf("Inspector.Port = %d, want 8081", cfg.Inspector.Port)
	}
	if cfg.Inspector.Host != DefaultHost {
		t.Errorf("Inspector.Host = %q, want default", cfg.Inspector.Host)
	}
	if cfg.Inspector.PushInterval != 250*time.Millisecond {
		t.Errorf("PushInterval = %v, want 250ms", cfg.Inspector.PushInterval)
	}
	if cfg.Tracing.ServiceName != "viewport" {
		t.Errorf("Tracing.ServiceName = %q, want default", cfg.Tracing.ServiceName)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q, want %q", cfg.Path(), path)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("VIEWPORT_INSPECTOR_PORT", "9000")
	t.Setenv("VIEWPORT_LOG_LEVEL", "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Inspector.Port != 9000 {
		t.Errorf("Inspector.Port = %d, want 9000", cfg.Inspector.Port)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("log: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("inspector:\n  port: 70000\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		code string
	}{
		{"missing", filepath.Join(dir, "nope.yaml"), "E141"},
		{"malformed", bad, "E120"},
		{"out of range", invalid, "E122"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			if err == nil {
				t.Fatal("Load() error = nil")
			}
			if got := errors.CodeOf(err); got != tt.code {
				t.Errorf("code = %q, want %q (%v)", got, tt.code, err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
		{"port", func(c *Config) { c.Inspector.Port = -1 }},
		{"push interval", func(c *Config) { c.Inspector.PushInterval = 0 }},
		{"exporter", func(c *Config) { c.Tracing.Exporter = "jaeger" }},
		{"sample rate", func(c *Config) { c.Tracing.SampleRate = 2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			if got := errors.CodeOf(cfg.Validate()); got != "E122" {
				t.Errorf("Validate() code = %q, want E122", got)
			}
		})
	}
}
