package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"seconds", "30s", 30 * time.Second, false},
		{"minutes", "5m", 5 * time.Minute, false},
		{"hours", "2h", 2 * time.Hour, false},
		{"complex", "1h30m", 90 * time.Minute, false},
		{"milliseconds", "100ms", 100 * time.Millisecond, false},
		{"invalid", "invalid", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))

			if (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalText() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr && d.Duration != tt.expected {
				t.Errorf("UnmarshalText() = %v, want %v", d.Duration, tt.expected)
			}
		})
	}
}

func TestDuration_MarshalText(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{"seconds", 30 * time.Second, "30s"},
		{"minutes", 5 * time.Minute, "5m0s"},
		{"hours", 2 * time.Hour, "2h0m0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Duration{tt.duration}
			result, err := d.MarshalText()

			if err != nil {
				t.Errorf("MarshalText() error = %v", err)
				return
			}

			if string(result) != tt.expected {
				t.Errorf("MarshalText() = %v, want %v", string(result), tt.expected)
			}
		})
	}
}

func TestConfig_applyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	// General defaults
	if cfg.General.Name != "Lavoisier" {
		t.Errorf("General.Name = %v, want Lavoisier", cfg.General.Name)
	}
	if cfg.General.Environment != "development" {
		t.Errorf("General.Environment = %v, want development", cfg.General.Environment)
	}
	if cfg.General.DataDir != "./data" {
		t.Errorf("General.DataDir = %v, want ./data", cfg.General.DataDir)
	}
	if cfg.General.LogLevel != "info" {
		t.Errorf("General.LogLevel = %v, want info", cfg.General.LogLevel)
	}

	// Lavoisier defaults
	if cfg.Lavoisier.MaxInputLength != 4096 {
		t.Errorf("Lavoisier.MaxInputLength = %v, want 4096", cfg.Lavoisier.MaxInputLength)
	}
	if cfg.Lavoisier.Arrow != "->" {
		t.Errorf("Lavoisier.Arrow = %v, want ->", cfg.Lavoisier.Arrow)
	}
	if !cfg.Lavoisier.VerifyEnabled() {
		t.Error("Lavoisier.VerifyEnabled() = false, want true")
	}

	// Server defaults
	if cfg.Server.GRPCPort != 9310 {
		t.Errorf("Server.GRPCPort = %v, want 9310", cfg.Server.GRPCPort)
	}
	if cfg.Server.ReadTimeout.Duration != 15*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 15s", cfg.Server.ReadTimeout.Duration)
	}

	// Cache and history defaults
	if cfg.Cache.TTL.Duration != 10*time.Minute {
		t.Errorf("Cache.TTL = %v, want 10m", cfg.Cache.TTL.Duration)
	}
	if cfg.History.Path != filepath.Join("./data", "history.db") {
		t.Errorf("History.Path = %v", cfg.History.Path)
	}
	if cfg.History.Limit != 50 {
		t.Errorf("History.Limit = %v, want 50", cfg.History.Limit)
	}
}

func TestConfig_Address(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	tests := []struct {
		kind     string
		expected string
	}{
		{"grpc", "0.0.0.0:9310"},
		{"http", "0.0.0.0:8310"},
		{"unknown", ""},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			result := cfg.Address(tt.kind)
			if result != tt.expected {
				t.Errorf("Address(%q) = %v, want %v", tt.kind, result, tt.expected)
			}
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.toml")
	if err == nil {
		t.Error("Load() expected error for non-existent file")
	}
}

func TestLoad_InvalidToml(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[general\nname ="), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	if _, err := Load(configPath); err == nil {
		t.Error("Load() expected a parse error")
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	// Create temp config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	configContent := `
[general]
name = "TestLavoisier"
environment = "test"

[lavoisier]
arrow = "→"
explicit_ones = true
verify = false

[server]
host = "127.0.0.1"
grpc_port = 9999

[cache]
enabled = true
ttl = "30s"

[history]
path = "/tmp/lavoisier-test.db"
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.General.Name != "TestLavoisier" {
		t.Errorf("General.Name = %v, want TestLavoisier", cfg.General.Name)
	}
	if cfg.Lavoisier.Arrow != "→" || !cfg.Lavoisier.ExplicitOnes {
		t.Errorf("Lavoisier = %+v", cfg.Lavoisier)
	}
	if cfg.Lavoisier.VerifyEnabled() {
		t.Error("Lavoisier.VerifyEnabled() = true, want false")
	}
	if cfg.Address("grpc") != "127.0.0.1:9999" {
		t.Errorf("Address(grpc) = %v, want 127.0.0.1:9999", cfg.Address("grpc"))
	}
	if !cfg.Cache.Enabled || cfg.Cache.TTL.Duration != 30*time.Second {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.History.Enabled {
		t.Error("History.Enabled should stay false when not set in the file")
	}
	if cfg.History.Path != "/tmp/lavoisier-test.db" {
		t.Errorf("History.Path = %v", cfg.History.Path)
	}

	// Check defaults were applied for missing values
	if cfg.Server.HTTPPort != 8310 {
		t.Errorf("Server.HTTPPort = %v, want 8310 (default)", cfg.Server.HTTPPort)
	}
}

func TestConfig_expandEnvVars(t *testing.T) {
	t.Setenv("LAVOISIER_TEST_DIR", "/var/lib/lavoisier")

	cfg := &Config{
		History: HistoryConfig{Path: "$LAVOISIER_TEST_DIR/history.db"},
	}

	cfg.expandEnvVars()

	if cfg.History.Path != "/var/lib/lavoisier/history.db" {
		t.Errorf("History.Path = %v, want /var/lib/lavoisier/history.db", cfg.History.Path)
	}
}

func TestLoadFromEnv_ExplicitPath(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "custom.toml")
	if err := os.WriteFile(configPath, []byte("[general]\nlog_level = \"debug\"\n"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	t.Setenv(EnvVar, configPath)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.General.LogLevel != "debug" {
		t.Errorf("General.LogLevel = %v, want debug", cfg.General.LogLevel)
	}

	t.Setenv(EnvVar, filepath.Join(t.TempDir(), "missing.toml"))
	if _, err := LoadFromEnv(); err == nil {
		t.Error("LoadFromEnv() expected error for a missing explicit path")
	}
}

func TestLoadFromEnv_NoConfigFound(t *testing.T) {
	t.Setenv(EnvVar, "")
	t.Setenv("HOME", t.TempDir())

	// Change to a temp directory without config files
	originalWd, _ := os.Getwd()
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	defer os.Chdir(originalWd)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if !cfg.Cache.Enabled || !cfg.History.Enabled {
		t.Error("Default() should enable cache and history")
	}
	if cfg.General.Name != "Lavoisier" {
		t.Errorf("General.Name = %v, want Lavoisier", cfg.General.Name)
	}
}
