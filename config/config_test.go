package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.WSPort != 8080 {
		t.Errorf("expected WSPort=8080, got %d", cfg.WSPort)
	}
	if cfg.MaxNameLength != 24 {
		t.Errorf("expected MaxNameLength=24, got %d", cfg.MaxNameLength)
	}
	if cfg.WinningScore != 150 {
		t.Errorf("expected WinningScore=150, got %d", cfg.WinningScore)
	}
	if cfg.ActionBuffer != 16 {
		t.Errorf("expected ActionBuffer=16, got %d", cfg.ActionBuffer)
	}
	if cfg.AuthBaseURL != "" || cfg.DatabaseURL != "" {
		t.Errorf("expected auth and database disabled by default, got %q / %q", cfg.AuthBaseURL, cfg.DatabaseURL)
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("WS_PORT", "9090")
	t.Setenv("WINNING_SCORE", "200")
	t.Setenv("DATABASE_URL", "postgres://localhost/goita")

	cfg := Load(filepath.Join(t.TempDir(), "missing.json"))

	if cfg.WSPort != 9090 {
		t.Errorf("expected WSPort=9090 after env override, got %d", cfg.WSPort)
	}
	if cfg.WinningScore != 200 {
		t.Errorf("expected WinningScore=200 after env override, got %d", cfg.WinningScore)
	}
	if cfg.DatabaseURL != "postgres://localhost/goita" {
		t.Errorf("expected DatabaseURL from env, got %q", cfg.DatabaseURL)
	}
	// Non-overridden fields should remain default
	if cfg.MaxNameLength != 24 {
		t.Errorf("expected MaxNameLength=24 (default), got %d", cfg.MaxNameLength)
	}
}

func TestLoadWithInvalidEnv(t *testing.T) {
	t.Setenv("WINNING_SCORE", "invalid")

	cfg := Load(filepath.Join(t.TempDir(), "missing.json"))

	if cfg.WinningScore != 150 {
		t.Errorf("expected WinningScore=150 (default) with invalid env, got %d", cfg.WinningScore)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"ws_port": 7000, "winning_score": 100}`), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := Load(path)

	if cfg.WSPort != 7000 {
		t.Errorf("expected WSPort=7000 from file, got %d", cfg.WSPort)
	}
	if cfg.WinningScore != 100 {
		t.Errorf("expected WinningScore=100 from file, got %d", cfg.WinningScore)
	}
	if cfg.MaxNameLength != 24 {
		t.Errorf("expected MaxNameLength=24 (default), got %d", cfg.MaxNameLength)
	}
}

func TestSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"bogus": slog.LevelInfo,
	}
	for in, want := range cases {
		cfg := &Config{LogLevel: in}
		if got := cfg.SlogLevel(); got != want {
			t.Errorf("LogLevel %q: expected %v, got %v", in, want, got)
		}
	}
}
