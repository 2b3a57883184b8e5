package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"strconv"
)

// Config holds all configurable server parameters.
type Config struct {
	WSPort        int `json:"ws_port"`
	MaxNameLength int `json:"max_name_length"`

	// WinningScore ends the game once either team reaches it.
	WinningScore int `json:"winning_score"`

	// ActionBuffer is the capacity of each room's action channel.
	ActionBuffer int `json:"action_buffer"`

	// AuthBaseURL enables join-token validation against <AuthBaseURL>/.well-known/jwks.json. Empty disables it.
	AuthBaseURL string `json:"auth_base_url"`

	// DatabaseURL enables Postgres history. Empty disables persistence.
	DatabaseURL string `json:"database_url"`

	LogLevel  string `json:"log_level"`  // debug, info, warn, error
	LogFormat string `json:"log_format"` // compact or pretty
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		WSPort:        8080,
		MaxNameLength: 24,
		WinningScore:  150,
		ActionBuffer:  16,
		LogLevel:      "info",
		LogFormat:     "compact",
	}
}

// Load reads configuration from an optional JSON file at path (config.json when path is empty),
// then applies environment variable overrides. Fields not set in either source retain their
// default values.
func Load(path string) *Config {
	cfg := Defaults()

	if path == "" {
		path = "config.json"
	}
	if f, err := os.Open(path); err == nil {
		defer f.Close()
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			slog.Warn("failed to parse config file", "tag", "config", "path", path, "err", err)
		}
	}

	overrideInt(&cfg.WSPort, "WS_PORT")
	overrideInt(&cfg.MaxNameLength, "MAX_NAME_LENGTH")
	overrideInt(&cfg.WinningScore, "WINNING_SCORE")
	overrideInt(&cfg.ActionBuffer, "ACTION_BUFFER")
	overrideString(&cfg.AuthBaseURL, "AUTH_BASE_URL")
	overrideString(&cfg.DatabaseURL, "DATABASE_URL")
	overrideString(&cfg.LogLevel, "LOG_LEVEL")
	overrideString(&cfg.LogFormat, "LOG_FORMAT")

	return cfg
}

// SlogLevel maps LogLevel to a slog level; unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func overrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*field = n
		} else {
			slog.Warn("invalid integer in environment", "tag", "config", "key", envKey, "value", val)
		}
	}
}

func overrideString(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}
