package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Server
	Port    string
	AppName string

	// Database (optional; empty disables the audit trail)
	DatabaseURL string

	// GitHub
	GitHubAPIURL  string
	GitHubTimeout time.Duration

	// Sessions
	SessionReapInterval time.Duration

	// Annotation
	AnnotateExclude     []string
	AnnotateChangedOnly bool

	// MCP
	MCPEnabled bool
	MCPPort    string

	// Frontend
	FrontendURL string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:    envOrDefault("PORT", "3001"),
		AppName: envOrDefault("APP_NAME", "Commit Annotator"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		GitHubAPIURL:  envOrDefault("GITHUB_API_URL", "https://api.github.com"),
		GitHubTimeout: time.Duration(envOrDefaultInt("GITHUB_TIMEOUT_SECONDS", 30)) * time.Second,

		SessionReapInterval: time.Duration(envOrDefaultInt("SESSION_REAP_INTERVAL_SECONDS", 300)) * time.Second,

		AnnotateExclude:     splitList(os.Getenv("ANNOTATE_EXCLUDE")),
		AnnotateChangedOnly: envOrDefaultBool("ANNOTATE_CHANGED_ONLY", false),

		MCPEnabled: envOrDefaultBool("MCP_ENABLED", true),
		MCPPort:    envOrDefault("MCP_PORT", "3002"),

		FrontendURL: envOrDefault("FRONTEND_URL", "http://localhost:3000"),

		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "text"),
	}
}

// AuditEnabled reports whether a database is configured.
func (c *Config) AuditEnabled() bool {
	return c.DatabaseURL != ""
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func (c *Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(c.LogLevel)}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// splitList parses a comma separated list, dropping blanks.
func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return fallback
}

func envOrDefaultBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}
