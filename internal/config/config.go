package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds server configuration loaded from environment and flags.
type Config struct {
	RunAddress             string
	DatabaseURI            string
	AdminSecret            string
	AdminTokenTTL          time.Duration
	BootstrapAdminEmail    string
	BootstrapAdminPassword string
	AMQPURL                string
	PushExchange           string
	HeartbeatTimeout       time.Duration
	ShutdownTimeout        time.Duration
	AllowedOrigins         []string
	LogLevel               string
}

const (
	defaultRunAddress       = ":8080"
	defaultAdminSecret      = "change-me-in-production"
	defaultAdminTokenTTL    = 12 * time.Hour
	defaultPushExchange     = "notifications_fanout"
	defaultHeartbeatTimeout = 60 * time.Second
	defaultShutdownTimeout  = 10 * time.Second
	defaultAllowedOrigins   = "*"
	defaultLogLevel         = "info"
	defaultEnvFile          = ".env"
)

// Load parses configuration from flags, environment variables and an optional .env file.
func Load() (*Config, error) {
	if err := loadEnvFile(defaultEnvFile); err != nil {
		return nil, err
	}
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:             getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:            getString(lookup, "DATABASE_URI", ""),
		AdminSecret:            getString(lookup, "ADMIN_TOKEN_SECRET", defaultAdminSecret),
		AdminTokenTTL:          getDuration(lookup, "ADMIN_TOKEN_TTL", defaultAdminTokenTTL),
		BootstrapAdminEmail:    getString(lookup, "BOOTSTRAP_ADMIN_EMAIL", ""),
		BootstrapAdminPassword: getString(lookup, "BOOTSTRAP_ADMIN_PASSWORD", ""),
		AMQPURL:                getString(lookup, "AMQP_URL", ""),
		PushExchange:           getString(lookup, "PUSH_EXCHANGE", defaultPushExchange),
		HeartbeatTimeout:       getDuration(lookup, "WS_PONG_TIMEOUT", defaultHeartbeatTimeout),
		ShutdownTimeout:        getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		LogLevel:               getString(lookup, "LOG_LEVEL", defaultLogLevel),
	}
	origins := getString(lookup, "ALLOWED_ORIGINS", defaultAllowedOrigins)

	fs := flag.NewFlagSet("foodcourt", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		pongTimeoutStr     = cfg.HeartbeatTimeout.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		tokenTTLStr        = cfg.AdminTokenTTL.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.AdminSecret, "admin-secret", cfg.AdminSecret, "Secret for signing admin tokens")
	fs.StringVar(&tokenTTLStr, "token-ttl", tokenTTLStr, "Admin token lifetime")
	fs.StringVar(&cfg.AMQPURL, "amqp", cfg.AMQPURL, "RabbitMQ URL for push notifications")
	fs.StringVar(&pongTimeoutStr, "pong-timeout", pongTimeoutStr, "Drop live connections silent for this long")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.HeartbeatTimeout, err = time.ParseDuration(pongTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid pong timeout: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.AdminTokenTTL, err = time.ParseDuration(tokenTTLStr); err != nil {
		return nil, fmt.Errorf("invalid token ttl: %w", err)
	}

	if secretFile, ok := lookup("ADMIN_TOKEN_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read admin secret file: %w", err)
		}
		cfg.AdminSecret = strings.TrimSpace(string(content))
	}

	cfg.AllowedOrigins = splitList(origins)

	if cfg.HeartbeatTimeout <= 0 {
		cfg.HeartbeatTimeout = defaultHeartbeatTimeout
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.AdminTokenTTL <= 0 {
		cfg.AdminTokenTTL = defaultAdminTokenTTL
	}

	if cfg.PushExchange == "" {
		cfg.PushExchange = defaultPushExchange
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.AdminSecret == "" {
		return nil, fmt.Errorf("admin token secret must not be empty")
	}

	return cfg, nil
}

// loadEnvFile reads KEY=VALUE pairs into the process environment; variables already set win.
func loadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
