package config

import (
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// ClientConfig configures the ordertail terminal client.
type ClientConfig struct {
	BaseURL           string
	Role              string
	UserID            string
	UserEmail         string
	AdminToken        string
	PollInterval      time.Duration
	Serverless        *bool
	HeartbeatInterval time.Duration
	HeartbeatTimeout  time.Duration
	ConnectTimeout    time.Duration
	FailureWarnAfter  int
	LogLevel          string
}

const (
	defaultRole              = "user"
	defaultPollInterval      = 5 * time.Second
	defaultHeartbeatInterval = 25 * time.Second
	defaultProbeTimeout      = 5 * time.Second
	defaultConnectTimeout    = 10 * time.Second
	defaultFailureWarnAfter  = 5
)

// LoadClient parses client configuration from flags and environment variables.
func LoadClient() (*ClientConfig, error) {
	if err := loadEnvFile(defaultEnvFile); err != nil {
		return nil, err
	}
	return loadClient(os.Args[1:], os.LookupEnv)
}

func loadClient(args []string, lookup envLookup) (*ClientConfig, error) {
	cfg := &ClientConfig{
		BaseURL:           getString(lookup, "ORDERTAIL_URL", ""),
		Role:              getString(lookup, "ORDERTAIL_ROLE", defaultRole),
		UserID:            getString(lookup, "ORDERTAIL_USER_ID", ""),
		UserEmail:         getString(lookup, "ORDERTAIL_USER_EMAIL", ""),
		AdminToken:        getString(lookup, "ORDERTAIL_ADMIN_TOKEN", ""),
		PollInterval:      getDuration(lookup, "ORDERTAIL_POLL_INTERVAL", defaultPollInterval),
		HeartbeatInterval: getDuration(lookup, "ORDERTAIL_PING_INTERVAL", defaultHeartbeatInterval),
		HeartbeatTimeout:  getDuration(lookup, "ORDERTAIL_PING_TIMEOUT", defaultProbeTimeout),
		ConnectTimeout:    getDuration(lookup, "ORDERTAIL_CONNECT_TIMEOUT", defaultConnectTimeout),
		FailureWarnAfter:  getInt(lookup, "ORDERTAIL_WARN_AFTER", defaultFailureWarnAfter),
		LogLevel:          getString(lookup, "LOG_LEVEL", defaultLogLevel),
	}
	serverless := getString(lookup, "ORDERTAIL_SERVERLESS", "")

	fs := flag.NewFlagSet("ordertail", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		pollStr    = cfg.PollInterval.String()
		pingStr    = cfg.HeartbeatInterval.String()
		timeoutStr = cfg.HeartbeatTimeout.String()
		connectStr = cfg.ConnectTimeout.String()
	)

	fs.StringVar(&cfg.BaseURL, "u", cfg.BaseURL, "Order service base URL")
	fs.StringVar(&cfg.Role, "role", cfg.Role, "Viewer role (admin or user)")
	fs.StringVar(&cfg.UserID, "user-id", cfg.UserID, "Customer id")
	fs.StringVar(&cfg.UserEmail, "email", cfg.UserEmail, "Customer email")
	fs.StringVar(&cfg.AdminToken, "token", cfg.AdminToken, "Admin bearer token")
	fs.StringVar(&pollStr, "poll-interval", pollStr, "Interval between snapshot polls")
	fs.StringVar(&serverless, "serverless", serverless, "Force polling mode (true/false); derived from host when unset")
	fs.StringVar(&pingStr, "ping-interval", pingStr, "Heartbeat probe interval")
	fs.StringVar(&timeoutStr, "ping-timeout", timeoutStr, "Heartbeat probe timeout")
	fs.StringVar(&connectStr, "connect-timeout", connectStr, "Connection establishment timeout")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.PollInterval, err = time.ParseDuration(pollStr); err != nil {
		return nil, fmt.Errorf("invalid poll interval: %w", err)
	}
	if cfg.HeartbeatInterval, err = time.ParseDuration(pingStr); err != nil {
		return nil, fmt.Errorf("invalid ping interval: %w", err)
	}
	if cfg.HeartbeatTimeout, err = time.ParseDuration(timeoutStr); err != nil {
		return nil, fmt.Errorf("invalid ping timeout: %w", err)
	}
	if cfg.ConnectTimeout, err = time.ParseDuration(connectStr); err != nil {
		return nil, fmt.Errorf("invalid connect timeout: %w", err)
	}

	if serverless != "" {
		v, err := strconv.ParseBool(serverless)
		if err != nil {
			return nil, fmt.Errorf("invalid serverless flag: %w", err)
		}
		cfg.Serverless = &v
	}

	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = defaultHeartbeatInterval
	}
	if cfg.HeartbeatTimeout <= 0 {
		cfg.HeartbeatTimeout = defaultProbeTimeout
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}
	if cfg.FailureWarnAfter <= 0 {
		cfg.FailureWarnAfter = defaultFailureWarnAfter
	}

	cfg.Role = strings.ToLower(strings.TrimSpace(cfg.Role))
	if cfg.Role != "admin" && cfg.Role != "user" {
		return nil, fmt.Errorf("unknown role %q", cfg.Role)
	}

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL must be provided")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", cfg.BaseURL)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.Role == "user" && cfg.UserID == "" && cfg.UserEmail == "" {
		return nil, fmt.Errorf("user role needs a user id or email")
	}

	return cfg, nil
}
