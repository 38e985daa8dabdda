// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"
	_ "time/tzdata" // Europe/Sofia must resolve on minimal hosts

	"github.com/caarlos0/env/v11"
)

// Supported database drivers.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
	"your-secret-key-change-in-production",
}

// DefaultAllowedOrigins are the origins the school frontend is served from.
var DefaultAllowedOrigins = []string{
	"https://nukgsz.com",
	"https://www.nukgsz.com",
	"http://localhost:5173",
	"http://localhost:3000",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	Env        string `env:"SCHOOL_ENV" envDefault:"development"`
	ServerHost string `env:"SCHOOL_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"SCHOOL_SERVER_PORT" envDefault:"3001"`
	LogLevel   string `env:"SCHOOL_LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"SCHOOL_LOG_FORMAT" envDefault:"text"`

	// Database
	DBDriver string `env:"SCHOOL_DB_DRIVER" envDefault:"sqlite"`
	DBPath   string `env:"SCHOOL_DB_PATH" envDefault:"./data/school.db"`
	DBDSN    string `env:"SCHOOL_DB_DSN"` // MySQL DSN, e.g. user:pass@tcp(host:3306)/school

	// Auth
	JWTSecret string        `env:"SCHOOL_JWT_SECRET,required"`
	JWTTTL    time.Duration `env:"SCHOOL_JWT_TTL" envDefault:"24h"`

	// Uploads and static files
	PublicDir      string   `env:"SCHOOL_PUBLIC_DIR" envDefault:"./public"`
	MaxUploadBytes int64    `env:"SCHOOL_MAX_UPLOAD_BYTES" envDefault:"524288000"`
	AllowedOrigins []string `env:"SCHOOL_ALLOWED_ORIGINS" envSeparator:","`

	Timezone string `env:"SCHOOL_TIMEZONE" envDefault:"Europe/Sofia"`

	// Login throttling (requests per second and burst per client IP)
	LoginRate  float64 `env:"SCHOOL_LOGIN_RATE" envDefault:"0.2"`
	LoginBurst int     `env:"SCHOOL_LOGIN_BURST" envDefault:"5"`

	// Seeding
	DoSeed        bool   `env:"SCHOOL_DO_SEED" envDefault:"false"`
	DemoMode      bool   `env:"SCHOOL_DEMO_MODE" envDefault:"false"`
	AdminUsername string `env:"SCHOOL_ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string `env:"SCHOOL_ADMIN_PASSWORD"`

	// Maintenance
	TokenPurgeSchedule string `env:"SCHOOL_TOKEN_PURGE_SCHEDULE" envDefault:"@hourly"`

	// GeoLite2-Country database for login audit logs, disabled when empty
	GeoIPDBPath string `env:"SCHOOL_GEOIP_DB_PATH"`

	location *time.Location
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// Location returns the configured time zone, UTC if it was never resolved.
func (c Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// DataSource returns the driver-specific connection string.
func (c Config) DataSource() string {
	if c.DBDriver == DriverMySQL {
		return c.DBDSN
	}
	return c.DBPath
}

// MinJWTSecretLength is the minimum accepted HS256 key length.
const MinJWTSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.JWTSecret) < MinJWTSecretLength {
		return fmt.Errorf("SCHOOL_JWT_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinJWTSecretLength, len(c.JWTSecret))
	}
	for _, weak := range knownWeakSecrets {
		if c.JWTSecret == weak {
			return fmt.Errorf("SCHOOL_JWT_SECRET is a known default value and must not be used")
		}
	}
	if !hasMinimumEntropy(c.JWTSecret) {
		slog.Warn("SCHOOL_JWT_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	switch c.DBDriver {
	case DriverSQLite:
	case DriverMySQL:
		if c.DBDSN == "" {
			return fmt.Errorf("SCHOOL_DB_DSN is required when SCHOOL_DB_DRIVER=mysql")
		}
	default:
		return fmt.Errorf("unsupported SCHOOL_DB_DRIVER %q (want %q or %q)", c.DBDriver, DriverSQLite, DriverMySQL)
	}

	if c.JWTTTL <= 0 {
		return fmt.Errorf("SCHOOL_JWT_TTL must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("SCHOOL_MAX_UPLOAD_BYTES must be positive")
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("loading SCHOOL_TIMEZONE %q: %w", c.Timezone, err)
	}
	c.location = loc

	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = slices.Clone(DefaultAllowedOrigins)
	}
	for i, o := range c.AllowedOrigins {
		c.AllowedOrigins[i] = strings.TrimRight(strings.TrimSpace(o), "/")
	}

	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
