package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	Issuer         string        // Issuer claim for session tokens (default: findit-portal)
	SessionTTL     time.Duration // Session token lifetime (default: 8h)
	SigningKeyFile string        // Optional: PEM Ed25519 key, generated when missing. Empty means ephemeral.
	PepperFile     string        // Path to the password pepper file (default: ./pepper)

	DatabaseDriver string // sqlite or postgres (default: sqlite)
	DatabaseFile   string // SQLite database file (default: ./portal.db)
	DatabaseURL    string // Postgres DSN, required when DatabaseDriver is postgres

	LockoutMaxFailures int           // Consecutive failures before locking (default: 5)
	LockoutDuration    time.Duration // How long a lock lasts (default: 15m)

	// Optional first staff identity, created at startup when all three are set.
	BootstrapHandle   string
	BootstrapEmail    string
	BootstrapPassword string

	// Proxies whose X-Forwarded-For and X-Real-IP headers are believed,
	// as addresses or CIDR ranges. Empty trusts nobody.
	TrustedProxies []string

	SentryDSN           string        // Optional: error reporting
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// fileConfig is the optional TOML file named by PORTAL_CONFIG_FILE. Its
// values replace the built-in defaults; environment variables still win.
type fileConfig struct {
	Issuer         string `toml:"issuer"`
	SessionTTL     string `toml:"session_ttl"`
	SigningKeyFile string `toml:"signing_key_file"`
	PepperFile     string `toml:"pepper_file"`

	Database struct {
		Driver string `toml:"driver"`
		File   string `toml:"file"`
		URL    string `toml:"url"`
	} `toml:"database"`

	Lockout struct {
		MaxFailures int    `toml:"max_failures"`
		Duration    string `toml:"duration"`
	} `toml:"lockout"`

	Bootstrap struct {
		Handle   string `toml:"handle"`
		Email    string `toml:"email"`
		Password string `toml:"password"`
	} `toml:"bootstrap"`

	TrustedProxies []string `toml:"trusted_proxies"`

	SentryDSN           string `toml:"sentry_dsn"`
	Env                 string `toml:"env"`
	LogLevel            string `toml:"log_level"`
	LogFormat           string `toml:"log_format"`
	Port                int    `toml:"port"`
	ShutdownGracePeriod string `toml:"shutdown_grace_period"`
}

// LoadConfig reads .env (if present), then the TOML file named by
// PORTAL_CONFIG_FILE (if set), then the environment.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var fc fileConfig
	if path := os.Getenv("PORTAL_CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, &fc); err != nil {
			return Config{}, fmt.Errorf("failed to decode config file %s: %w", path, err)
		}
	}

	cfg := Config{
		Issuer:         getEnvOrDefault("PORTAL_ISSUER", or(fc.Issuer, "findit-portal")),
		SessionTTL:     getEnvDurationOrDefault("SESSION_TTL", fileDuration(fc.SessionTTL, 8*time.Hour)),
		SigningKeyFile: getEnvOrDefault("PORTAL_SIGNING_KEY_FILE", fc.SigningKeyFile),
		PepperFile:     getEnvOrDefault("PORTAL_PEPPER_FILE", or(fc.PepperFile, "pepper")),

		DatabaseDriver: getEnvOrDefault("DATABASE_DRIVER", or(fc.Database.Driver, "sqlite")),
		DatabaseFile:   getEnvOrDefault("PORTAL_DATABASE_FILE", or(fc.Database.File, "portal.db")),
		DatabaseURL:    getEnvOrDefault("DATABASE_URL", fc.Database.URL),

		LockoutMaxFailures: getEnvIntOrDefault("LOCKOUT_MAX_FAILURES", orInt(fc.Lockout.MaxFailures, 5)),
		LockoutDuration:    getEnvDurationOrDefault("LOCKOUT_DURATION", fileDuration(fc.Lockout.Duration, 15*time.Minute)),

		BootstrapHandle:   getEnvOrDefault("BOOTSTRAP_ADMIN_HANDLE", fc.Bootstrap.Handle),
		BootstrapEmail:    getEnvOrDefault("BOOTSTRAP_ADMIN_EMAIL", fc.Bootstrap.Email),
		BootstrapPassword: getEnvOrDefault("BOOTSTRAP_ADMIN_PASSWORD", fc.Bootstrap.Password),

		TrustedProxies: getEnvListOrDefault("TRUSTED_PROXIES", fc.TrustedProxies),

		SentryDSN:           getEnvOrDefault("SENTRY_DSN", fc.SentryDSN),
		Env:                 getEnvOrDefault("ENV", or(fc.Env, "dev")),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", or(fc.LogLevel, "info")),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", or(fc.LogFormat, "json")),
		Port:                getEnvIntOrDefault("PORT", orInt(fc.Port, 8080)),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", fileDuration(fc.ShutdownGracePeriod, 10*time.Second)),
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.DatabaseDriver {
	case "sqlite":
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when DATABASE_DRIVER is postgres")
		}
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q (want sqlite or postgres)", c.DatabaseDriver)
	}
	if c.LockoutMaxFailures < 1 {
		return errors.New("LOCKOUT_MAX_FAILURES must be at least 1")
	}
	if c.LockoutDuration <= 0 {
		return errors.New("LOCKOUT_DURATION must be positive")
	}
	return nil
}

func or(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func orInt(v, def int) int {
	if v != 0 {
		return v
	}
	return def
}

func fileDuration(v string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return def
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvListOrDefault splits a comma separated variable, dropping blanks.
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// "1h", "30m", "90s"
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
