package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/AlibekovAA/invoice-dashboard/internal/common/constants"
)

var (
	ErrMissingRequiredEnv = errors.New("missing required environment variable")
	ErrInvalidJWTSecret   = errors.New("JWT_SECRET must be at least 32 bytes")
)

type DashboardConfig struct {
	HTTPPort                string        `yaml:"http_port"`
	DatabaseURL             string        `yaml:"database_url"`
	JWTSecret               string        `yaml:"jwt_secret"`
	RequestTimeout          time.Duration `yaml:"request_timeout"`
	AccessTokenTTL          time.Duration `yaml:"access_token_ttl"`
	ViewCacheTTL            time.Duration `yaml:"view_cache_ttl"`
	CircuitBreakerThreshold int32         `yaml:"circuit_breaker_threshold"`
	CircuitBreakerTimeout   time.Duration `yaml:"circuit_breaker_timeout"`
	CircuitBreakerReset     time.Duration `yaml:"circuit_breaker_reset"`
	MigrateOnStart          bool          `yaml:"migrate_on_start"`
	LogDir                  string        `yaml:"log_dir"`
	LogLevel                string        `yaml:"log_level"`
}

func Defaults() DashboardConfig {
	return DashboardConfig{
		HTTPPort:                constants.DefaultDashboardHTTPPort,
		RequestTimeout:          constants.DefaultRequestTimeout,
		AccessTokenTTL:          constants.DefaultAccessTokenTTL,
		ViewCacheTTL:            constants.DefaultViewCacheTTL,
		CircuitBreakerThreshold: constants.DefaultCircuitBreakerThreshold,
		CircuitBreakerTimeout:   constants.DefaultCircuitBreakerTimeout,
		CircuitBreakerReset:     constants.DefaultCircuitBreakerReset,
		LogLevel:                "info",
	}
}

// LoadDashboardConfig layers defaults, the optional YAML file at path and the
// environment, in that order, then validates the result.
func LoadDashboardConfig(path string) (DashboardConfig, error) {
	cfg := Defaults()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return DashboardConfig{}, err
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return DashboardConfig{}, err
	}
	return cfg, nil
}

// LoadDatabaseURL resolves only what the migrate command needs.
func LoadDatabaseURL(path string) (string, error) {
	cfg := Defaults()
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return "", err
		}
	}
	applyEnv(&cfg)

	if cfg.DatabaseURL == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingRequiredEnv, "DATABASE_URL")
	}
	return cfg.DatabaseURL, nil
}

func (c DashboardConfig) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("%w: %s", ErrMissingRequiredEnv, "DATABASE_URL")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("%w: %s", ErrMissingRequiredEnv, "JWT_SECRET")
	}
	return validateJWTSecret(c.JWTSecret)
}

func loadFile(path string, cfg *DashboardConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *DashboardConfig) {
	cfg.HTTPPort = getEnv("DASHBOARD_HTTP_PORT", cfg.HTTPPort)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.RequestTimeout = getDurationEnv("REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.AccessTokenTTL = getDurationEnv("ACCESS_TOKEN_TTL", cfg.AccessTokenTTL)
	cfg.ViewCacheTTL = getDurationEnv("VIEW_CACHE_TTL", cfg.ViewCacheTTL)
	cfg.CircuitBreakerThreshold = int32(getIntEnv("CIRCUIT_BREAKER_THRESHOLD", int(cfg.CircuitBreakerThreshold)))
	cfg.CircuitBreakerTimeout = getDurationEnv("CIRCUIT_BREAKER_TIMEOUT", cfg.CircuitBreakerTimeout)
	cfg.CircuitBreakerReset = getDurationEnv("CIRCUIT_BREAKER_RESET", cfg.CircuitBreakerReset)
	cfg.MigrateOnStart = getBoolEnv("MIGRATE_ON_START", cfg.MigrateOnStart)
	cfg.LogDir = getEnv("LOG_DIR", cfg.LogDir)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
}

func validateJWTSecret(secret string) error {
	if len(secret) < constants.JWTSecretMinLength {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidJWTSecret, len(secret))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getIntEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func getBoolEnv(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
