package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	KeyByIP   = "ip"
	KeyByUser = "user"
)

type AppConfig struct {
	Environment string           `yaml:"environment"`
	ServiceName string           `yaml:"service_name"`
	Server      ServerConfig     `yaml:"server"`
	Database    DatabaseConfig   `yaml:"database"`
	Auth        AuthConfig       `yaml:"auth"`
	Pagination  PaginationConfig `yaml:"pagination"`
	RateLimit   RateLimitConfig  `yaml:"rate_limit"`
	Telemetry   TelemetryConfig  `yaml:"telemetry"`
	Security    SecurityConfig   `yaml:"security"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	GinMode         string        `yaml:"gin_mode"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver       string `yaml:"driver"`
	Path         string `yaml:"path"`
	URL          string `yaml:"url"`
	LogQueries   bool   `yaml:"log_queries"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

type AuthConfig struct {
	JWTSecret  string        `yaml:"jwt_secret"`
	TokenTTL   time.Duration `yaml:"token_ttl"`
	BcryptCost int           `yaml:"bcrypt_cost"`
}

type PaginationConfig struct {
	DefaultLimit int `yaml:"default_limit"`
	MaxLimit     int `yaml:"max_limit"`
}

type RateLimitRule struct {
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
	Key      string        `yaml:"key"`
}

// RateLimitConfig rules are keyed by "METHOD /full/path" as registered on
// the router; "default" applies to every other route.
type RateLimitConfig struct {
	Enabled   bool                     `yaml:"enabled"`
	RedisAddr string                   `yaml:"redis_addr"`
	Rules     map[string]RateLimitRule `yaml:"rules"`
}

type TelemetryConfig struct {
	ServiceVersion string `yaml:"service_version"`
	OTLPEndpoint   string `yaml:"otlp_endpoint"`
	MetricsPort    string `yaml:"metrics_port"`
	LokiURL        string `yaml:"loki_url"`
	LogLevel       string `yaml:"log_level"`
}

type SecurityConfig struct {
	EnforceHTTPS   bool     `yaml:"enforce_https"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		Environment: "development",
		ServiceName: "itemtracker",
		Server: ServerConfig{
			Port:            "8080",
			GinMode:         "debug",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:       DriverSQLite,
			Path:         "database.db",
			MaxOpenConns: 10,
		},
		Auth: AuthConfig{
			JWTSecret:  "development-secret",
			TokenTTL:   3 * time.Hour,
			BcryptCost: 10,
		},
		Pagination: PaginationConfig{
			DefaultLimit: 25,
			MaxLimit:     100,
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			Rules: map[string]RateLimitRule{
				"POST /api/v1/signup": {Requests: 5, Window: time.Minute, Key: KeyByIP},
				"POST /api/v1/auth":   {Requests: 10, Window: time.Minute, Key: KeyByIP},
				"POST /api/v1/items":  {Requests: 30, Window: time.Minute, Key: KeyByUser},
				"default":             {Requests: 120, Window: time.Minute, Key: KeyByIP},
			},
		},
		Telemetry: TelemetryConfig{
			ServiceVersion: "1.0.0",
			MetricsPort:    "9091",
			LogLevel:       "info",
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"*"},
		},
	}
}

// Load applies, in order: defaults, the YAML file at path (or
// ITEMS_CONFIG_PATH when path is empty), then environment overrides.
func Load(path string) (*AppConfig, error) {
	cfg := GetDefaultConfig()

	if path == "" {
		path = os.Getenv("ITEMS_CONFIG_PATH")
	}

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *AppConfig) error {
	data, err := os.ReadFile(path)

	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	return nil
}

func applyEnv(cfg *AppConfig) error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString("APP_ENV", &cfg.Environment)
	setString("PORT", &cfg.Server.Port)
	setString("GIN_MODE", &cfg.Server.GinMode)
	setString("DATABASE_DRIVER", &cfg.Database.Driver)
	setString("DATABASE_PATH", &cfg.Database.Path)
	setString("DATABASE_URL", &cfg.Database.URL)
	setString("JWT_SECRET", &cfg.Auth.JWTSecret)
	setString("REDIS_ADDR", &cfg.RateLimit.RedisAddr)
	setString("OTLP_ENDPOINT", &cfg.Telemetry.OTLPEndpoint)
	setString("LOKI_URL", &cfg.Telemetry.LokiURL)
	setString("METRICS_PORT", &cfg.Telemetry.MetricsPort)
	setString("LOG_LEVEL", &cfg.Telemetry.LogLevel)

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.Security.AllowedOrigins = strings.Split(v, ",")
	}

	bools := map[string]*bool{
		"ENFORCE_HTTPS":        &cfg.Security.EnforceHTTPS,
		"RATE_LIMIT_ENABLED":   &cfg.RateLimit.Enabled,
		"DATABASE_LOG_QUERIES": &cfg.Database.LogQueries,
	}

	for key, dst := range bools {
		v := os.Getenv(key)

		if v == "" {
			continue
		}

		parsed, err := strconv.ParseBool(v)

		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}

		*dst = parsed
	}

	if v := os.Getenv("TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)

		if err != nil {
			return fmt.Errorf("invalid TOKEN_TTL: %w", err)
		}

		cfg.Auth.TokenTTL = ttl
	}

	if cfg.Server.GinMode == "release" && cfg.Environment == "development" {
		cfg.Environment = "production"
	}

	return nil
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

func (c *AppConfig) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			errs = append(errs, errors.New("database.path is required for sqlite"))
		}
	case DriverPostgres:
		if c.Database.URL == "" {
			errs = append(errs, errors.New("database.url is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown database.driver %q", c.Database.Driver))
	}

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	}

	if c.IsProduction() && c.Auth.JWTSecret == GetDefaultConfig().Auth.JWTSecret {
		errs = append(errs, errors.New("auth.jwt_secret must be changed in production"))
	}

	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.token_ttl must be positive"))
	}

	if c.Pagination.DefaultLimit <= 0 || c.Pagination.MaxLimit < c.Pagination.DefaultLimit {
		errs = append(errs, errors.New("pagination limits must satisfy 0 < default_limit <= max_limit"))
	}

	for name, rule := range c.RateLimit.Rules {
		if rule.Requests <= 0 || rule.Window <= 0 {
			errs = append(errs, fmt.Errorf("rate_limit.rules[%s] needs positive requests and window", name))
		}

		if rule.Key != "" && rule.Key != KeyByIP && rule.Key != KeyByUser {
			errs = append(errs, fmt.Errorf("rate_limit.rules[%s] has unknown key %q", name, rule.Key))
		}
	}

	return errors.Join(errs...)
}
