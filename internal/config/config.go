package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order when CONFIG_PATH is not set.
var DefaultConfigPaths = []string{"config.yaml", "config.yml"}

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Auth      AuthConfig      `koanf:"auth"`
	CORS      CORSConfig      `koanf:"cors"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
}

type ServerConfig struct {
	Port        int    `koanf:"port" validate:"gt=0,lt=65536"`
	Environment string `koanf:"environment" validate:"oneof=development test production"`
	// PublicURL prefixes the default restaurant image URL.
	PublicURL string `koanf:"public_url"`
	PublicDir string `koanf:"public_dir"`
	LogLevel  string `koanf:"log_level" validate:"oneof=trace debug info warn error disabled"`
	LogFormat string `koanf:"log_format" validate:"oneof=json console"`
	// TrustedProxies may set X-Forwarded-For. Empty means the peer address
	// is always the client IP.
	TrustedProxies []string `koanf:"trusted_proxies" validate:"omitempty,dive,ip|cidr"`
}

type DatabaseConfig struct {
	Driver         string        `koanf:"driver" validate:"oneof=postgres sqlite"`
	Host           string        `koanf:"host" validate:"required_if=Driver postgres"`
	Port           int           `koanf:"port" validate:"required_if=Driver postgres"`
	User           string        `koanf:"user" validate:"required_if=Driver postgres"`
	Password       string        `koanf:"password"`
	Name           string        `koanf:"name" validate:"required_if=Driver postgres"`
	SSLMode        string        `koanf:"sslmode"`
	SQLitePath     string        `koanf:"sqlite_path" validate:"required_if=Driver sqlite"`
	MaxConns       int32         `koanf:"max_conns" validate:"gt=0"`
	ConnectRetries int           `koanf:"connect_retries" validate:"gt=0"`
	RetryInterval  time.Duration `koanf:"retry_interval"`
}

type AuthConfig struct {
	JWTSecret string        `koanf:"jwt_secret" validate:"required"`
	TokenTTL  time.Duration `koanf:"token_ttl" validate:"gt=0"`
	// Scheme is the Authorization header keyword, matched case-insensitively.
	Scheme            string `koanf:"scheme" validate:"required"`
	BcryptCost        int    `koanf:"bcrypt_cost" validate:"gte=4,lte=31"`
	InitialAdminEmail string `koanf:"initial_admin_email"`
}

type CORSConfig struct {
	Origin string `koanf:"origin" validate:"required"`
}

type RateLimitConfig struct {
	Requests int           `koanf:"requests" validate:"gt=0"`
	Window   time.Duration `koanf:"window" validate:"gt=0"`
	BurstRPS float64       `koanf:"burst_rps" validate:"gt=0"`
	Burst    int           `koanf:"burst" validate:"gt=0"`
	Disabled bool          `koanf:"disabled"`
}

// IsProduction reports whether error stacks must be hidden from clients.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// DefaultImageURL is stored for restaurants created without an image.
func (c *Config) DefaultImageURL() string {
	return strings.TrimRight(c.Server.PublicURL, "/") + "/assets/img/placeholder-restaurant.png"
}

// Default returns the configuration used before any file or env overrides.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        5000,
			Environment: "development",
			PublicURL:   "http://localhost:5000",
			PublicDir:   "public",
			LogLevel:    "info",
			LogFormat:   "json",
		},
		Database: DatabaseConfig{
			Driver:         "postgres",
			Host:           "localhost",
			Port:           5432,
			User:           "postgres",
			Name:           "restaurant_reviews",
			SSLMode:        "disable",
			SQLitePath:     "restaurant_reviews.db",
			MaxConns:       10,
			ConnectRetries: 5,
			RetryInterval:  5 * time.Second,
		},
		Auth: AuthConfig{
			TokenTTL:   24 * time.Hour,
			Scheme:     "JWT",
			BcryptCost: 13,
		},
		CORS: CORSConfig{Origin: "http://localhost:3000"},
		RateLimit: RateLimitConfig{
			Requests: 50,
			Window:   5 * time.Minute,
			BurstRPS: 15,
			Burst:    10,
		},
	}
}

// Load layers defaults, an optional YAML file and environment variables, then
// validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", envValueFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks the struct tags on every section.
func (c *Config) Validate() error {
	return validator.New(validator.WithRequiredStructEnabled()).Struct(c)
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var envMappings = map[string]string{
	"port":        "server.port",
	"environment": "server.environment",
	"public_url":  "server.public_url",
	"public_dir":  "server.public_dir",
	"log_level":   "server.log_level",
	"log_format":  "server.log_format",

	"trusted_proxies": "server.trusted_proxies",

	"db_driver":          "database.driver",
	"db_host":            "database.host",
	"db_port":            "database.port",
	"db_user":            "database.user",
	"db_password":        "database.password",
	"db_name":            "database.name",
	"db_sslmode":         "database.sslmode",
	"sqlite_path":        "database.sqlite_path",
	"db_max_conns":       "database.max_conns",
	"db_connect_retries": "database.connect_retries",
	"db_retry_interval":  "database.retry_interval",

	"jwt_secret":          "auth.jwt_secret",
	"jwt_expires_in":      "auth.token_ttl",
	"auth_scheme":         "auth.scheme",
	"bcrypt_cost":         "auth.bcrypt_cost",
	"initial_admin_email": "auth.initial_admin_email",

	"origin": "cors.origin",

	"rate_limit_requests":  "rate_limit.requests",
	"rate_limit_window":    "rate_limit.window",
	"rate_limit_burst":     "rate_limit.burst",
	"rate_limit_burst_rps": "rate_limit.burst_rps",
	"disable_rate_limit":   "rate_limit.disabled",
}

// envTransformFunc maps known environment variables to config keys and drops
// everything else.
// envValueFunc maps the key and splits list values on commas.
func envValueFunc(key, value string) (string, interface{}) {
	mapped := envTransformFunc(key)
	if mapped == "server.trusted_proxies" {
		var proxies []string
		for _, p := range strings.Split(value, ",") {
			if p = strings.TrimSpace(p); p != "" {
				proxies = append(proxies, p)
			}
		}
		return mapped, proxies
	}
	return mapped, value
}

func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
