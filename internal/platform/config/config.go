// Package config provides configuration loading and management using koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Default configuration values.
const (
	DefaultServerPort     = 8080
	DefaultMaxRequestSize = 1 << 20

	DefaultStoreDriver       = "sqlite"
	DefaultStoreDSN          = "file:resource-feed.db"
	DefaultStoreMaxOpenConns = 10

	DefaultClientRetryMaxAttempts     = 3
	DefaultClientRetryMultiplier      = 2.0
	DefaultClientRetryJitterFactor    = 0.25
	DefaultClientCircuitMaxFailures   = 5
	DefaultClientCircuitHalfOpenLimit = 3

	DefaultTransportMaxIdleConns        = 100
	DefaultTransportMaxIdleConnsPerHost = 10

	DefaultLogFileMaxSizeMB  = 100
	DefaultLogFileMaxBackups = 3
	DefaultLogFileMaxAgeDays = 28

	DefaultSessionCookie = "sb-access-token"

	DefaultSubmissionsPerMinute = 2.0
	DefaultSubmissionsBurst     = 3

	DefaultEventStream = "resource-feed:submissions"

	// EnvPrefix is stripped from environment variables. A double underscore
	// separates nesting levels: APP_SESSION__JWT_SECRET sets session.jwt_secret.
	EnvPrefix = "APP_"

	// ConfigDirEnv overrides the directory holding base.yaml and profile files.
	ConfigDirEnv = "APP_CONFIG_DIR"
)

// Store drivers.
const (
	StoreDriverSQLite    = "sqlite"
	StoreDriverPostgres  = "postgres"
	StoreDriverPostgREST = "postgrest"
)

// Session providers.
const (
	SessionProviderNone   = "none"
	SessionProviderJWT    = "jwt"
	SessionProviderRemote = "remote"
)

// Event publishers.
const (
	EventsProviderLog   = "log"
	EventsProviderRedis = "redis"
)

// Config is the root configuration structure.
type Config struct {
	App         AppConfig         `koanf:"app"         validate:"required"`
	Server      ServerConfig      `koanf:"server"      validate:"required"`
	Log         LogConfig         `koanf:"log"         validate:"required"`
	Telemetry   TelemetryConfig   `koanf:"telemetry"`
	Store       StoreConfig       `koanf:"store"       validate:"required"`
	Supabase    SupabaseConfig    `koanf:"supabase"`
	Client      ClientConfig      `koanf:"client"      validate:"required"`
	Session     SessionConfig     `koanf:"session"     validate:"required"`
	Submissions SubmissionsConfig `koanf:"submissions" validate:"required"`
	Events      EventsConfig      `koanf:"events"      validate:"required"`
	Site        SiteConfig        `koanf:"site"        validate:"required"`
	Features    map[string]any    `koanf:"features"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	RequestTimeout  time.Duration `koanf:"request_timeout"  validate:"required,min=100ms"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
}

// StoreConfig selects and tunes the backing store.
type StoreConfig struct {
	Driver          string        `koanf:"driver"            validate:"required,oneof=sqlite postgres postgrest"`
	DSN             string        `koanf:"dsn"               validate:"required_unless=Driver postgrest"`
	MaxOpenConns    int           `koanf:"max_open_conns"    validate:"omitempty,min=1"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

// SupabaseConfig points at the hosted backend used by the postgrest store and
// the remote session provider.
type SupabaseConfig struct {
	URL     string `koanf:"url"      validate:"omitempty,url"`
	AnonKey string `koanf:"anon_key"`
}

// ClientConfig contains HTTP client settings for the hosted backend.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"         validate:"required,min=100ms"`
	Retry          RetryConfig          `koanf:"retry"           validate:"required"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker" validate:"required"`
	Transport      TransportConfig      `koanf:"transport"       validate:"required"`
}

// RetryConfig contains retry settings for HTTP clients.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"     validate:"required,min=1,max=10"`
	InitialInterval time.Duration `koanf:"initial_interval" validate:"required,min=10ms"`
	MaxInterval     time.Duration `koanf:"max_interval"     validate:"required,min=100ms"`
	Multiplier      float64       `koanf:"multiplier"       validate:"required,min=1.1,max=10"`
	JitterFactor    float64       `koanf:"jitter_factor"    validate:"min=0,max=1"`
}

// CircuitBreakerConfig contains circuit breaker settings for HTTP clients.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"    validate:"required,min=1"`
	Timeout       time.Duration `koanf:"timeout"         validate:"required,min=1s"`
	HalfOpenLimit int           `koanf:"half_open_limit" validate:"required,min=1"`
}

// TransportConfig contains HTTP transport pool settings.
type TransportConfig struct {
	MaxIdleConns        int           `koanf:"max_idle_conns"          validate:"required,min=1"`
	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host" validate:"required,min=1"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout"       validate:"required,min=1s"`
}

// SessionConfig controls how visitors are identified.
type SessionConfig struct {
	Provider   string `koanf:"provider"    validate:"required,oneof=none jwt remote"`
	CookieName string `koanf:"cookie_name" validate:"required"`
	JWTSecret  string `koanf:"jwt_secret"  validate:"required_if=Provider jwt"`
	JWTIssuer  string `koanf:"jwt_issuer"`
	SignInURL  string `koanf:"sign_in_url"`
}

// SubmissionsConfig limits how often one user may submit.
type SubmissionsConfig struct {
	RatePerMinute float64 `koanf:"rate_per_minute" validate:"gt=0"`
	Burst         int     `koanf:"burst"           validate:"required,min=1"`
}

// EventsConfig selects where submission events are published.
type EventsConfig struct {
	Provider string      `koanf:"provider" validate:"required,oneof=log redis"`
	Redis    RedisConfig `koanf:"redis"`
}

// RedisConfig holds the Redis stream settings.
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"     validate:"min=0"`
	Stream   string `koanf:"stream"`
}

// SiteConfig holds what the page layout shows.
type SiteConfig struct {
	Title       string   `koanf:"title"        validate:"required"`
	BaseURL     string   `koanf:"base_url"     validate:"omitempty,url"`
	AnalyticsID string   `koanf:"analytics_id"`
	Taglines    []string `koanf:"taglines"`
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "resource-feed",
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":             DefaultServerPort,
		"server.host":             "0.0.0.0",
		"server.read_timeout":     "15s",
		"server.write_timeout":    "15s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "10s",
		"server.request_timeout":  "10s",
		"server.max_request_size": DefaultMaxRequestSize,

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/resource-feed.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "resource-feed",
		"telemetry.sampling_rate": 1.0,

		"store.driver":            DefaultStoreDriver,
		"store.dsn":               DefaultStoreDSN,
		"store.max_open_conns":    DefaultStoreMaxOpenConns,
		"store.conn_max_lifetime": "30m",
		"store.auto_migrate":      true,

		"supabase.url":      "",
		"supabase.anon_key": "",

		"client.timeout":                           "10s",
		"client.retry.max_attempts":                DefaultClientRetryMaxAttempts,
		"client.retry.initial_interval":            "100ms",
		"client.retry.max_interval":                "2s",
		"client.retry.multiplier":                  DefaultClientRetryMultiplier,
		"client.retry.jitter_factor":               DefaultClientRetryJitterFactor,
		"client.circuit_breaker.max_failures":      DefaultClientCircuitMaxFailures,
		"client.circuit_breaker.timeout":           "30s",
		"client.circuit_breaker.half_open_limit":   DefaultClientCircuitHalfOpenLimit,
		"client.transport.max_idle_conns":          DefaultTransportMaxIdleConns,
		"client.transport.max_idle_conns_per_host": DefaultTransportMaxIdleConnsPerHost,
		"client.transport.idle_conn_timeout":       "90s",

		"session.provider":    SessionProviderNone,
		"session.cookie_name": DefaultSessionCookie,
		"session.jwt_secret":  "",
		"session.jwt_issuer":  "",
		"session.sign_in_url": "",

		"submissions.rate_per_minute": DefaultSubmissionsPerMinute,
		"submissions.burst":           DefaultSubmissionsBurst,

		"events.provider":       EventsProviderLog,
		"events.redis.addr":     "",
		"events.redis.password": "",
		"events.redis.db":       0,
		"events.redis.stream":   DefaultEventStream,

		"site.title":        "Resource Feed",
		"site.base_url":     "",
		"site.analytics_id": "",
		"site.taglines": []string{
			"Pick a resource from the feed to read more.",
			"Something worth reading is waiting on the left.",
			"Nothing selected yet. Browse by tag to narrow things down.",
		},

		"features.submissions":      true,
		"features.recent_feed_days": 0,
	}
}

// Load loads configuration with the following precedence (highest to lowest):
//  1. Environment variables (APP_ prefix, "__" between levels)
//  2. Profile config file ({dir}/{profile}.yaml)
//  3. Base config file ({dir}/base.yaml)
//  4. Default values
//
// dir is "configs" unless APP_CONFIG_DIR is set.
func Load(profile string) (*Config, error) {
	k := koanf.New(".")

	err := k.Load(confmap.Provider(defaults(), "."), nil)
	if err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	dir := os.Getenv(ConfigDirEnv)
	if dir == "" {
		dir = "configs"
	}

	err = loadFileIfExists(k, filepath.Join(dir, "base.yaml"))
	if err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	if profile != "" {
		err := loadFileIfExists(k, filepath.Join(dir, profile+".yaml"))
		if err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", profile, err)
		}
	}

	err = k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config

	err = k.Unmarshal("", &cfg)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// envKey maps APP_SERVER__READ_TIMEOUT to server.read_timeout.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// loadFileIfExists loads a YAML config file if it exists.
func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
