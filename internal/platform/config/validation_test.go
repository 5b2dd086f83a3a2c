package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "resource-feed",
			Version:     "1.0.0",
			Environment: "test",
		},
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RequestTimeout:  5 * time.Second,
			MaxRequestSize:  1 << 20,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Store: StoreConfig{
			Driver: StoreDriverSQLite,
			DSN:    "file:test.db",
		},
		Client: ClientConfig{
			Timeout: 10 * time.Second,
			Retry: RetryConfig{
				MaxAttempts:     3,
				InitialInterval: 100 * time.Millisecond,
				MaxInterval:     2 * time.Second,
				Multiplier:      2.0,
				JitterFactor:    0.25,
			},
			CircuitBreaker: CircuitBreakerConfig{
				MaxFailures:   5,
				Timeout:       30 * time.Second,
				HalfOpenLimit: 3,
			},
			Transport: TransportConfig{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		Session: SessionConfig{
			Provider:   SessionProviderNone,
			CookieName: DefaultSessionCookie,
		},
		Submissions: SubmissionsConfig{
			RatePerMinute: 2,
			Burst:         3,
		},
		Events: EventsConfig{
			Provider: EventsProviderLog,
		},
		Site: SiteConfig{
			Title: "Resource Feed",
		},
	}
}

func TestConfig_Validate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestConfig_Validate_FieldRules(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		contains string
	}{
		{
			name:     "unknown environment",
			mutate:   func(c *Config) { c.App.Environment = "staging" },
			contains: "app.environment must be one of",
		},
		{
			name:     "port out of range",
			mutate:   func(c *Config) { c.Server.Port = 70000 },
			contains: "server.port must be at most 65535",
		},
		{
			name:     "unknown log format",
			mutate:   func(c *Config) { c.Log.Format = "xml" },
			contains: "log.format must be one of",
		},
		{
			name:     "log file without path",
			mutate:   func(c *Config) { c.Log.File = LogFileConfig{Enabled: true} },
			contains: "log.file.path is required when",
		},
		{
			name:     "unknown store driver",
			mutate:   func(c *Config) { c.Store.Driver = "mongo" },
			contains: "store.driver must be one of",
		},
		{
			name:     "sql store without dsn",
			mutate:   func(c *Config) { c.Store.DSN = "" },
			contains: "store.dsn is required unless",
		},
		{
			name:     "jwt session without secret",
			mutate:   func(c *Config) { c.Session.Provider = SessionProviderJWT },
			contains: "session.jwtsecret is required when",
		},
		{
			name:     "zero submission rate",
			mutate:   func(c *Config) { c.Submissions.RatePerMinute = 0 },
			contains: "submissions.rateperminute must be greater than 0",
		},
		{
			name:     "bad base url",
			mutate:   func(c *Config) { c.Site.BaseURL = "not a url" },
			contains: "site.baseurl must be a valid URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestConfig_Validate_Dependencies(t *testing.T) {
	t.Run("postgrest needs supabase settings", func(t *testing.T) {
		cfg := validConfig()
		cfg.Store.Driver = StoreDriverPostgREST
		cfg.Store.DSN = ""

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "supabase.url is required")
		assert.Contains(t, err.Error(), "supabase.anon_key is required")
	})

	t.Run("postgrest with supabase settings", func(t *testing.T) {
		cfg := validConfig()
		cfg.Store.Driver = StoreDriverPostgREST
		cfg.Store.DSN = ""
		cfg.Supabase = SupabaseConfig{URL: "https://abc.supabase.co", AnonKey: "anon"}

		assert.NoError(t, cfg.Validate())
	})

	t.Run("remote session needs supabase url", func(t *testing.T) {
		cfg := validConfig()
		cfg.Session.Provider = SessionProviderRemote

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "supabase.url is required")
	})

	t.Run("redis events need address", func(t *testing.T) {
		cfg := validConfig()
		cfg.Events.Provider = EventsProviderRedis

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "events.redis.addr is required")
		assert.Contains(t, err.Error(), "events.redis.stream is required")
	})
}

func TestConfig_Validate_MultipleErrors(t *testing.T) {
	cfg := &Config{
		App: AppConfig{Environment: "invalid"},
	}

	err := cfg.Validate()
	require.Error(t, err)

	assert.Contains(t, err.Error(), "app.name")
	assert.Contains(t, err.Error(), "app.version")
}

func TestFormatFieldPath(t *testing.T) {
	tests := []struct {
		namespace string
		expected  string
	}{
		{"Config.Server.Port", "server.port"},
		{"Config.Store.DSN", "store.dsn"},
		{"Config.Events.Redis.Addr", "events.redis.addr"},
		{"Config.Client.Retry.MaxAttempts", "client.retry.maxattempts"},
	}

	for _, tt := range tests {
		t.Run(tt.namespace, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatFieldPath(tt.namespace))
		})
	}
}
