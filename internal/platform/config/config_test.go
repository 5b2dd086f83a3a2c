package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	t.Setenv(ConfigDirEnv, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "resource-feed", cfg.App.Name)
	assert.Equal(t, "local", cfg.App.Environment)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, StoreDriverSQLite, cfg.Store.Driver)
	assert.Equal(t, DefaultStoreDSN, cfg.Store.DSN)
	assert.True(t, cfg.Store.AutoMigrate)
	assert.Equal(t, SessionProviderNone, cfg.Session.Provider)
	assert.Equal(t, DefaultSessionCookie, cfg.Session.CookieName)
	assert.Equal(t, EventsProviderLog, cfg.Events.Provider)
	assert.Equal(t, DefaultEventStream, cfg.Events.Redis.Stream)
	assert.Equal(t, "Resource Feed", cfg.Site.Title)
	assert.Len(t, cfg.Site.Taglines, 3)
	assert.Equal(t, true, cfg.Features["submissions"])

	require.NoError(t, cfg.Validate())
}

func TestLoad_DurationParsing(t *testing.T) {
	t.Setenv(ConfigDirEnv, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 30*time.Minute, cfg.Store.ConnMaxLifetime)
	assert.Equal(t, 100*time.Millisecond, cfg.Client.Retry.InitialInterval)
	assert.Equal(t, 30*time.Second, cfg.Client.CircuitBreaker.Timeout)
}

func TestLoad_EnvVarOverrides(t *testing.T) {
	t.Setenv(ConfigDirEnv, t.TempDir())
	t.Setenv("APP_SERVER__PORT", "9090")
	t.Setenv("APP_LOG__LEVEL", "warn")
	t.Setenv("APP_SESSION__JWT_SECRET", "s3cret")
	t.Setenv("APP_STORE__AUTO_MIGRATE", "false")
	t.Setenv("APP_TELEMETRY__ENABLED", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "s3cret", cfg.Session.JWTSecret)
	assert.False(t, cfg.Store.AutoMigrate)
	assert.True(t, cfg.Telemetry.Enabled)
}

func TestLoad_ProfileOverridesBase(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(ConfigDirEnv, dir)

	base := []byte("site:\n  title: Base Title\nstore:\n  dsn: file:base.db\n")
	profile := []byte("site:\n  title: Dev Title\n")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.yaml"), base, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dev.yaml"), profile, 0o600))

	cfg, err := Load("dev")
	require.NoError(t, err)

	assert.Equal(t, "Dev Title", cfg.Site.Title)
	assert.Equal(t, "file:base.db", cfg.Store.DSN)
}

func TestLoad_NonExistentProfile(t *testing.T) {
	t.Setenv(ConfigDirEnv, t.TempDir())

	cfg, err := Load("nonexistent")
	require.NoError(t, err)

	assert.Equal(t, "resource-feed", cfg.App.Name)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(ConfigDirEnv, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.yaml"), []byte("site: [unclosed"), 0o600))

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading base config")
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "server.read_timeout", envKey("APP_SERVER__READ_TIMEOUT"))
	assert.Equal(t, "events.redis.addr", envKey("APP_EVENTS__REDIS__ADDR"))
	assert.Equal(t, "environment", envKey("APP_ENVIRONMENT"))
}
