package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const minimalConfig = `
[database]
user = "grooming"
dbname = "grooming"

[auth]
jwt_secret = "file-secret"
`

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "info", cfg.Logs.Level)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, NotifierDriverNone, cfg.Notifier.Driver)
	assert.Equal(t, FeedDriverMemory, cfg.Feed.Driver)
	assert.Equal(t, "file-secret", cfg.Auth.JWTSecret)
}

func TestLoad_EnvOverridesSecrets(t *testing.T) {
	t.Setenv(envDBPassword, "env-db")
	t.Setenv(envJWTSecret, "env-jwt")
	t.Setenv(envRedisAddr, "redis:6379")

	cfg, err := Load(writeConfig(t, minimalConfig+`
[feed]
driver = "redis"
`))
	require.NoError(t, err)

	assert.Equal(t, "env-db", cfg.Database.Password)
	assert.Equal(t, "env-jwt", cfg.Auth.JWTSecret)
	assert.Equal(t, "redis:6379", cfg.Feed.RedisAddr)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "not = [valid"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := defaults()
		cfg.Database.User = "u"
		cfg.Database.DBName = "db"
		cfg.Auth.JWTSecret = "s"
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.HTTPPort = 0 }, "server.http_port"},
		{"no secret", func(c *Config) { c.Auth.JWTSecret = "" }, "auth.jwt_secret"},
		{"amqp without uri", func(c *Config) { c.Notifier.Driver = NotifierDriverAMQP }, "notifier.amqp_uri"},
		{"http without url", func(c *Config) { c.Notifier.Driver = NotifierDriverHTTP }, "notifier.url"},
		{"unknown notifier", func(c *Config) { c.Notifier.Driver = "smtp" }, "unknown notifier.driver"},
		{"redis without addr", func(c *Config) { c.Feed.Driver = FeedDriverRedis }, "feed.redis_addr"},
		{"unknown feed", func(c *Config) { c.Feed.Driver = "kafka" }, "unknown feed.driver"},
		{"metrics path", func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Path = "metrics" }, "metrics.path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", DBName: "g", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=g sslmode=disable", d.DSN())
}
