package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ITEMS_CONFIG_PATH", "")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 25, cfg.Pagination.DefaultLimit)
	assert.Equal(t, 100, cfg.Pagination.MaxLimit)
	assert.Equal(t, 3*time.Hour, cfg.Auth.TokenTTL)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FileThenEnv(t *testing.T) {
	RegisterTestingT(t)

	path := writeConfig(t, `
environment: staging
server:
  port: "9000"
  read_timeout: 5s
database:
  driver: postgres
  url: postgres://file/db
pagination:
  default_limit: 10
  max_limit: 50
rate_limit:
  enabled: false
  rules:
    default:
      requests: 3
      window: 1m
      key: ip
`)

	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("RATE_LIMIT_ENABLED", "true")

	cfg, err := Load(path)

	Expect(err).To(BeNil())
	Expect(cfg.Environment).To(Equal("staging"))
	Expect(cfg.Server.Port).To(Equal("9000"))
	Expect(cfg.Server.ReadTimeout).To(Equal(5 * time.Second))
	Expect(cfg.Server.WriteTimeout).To(Equal(15 * time.Second))
	Expect(cfg.Database.Driver).To(Equal(DriverPostgres))
	Expect(cfg.Database.URL).To(Equal("postgres://env/db"))
	Expect(cfg.Pagination.DefaultLimit).To(Equal(10))
	Expect(cfg.RateLimit.Enabled).To(BeTrue())
	Expect(cfg.RateLimit.Rules).To(HaveKeyWithValue("default", RateLimitRule{Requests: 3, Window: time.Minute, Key: KeyByIP}))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.ErrorContains(t, err, "read config file")
}

func TestLoad_InvalidBoolEnv(t *testing.T) {
	t.Setenv("ENFORCE_HTTPS", "maybe")

	_, err := Load("")

	assert.ErrorContains(t, err, "invalid ENFORCE_HTTPS")
}

func TestValidate(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should reject unknown drivers", func(t *testing.T) {
		cfg := GetDefaultConfig()
		cfg.Database.Driver = "mysql"

		Expect(cfg.Validate()).To(MatchError(ContainSubstring("unknown database.driver")))
	})

	t.Run("should require a url for postgres", func(t *testing.T) {
		cfg := GetDefaultConfig()
		cfg.Database.Driver = DriverPostgres

		Expect(cfg.Validate()).To(MatchError(ContainSubstring("database.url")))
	})

	t.Run("should reject the default secret in production", func(t *testing.T) {
		cfg := GetDefaultConfig()
		cfg.Environment = "production"

		Expect(cfg.Validate()).To(MatchError(ContainSubstring("must be changed in production")))
	})

	t.Run("should reject inverted pagination limits", func(t *testing.T) {
		cfg := GetDefaultConfig()
		cfg.Pagination.MaxLimit = 5

		Expect(cfg.Validate()).To(MatchError(ContainSubstring("pagination limits")))
	})

	t.Run("should reject bad rate limit rules", func(t *testing.T) {
		cfg := GetDefaultConfig()
		cfg.RateLimit.Rules["GET /x"] = RateLimitRule{Requests: 1, Window: time.Second, Key: "session"}

		Expect(cfg.Validate()).To(MatchError(ContainSubstring("unknown key")))
	})
}
