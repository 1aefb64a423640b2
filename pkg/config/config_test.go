package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew_DefaultsAndEnvOverride(t *testing.T) {
	t.Setenv("APP_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("APP_SERVER_PORT", "9999")
	t.Setenv("APP_AUTH_ADMIN_JWT_SECRET", "s3cret")

	c, err := New()
	require.NoError(t, err)
	require.Equal(t, EnvDev, c.Env)
	require.Equal(t, 9999, c.Server.Port)
	require.Equal(t, "s3cret", c.Auth.AdminJWTSecret)
	require.Equal(t, "admin", c.Auth.AdminRole)
}

func TestNew_ReadsYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.yaml")
	body := []byte("env: prod\nserver:\n  port: 7000\ntimezone: UTC\nauth:\n  claims_verify_secret: abc\n")
	require.NoError(t, os.WriteFile(path, body, 0o600))
	t.Setenv("APP_CONFIG_FILE", path)

	c, err := New()
	require.NoError(t, err)
	require.Equal(t, EnvProd, c.Env)
	require.Equal(t, 7000, c.Server.Port)
	require.Equal(t, "abc", c.Auth.ClaimsVerifySecret)
	require.Equal(t, time.UTC, c.Location())
}

func TestLocation_FallsBackToUTC(t *testing.T) {
	require.Equal(t, time.UTC, (*Config)(nil).Location())
	require.Equal(t, time.UTC, (&Config{Timezone: "Not/AZone"}).Location())
}

func TestNew_RejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [port: 1\n  : :\n"), 0o600))
	t.Setenv("APP_CONFIG_FILE", path)

	_, err := New()
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to read config")
}
