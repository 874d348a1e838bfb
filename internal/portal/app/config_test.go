package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// chdir moves into an empty directory so a stray .env is not picked up.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t)
	t.Setenv("PORTAL_CONFIG_FILE", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "findit-portal", cfg.Issuer)
	require.Equal(t, "sqlite", cfg.DatabaseDriver)
	require.Equal(t, "portal.db", cfg.DatabaseFile)
	require.Equal(t, 5, cfg.LockoutMaxFailures)
	require.Equal(t, 15*time.Minute, cfg.LockoutDuration)
	require.Equal(t, 8*time.Hour, cfg.SessionTTL)
	require.Equal(t, 8080, cfg.Port)
	require.Empty(t, cfg.TrustedProxies)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	dir := chdir(t)
	path := filepath.Join(dir, "portal.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
issuer = "from-file"
port = 9090

[database]
file = "/data/portal.db"

trusted_proxies = ["10.0.0.0/8"]

[lockout]
max_failures = 3
duration = "30m"
`), 0o600))

	t.Setenv("PORTAL_CONFIG_FILE", path)
	t.Setenv("PORT", "7070")
	t.Setenv("LOCKOUT_DURATION", "5")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "from-file", cfg.Issuer)
	require.Equal(t, "/data/portal.db", cfg.DatabaseFile)
	require.Equal(t, 3, cfg.LockoutMaxFailures)
	require.Equal(t, 7070, cfg.Port)
	require.Equal(t, 5*time.Minute, cfg.LockoutDuration)
	require.Equal(t, []string{"10.0.0.0/8"}, cfg.TrustedProxies)

	t.Setenv("TRUSTED_PROXIES", " 127.0.0.1, ,172.16.0.0/12 ")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	require.Equal(t, []string{"127.0.0.1", "172.16.0.0/12"}, cfg.TrustedProxies)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PORTAL_ISSUER=dotenv-issuer\n"), 0o600))
	t.Setenv("PORTAL_CONFIG_FILE", "")
	// Registered so t restores the variable godotenv sets.
	t.Setenv("PORTAL_ISSUER", "")
	require.NoError(t, os.Unsetenv("PORTAL_ISSUER"))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "dotenv-issuer", cfg.Issuer)
}

func TestLoadConfig_Invalid(t *testing.T) {
	chdir(t)
	t.Setenv("PORTAL_CONFIG_FILE", "")

	t.Run("postgres without url", func(t *testing.T) {
		t.Setenv("DATABASE_DRIVER", "postgres")
		t.Setenv("DATABASE_URL", "")
		_, err := LoadConfig()
		require.ErrorContains(t, err, "DATABASE_URL")
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("DATABASE_DRIVER", "mysql")
		_, err := LoadConfig()
		require.ErrorContains(t, err, "unsupported DATABASE_DRIVER")
	})

	t.Run("missing file", func(t *testing.T) {
		t.Setenv("PORTAL_CONFIG_FILE", "/nonexistent/portal.toml")
		_, err := LoadConfig()
		require.Error(t, err)
	})
}
