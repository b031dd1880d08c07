package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeEnvFile(t, "JWT_SECRET=secret\nVAULT_KEY=key\nDB_NAME=vault\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "logs/", cfg.App.LogPath)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, int32(10), cfg.Database.MaxConns)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 168*time.Hour, cfg.JWT.RefreshTTL)
	assert.Equal(t, 10*time.Minute, cfg.OTP.Expiry)
	assert.Equal(t, "log", cfg.Email.Provider)
	assert.Equal(t, "@every 5m", cfg.Cleanup.Schedule)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeEnvFile(t, "JWT_SECRET=secret\nVAULT_KEY=key\nDB_NAME=vault\nOTP_EXPIRY=5m\n")
	t.Setenv("OTP_EXPIRY", "15m")
	t.Setenv("EMAIL_PROVIDER", "SendGrid")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.OTP.Expiry)
	assert.Equal(t, "sendgrid", cfg.Email.Provider)
}

func TestLoadConfig_AllowedOrigins(t *testing.T) {
	path := writeEnvFile(t, "JWT_SECRET=secret\nVAULT_KEY=key\nDB_NAME=vault\n")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com ")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.App.AllowedOrigins)
}

func TestLoadConfig_MissingFileUsesEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("VAULT_KEY", "key")
	t.Setenv("DB_DRIVER", "memory")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
}

func TestLoadConfig_RequiresSecrets(t *testing.T) {
	path := writeEnvFile(t, "DB_NAME=vault\n")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "VAULT_KEY")
}

func TestLoadConfig_RejectsUnknownDriver(t *testing.T) {
	path := writeEnvFile(t, "JWT_SECRET=secret\nVAULT_KEY=key\nDB_DRIVER=mysql\n")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mysql")
}
