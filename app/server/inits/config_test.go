package inits

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "admin")
	t.Setenv("DB_PASSWORD", "admin")
	t.Setenv("DB_NAME", "virtual-hospital")
	t.Setenv("ADMIN_PASSWORD", "password")

	// 清掉可选项，保证默认值可预测； t.Setenv 会在用例结束后还原
	for _, key := range []string{"MODE", "SERVER_HOST", "SERVER_PORT", "DB_PORT",
		"JWT_PRIVATE_KEY_FILE", "JWT_PUBLIC_KEY_FILE", "TOKEN_TTL_HOURS",
		"ADMIN_USERNAME", "ADMIN_EMAIL"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Config()
	require.NoError(t, err)

	assert.False(t, cfg.System.IsProd)
	assert.Equal(t, ":8000", cfg.Listen())
	assert.Equal(t, "5432", cfg.DB.Port)
	assert.Contains(t, cfg.DSN(), "host=localhost")
	assert.Contains(t, cfg.DSN(), "dbname=virtual-hospital")
	assert.Equal(t, "keys/id_rsa_priv.pem", cfg.Security.PrivateKeyFile)
	assert.Equal(t, "keys/id_rsa_pub.pem", cfg.Security.PublicKeyFile)
	assert.Equal(t, 24*time.Hour, cfg.Security.TokenTTL)
	assert.Equal(t, "admin", cfg.Seed.AdminUsername)
	assert.Equal(t, "admin@example.com", cfg.Seed.AdminEmail)
}

func TestConfigProdMode(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MODE", "production")

	cfg, err := Config()
	require.NoError(t, err)
	assert.True(t, cfg.System.IsProd)
}

func TestConfigCustomTTL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TOKEN_TTL_HOURS", "48")

	cfg, err := Config()
	require.NoError(t, err)
	assert.Equal(t, 48*time.Hour, cfg.Security.TokenTTL)
}

func TestConfigInvalidTTL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TOKEN_TTL_HOURS", "soon")

	_, err := Config()
	assert.Error(t, err)
}

func TestConfigMissingDBHost(t *testing.T) {
	setRequiredEnv(t)
	require.NoError(t, os.Unsetenv("DB_HOST"))

	_, err := Config()
	assert.Error(t, err)
}
