package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DEEPSEEK_API_KEY", "test-key")
	t.Setenv("SECRETS_DIR", t.TempDir())
}

func TestLoadConfig(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PASSWORD", "postgres")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, "postgres", cfg.DBPassword)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, "test-key", cfg.AIPrimaryKey)
	assert.Equal(t, []string{"https://app.example.com", "https://staging.example.com"}, cfg.AllowedOrigins)
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "gymbro", cfg.DBName)
	assert.Equal(t, "https://api.deepseek.com/v1/chat/completions", cfg.AIPrimaryURL)
	assert.Equal(t, "deepseek-chat", cfg.AIPrimaryModel)
	assert.Empty(t, cfg.AIFallbackURL)
}

func TestLoadConfigValidation(t *testing.T) {
	t.Run("missing JWT secret", func(t *testing.T) {
		t.Setenv("SECRETS_DIR", t.TempDir())
		t.Setenv("JWT_SECRET", "")
		t.Setenv("DEEPSEEK_API_KEY", "test-key")

		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET")
	})

	t.Run("fallback URL requires fallback key", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("OPENAI_API_URL", "https://api.openai.com/v1/chat/completions")
		t.Setenv("OPENAI_API_KEY", "")

		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "OPENAI_API_KEY")
	})
}

func TestGetSecretFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jwt_secret")
	require.NoError(t, os.WriteFile(path, []byte("file-secret\n"), 0o600))

	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_SECRET_FILE", path)

	assert.Equal(t, "file-secret", getSecret("JWT_SECRET"))
}

func TestGetSecretFromSecretsDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "db_password"), []byte("dir-secret"), 0o600))

	t.Setenv("DB_PASSWORD", "")
	t.Setenv("DB_PASSWORD_FILE", "")
	t.Setenv("SECRETS_DIR", dir)

	assert.Equal(t, "dir-secret", getSecret("DB_PASSWORD"))
}
