package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"plateanet-crawler/internal/crawler"
	"plateanet-crawler/internal/scrapers/plateanet"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, contents string) {
	err := os.WriteFile(path, []byte(contents), 0644)
	require.NoError(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(TokenEnv, "from-env")

	cfg, err := Load(filepath.Join(t.TempDir(), "plateanet.json5"))
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.Token)
	require.Equal(t, plateanet.DefaultBaseUrl, cfg.BaseUrl)
	require.Equal(t, crawler.DefaultConcurrency, cfg.Concurrency)
	require.Equal(t, time.Second*30, cfg.Timeout())
	require.False(t, cfg.Email.Enabled())
}

func TestLoadFileWithLocalOverride(t *testing.T) {
	t.Setenv(TokenEnv, "")

	dir := t.TempDir()
	path := filepath.Join(dir, "plateanet.json5")
	writeFile(t, path, `{
		// shared settings
		base_url: "http://localhost:8080",
		token: "file-token",
		concurrency: 2,
	}`)
	writeFile(t, filepath.Join(dir, "plateanet.local.json5"), `{
		concurrency: 8,
		email: {
			server: "smtp.example.com",
			email_address: "crawler@example.com",
			to: ["me@example.com"],
		},
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080", cfg.BaseUrl)
	require.Equal(t, "file-token", cfg.Token)
	require.Equal(t, 8, cfg.Concurrency)
	require.Equal(t, 587, cfg.Email.Port)
	require.True(t, cfg.Email.Enabled())

	opts := cfg.ClientOptions()
	require.Equal(t, "http://localhost:8080", opts.BaseUrl)
	require.Equal(t, "file-token", opts.Token)
	require.Equal(t, time.Second*30, opts.Timeout)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv(TokenEnv, "from-env")

	path := filepath.Join(t.TempDir(), "plateanet.json5")
	writeFile(t, path, `{token: "file-token"}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.Token)
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv(TokenEnv, "")

	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json5"))
	require.ErrorContains(t, err, "token is required")

	path := filepath.Join(dir, "plateanet.json5")
	writeFile(t, path, `{token: "x", concurrency: -1, email: {server: "smtp.example.com"}}`)
	_, err = Load(path)
	require.ErrorContains(t, err, "concurrency must be positive")
	require.ErrorContains(t, err, "email.to is required")

	writeFile(t, path, `{token: `)
	_, err = Load(path)
	require.ErrorContains(t, err, "read config")
}
