package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "storefront", cfg.System.Appid)
	assert.Equal(t, 1816, cfg.Web.Port)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.False(t, cfg.Mail.Enabled)
}

func TestLoadConfigYamlOverridesDefaults(t *testing.T) {
	cfile := filepath.Join(t.TempDir(), "storefront.yml")
	content := `
web:
  host: 10.0.0.5
  port: 8443
database:
  name: shop
`
	require.NoError(t, os.WriteFile(cfile, []byte(content), 0o644))

	cfg, err := LoadConfig(cfile)
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.5", cfg.Web.Host)
	assert.Equal(t, 8443, cfg.Web.Port)
	assert.Equal(t, "shop", cfg.Database.Name)
	// untouched sections keep defaults
	assert.Equal(t, "storefront", cfg.System.Appid)
}

func TestLoadConfigEnvOverridesYaml(t *testing.T) {
	cfile := filepath.Join(t.TempDir(), "storefront.yml")
	require.NoError(t, os.WriteFile(cfile, []byte("web:\n  port: 8443\n"), 0o644))

	t.Setenv("STOREFRONT_WEB_PORT", "9000")
	t.Setenv("STOREFRONT_DB_PWD", "env-secret")

	cfg, err := LoadConfig(cfile)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Web.Port)
	assert.Equal(t, "env-secret", cfg.Database.Passwd)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	require.Error(t, err)
}

func TestInitWorkdir(t *testing.T) {
	cfg := &AppConfig{}
	*cfg = *DefaultAppConfig
	cfg.System.Workdir = filepath.Join(t.TempDir(), "work")

	require.NoError(t, cfg.InitWorkdir())

	for _, dir := range []string{"logs", "metrics"} {
		info, err := os.Stat(filepath.Join(cfg.System.Workdir, dir))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}
