package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	cfile := filepath.Join(dir, "storefront.yml")
	content := []byte(`
system:
  workdir: ` + dir + `
web:
  port: 8080
database:
  type: sqlite
  name: shop.db
shop:
  currency: USD
  default_zones:
    - zone_name: Rosario
      postal_code_start: 2000
      postal_code_end: 2999
      base_cost: 850
`)
	require.NoError(t, os.WriteFile(cfile, content, 0o600))

	cfg := LoadConfig(cfile)
	assert.Equal(t, 8080, cfg.Web.Port)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "USD", cfg.Shop.Currency)
	// untouched sections keep their defaults
	assert.Equal(t, "admin", cfg.Auth.AdminUser)
	require.Len(t, cfg.Shop.DefaultZones, 1)
	assert.Equal(t, "Rosario", cfg.Shop.DefaultZones[0]["zone_name"])
	assert.DirExists(t, cfg.GetDataDir())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STOREFRONT_SYSTEM_WORKER_DIR", dir)
	t.Setenv("STOREFRONT_WEB_PORT", "9090")
	t.Setenv("STOREFRONT_DB_DEBUG", "true")
	t.Setenv("STOREFRONT_WEB_ALLOW_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("STOREFRONT_CART_TTL_HOURS", "not-a-number")

	cfg := LoadConfig(filepath.Join(dir, "missing.yml"))
	assert.Equal(t, dir, cfg.System.Workdir)
	assert.Equal(t, 9090, cfg.Web.Port)
	assert.True(t, cfg.Database.Debug)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Web.AllowOrigins)
	assert.Equal(t, DefaultAppConfig.Shop.CartTTLHours, cfg.Shop.CartTTLHours)
	assert.Equal(t, filepath.Join(dir, "data", "cart.db"), cfg.GetCartDBPath())
}
