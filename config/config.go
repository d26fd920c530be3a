package config

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// DBConfig Database config
type DBConfig struct {
	Type     string `yaml:"type"` // postgres or sqlite
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Passwd   string `yaml:"passwd"`
	MaxConn  int    `yaml:"max_conn"`
	IdleConn int    `yaml:"idle_conn"`
	Debug    bool   `yaml:"debug"`
}

// SysConfig System config
type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
}

// WebConfig WEB config
type WebConfig struct {
	Host          string   `yaml:"host"`
	Port          int      `yaml:"port"`
	Secret        string   `yaml:"secret"`
	SessionSecret string   `yaml:"session_secret"`
	AllowOrigins  []string `yaml:"allow_origins"`
}

// LogConfig Logger config
type LogConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

// AuthConfig holds the bootstrap administrator credentials and token lifetime.
type AuthConfig struct {
	AdminUser     string `yaml:"admin_user"`
	AdminPassword string `yaml:"admin_password"`
	TokenHours    int    `yaml:"token_hours"`
}

// ShopConfig storefront settings
type ShopConfig struct {
	Currency       string                   `yaml:"currency"`
	CartTTLHours   int                      `yaml:"cart_ttl_hours"`
	SeedDemoData   bool                     `yaml:"seed_demo_data"`
	DefaultZones   []map[string]interface{} `yaml:"default_zones"`
	ExportLanguage string                   `yaml:"export_language"`
}

type AppConfig struct {
	System   SysConfig  `yaml:"system"`
	Web      WebConfig  `yaml:"web"`
	Database DBConfig   `yaml:"database"`
	Logger   LogConfig  `yaml:"logger"`
	Auth     AuthConfig `yaml:"auth"`
	Shop     ShopConfig `yaml:"shop"`
}

func (c *AppConfig) GetLogDir() string {
	return path.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetDataDir() string {
	return path.Join(c.System.Workdir, "data")
}

func (c *AppConfig) GetCartDBPath() string {
	return path.Join(c.GetDataDir(), "cart.db")
}

func (c *AppConfig) initDirs() {
	_ = os.MkdirAll(c.GetLogDir(), 0o755)
	_ = os.MkdirAll(c.GetDataDir(), 0o755)
}

func setEnvValue(name string, val *string) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		*val = evalue
	}
}

func setEnvBoolValue(name string, val *bool) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		*val = cast.ToBool(evalue)
	}
}

func setEnvIntValue(name string, val *int) {
	var evalue = os.Getenv(name)
	if evalue == "" {
		return
	}
	p, err := cast.ToIntE(evalue)
	if err == nil {
		*val = p
	}
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "Storefront",
		Location: "America/Argentina/Buenos_Aires",
		Workdir:  "/var/storefront",
		Debug:    true,
	},
	Web: WebConfig{
		Host:         "0.0.0.0",
		Port:         3000,
		Secret:       "9b6de5cc-0731-4c2f-8c7e-2f5f6d7a1b20",
		AllowOrigins: []string{"*"},
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "storefront",
		User:     "postgres",
		Passwd:   "postgres",
		MaxConn:  50,
		IdleConn: 10,
		Debug:    false,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/storefront/logs/storefront.log",
	},
	Auth: AuthConfig{
		AdminUser:     "admin",
		AdminPassword: "storefront",
		TokenHours:    8,
	},
	Shop: ShopConfig{
		Currency:       "ARS",
		CartTTLHours:   72,
		SeedDemoData:   true,
		ExportLanguage: "es-AR",
	},
}

// LoadConfig reads the yaml file at cfile (or the first default location that exists),
// falls back to DefaultAppConfig and finally applies STOREFRONT_* environment overrides.
func LoadConfig(cfile string) *AppConfig {
	if cfile == "" {
		cfile = "storefront.yml"
	}
	if !fileExists(cfile) {
		cfile = "/etc/storefront.yml"
	}
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig
	if fileExists(cfile) {
		data, err := os.ReadFile(filepath.Clean(cfile))
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				panic(err)
			}
		}
	}

	setEnvValue("STOREFRONT_SYSTEM_WORKER_DIR", &cfg.System.Workdir)
	setEnvValue("STOREFRONT_SYSTEM_LOCATION", &cfg.System.Location)
	setEnvBoolValue("STOREFRONT_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("STOREFRONT_WEB_HOST", &cfg.Web.Host)
	setEnvValue("STOREFRONT_WEB_SECRET", &cfg.Web.Secret)
	setEnvValue("STOREFRONT_WEB_SESSION_SECRET", &cfg.Web.SessionSecret)
	setEnvIntValue("STOREFRONT_WEB_PORT", &cfg.Web.Port)
	if v := os.Getenv("STOREFRONT_WEB_ALLOW_ORIGINS"); v != "" {
		cfg.Web.AllowOrigins = strings.Split(v, ",")
	}

	setEnvValue("STOREFRONT_DB_TYPE", &cfg.Database.Type)
	setEnvValue("STOREFRONT_DB_HOST", &cfg.Database.Host)
	setEnvValue("STOREFRONT_DB_NAME", &cfg.Database.Name)
	setEnvValue("STOREFRONT_DB_USER", &cfg.Database.User)
	setEnvValue("STOREFRONT_DB_PWD", &cfg.Database.Passwd)
	setEnvIntValue("STOREFRONT_DB_PORT", &cfg.Database.Port)
	setEnvBoolValue("STOREFRONT_DB_DEBUG", &cfg.Database.Debug)

	setEnvValue("STOREFRONT_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvValue("STOREFRONT_LOGGER_FILENAME", &cfg.Logger.Filename)
	setEnvBoolValue("STOREFRONT_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)

	setEnvValue("STOREFRONT_ADMIN_USER", &cfg.Auth.AdminUser)
	setEnvValue("STOREFRONT_ADMIN_PASSWORD", &cfg.Auth.AdminPassword)
	setEnvIntValue("STOREFRONT_TOKEN_HOURS", &cfg.Auth.TokenHours)

	setEnvValue("STOREFRONT_SHOP_CURRENCY", &cfg.Shop.Currency)
	setEnvIntValue("STOREFRONT_CART_TTL_HOURS", &cfg.Shop.CartTTLHours)
	setEnvBoolValue("STOREFRONT_SEED_DEMO_DATA", &cfg.Shop.SeedDemoData)

	cfg.initDirs()
	return cfg
}

func fileExists(file string) bool {
	info, err := os.Stat(file)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
