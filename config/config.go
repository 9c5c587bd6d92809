package config

import (
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" env:"STOREFRONT_SYSTEM_APPID" json:"appid"`
	Location string `yaml:"location" env:"STOREFRONT_SYSTEM_LOCATION" json:"location"`
	Workdir  string `yaml:"workdir" env:"STOREFRONT_SYSTEM_WORKDIR" json:"workdir"`
	Debug    bool   `yaml:"debug" env:"STOREFRONT_SYSTEM_DEBUG" json:"debug"`
}

type WebConfig struct {
	Host      string `yaml:"host" env:"STOREFRONT_WEB_HOST" json:"host"`
	Port      int    `yaml:"port" env:"STOREFRONT_WEB_PORT" json:"port"`
	JwtSecret string `yaml:"jwt_secret" env:"STOREFRONT_WEB_JWT_SECRET" json:"jwt_secret"`
}

type DBConfig struct {
	Type     string `yaml:"type" env:"STOREFRONT_DB_TYPE" json:"type"`
	Host     string `yaml:"host" env:"STOREFRONT_DB_HOST" json:"host"`
	Port     int    `yaml:"port" env:"STOREFRONT_DB_PORT" json:"port"`
	Name     string `yaml:"name" env:"STOREFRONT_DB_NAME" json:"name"`
	User     string `yaml:"user" env:"STOREFRONT_DB_USER" json:"user"`
	Passwd   string `yaml:"passwd" env:"STOREFRONT_DB_PWD" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" env:"STOREFRONT_DB_MAX_CONN" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" env:"STOREFRONT_DB_IDLE_CONN" json:"idle_conn"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" env:"STOREFRONT_LOGGER_MODE" json:"mode"`
	FileEnable bool   `yaml:"file_enable" env:"STOREFRONT_LOGGER_FILE_ENABLE" json:"file_enable"`
	Filename   string `yaml:"filename" env:"STOREFRONT_LOGGER_FILENAME" json:"filename"`
}

type MailConfig struct {
	Enabled  bool   `yaml:"enabled" env:"STOREFRONT_MAIL_ENABLED" json:"enabled"`
	Host     string `yaml:"host" env:"STOREFRONT_MAIL_HOST" json:"host"`
	Port     int    `yaml:"port" env:"STOREFRONT_MAIL_PORT" json:"port"`
	Username string `yaml:"username" env:"STOREFRONT_MAIL_USERNAME" json:"username"`
	Password string `yaml:"password" env:"STOREFRONT_MAIL_PASSWORD" json:"password"`
	From     string `yaml:"from" env:"STOREFRONT_MAIL_FROM" json:"from"`
}

type AppConfig struct {
	System   SysConfig  `yaml:"system" json:"system"`
	Web      WebConfig  `yaml:"web" json:"web"`
	Database DBConfig   `yaml:"database" json:"database"`
	Logger   LogConfig  `yaml:"logger" json:"logger"`
	Mail     MailConfig `yaml:"mail" json:"mail"`
}

// DefaultAppConfig is the baseline configuration; a yaml file and environment
// variables override it in that order.
var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "storefront",
		Location: "Asia/Shanghai",
		Workdir:  "/var/storefront",
		Debug:    true,
	},
	Web: WebConfig{
		Host:      "0.0.0.0",
		Port:      1816,
		JwtSecret: "9b6de5cc-0001-1203-xxtt-0f568ac9da37",
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "storefront",
		User:     "postgres",
		Passwd:   "",
		MaxConn:  100,
		IdleConn: 10,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/storefront/storefront.log",
	},
	Mail: MailConfig{
		Enabled: false,
		Port:    25,
	},
}

// LoadConfig reads configuration from the given yaml file (optional) and then
// applies environment overrides.
func LoadConfig(cfile string) (*AppConfig, error) {
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig

	if cfile != "" {
		data, err := os.ReadFile(cfile)
		if err != nil {
			return nil, errors.Wrap(err, "read config file")
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "parse config file")
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "parse env overrides")
	}
	return cfg, nil
}

// InitWorkdir creates the runtime directory layout.
func (c *AppConfig) InitWorkdir() error {
	for _, dir := range []string{
		c.System.Workdir,
		filepath.Join(c.System.Workdir, "logs"),
		filepath.Join(c.System.Workdir, "metrics"),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "init workdir")
		}
	}
	return nil
}
