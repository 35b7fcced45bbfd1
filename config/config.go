// Package config loads the service configuration from the environment.
//
// Variables are read from the process environment, and from a `.env` file
// in the working directory when one exists. The first underscore separates
// the section from the key: APP_PORT -> app.port, SYNC_PAGE_SIZE ->
// sync.page_size.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const (
	EnvLocal      = "local"
	EnvTest       = "test"
	EnvProduction = "production"
)

type Config struct {
	Env      string   `koanf:"env" validate:"required,oneof=local test production"`
	App      App      `koanf:"app"`
	Database Database `koanf:"db"`
	MySQL    MySQL    `koanf:"mysql"`
	GitHub   GitHub   `koanf:"github"`
	Sync     Sync     `koanf:"sync"`
}

type App struct {
	Port        int    `koanf:"port" validate:"min=1,max=65535"`
	CorsOrigins string `koanf:"cors_origins"`
}

// Database selects the store. DSN, when set, is passed to the driver as is;
// otherwise a MySQL DSN is built from the MYSQL_* variables.
type Database struct {
	Driver string `koanf:"driver" validate:"required,oneof=mysql postgres sqlite"`
	DSN    string `koanf:"dsn" validate:"required_unless=Driver mysql"`
}

type MySQL struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port" validate:"min=1,max=65535"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Database string `koanf:"database"`
}

type GitHub struct {
	Token string `koanf:"token"`
	URL   string `koanf:"url" validate:"required,url"`
}

type Sync struct {
	Enabled  bool          `koanf:"enabled"`
	Interval time.Duration `koanf:"interval" validate:"min=1s"`
	PageSize int           `koanf:"page_size" validate:"min=1,max=100"`
}

var sections = map[string]bool{
	"app":    true,
	"db":     true,
	"mysql":  true,
	"github": true,
	"sync":   true,
}

// Default returns the configuration used for every variable left unset.
func Default() *Config {
	return &Config{
		Env: EnvLocal,
		App: App{
			Port:        8080,
			CorsOrigins: "*",
		},
		Database: Database{
			Driver: "mysql",
		},
		MySQL: MySQL{
			Host: "localhost",
			Port: 3306,
		},
		GitHub: GitHub{
			URL: "https://api.github.com/graphql",
		},
		Sync: Sync{
			Enabled:  true,
			Interval: time.Minute,
			PageSize: 50,
		},
	}
}

// Load reads the environment on top of Default and validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// envKey maps ENV to env and SECTION_KEY to section.key. Variables outside
// the known sections are dropped.
func envKey(s string) string {
	s = strings.ToLower(s)
	if s == "env" {
		return s
	}

	section, key, ok := strings.Cut(s, "_")
	if !ok || !sections[section] {
		return ""
	}
	return section + "." + key
}

func (c *Config) IsDev() bool {
	return c.Env == EnvLocal
}

// DatabaseDSN returns the data source name handed to the database driver.
func (c *Config) DatabaseDSN() string {
	if c.Database.DSN != "" {
		return c.Database.DSN
	}

	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", c.MySQL.Host, c.MySQL.Port)
	mc.User = c.MySQL.User
	mc.Passwd = c.MySQL.Password
	mc.DBName = c.MySQL.Database
	mc.ParseTime = true
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}

func (a App) CorsAllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(a.CorsOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
