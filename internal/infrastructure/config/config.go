// Package config provides centralized configuration management using
// Viper for loading, defaults and environment overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Session  SessionConfig  `mapstructure:"session"`
	UI       UIConfig       `mapstructure:"ui"`
}

// AppConfig contains application-level configuration.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

// ServerConfig contains HTTP server configuration. WebPort serves the
// page frontend, APIPort the JSON API.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	WebPort         int           `mapstructure:"web_port"`
	APIPort         int           `mapstructure:"api_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RateLimitRPS    float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst  int           `mapstructure:"rate_limit_burst"`
}

// DatabaseConfig contains database configuration.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // "sqlite" or "postgres"
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Database        string        `mapstructure:"database"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
	SeedDemoData    bool          `mapstructure:"seed_demo_data"`
	SeedCount       int           `mapstructure:"seed_count"`
}

// RedisConfig contains Redis configuration for the optional session
// backend.
type RedisConfig struct {
	Host        string        `mapstructure:"host"`
	Port        int           `mapstructure:"port"`
	Password    string        `mapstructure:"password"`
	Database    int           `mapstructure:"database"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	PoolSize    int           `mapstructure:"pool_size"`
}

// SessionConfig controls the web session store.
type SessionConfig struct {
	Backend    string        `mapstructure:"backend"` // "memory" or "redis"
	CookieName string        `mapstructure:"cookie_name"`
	TTL        time.Duration `mapstructure:"ttl"`
	Secure     bool          `mapstructure:"secure"`
}

// UIConfig carries list-page defaults shared by the API and the pages.
type UIConfig struct {
	PageParam            string `mapstructure:"page_param"`
	SortByParam          string `mapstructure:"sort_by_param"`
	SortDirectionParam   string `mapstructure:"sort_direction_param"`
	DefaultPageSize      int    `mapstructure:"default_page_size"`
	MaxPageSize          int    `mapstructure:"max_page_size"`
	DefaultSortBy        string `mapstructure:"default_sort_by"`
	DefaultSortDirection string `mapstructure:"default_sort_direction"`
	TemplateHotReload    bool   `mapstructure:"template_hot_reload"`
	TemplateDir          string `mapstructure:"template_dir"`
}

// Load reads configuration from an optional file plus BLANKBASE_*
// environment variables, on top of sensible defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("BLANKBASE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; defaults plus env cover it.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && path != "" {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints not expressible as defaults.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	switch c.Session.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported session backend %q", c.Session.Backend)
	}
	if c.UI.DefaultPageSize < 1 || c.UI.DefaultPageSize > c.UI.MaxPageSize {
		return fmt.Errorf("default page size %d out of range", c.UI.DefaultPageSize)
	}
	return nil
}

// IsProduction reports whether the app runs in the production environment.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Environment, "production")
}

// RedisAddr returns the host:port address for the Redis client.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "blankbase")
	v.SetDefault("app.version", "0.1.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "json")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.web_port", 8080)
	v.SetDefault("server.api_port", 3000)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.rate_limit_rps", 20.0)
	v.SetDefault("server.rate_limit_burst", 40)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.database", "blankbase.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.seed_demo_data", true)
	v.SetDefault("database.seed_count", 95)
	v.SetDefault("database.ssl_mode", "disable")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("session.backend", "memory")
	v.SetDefault("session.cookie_name", "blankbase-session")
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.secure", false)

	v.SetDefault("ui.page_param", "page")
	v.SetDefault("ui.sort_by_param", "sortBy")
	v.SetDefault("ui.sort_direction_param", "sortDirection")
	v.SetDefault("ui.default_page_size", 10)
	v.SetDefault("ui.max_page_size", 100)
	v.SetDefault("ui.default_sort_by", "name")
	v.SetDefault("ui.default_sort_direction", "asc")
	v.SetDefault("ui.template_hot_reload", false)
	v.SetDefault("ui.template_dir", "internal/infrastructure/http/webserver/templates")
}
