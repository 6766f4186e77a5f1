package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DBConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Catalog  CatalogConfig
	Seed     SeedConfig
}

// AppConfig holds application-level settings
type AppConfig struct {
	Environment  string // development or production
	InitialAdmin string // registering this username yields an admin
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ShutdownTimeout time.Duration
}

// DBConfig holds database connection parameters
type DBConfig struct {
	Host          string
	Port          int
	User          string
	Password      string
	Name          string
	SSLMode       string
	MaxRetries    int
	RetryInterval time.Duration
}

// DSN returns the PostgreSQL connection string
func (d DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// JWTConfig holds token settings
type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

// RedisConfig holds Redis settings; an empty Addr disables the catalog cache
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether a Redis address was configured
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// CatalogConfig holds catalog read settings
type CatalogConfig struct {
	CacheTTL time.Duration
}

// SeedConfig names the admin account created by the importer
type SeedConfig struct {
	AdminUsername string
	AdminPassword string
}

// Enabled reports whether both seed credentials were supplied
func (s SeedConfig) Enabled() bool {
	return s.AdminUsername != "" && s.AdminPassword != ""
}

// Load reads configuration from the environment. Callers load .env first.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Environment:  v.GetString("APP_ENV"),
			InitialAdmin: v.GetString("INITIAL_ADMIN_USERNAME"),
		},
		Server: ServerConfig{
			Port:            v.GetString("SERVER_PORT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
		},
		Database: DBConfig{
			Host:          v.GetString("DB_HOST"),
			Port:          v.GetInt("DB_PORT"),
			User:          v.GetString("DB_USER"),
			Password:      v.GetString("DB_PASSWORD"),
			Name:          v.GetString("DB_NAME"),
			SSLMode:       v.GetString("DB_SSLMODE"),
			MaxRetries:    v.GetInt("DB_CONNECT_RETRIES"),
			RetryInterval: v.GetDuration("DB_CONNECT_RETRY_INTERVAL"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("JWT_SECRET_KEY"),
			Expiration: time.Duration(v.GetInt("JWT_EXPIRATION_HOURS")) * time.Hour,
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Catalog: CatalogConfig{
			CacheTTL: v.GetDuration("CATALOG_CACHE_TTL"),
		},
		Seed: SeedConfig{
			AdminUsername: v.GetString("SEED_ADMIN_USERNAME"),
			AdminPassword: v.GetString("SEED_ADMIN_PASSWORD"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "5s")

	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_CONNECT_RETRIES", 5)
	v.SetDefault("DB_CONNECT_RETRY_INTERVAL", "5s")

	v.SetDefault("JWT_EXPIRATION_HOURS", 720)

	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CATALOG_CACHE_TTL", "10m")
}

// Validate checks the settings every binary needs
func (c *Config) Validate() error {
	d := c.Database
	if d.Host == "" || d.User == "" || d.Name == "" {
		return errors.New("database environment variables not set (DB_HOST, DB_USER, DB_NAME)")
	}
	if d.Port <= 0 {
		return fmt.Errorf("invalid DB_PORT: %d", d.Port)
	}
	if d.MaxRetries < 1 {
		return fmt.Errorf("DB_CONNECT_RETRIES must be at least 1, got %d", d.MaxRetries)
	}
	return nil
}

// ValidateServer additionally checks what the HTTP server needs to issue tokens
func (c *Config) ValidateServer() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET_KEY not set in environment")
	}
	if c.JWT.Expiration <= 0 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be positive, got %s", c.JWT.Expiration)
	}
	return nil
}
