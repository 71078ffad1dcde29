package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port        string `yaml:"port" env:"SERVER_PORT"`
		Mode        string `yaml:"mode" env:"SERVER_MODE"`
		StoragePath string `yaml:"storage_path" env:"SERVER_STORAGE_PATH"`
		BaseURL     string `yaml:"base_url" env:"SERVER_BASE_URL"`
		CORSOrigins string `yaml:"cors_origins" env:"SERVER_CORS_ORIGINS"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	// Redis backs the token revocation list. Empty Addr keeps revocations in memory.
	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
	} `yaml:"redis"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Seed struct {
		Enabled bool `yaml:"enabled" env:"SEED_ENABLED"`
	} `yaml:"seed"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Environment wins over the file
	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "3000"
	config.Server.Mode = "development"
	config.Server.StoragePath = "uploads"
	config.Server.CORSOrigins = "*"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "hostel_pg_finder"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"

	config.JWT.AccessTokenExpiration = "24h"
	config.JWT.Issuer = "hostelpg.app"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Seed.Enabled = true
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database max_open_conns must be positive")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}

	if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid database connection lifetime: %w", err)
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// CORSOriginList splits the comma separated origin list.
func (c *Config) CORSOriginList() []string {
	var origins []string
	for _, origin := range strings.Split(c.Server.CORSOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production")
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
