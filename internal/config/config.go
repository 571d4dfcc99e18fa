// Package config loads process configuration from the environment and an
// optional app.env file.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds every tunable of the service.
type Config struct {
	AppPort         string        `mapstructure:"APP_PORT"`
	DatabaseDriver  string        `mapstructure:"DATABASE_DRIVER"`
	DatabaseDSN     string        `mapstructure:"DATABASE_DSN"`
	JWTSecret       string        `mapstructure:"JWT_SECRET"`
	TokenTTL        time.Duration `mapstructure:"TOKEN_TTL"`
	AuthEnabled     bool          `mapstructure:"AUTH_ENABLED"`
	PasswordHashing bool          `mapstructure:"PASSWORD_HASHING"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	LogFormat       string        `mapstructure:"LOG_FORMAT"`
	RabbitMQURL     string        `mapstructure:"RABBITMQ_URL"`
	RedisAddr       string        `mapstructure:"REDIS_ADDR"`
	LoginRateLimit  int           `mapstructure:"LOGIN_RATE_LIMIT"`
	LoginRateWindow time.Duration `mapstructure:"LOGIN_RATE_WINDOW"`
	AdminLogin      string        `mapstructure:"ADMIN_LOGIN"`
	AdminPassword   string        `mapstructure:"ADMIN_PASSWORD"`
}

// Database drivers understood by database.Connect.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":3000")
	v.SetDefault("DATABASE_DRIVER", DriverPostgres)
	v.SetDefault("DATABASE_DSN", "host=localhost user=postgres password=postgres_password dbname=NodeJs2022Q4 port=5432 sslmode=disable")
	v.SetDefault("JWT_SECRET", "notSoSecretSecret")
	v.SetDefault("TOKEN_TTL", "120s")
	v.SetDefault("AUTH_ENABLED", true)
	v.SetDefault("PASSWORD_HASHING", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("LOGIN_RATE_LIMIT", 10)
	v.SetDefault("LOGIN_RATE_WINDOW", "1m")
	v.SetDefault("ADMIN_LOGIN", "")
	v.SetDefault("ADMIN_PASSWORD", "")
}

// Load reads configuration. Environment variables win over path/app.env, which
// wins over the defaults. A missing app.env is not an error.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot start with.
func (c Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	if c.RedisAddr != "" && (c.LoginRateLimit <= 0 || c.LoginRateWindow <= 0) {
		return errors.New("LOGIN_RATE_LIMIT and LOGIN_RATE_WINDOW must be positive when REDIS_ADDR is set")
	}
	return nil
}
