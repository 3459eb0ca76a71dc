// Package config loads runtime settings from the environment.
//
// A `.env` file in the working directory is loaded first when present;
// real environment variables always win over it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers accepted by DB_DRIVER.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config is the root configuration of the catalog service.
type Config struct {
	AppPort string `mapstructure:"app_port" validate:"required"`

	DBDriver      string `mapstructure:"db_driver" validate:"oneof=mongo postgres sqlite memory"`
	MongoURI      string `mapstructure:"mongo_uri" validate:"required_if=DBDriver mongo"`
	MongoDatabase string `mapstructure:"mongo_database" validate:"required_if=DBDriver mongo"`
	DatabaseDSN   string `mapstructure:"database_dsn" validate:"required_if=DBDriver postgres,required_if=DBDriver sqlite"`

	// RedisAddr empty disables the product cache.
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db" validate:"gte=0"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl" validate:"gt=0"`

	// RabbitMQURL empty disables product events.
	RabbitMQURL      string `mapstructure:"rabbitmq_url"`
	RabbitMQExchange string `mapstructure:"rabbitmq_exchange" validate:"required"`

	AuthEnabled bool   `mapstructure:"auth_enabled"`
	JWTSecret   string `mapstructure:"jwt_secret" validate:"required_if=AuthEnabled true"`

	LogLevel  string `mapstructure:"log_level"`
	LogPretty bool   `mapstructure:"log_pretty"`
}

// New returns a viper instance with every key defaulted and bound to
// its upper-case environment variable.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", DriverMongo)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "catalog")
	v.SetDefault("DATABASE_DSN", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "catalog")
	v.SetDefault("AUTH_ENABLED", true)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)
	v.AutomaticEnv()
	return v
}

// Load reads the optional env files, then the environment, and validates
// the result.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return FromViper(New())
}

// FromViper decodes and validates the settings held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
