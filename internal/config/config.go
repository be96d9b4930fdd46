// Package config carrega a configuração do serviço: um arquivo YAML opcional
// (CONFIG_FILE) sobrescrito pelas variáveis de ambiente.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/matheusmosca/storefront/internal/logger"
	"github.com/matheusmosca/storefront/internal/store/mongodb"
	"github.com/matheusmosca/storefront/internal/store/postgres"
	"github.com/matheusmosca/storefront/internal/telemetry"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Config struct {
	Server    ServerConfig     `yaml:"server"`
	Store     StoreConfig      `yaml:"store"`
	Redis     RedisConfig      `yaml:"redis"`
	Auth      AuthConfig       `yaml:"auth"`
	Telemetry telemetry.Config `yaml:"telemetry"`
	Log       logger.Config    `yaml:"log"`
}

type ServerConfig struct {
	Port         string        `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

type StoreConfig struct {
	Driver   string          `yaml:"driver"`
	Postgres postgres.Config `yaml:"postgres"`
	Mongo    mongodb.Config  `yaml:"mongo"`
}

type RedisConfig struct {
	// URL vazia usa o armazenamento de idempotência em memória.
	URL            string        `yaml:"url"`
	IdempotencyTTL time.Duration `yaml:"idempotency_ttl"`
}

type AuthConfig struct {
	JWTSecret     string        `yaml:"jwt_secret"`
	TokenTTL      time.Duration `yaml:"token_ttl"`
	AdminName     string        `yaml:"admin_name"`
	AdminEmail    string        `yaml:"admin_email"`
	AdminPassword string        `yaml:"admin_password"`
}

// Default retorna a configuração usada quando nada é informado.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:         "8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  30 * time.Second,
		},
		Store: StoreConfig{
			Driver: DriverMemory,
			Postgres: postgres.Config{
				User:     "root",
				Password: "pass",
				Host:     "localhost",
				Port:     "5432",
				Name:     "storefront",
				MaxConns: 10,
				MinConns: 2,
			},
			Mongo: mongodb.Config{
				URI:      "mongodb://localhost:27017",
				Database: "storefront",
			},
		},
		Redis: RedisConfig{IdempotencyTTL: 24 * time.Hour},
		Auth: AuthConfig{
			JWTSecret: "storefront-dev-secret",
			TokenTTL:  30 * 24 * time.Hour,
			AdminName: "Admin",
		},
		Telemetry: telemetry.Config{
			Endpoint:       "localhost:4318",
			ServiceName:    "storefront",
			ServiceVersion: "1.0.0",
		},
		Log: logger.Config{Mode: "development", Level: "info"},
	}
}

// Load lê CONFIG_FILE (se presente), aplica as variáveis de ambiente e valida.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	var err error

	c.Server.Port = getEnv("PORT", c.Server.Port)
	if c.Server.ReadTimeout, err = envDuration("SERVER_READ_TIMEOUT", c.Server.ReadTimeout); err != nil {
		return err
	}
	if c.Server.WriteTimeout, err = envDuration("SERVER_WRITE_TIMEOUT", c.Server.WriteTimeout); err != nil {
		return err
	}
	if c.Server.IdleTimeout, err = envDuration("SERVER_IDLE_TIMEOUT", c.Server.IdleTimeout); err != nil {
		return err
	}

	c.Store.Driver = getEnv("STORE_DRIVER", c.Store.Driver)
	c.Store.Postgres.User = getEnv("DATABASE_USER", c.Store.Postgres.User)
	c.Store.Postgres.Password = getEnv("DATABASE_PASSWORD", c.Store.Postgres.Password)
	c.Store.Postgres.Host = getEnv("DATABASE_HOST", c.Store.Postgres.Host)
	c.Store.Postgres.Port = getEnv("DATABASE_PORT", c.Store.Postgres.Port)
	c.Store.Postgres.Name = getEnv("DATABASE_NAME", c.Store.Postgres.Name)
	if c.Store.Postgres.MaxConns, err = envInt32("DATABASE_MAX_CONNS", c.Store.Postgres.MaxConns); err != nil {
		return err
	}
	if c.Store.Postgres.MinConns, err = envInt32("DATABASE_MIN_CONNS", c.Store.Postgres.MinConns); err != nil {
		return err
	}
	c.Store.Mongo.URI = getEnv("MONGO_URI", c.Store.Mongo.URI)
	c.Store.Mongo.Database = getEnv("MONGO_DATABASE", c.Store.Mongo.Database)
	if c.Store.Mongo.Transactions, err = envBool("MONGO_TRANSACTIONS", c.Store.Mongo.Transactions); err != nil {
		return err
	}

	c.Redis.URL = getEnv("REDIS_URL", c.Redis.URL)
	if c.Redis.IdempotencyTTL, err = envDuration("IDEMPOTENCY_TTL", c.Redis.IdempotencyTTL); err != nil {
		return err
	}

	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	if c.Auth.TokenTTL, err = envDuration("JWT_TTL", c.Auth.TokenTTL); err != nil {
		return err
	}
	c.Auth.AdminName = getEnv("ADMIN_NAME", c.Auth.AdminName)
	c.Auth.AdminEmail = getEnv("ADMIN_EMAIL", c.Auth.AdminEmail)
	c.Auth.AdminPassword = getEnv("ADMIN_PASSWORD", c.Auth.AdminPassword)

	if c.Telemetry.Enabled, err = envBool("OTEL_ENABLED", c.Telemetry.Enabled); err != nil {
		return err
	}
	c.Telemetry.Endpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.Telemetry.Endpoint)
	c.Telemetry.ServiceName = getEnv("SERVICE_NAME", c.Telemetry.ServiceName)

	c.Log.Mode = getEnv("LOG_MODE", c.Log.Mode)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.File = getEnv("LOG_FILE", c.Log.File)
	return nil
}

func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory, DriverPostgres, DriverMongo:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("jwt secret must not be empty")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("token ttl must be positive")
	}
	if c.Server.Port == "" {
		return fmt.Errorf("server port must not be empty")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return def, nil
	}
	d, err := cast.ToDurationE(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func envBool(key string, def bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return def, nil
	}
	b, err := cast.ToBoolE(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func envInt32(key string, def int32) (int32, error) {
	value := os.Getenv(key)
	if value == "" {
		return def, nil
	}
	n, err := cast.ToInt32E(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
