// Package config loads the service settings: a YAML file first, then an
// optional .env file, then JINGJAI_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "JINGJAI"
	// PathEnv names the variable that points at the YAML file.
	PathEnv     = "JINGJAI_CONFIG"
	DefaultPath = "config/config.yaml"
	envFile     = ".env"
)

// Config is the service configuration. Environment overrides are named
// after the field path, e.g. JINGJAI_DATABASE_PASSWORD or
// JINGJAI_SERVER_GRPC_PORT.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Auth      AuthConfig      `yaml:"auth"`
	Redis     RedisConfig     `yaml:"redis"`
	Inventory InventoryConfig `yaml:"inventory"`
	Resources ResourcesConfig `yaml:"resources"`
	Log       LogConfig       `yaml:"log"`
	// Timezone interprets booking times that carry no offset.
	Timezone string `yaml:"timezone"`
}

type ServerConfig struct {
	GRPCPort int `yaml:"grpc_port" split_words:"true"`
	HTTPPort int `yaml:"http_port" split_words:"true"`
}

type DatabaseConfig struct {
	// Driver is postgres, mysql or sqlite.
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password" masked:"true"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode" split_words:"true"`
	// Path is the sqlite file.
	Path      string `yaml:"path"`
	TxRetries int    `yaml:"tx_retries" split_words:"true"`
}

type KafkaConfig struct {
	// Brokers may be empty; change events are then only logged.
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	GroupID string   `yaml:"group_id" split_words:"true"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret" split_words:"true" masked:"true"`
	TokenTTL  time.Duration `yaml:"token_ttl" split_words:"true"`
}

type RedisConfig struct {
	// Addr enables idempotency keys when set.
	Addr     string `yaml:"addr"`
	Password string `yaml:"password" masked:"true"`
	DB       int    `yaml:"db"`
}

type InventoryConfig struct {
	AllowNegative bool `yaml:"allow_negative" split_words:"true"`
}

type ResourcesConfig struct {
	CacheTTL time.Duration `yaml:"cache_ttl" split_words:"true"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the settings used for anything the file and the
// environment leave out.
func Default() *Config {
	return &Config{
		Server: ServerConfig{GRPCPort: 50051, HTTPPort: 8080},
		Database: DatabaseConfig{
			Driver:    "postgres",
			Host:      "localhost",
			Port:      5432,
			User:      "jingjai",
			Name:      "jingjai",
			SSLMode:   "disable",
			TxRetries: 3,
		},
		Kafka: KafkaConfig{
			Topic:   "jingjai-events",
			GroupID: "jingjai-auditlog",
		},
		Auth:      AuthConfig{TokenTTL: 24 * time.Hour},
		Inventory: InventoryConfig{AllowNegative: true},
		Resources: ResourcesConfig{CacheTTL: 5 * time.Minute},
		Log:       LogConfig{Level: "info"},
		Timezone:  "Asia/Bangkok",
	}
}

// Load reads the configuration. An empty path falls back to $JINGJAI_CONFIG
// and then to DefaultPath; only an explicitly named file must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = os.Getenv(PathEnv)
		explicit = path != ""
	}
	if path == "" {
		path = DefaultPath
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	if !validPort(c.Server.GRPCPort) || !validPort(c.Server.HTTPPort) {
		return fmt.Errorf("invalid server ports %d/%d", c.Server.GRPCPort, c.Server.HTTPPort)
	}
	switch c.Database.Driver {
	case "postgres", "mysql":
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func validPort(p int) bool {
	return p > 0 && p < 65536
}
