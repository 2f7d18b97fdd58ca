package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/yigit/unirecords/internal/app/models"
)

// Storage drivers
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config is the service configuration. Values come from defaults, then the
// YAML file, then environment variables.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Logging  LoggingConfig  `yaml:"logging"`
	Records  RecordsConfig  `yaml:"records"`
	Seed     SeedConfig     `yaml:"seed"`
}

type ServerConfig struct {
	Port         string `yaml:"port" env:"SERVER_PORT" validate:"required,numeric"`
	Mode         string `yaml:"mode" env:"SERVER_MODE"`
	ReadTimeout  string `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" validate:"omitempty,duration"`
	WriteTimeout string `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" validate:"omitempty,duration"`
}

type StorageConfig struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" validate:"oneof=memory postgres"`
}

// DatabaseConfig is only consulted when the postgres driver is selected
type DatabaseConfig struct {
	Host            string `yaml:"host" env:"DB_HOST"`
	Port            string `yaml:"port" env:"DB_PORT"`
	User            string `yaml:"user" env:"DB_USER"`
	Password        string `yaml:"password" env:"DB_PASSWORD"`
	DBName          string `yaml:"dbname" env:"DB_NAME"`
	SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
	MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
	MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
}

type JWTConfig struct {
	Secret                string `yaml:"secret" env:"JWT_SECRET" validate:"required"`
	AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION" validate:"required,duration"`
	Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT" validate:"omitempty,oneof=json text"`
}

type RecordsConfig struct {
	// DeletePolicy decides what happens to registrations and results when the
	// student or course they reference is deleted.
	DeletePolicy string `yaml:"delete_policy" env:"RECORDS_DELETE_POLICY" validate:"oneof=orphan restrict"`
}

type SeedConfig struct {
	Enabled bool `yaml:"enabled" env:"SEED_ENABLED"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "8080",
			Mode:         "development",
			ReadTimeout:  "15s",
			WriteTimeout: "15s",
		},
		Storage: StorageConfig{Driver: StorageMemory},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            "5432",
			User:            "postgres",
			Password:        "postgres",
			DBName:          "unirecords",
			SSLMode:         "disable",
			MaxIdleConns:    5,
			MaxOpenConns:    20,
			ConnMaxLifetime: "1h",
		},
		JWT: JWTConfig{
			AccessTokenExpiration: "1h",
			Issuer:                "unirecords.app",
		},
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Records: RecordsConfig{DeletePolicy: string(models.DeletePolicyOrphan)},
	}
}

// LoadConfig reads configPath over the defaults and applies environment
// overrides. A missing file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", configPath, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
		d, err := time.ParseDuration(fl.Field().String())
		return err == nil && d > 0
	})
	return v
}

// Validate checks field formats and the settings the selected storage driver
// needs.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		problems := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			problems = append(problems, fmt.Sprintf("%s fails %q (got %q)", fe.Namespace(), fe.Tag(), fmt.Sprint(fe.Value())))
		}
		return errors.New(strings.Join(problems, "; "))
	}

	if c.Storage.Driver == StoragePostgres {
		if c.Database.Host == "" || c.Database.DBName == "" {
			return errors.New("postgres storage needs database host and dbname")
		}
		if d, err := time.ParseDuration(c.Database.ConnMaxLifetime); err != nil || d <= 0 {
			return fmt.Errorf("invalid database connection max lifetime %q", c.Database.ConnMaxLifetime)
		}
	}
	return nil
}

// DeletePolicy returns the configured delete policy
func (c *Config) DeletePolicy() models.DeletePolicy {
	return models.DeletePolicy(c.Records.DeletePolicy)
}

// GetPostgresConnectionString builds the pgx connection URL
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.DBName, sslMode)
}
