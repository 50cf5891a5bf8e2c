// Package config loads the startup configuration of both services.
//
// Values are resolved in this order (first match wins):
//  1. process environment variables (env:"...")
//  2. an optional YAML file given by CONFIG_PATH or --config
//  3. a .env file in the working directory (loaded into the environment
//     by MustLoad, never overriding variables that are already set)
//  4. env-default:"..." values on the struct tags
//
// Configuration is read once at startup. There is no reload.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Database drivers understood by the storage layer.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Config is the configuration of the API service.
type Config struct {
	// Env controls log format and verbosity: "dev", "staging" or "prod".
	Env string `yaml:"env" env:"ENV" env-default:"dev" validate:"oneof=dev staging prod"`

	HTTPServer `yaml:"http_server"`

	Database Database `yaml:"database"`

	CORS CORS `yaml:"cors"`
}

// HTTPServer holds the listener settings shared by both services.
type HTTPServer struct {
	Addr            string        `yaml:"address"          env:"HTTP_SERVER_ADDR"      env-required:"true" validate:"required"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"HTTP_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"HTTP_WRITE_TIMEOUT"    env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"HTTP_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// Database describes how to reach the data store.
//
// Pool settings left at zero fall back to the database/sql defaults.
type Database struct {
	Driver string `yaml:"driver" env:"DB_DRIVER" env-default:"mysql" validate:"oneof=mysql sqlite"`

	Host     string `yaml:"host"     env:"DB_HOST"     validate:"required_if=Driver mysql"`
	Port     int    `yaml:"port"     env:"DB_PORT"     env-default:"3306" validate:"min=1,max=65535"`
	Name     string `yaml:"name"     env:"DB_NAME"     validate:"required_if=Driver mysql"`
	User     string `yaml:"user"     env:"DB_USER"     validate:"required_if=Driver mysql"`
	Password string `yaml:"password" env:"DB_PASSWORD"`

	// StoragePath is the SQLite file used when Driver is "sqlite".
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" validate:"required_if=Driver sqlite"`

	MaxOpenConns    int           `yaml:"max_open_conns"    env:"DB_MAX_OPEN_CONNS"    validate:"min=0"`
	MaxIdleConns    int           `yaml:"max_idle_conns"    env:"DB_MAX_IDLE_CONNS"    validate:"min=0"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`

	// QueryTimeout bounds every statement issued while serving a request.
	QueryTimeout time.Duration `yaml:"query_timeout" env:"DB_QUERY_TIMEOUT" env-default:"5s" validate:"gt=0"`

	// ConnectTimeout bounds the retry loop at startup.
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"DB_CONNECT_TIMEOUT" env-default:"30s" validate:"gt=0"`
}

// CORS lists the browser origins allowed to call the API.
type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"*"`
}

// WebConfig is the configuration of the web client service.
type WebConfig struct {
	Env string `yaml:"env" env:"ENV" env-default:"dev" validate:"oneof=dev staging prod"`

	HTTPServer `yaml:"http_server"`

	API API `yaml:"api"`
}

// API points the web client at the API service.
type API struct {
	BaseURL string        `yaml:"base_url" env:"API_BASE_URL" env-required:"true" validate:"required,url"`
	Timeout time.Duration `yaml:"timeout"  env:"API_TIMEOUT"  env-default:"10s" validate:"gt=0"`
}

// MustLoad returns the API service config or stops the process.
func MustLoad() *Config {
	var cfg Config
	mustLoad(&cfg)
	return &cfg
}

// MustLoadWeb returns the web client config or stops the process.
func MustLoadWeb() *WebConfig {
	var cfg WebConfig
	mustLoad(&cfg)
	return &cfg
}

// Load reads the API service config from path (may be empty) and the
// environment, then validates it.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := read(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadWeb is Load for the web client.
func LoadWeb(path string) (*WebConfig, error) {
	var cfg WebConfig
	if err := read(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func mustLoad(cfg any) {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("cannot read .env: %s", err)
	}

	if err := read(configPath(), cfg); err != nil {
		log.Fatalf("cannot load config: %s", err)
	}
}

// configPath resolves the optional YAML path from CONFIG_PATH or --config.
func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}

	path := flag.String("config", "", "Path to an optional configuration YAML file")
	flag.Parse()
	return *path
}

func read(path string, cfg any) error {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("config file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return fmt.Errorf("read env: %w", err)
	}

	return check(cfg)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func check(cfg any) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", e.Namespace(), e.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, ", "))
}
