package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	EngineSQLite   = "sqlite"
	EnginePostgres = "postgres"
)

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Log      LogConfig      `koanf:"log"`
}

type ServerConfig struct {
	Port        int    `koanf:"port"         validate:"min=1,max=65535"`
	Env         string `koanf:"env"`
	CORSOrigins string `koanf:"cors_origins"`
}

type DatabaseConfig struct {
	Engine         string        `koanf:"engine"          validate:"oneof=sqlite postgres"`
	Host           string        `koanf:"host"            validate:"required_if=Engine postgres"`
	Port           int           `koanf:"port"            validate:"min=1,max=65535"`
	User           string        `koanf:"user"            validate:"required_if=Engine postgres"`
	Password       string        `koanf:"password"`
	Name           string        `koanf:"name"            validate:"required"`
	AdminDatabase  string        `koanf:"admin_database"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
	StorageDir     string        `koanf:"storage_dir"     validate:"required_if=Engine sqlite"`
}

type LogConfig struct {
	Level string `koanf:"level"`
	JSON  bool   `koanf:"json"`
}

// SQLitePath is the single database file used by the embedded engine.
func (d DatabaseConfig) SQLitePath() string {
	return filepath.Join(d.StorageDir, "genricycle.db")
}

// Origins splits the comma separated CORS_ORIGINS value.
func (s ServerConfig) Origins() []string {
	var origins []string
	for _, o := range strings.Split(s.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (s ServerConfig) Development() bool {
	return s.Env == "development"
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:        5000,
			Env:         "production",
			CORSOrigins: "*",
		},
		Database: DatabaseConfig{
			Engine:         EnginePostgres,
			Host:           "localhost",
			Port:           5432,
			User:           "postgres",
			Password:       "postgres",
			Name:           "genricycle",
			AdminDatabase:  "postgres",
			ConnectTimeout: 5 * time.Second,
			StorageDir:     "storage",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// envKeys lists every recognised environment variable and its config path.
var envKeys = map[string]string{
	"PORT":               "server.port",
	"APP_ENV":            "server.env",
	"CORS_ORIGINS":       "server.cors_origins",
	"DB_ENGINE":          "database.engine",
	"DB_HOST":            "database.host",
	"DB_PORT":            "database.port",
	"DB_USERNAME":        "database.user",
	"DB_PASSWORD":        "database.password",
	"DB_DATABASE":        "database.name",
	"DB_ADMIN_DATABASE":  "database.admin_database",
	"DB_CONNECT_TIMEOUT": "database.connect_timeout",
	"STORAGE_DIR":        "database.storage_dir",
	"LOG_LEVEL":          "log.level",
	"LOG_JSON":           "log.json",
}

// Load reads defaults, then the process environment (and .env through
// godotenv), and validates the result.
func Load() (*Config, error) {
	return load(env.Provider(".", env.Opt{
		TransformFunc: func(key, value string) (string, any) {
			path, ok := envKeys[key]
			if !ok || value == "" {
				return "", nil
			}
			return path, value
		},
	}))
}

func load(envProvider koanf.Provider) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load config defaults: %w", err)
	}
	if envProvider != nil {
		if err := k.Load(envProvider, nil); err != nil {
			return nil, fmt.Errorf("failed to load environment: %w", err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
