package config

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Database is shared by the API, the relay and the operator CLI.
type Database struct {
	URL string `envconfig:"DB_CONNECTION_STRING" required:"true"`
}

type Logging struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
	Env   string `envconfig:"ENV" default:"production"`
}

type Config struct {
	Database
	Logging

	Port            string        `envconfig:"PORT" default:"8080"`
	Version         string        `envconfig:"APP_VERSION" default:"unknown"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`

	RedisAddress  string `envconfig:"REDIS_ADDRESS" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	PrivateKeyPath string        `envconfig:"PRIVATE_KEY_PATH" default:"/etc/certs/private.pem"`
	SessionTTL     time.Duration `envconfig:"SESSION_TTL" default:"24h"`

	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	LoginRate      float64  `envconfig:"LOGIN_RATE_PER_SECOND" default:"1"`
	LoginBurst     int      `envconfig:"LOGIN_BURST" default:"5"`

	JWTPrivateKey *rsa.PrivateKey `ignored:"true"`
}

// Load reads .env when present, then the environment, then the signing key.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.SessionTTL <= 0 {
		return nil, errors.New("SESSION_TTL must be positive")
	}

	privateKey, err := loadPrivateKey(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("load private key: %w", err)
	}
	cfg.JWTPrivateKey = privateKey
	return &cfg, nil
}

// LoadDatabase is the configuration of tools that only talk to PostgreSQL.
func LoadDatabase() (*Database, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	var db Database
	if err := envconfig.Process("", &db); err != nil {
		return nil, err
	}
	return &db, nil
}

func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func loadPrivateKey(path string) (*rsa.PrivateKey, error) {
	keyData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return jwt.ParseRSAPrivateKeyFromPEM(keyData)
}
