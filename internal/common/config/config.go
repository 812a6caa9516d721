package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/AlibekovAA/memorize-api/internal/common/constants"
)

var ErrInvalidJWTSecret = errors.New("JWT_SECRET must be at least 32 bytes")

type Config struct {
	HTTPPort       string        `env:"PORT" envDefault:"8081"`
	DatabaseURL    string        `env:"DATABASE_URL,required,notEmpty"`
	JWTSecret      string        `env:"JWT_SECRET,required,notEmpty"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"5s"`
	LogDir         string        `env:"LOG_DIR"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	DBMaxConns     int32         `env:"DB_MAX_CONNS"`
	DBMinConns     int32         `env:"DB_MIN_CONNS"`
	RunMigrations  bool          `env:"RUN_MIGRATIONS" envDefault:"true"`
}

// Load reads .env when present and then the process environment. Variables
// already set in the environment win over the file.
func Load() (Config, error) {
	return LoadFile(".env")
}

func LoadFile(dotenvPath string) (Config, error) {
	if _, err := os.Stat(dotenvPath); err == nil {
		if err := godotenv.Load(dotenvPath); err != nil {
			return Config{}, fmt.Errorf("failed to load %s: %w", dotenvPath, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := validateJWTSecret(cfg.JWTSecret); err != nil {
		return Config{}, err
	}

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = constants.DefaultRequestTimeout
	}

	return cfg, nil
}

func validateJWTSecret(secret string) error {
	if len(secret) < constants.JWTSecretMinLength {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidJWTSecret, len(secret))
	}
	return nil
}
