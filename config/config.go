package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every runtime setting the server needs. It is loaded once in
// main and handed to the packages that need it; request handling code never
// reads the environment directly.
type Config struct {
	Addr string `envconfig:"ADDR" default:":8080"`

	// DBDriver selects the database/sql driver: "sqlite" or "mysql".
	DBDriver string `envconfig:"DB_DRIVER" default:"sqlite"`
	// DBDSN is the SQLite file path or the MySQL DSN.
	DBDSN string `envconfig:"DB_DSN" default:"./license.db"`

	// AdminToken is the process-wide secret for the admin endpoints.
	AdminToken string `envconfig:"ADMIN_TOKEN" required:"true"`

	// JWTSecret signs admin session tokens issued by /api/admin/login.
	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	// SigningKeyPath points at an RSA private key in PEM form. Empty disables
	// signed activation receipts.
	SigningKeyPath string `envconfig:"SIGNING_KEY_PATH"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogDir   string `envconfig:"LOG_DIR" default:"./logs"`
}

// Load reads .env (when present) and the LICENSE_* environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("license", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch strings.ToLower(c.DBDriver) {
	case "sqlite", "mysql":
	default:
		return fmt.Errorf("unsupported DB driver %q (want sqlite or mysql)", c.DBDriver)
	}
	if strings.TrimSpace(c.AdminToken) == "" {
		return fmt.Errorf("admin token must not be blank")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("jwt secret must not be blank")
	}
	return nil
}
