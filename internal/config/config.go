package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr          string         `yaml:"addr"`
	JWTSecret     string         `yaml:"jwt_secret"`
	APITimeout    time.Duration  `yaml:"timeout"`
	DatabasePath  string         `yaml:"database_path"`
	TokenDuration time.Duration  `yaml:"token_duration"`
	CatalogPath   string         `yaml:"catalog_path"`
	Telegram      TelegramConfig `yaml:"telegram"`
}

type TelegramConfig struct {
	Token string `yaml:"token"`
	Debug bool   `yaml:"debug"`
}

func LoadConfig(path string) (*Config, error) {
	apiTimeout := 15 * time.Second
	tokenDuration := 1 * time.Hour

	cfg := &Config{
		Addr:          getEnv("QM_ADDR", ":8080"),
		JWTSecret:     getEnv("QM_JWT_SECRET", "supersecretkey"),
		APITimeout:    apiTimeout,
		DatabasePath:  getEnv("QM_DATABASE_PATH", "quartermaster.db"),
		TokenDuration: tokenDuration,
		CatalogPath:   getEnv("QM_CATALOG_PATH", ""),
		Telegram: TelegramConfig{
			Token: getEnv("QM_TELEGRAM_TOKEN", ""),
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate rejects configurations that cannot serve. The insecure default JWT
// secret is only tolerated when QM_ENV=development.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.TokenDuration <= 0 {
		return fmt.Errorf("token_duration must be positive")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path is required")
	}
	if c.JWTSecret == "supersecretkey" && getEnv("QM_ENV", "") != "development" {
		return fmt.Errorf("jwt_secret is the insecure default; set QM_JWT_SECRET")
	}

	return nil
}

// DSN returns the SQLite connection string for the configured database path,
// with the pragmas concurrent claim traffic needs. Paths that already carry
// parameters (or special forms like :memory:) are passed through untouched.
func (c *Config) DSN() string {
	p := c.DatabasePath
	if strings.HasPrefix(p, ":") || strings.HasPrefix(p, "file:") || strings.Contains(p, "?") {
		return p
	}

	return "file:" + p + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
