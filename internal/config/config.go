// Package config carga config.yaml y aplica overrides de entorno.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"pet-market-engine/internal/adapters/auth/apikey"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type ContractConfig struct {
	Address  string `yaml:"address"`
	CodeHash string `yaml:"code_hash"`
}

type Config struct {
	Server struct {
		Addr         string        `yaml:"addr"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"server"`
	Storage struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"storage"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Contracts struct {
		Market ContractConfig `yaml:"market"`
		Pet    ContractConfig `yaml:"pet"`
	} `yaml:"contracts"`
	Relay struct {
		BaseURL string        `yaml:"base_url"`
		APIKey  string        `yaml:"api_key"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"relay"`
	Auth struct {
		// Sin keys el server corre en modo dev (X-Debug-User-ID).
		APIKeys []apikey.Key `yaml:"api_keys"`
	} `yaml:"auth"`
}

// LoadDotEnv carga un .env si existe; no pisa variables ya seteadas.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load lee el YAML (si existe), aplica overrides de entorno y defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	// Environment variable overrides
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Addr = ":" + v
	}
	if v := os.Getenv("DB_DSN"); v != "" {
		cfg.Storage.DSN = v
		if cfg.Storage.Driver == "" {
			cfg.Storage.Driver = DriverPostgres
		}
	}
	if v := os.Getenv("STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("RELAY_BASE_URL"); v != "" {
		cfg.Relay.BaseURL = v
	}
	if v := os.Getenv("RELAY_API_KEY"); v != "" {
		cfg.Relay.APIKey = v
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 5 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 10 * time.Second
	}
	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = DriverMemory
	}
	if cfg.Storage.Driver == DriverSQLite && cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "data/pet_market.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Contracts.Market.Address == "" {
		cfg.Contracts.Market.Address = "secret1market"
	}
	if cfg.Contracts.Market.CodeHash == "" {
		cfg.Contracts.Market.CodeHash = "market"
	}
	if cfg.Contracts.Pet.Address == "" {
		cfg.Contracts.Pet.Address = "secret1pet"
	}
	if cfg.Contracts.Pet.CodeHash == "" {
		cfg.Contracts.Pet.CodeHash = "pet"
	}
	if cfg.Relay.Timeout == 0 {
		cfg.Relay.Timeout = 5 * time.Second
	}

	return cfg, nil
}

// Validate revisa lo que no tiene default razonable.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverPostgres, DriverSQLite:
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for driver %s", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("storage.driver %q is not supported", c.Storage.Driver)
	}
	if c.Contracts.Market.Address == c.Contracts.Pet.Address {
		return fmt.Errorf("contracts.market and contracts.pet must have different addresses")
	}
	if (c.Relay.BaseURL == "") != (c.Relay.APIKey == "") {
		return fmt.Errorf("relay.base_url and relay.api_key must be set together")
	}
	return nil
}
