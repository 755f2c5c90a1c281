package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const defaultAPIBaseURL = "http://localhost:4000"

// Config represents the global ~/.scalachat/config.toml.
type Config struct {
	APIBaseURL     string `toml:"api_base_url"`
	DefaultProfile string `toml:"default_profile"`
}

// Load reads config from the given path. Returns zero config and error if
// file missing.
func Load(path string) (*Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}

// Resolve loads the config file (missing file is fine) and applies
// environment overrides. A .env file in the working directory is honored
// first so the API URL can be set per checkout. Precedence:
// SCALACHAT_API_URL > config file > built-in default.
func Resolve(path string) *Config {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		cfg = &Config{}
	}
	if env := os.Getenv("SCALACHAT_API_URL"); env != "" {
		cfg.APIBaseURL = env
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}
	return cfg
}
