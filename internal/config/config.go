// Package config handles loading and persisting user configuration
// for the tutor CLI. Configuration is stored in ~/.tutor-cli/config.json,
// optionally supplemented by ~/.tutor-cli/tutor.env.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	dirName         = ".tutor-cli"
	fileName        = "config.json"
	envFileName     = "tutor.env"
	DefaultAPIURL   = "http://localhost:8000"
	DefaultModel    = "WDOC"
	DefaultLogLevel = "info"

	EnvAPIURL   = "TUTOR_API_URL"
	EnvModel    = "TUTOR_MODEL"
	EnvLogLevel = "TUTOR_LOG_LEVEL"
)

// Config holds the user's configuration.
type Config struct {
	// APIURL is the chat backend's base URL; requests go to APIURL + "/chat".
	APIURL string `json:"api_url"`
	// Model is used by the development backend when relaying to Ollama.
	Model    string `json:"model"`
	LogLevel string `json:"log_level,omitempty"`
}

// Dir returns the configuration directory path.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, dirName)
}

func configPath() string {
	return filepath.Join(Dir(), fileName)
}

// EnvFile returns the path of the optional dotenv file.
func EnvFile() string {
	return filepath.Join(Dir(), envFileName)
}

func defaults() *Config {
	return &Config{
		APIURL:   DefaultAPIURL,
		Model:    DefaultModel,
		LogLevel: DefaultLogLevel,
	}
}

// Load reads the configuration from disk and environment variables.
// Variables already set in the environment win over the dotenv file.
func Load() (*Config, error) {
	cfg := readFile()

	// Missing dotenv file is the common case.
	_ = godotenv.Load(EnvFile())

	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv(EnvModel); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}

	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	return cfg, nil
}

func readFile() *Config {
	cfg := defaults()
	data, err := os.ReadFile(configPath())
	if err == nil {
		_ = json.Unmarshal(data, cfg)
	}
	return cfg
}

// save persists the config to disk.
func save(cfg *Config) error {
	if err := os.MkdirAll(Dir(), 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath(), data, 0o600)
}

// SetAPIURL saves the backend base URL to the config file.
func SetAPIURL(url string) error {
	cfg := readFile()
	cfg.APIURL = url
	return save(cfg)
}

// SetModel saves the model preference to the config file.
func SetModel(model string) error {
	cfg := readFile()
	cfg.Model = model
	return save(cfg)
}
