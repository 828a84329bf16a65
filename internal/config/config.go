package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrMissingAPIKey reports a provider that needs a credential but has none.
var ErrMissingAPIKey = errors.New("api key missing")

type Config struct {
	Provider string `yaml:"provider"`
	APIKey   string `yaml:"api_key,omitempty"`
	Model    string `yaml:"model,omitempty"`
	BaseURL  string `yaml:"base_url,omitempty"`

	Letter LetterConfig `yaml:"letter"`

	OutputDir  string `yaml:"output_dir,omitempty"`
	ServerAddr string `yaml:"server_addr,omitempty"`

	path string
}

// LetterConfig holds the fixed parts of every rendered letter.
type LetterConfig struct {
	Header         string `yaml:"header"`
	SignatoryName  string `yaml:"signatory_name,omitempty"`
	SignatoryTitle string `yaml:"signatory_title,omitempty"`
	SignaturePath  string `yaml:"signature_path,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Provider: "deepseek",
		Letter: LetterConfig{
			Header:         "OFFICIAL LETTER",
			SignatoryName:  "(Name)",
			SignatoryTitle: "(Designation)",
		},
		OutputDir:  "letters",
		ServerAddr: ":8080",
	}
}

func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "railletter"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config at path, or the default location when path is empty.
// A missing file yields (nil, nil).
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.path = path

	return cfg, nil
}

// LoadOrDefault is Load falling back to DefaultConfig for a missing file.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = DefaultConfig()
		cfg.path = path
	}
	return cfg, nil
}

// ApplyEnv loads envFile (if present) into the process environment and lets
// the provider's API key variable override the file value.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	info := GetProvider(c.Provider)
	if info == nil || info.APIKeyEnv == "" {
		return nil
	}
	if v := os.Getenv(info.APIKeyEnv); v != "" {
		c.APIKey = v
	}
	return nil
}

// Validate checks the provider is known and has the credential it needs.
func (c *Config) Validate() error {
	info := GetProvider(c.Provider)
	if info == nil {
		return fmt.Errorf("unknown provider: %s", c.Provider)
	}
	if info.NeedsAPIKey && c.APIKey == "" {
		if info.APIKeyEnv != "" {
			return fmt.Errorf("%s: %w; set %s or api_key in the config file", info.Name, ErrMissingAPIKey, info.APIKeyEnv)
		}
		return fmt.Errorf("%s: %w", info.Name, ErrMissingAPIKey)
	}
	if info.ID == "custom" && c.BaseURL == "" {
		return fmt.Errorf("custom provider requires base_url")
	}
	return nil
}

// ResolvedBaseURL returns the configured base URL or the provider default.
func (c *Config) ResolvedBaseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	if info := GetProvider(c.Provider); info != nil {
		return info.BaseURL
	}
	return ""
}

// ResolvedModel returns the configured model or the provider default.
func (c *Config) ResolvedModel() string {
	if c.Model != "" {
		return c.Model
	}
	if info := GetProvider(c.Provider); info != nil {
		return info.DefaultModel
	}
	return ""
}

func (c *Config) Save() error {
	path := c.path
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return err
	}
	c.path = path
	return nil
}
