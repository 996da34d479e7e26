package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration.
type Config struct {
	AWS      AWSConfig      `yaml:"aws"`
	Provider ProviderConfig `yaml:"provider"`
	Claude   ClaudeConfig   `yaml:"claude"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
	Ollama   OllamaConfig   `yaml:"ollama"`
	Store    StoreConfig    `yaml:"store"`
}

// AWSConfig holds knowledge base settings.
type AWSConfig struct {
	Region          string `yaml:"region" env:"AWS_REGION"`
	KnowledgeBaseID string `yaml:"knowledge_base_id" env:"KNOWLEDGE_BASE_ID"`
}

// ProviderConfig selects the LLM backend.
type ProviderConfig struct {
	Name string `yaml:"name" env:"REQGATHER_PROVIDER"`
}

// ClaudeConfig holds Anthropic API settings.
type ClaudeConfig struct {
	APIKey string `yaml:"api_key" env:"ANTHROPIC_API_KEY"` // env preferred over file
	Model  string `yaml:"model"`
}

// OpenAIConfig holds OpenAI API settings.
type OpenAIConfig struct {
	APIKey string `yaml:"api_key" env:"OPENAI_API_KEY"` // env preferred over file
	Model  string `yaml:"model"`
}

// OllamaConfig holds local Ollama settings.
type OllamaConfig struct {
	BaseURL string `yaml:"base_url" env:"OLLAMA_BASE_URL"`
	Model   string `yaml:"model"`
}

// StoreConfig holds run persistence settings.
type StoreConfig struct {
	Path string `yaml:"path" env:"REQGATHER_STORE"`
}

// LoadConfig builds the configuration: YAML file (optional), then defaults,
// then environment overrides, then validation. An empty path skips the file
// and uses defaults plus environment only.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}

	cfg.setDefaults()

	// Environment wins over the file, keys never live in the file in plain
	// text unless the operator insists.
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.AWS.Region == "" {
		c.AWS.Region = "ap-southeast-2"
	}
	if c.AWS.KnowledgeBaseID == "" {
		c.AWS.KnowledgeBaseID = "I3RO432NC8"
	}
	if c.Provider.Name == "" {
		c.Provider.Name = "claude"
	}
	if c.Claude.Model == "" {
		c.Claude.Model = "claude-sonnet-4-20250514"
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}
	if c.Ollama.BaseURL == "" {
		c.Ollama.BaseURL = "http://localhost:11434"
	}
	if c.Ollama.Model == "" {
		c.Ollama.Model = "llama3"
	}
	if c.Store.Path == "" {
		c.Store.Path = "reqgather.db"
	}
}

// Validate checks the configuration for usability.
func (c *Config) Validate() error {
	switch c.Provider.Name {
	case "claude", "openai", "ollama":
	default:
		return fmt.Errorf("unknown provider %q (want claude, openai or ollama)", c.Provider.Name)
	}

	if c.Provider.Name == "claude" && c.Claude.APIKey == "" {
		return fmt.Errorf("provider claude selected but ANTHROPIC_API_KEY is not set")
	}
	if c.Provider.Name == "openai" && c.OpenAI.APIKey == "" {
		return fmt.Errorf("provider openai selected but OPENAI_API_KEY is not set")
	}

	if c.AWS.Region == "" {
		return fmt.Errorf("aws region must not be empty")
	}
	if c.AWS.KnowledgeBaseID == "" {
		return fmt.Errorf("knowledge base id must not be empty")
	}

	return nil
}
