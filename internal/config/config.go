// Package config loads server configuration from an optional YAML file
// with environment variable overrides for credentials.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Providers    ProvidersConfig    `yaml:"providers"`
	Conversation ConversationConfig `yaml:"conversation"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type ProvidersConfig struct {
	Deepgram DeepgramConfig `yaml:"deepgram"`
	Groq     GroqConfig     `yaml:"groq"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
	Exa      ExaConfig      `yaml:"exa"`
}

type DeepgramConfig struct {
	APIKey string `yaml:"api_key"`
}

type GroqConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type OpenAIConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
	Voice  string `yaml:"voice"`
}

type ExaConfig struct {
	APIKey string `yaml:"api_key"`
}

type ConversationConfig struct {
	// HistoryWindow caps how many completed exchanges are kept for
	// prompting. Zero keeps everything.
	HistoryWindow int `yaml:"history_window"`
}

// Load reads the config file at path, if any, and applies environment
// overrides. An empty path skips the file entirely.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8000},
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	overrideFromEnv(&cfg.Providers.Deepgram.APIKey, "DEEPGRAM_API_KEY")
	overrideFromEnv(&cfg.Providers.Groq.APIKey, "GROQ_API_KEY")
	overrideFromEnv(&cfg.Providers.OpenAI.APIKey, "OPENAI_API_KEY")
	overrideFromEnv(&cfg.Providers.Exa.APIKey, "EXA_API_KEY")
}

func overrideFromEnv(target *string, key string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	}
}

// Validate checks that every required credential is present. The Exa
// key is optional; without it search grounding is disabled.
func (c *Config) Validate() error {
	missing := []string{}
	if c.Providers.Deepgram.APIKey == "" {
		missing = append(missing, "deepgram")
	}
	if c.Providers.Groq.APIKey == "" {
		missing = append(missing, "groq")
	}
	if c.Providers.OpenAI.APIKey == "" {
		missing = append(missing, "openai")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing API keys for: %v", missing)
	}
	return nil
}
