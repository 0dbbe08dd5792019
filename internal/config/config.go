package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

type AMapConfig struct {
	APIKey  string `toml:"api_key"`
	Secret  string `toml:"secret"`
	BaseURL string `toml:"base_url"`
}

type ExtractionPrompts struct {
	// Places is a printf template with one %s slot for the input text.
	Places string `toml:"places"`
}

type GeocodeConfig struct {
	MaxRetries     int `toml:"max_retries"`
	TimeoutSeconds int `toml:"timeout_seconds"`
}

type RouteConfig struct {
	// Mode is the default travel mode: driving, walking, transit, bicycling.
	Mode string `toml:"mode"`
}

type ConcurrencyConfig struct {
	Geocode int `toml:"geocode"`
}

type Config struct {
	LLM         LLMConfig         `toml:"llm"`
	AMap        AMapConfig        `toml:"amap"`
	Extraction  ExtractionPrompts `toml:"extraction"`
	Geocode     GeocodeConfig     `toml:"geocode"`
	Route       RouteConfig       `toml:"route"`
	Concurrency ConcurrencyConfig `toml:"concurrency"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return &cfg, nil
}
