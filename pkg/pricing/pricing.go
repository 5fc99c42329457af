package pricing

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed openai.yaml
var defaultPricing []byte

// Default returns the built-in OpenAI pricing table.
func Default() (*Table, error) {
	cfg, err := LoadPricingFromBytes(defaultPricing)
	if err != nil {
		return nil, fmt.Errorf("built-in pricing: %w", err)
	}
	return NewTable(cfg)
}

// Load returns the table from the given YAML file, or the built-in table
// when path is empty.
func Load(path string) (*Table, error) {
	if path == "" {
		return Default()
	}
	cfg, err := LoadPricing(path)
	if err != nil {
		return nil, err
	}
	return NewTable(cfg)
}

// LoadPricing reads a YAML pricing file and returns the provider configuration.
func LoadPricing(path string) (*ProviderConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pricing file %s: %w", path, err)
	}

	var cfg ProviderConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse pricing file %s: %w", path, err)
	}

	if cfg.Provider == "" {
		return nil, fmt.Errorf("pricing file %s: missing provider name", path)
	}
	if len(cfg.Models) == 0 {
		return nil, fmt.Errorf("pricing file %s: no models defined", path)
	}

	return &cfg, nil
}

// LoadPricingFromBytes parses YAML pricing data from raw bytes.
func LoadPricingFromBytes(data []byte) (*ProviderConfig, error) {
	var cfg ProviderConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse pricing data: %w", err)
	}
	return &cfg, nil
}
