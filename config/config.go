package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cryptotax/price-exporter/cache"
)

// ErrUnsupportedChain is returned when a requested chain has no known
// CoinGecko asset platform mapping.
var ErrUnsupportedChain = errors.New("unsupported chain")

type Config struct {
	Cache        cache.Config        `yaml:"cache"`
	Coingecko    CoingeckoFetcher    `yaml:"coingecko"`
	ExchangeRate ExchangeRateFetcher `yaml:"exchange_rate"`
	Report       ReportSettings      `yaml:"report"`

	// Chains maps a user-facing chain name to a CoinGecko asset platform id
	Chains map[string]string `yaml:"chains"`

	TokensFile string `yaml:"tokens_file"`
	APITokens  *APITokens

	OverrideCoingeckoPublicURL string `yaml:"override_coingecko_public_url"`
	OverrideCoingeckoProURL    string `yaml:"override_coingecko_pro_url"`
	OverrideExchangeRateURL    string `yaml:"override_exchangerate_url"`
}

// DefaultChains matches the platforms the original deployment supported
func DefaultChains() map[string]string {
	return map[string]string{
		"ethereum":        "ethereum",
		"polygon":         "polygon-pos",
		"bnb smart chain": "binance-smart-chain",
		"avalanche":       "avalanche",
	}
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Cache:        cache.DefaultCacheConfig(),
		Coingecko:    GetDefaultCoingeckoConfig(),
		ExchangeRate: GetDefaultExchangeRateConfig(),
		Report:       GetDefaultReportSettings(),
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	if len(config.Chains) == 0 {
		config.Chains = DefaultChains()
	}

	if err := config.Report.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report settings: %w", err)
	}

	apiTokens, err := LoadAPITokens(config.TokensFile)
	if err != nil {
		log.Printf("Config: Error loading API tokens from %s: %v. Using public API without authentication.",
			config.TokensFile, err)
		config.APITokens = &APITokens{}
	} else {
		config.APITokens = apiTokens
	}

	return config, nil
}

// PlatformForChain resolves a chain name to its CoinGecko asset platform id.
// Chain names are matched case-insensitively.
func (c *Config) PlatformForChain(chain string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(chain))
	if platform, ok := c.Chains[normalized]; ok {
		return platform, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedChain, chain)
}
