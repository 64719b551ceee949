package config

import (
	"encoding/json"
	"os"
)

// APITokens holds optional CoinGecko API keys. Pro keys unlock the pro
// endpoint, demo keys raise the public rate limit.
type APITokens struct {
	Tokens     []string `json:"api_tokens"`
	DemoTokens []string `json:"demo_api_tokens,omitempty"`
}

func LoadAPITokens(filename string) (*APITokens, error) {
	if filename == "" {
		return &APITokens{}, nil
	}
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		// No tokens file means the public API is used unauthenticated
		return &APITokens{}, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var tokens APITokens
	err = json.Unmarshal(data, &tokens)
	return &tokens, err
}
