package domain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Config defines the config for the order state server.
type Config struct {
	// Defines the web server configuration.
	ServerAddress string `mapstructure:"server-address"`

	// Defines the logger configuration.
	LoggerFilename     string `mapstructure:"logger-filename"`
	LoggerIsProduction bool   `mapstructure:"logger-is-production"`
	LoggerLevel        string `mapstructure:"logger-level"`

	// Chain the orders are settled on.
	ChainID     uint64 `mapstructure:"chain-id"`
	RPCEndpoint string `mapstructure:"rpc-endpoint"`

	// How often the latest block number is refreshed. Each session pins its reads to it.
	BlockRefreshIntervalMs int `mapstructure:"block-refresh-interval-ms"`

	// Seconds the block number may stay unchanged before requests fail. Zero disables the check.
	MaxBlockStalenessSecs int `mapstructure:"max-block-staleness-secs"`

	Contracts *ContractsConfig `mapstructure:"contracts"`

	OrderState *OrderStateConfig `mapstructure:"order-state"`

	CORS *CORSConfig `mapstructure:"cors"`

	OTEL *OTELConfig `mapstructure:"otel"`
}

// ContractsConfig holds the addresses of the exchange and its asset proxies.
type ContractsConfig struct {
	Exchange     string `mapstructure:"exchange"`
	ERC20Proxy   string `mapstructure:"erc20-proxy"`
	ERC721Proxy  string `mapstructure:"erc721-proxy"`
	ERC1155Proxy string `mapstructure:"erc1155-proxy"`
}

// OrderStateConfig encapsulates the order state computation config.
type OrderStateConfig struct {
	// Hex encoded asset data used for fees when an order leaves its fee asset data empty.
	DefaultFeeAssetData string `mapstructure:"default-fee-asset-data"`

	// Number of workers evaluating orders in a batch request.
	Workers int `mapstructure:"workers"`

	// Size of the decoded asset data LRU cache.
	AssetDataCacheSize int `mapstructure:"asset-data-cache-size"`

	// Max number of orders accepted in a single batch request.
	MaxBatchSize int `mapstructure:"max-batch-size"`
}

// CORSConfig encapsulates the CORS config.
type CORSConfig struct {
	AllowedHeaders string `mapstructure:"allowed-headers"`
	AllowedMethods string `mapstructure:"allowed-methods"`
	AllowedOrigin  string `mapstructure:"allowed-origin"`
}

// OTELConfig encapsulates the OTEL and sentry config.
type OTELConfig struct {
	DSN                string  `mapstructure:"dsn"`
	SampleRate         float64 `mapstructure:"sample-rate"`
	EnableTracing      bool    `mapstructure:"enable-tracing"`
	TracesSampleRate   float64 `mapstructure:"traces-sample-rate"`
	ProfilesSampleRate float64 `mapstructure:"profiles-sample-rate"`
	Environment        string  `mapstructure:"environment"`
}

// Validate returns an error if the config cannot be used to start the server.
func (c Config) Validate() error {
	if c.RPCEndpoint == "" {
		return fmt.Errorf("rpc-endpoint must be set")
	}

	if c.BlockRefreshIntervalMs <= 0 {
		return fmt.Errorf("block-refresh-interval-ms must be positive, was %d", c.BlockRefreshIntervalMs)
	}

	if c.Contracts == nil {
		return fmt.Errorf("contracts must be set")
	}

	for name, address := range map[string]string{
		"exchange":      c.Contracts.Exchange,
		"erc20-proxy":   c.Contracts.ERC20Proxy,
		"erc721-proxy":  c.Contracts.ERC721Proxy,
		"erc1155-proxy": c.Contracts.ERC1155Proxy,
	} {
		if !common.IsHexAddress(address) {
			return fmt.Errorf("contracts.%s is not a valid address: %q", name, address)
		}
	}

	if c.OrderState == nil {
		return fmt.Errorf("order-state must be set")
	}

	if c.OrderState.Workers <= 0 {
		return fmt.Errorf("order-state.workers must be positive, was %d", c.OrderState.Workers)
	}

	if c.OrderState.AssetDataCacheSize <= 0 {
		return fmt.Errorf("order-state.asset-data-cache-size must be positive, was %d", c.OrderState.AssetDataCacheSize)
	}

	return nil
}
