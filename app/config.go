package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/0x-tools/ordersim/domain"
)

// DefaultConfig returns the default config for the order state server.
// Contract addresses are those of the 0x v3 ganache snapshot.
func DefaultConfig() domain.Config {
	return domain.Config{
		ServerAddress: ":9092",

		LoggerFilename:     "ordersim.log",
		LoggerIsProduction: true,
		LoggerLevel:        "info",

		ChainID:     1337,
		RPCEndpoint: "http://localhost:8545",

		BlockRefreshIntervalMs: 1000,
		MaxBlockStalenessSecs:  0,

		Contracts: &domain.ContractsConfig{
			Exchange:     "0x48bacb9266a570d521063ef5dd96e61686dbe788",
			ERC20Proxy:   "0x1dc4c1cefef38a777b15aa20260a54e584b16c48",
			ERC721Proxy:  "0x1d7022f5b17d2f8b695918fb48fa1089c9f85401",
			ERC1155Proxy: "0x6a4a62e5a7ed13c361b176a5f62c2ee620ac0df8",
		},

		OrderState: &domain.OrderStateConfig{
			// ZRX on the ganache snapshot.
			DefaultFeeAssetData: "0xf47261b0000000000000000000000000871dd7c2b4b25e1aa18728e9d5f2af4c4e431f5c",
			Workers:             4,
			AssetDataCacheSize:  1024,
			MaxBatchSize:        500,
		},

		CORS: &domain.CORSConfig{
			AllowedHeaders: "Origin, Accept, Content-Type, X-Requested-With, X-Server-Time",
			AllowedMethods: "HEAD, GET, POST, HEAD, OPTIONS",
			AllowedOrigin:  "*",
		},

		OTEL: &domain.OTELConfig{
			Environment: "development",
		},
	}
}

// LoadConfig reads the config file at configPath over the defaults and validates the result.
func LoadConfig(configPath string) (domain.Config, error) {
	config := DefaultConfig()

	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return domain.Config{}, fmt.Errorf("error reading config %s: %w", configPath, err)
	}

	if err := v.Unmarshal(&config); err != nil {
		return domain.Config{}, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return domain.Config{}, err
	}

	return config, nil
}
