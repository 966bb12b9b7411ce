package mvc

import (
	"context"
)

type ChainInfoUsecase interface {
	// GetLatestHeight returns the latest block number, or an error if it has gone stale.
	GetLatestHeight(ctx context.Context) (uint64, error)
}
