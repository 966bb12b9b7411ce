package domain

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/osmosis-labs/osmosis/osmomath"
)

// BalanceAndProxyAllowanceFetcher supplies balances and asset proxy allowances.
// All reads of one fetcher must come from the same chain state snapshot.
type BalanceAndProxyAllowanceFetcher interface {
	// GetBalance returns how much of the asset described by assetData the user holds.
	GetBalance(ctx context.Context, assetData []byte, userAddress common.Address) (osmomath.Int, error)
	// GetProxyAllowance returns how much of the asset the asset proxy may move on behalf of the user.
	GetProxyAllowance(ctx context.Context, assetData []byte, userAddress common.Address) (osmomath.Int, error)
}

// BalanceAndProxyAllowanceStore is a session scoped view over a BalanceAndProxyAllowanceFetcher
// that records simulated balance and allowance changes.
type BalanceAndProxyAllowanceStore interface {
	BalanceAndProxyAllowanceFetcher

	SetBalance(assetData []byte, userAddress common.Address, balance osmomath.Int)
	SetProxyAllowance(assetData []byte, userAddress common.Address, allowance osmomath.Int)
	DeleteBalance(assetData []byte, userAddress common.Address)
	DeleteProxyAllowance(assetData []byte, userAddress common.Address)
	DeleteAll()
}

// OrderFilledCancelledFetcher supplies the fill and cancellation state of orders.
type OrderFilledCancelledFetcher interface {
	GetFilledTakerAmount(ctx context.Context, orderHash common.Hash) (osmomath.Int, error)
	IsOrderCancelled(ctx context.Context, order SignedOrder) (bool, error)
}

// OrderFilledCancelledStore is a session scoped cache over an OrderFilledCancelledFetcher.
type OrderFilledCancelledStore interface {
	OrderFilledCancelledFetcher

	SetFilledTakerAmount(orderHash common.Hash, amount osmomath.Int)
	SetIsCancelled(orderHash common.Hash, cancelled bool)
	DeleteFilledTakerAmount(orderHash common.Hash)
	DeleteIsCancelled(orderHash common.Hash)
	DeleteAll()
}

// TransferSimulator simulates asset proxy transfers the way the exchange contract executes them.
type TransferSimulator interface {
	TransferFrom(ctx context.Context, assetData []byte, from, to common.Address, amount osmomath.Int, side TradeSide, transferType TransferType) error
}

// SignatureVerifier checks that signature was produced by signer over hash.
// Unknown signature types must be reported as invalid, never as valid.
type SignatureVerifier interface {
	IsValidSignature(ctx context.Context, hash common.Hash, signerAddress common.Address, signature []byte) (bool, error)
}

// ChainState bundles the fetchers that read one chain state snapshot.
type ChainState struct {
	BlockNumber     uint64
	Balances        BalanceAndProxyAllowanceFetcher
	FilledCancelled OrderFilledCancelledFetcher
}

// ChainStateProvider pins a chain state snapshot for the duration of one request.
type ChainStateProvider interface {
	LatestChainState(ctx context.Context) (ChainState, error)
}
