package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/osmosis-labs/osmosis/osmomath"

	"github.com/0x-tools/ordersim/domain"
	"github.com/0x-tools/ordersim/domain/orderhash"
)

// OrderFilledCancelledFetcher reads fill and cancellation state from the exchange at a fixed block.
type OrderFilledCancelledFetcher struct {
	caller      Caller
	exchange    common.Address
	blockNumber *big.Int
}

var _ domain.OrderFilledCancelledFetcher = &OrderFilledCancelledFetcher{}

// NewOrderFilledCancelledFetcher returns a fetcher pinned to blockNumber.
func NewOrderFilledCancelledFetcher(caller Caller, exchange common.Address, blockNumber uint64) *OrderFilledCancelledFetcher {
	return &OrderFilledCancelledFetcher{
		caller:      caller,
		exchange:    exchange,
		blockNumber: new(big.Int).SetUint64(blockNumber),
	}
}

// GetFilledTakerAmount implements domain.OrderFilledCancelledFetcher.
func (f *OrderFilledCancelledFetcher) GetFilledTakerAmount(ctx context.Context, orderHash common.Hash) (osmomath.Int, error) {
	filled, err := callUint256(ctx, f.caller, exchangeABI, f.exchange, f.blockNumber, "filled", [32]byte(orderHash))
	if err != nil {
		return osmomath.Int{}, err
	}
	return osmomath.NewIntFromBigInt(filled), nil
}

// IsOrderCancelled implements domain.OrderFilledCancelledFetcher.
// An order is cancelled either individually or by its maker raising the epoch for its sender above the salt.
func (f *OrderFilledCancelledFetcher) IsOrderCancelled(ctx context.Context, order domain.SignedOrder) (bool, error) {
	hash, err := orderhash.GetOrderHash(order.Order)
	if err != nil {
		return false, err
	}

	cancelled, err := callBool(ctx, f.caller, exchangeABI, f.exchange, f.blockNumber, "cancelled", [32]byte(hash))
	if err != nil {
		return false, err
	}
	if cancelled {
		return true, nil
	}

	epoch, err := callUint256(ctx, f.caller, exchangeABI, f.exchange, f.blockNumber, "orderEpoch", order.MakerAddress, order.SenderAddress)
	if err != nil {
		return false, err
	}

	return epoch.Cmp(order.Salt.BigInt()) > 0, nil
}
