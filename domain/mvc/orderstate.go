package mvc

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/osmosis-labs/osmosis/osmomath"

	"github.com/0x-tools/ordersim/domain"
)

// OrderValidationUsecase checks whether a fill of an order would succeed on the exchange.
// It reads fill and cancellation state from the fetcher it was built with and
// simulates transfers through the simulator passed to each call.
type OrderValidationUsecase interface {
	// ValidateOrderFillable returns an error if the order cannot currently be filled for
	// expectedFillTakerAssetAmount, or for its whole remaining amount when that is nil.
	// feeAssetData is used for fee legs when the order does not carry its own fee asset data.
	ValidateOrderFillable(ctx context.Context, simulator domain.TransferSimulator, order domain.SignedOrder, feeAssetData []byte, expectedFillTakerAssetAmount *osmomath.Int) error

	// ValidateFillOrder validates a fill of fillTakerAssetAmount by takerAddress the way the exchange
	// contract would, and returns the taker amount that would actually be filled.
	ValidateFillOrder(ctx context.Context, simulator domain.TransferSimulator, order domain.SignedOrder, fillTakerAssetAmount osmomath.Int, takerAddress common.Address, feeAssetData []byte) (osmomath.Int, error)
}

// OrderStateUsecase evaluates open orders against the latest chain state.
type OrderStateUsecase interface {
	// GetOpenOrderState returns the state of an order.
	// Validation failures are reported in the returned state. Only infrastructure failures are returned as errors.
	GetOpenOrderState(ctx context.Context, order domain.SignedOrder) (domain.OrderState, error)

	// GetOpenOrdersState evaluates orders concurrently against one chain state snapshot.
	// The result at index i is the state of orders[i].
	GetOpenOrdersState(ctx context.Context, orders []domain.SignedOrder) ([]domain.OrderState, error)

	// GetOpenOrderRelevantState returns the balances and amounts that bound the fill of an order.
	GetOpenOrderRelevantState(ctx context.Context, order domain.SignedOrder) (domain.OrderRelevantState, error)

	// GetMaxFillableTakerAssetAmount returns how much taker asset takerAddress could fill given both parties' funds.
	GetMaxFillableTakerAssetAmount(ctx context.Context, order domain.SignedOrder, takerAddress common.Address) (osmomath.Int, error)

	// ValidateOrderFillable simulates a fill of the order against the latest chain state.
	ValidateOrderFillable(ctx context.Context, order domain.SignedOrder, expectedFillTakerAssetAmount *osmomath.Int) error

	// ValidateFillOrder simulates a fill of the order by takerAddress against the latest chain state
	// and returns the taker amount that would actually be filled.
	ValidateFillOrder(ctx context.Context, order domain.SignedOrder, fillTakerAssetAmount osmomath.Int, takerAddress common.Address) (osmomath.Int, error)
}
