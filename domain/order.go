package domain

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/osmosis-labs/osmosis/osmomath"
)

// Order is a v3 exchange order. It is never mutated once constructed.
type Order struct {
	ChainID         uint64         `json:"chainId"`
	ExchangeAddress common.Address `json:"exchangeAddress"`

	MakerAddress        common.Address `json:"makerAddress"`
	TakerAddress        common.Address `json:"takerAddress"`
	FeeRecipientAddress common.Address `json:"feeRecipientAddress"`
	SenderAddress       common.Address `json:"senderAddress"`

	MakerAssetAmount      osmomath.Int `json:"makerAssetAmount"`
	TakerAssetAmount      osmomath.Int `json:"takerAssetAmount"`
	MakerFee              osmomath.Int `json:"makerFee"`
	TakerFee              osmomath.Int `json:"takerFee"`
	ExpirationTimeSeconds osmomath.Int `json:"expirationTimeSeconds"`
	Salt                  osmomath.Int `json:"salt"`

	MakerAssetData    hexutil.Bytes `json:"makerAssetData"`
	TakerAssetData    hexutil.Bytes `json:"takerAssetData"`
	MakerFeeAssetData hexutil.Bytes `json:"makerFeeAssetData"`
	TakerFeeAssetData hexutil.Bytes `json:"takerFeeAssetData"`
}

// SignedOrder is an order together with the maker's signature over its hash.
type SignedOrder struct {
	Order
	Signature hexutil.Bytes `json:"signature"`
}

// TradeSide identifies which party of a fill a transfer debits.
type TradeSide string

const (
	TradeSideMaker TradeSide = "maker"
	TradeSideTaker TradeSide = "taker"
)

// TransferType distinguishes the asset leg of a fill from its fee leg.
type TransferType string

const (
	TransferTypeTrade TransferType = "trade"
	TransferTypeFee   TransferType = "fee"
)

// OrderRelevantState is a point-in-time snapshot of everything that bounds how much of an order can be filled.
// It is derived on every request and never cached.
type OrderRelevantState struct {
	MakerBalance                      osmomath.Int            `json:"makerBalance"`
	MakerIndividualBalances           map[string]osmomath.Int `json:"makerIndividualBalances"`
	MakerProxyAllowance               osmomath.Int            `json:"makerProxyAllowance"`
	MakerIndividualProxyAllowances    map[string]osmomath.Int `json:"makerIndividualProxyAllowances"`
	MakerFeeBalance                   osmomath.Int            `json:"makerFeeBalance"`
	MakerFeeProxyAllowance            osmomath.Int            `json:"makerFeeProxyAllowance"`
	FilledTakerAssetAmount            osmomath.Int            `json:"filledTakerAssetAmount"`
	CancelledTakerAssetAmount         osmomath.Int            `json:"cancelledTakerAssetAmount"`
	RemainingFillableMakerAssetAmount osmomath.Int            `json:"remainingFillableMakerAssetAmount"`
	RemainingFillableTakerAssetAmount osmomath.Int            `json:"remainingFillableTakerAssetAmount"`
}

// OrderState is the result of evaluating an open order.
// When IsValid is false, Error carries the reason and OrderRelevantState is nil.
type OrderState struct {
	IsValid            bool                `json:"isValid"`
	OrderHash          common.Hash         `json:"orderHash"`
	OrderRelevantState *OrderRelevantState `json:"orderRelevantState,omitempty"`
	Error              ExchangeContractErr `json:"error,omitempty"`
	ErrorMessage       string              `json:"errorMessage,omitempty"`
}

// NewValidOrderState returns a valid order state.
func NewValidOrderState(orderHash common.Hash, state OrderRelevantState) OrderState {
	return OrderState{
		IsValid:            true,
		OrderHash:          orderHash,
		OrderRelevantState: &state,
	}
}

// NewInvalidOrderState returns an invalid order state carrying the given exchange error.
func NewInvalidOrderState(orderHash common.Hash, err ExchangeError) OrderState {
	return OrderState{
		IsValid:      false,
		OrderHash:    orderHash,
		Error:        err.ExchangeContractErr(),
		ErrorMessage: err.Error(),
	}
}
