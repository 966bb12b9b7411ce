package domain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/osmosis-labs/osmosis/osmomath"
)

// ExchangeContractErr is the code of a validation failure as the exchange contract would report it.
type ExchangeContractErr string

const (
	ErrCodeOrderFillExpired                ExchangeContractErr = "ORDER_FILL_EXPIRED"
	ErrCodeOrderCancelled                  ExchangeContractErr = "ORDER_CANCELLED"
	ErrCodeOrderFillAmountZero             ExchangeContractErr = "ORDER_FILL_AMOUNT_ZERO"
	ErrCodeOrderRemainingFillAmountZero    ExchangeContractErr = "ORDER_REMAINING_FILL_AMOUNT_ZERO"
	ErrCodeOrderFillRoundingError          ExchangeContractErr = "ORDER_FILL_ROUNDING_ERROR"
	ErrCodeInsufficientTakerBalance        ExchangeContractErr = "INSUFFICIENT_TAKER_BALANCE"
	ErrCodeInsufficientTakerAllowance      ExchangeContractErr = "INSUFFICIENT_TAKER_ALLOWANCE"
	ErrCodeInsufficientMakerBalance        ExchangeContractErr = "INSUFFICIENT_MAKER_BALANCE"
	ErrCodeInsufficientMakerAllowance      ExchangeContractErr = "INSUFFICIENT_MAKER_ALLOWANCE"
	ErrCodeInsufficientTakerFeeBalance     ExchangeContractErr = "INSUFFICIENT_TAKER_FEE_BALANCE"
	ErrCodeInsufficientTakerFeeAllowance   ExchangeContractErr = "INSUFFICIENT_TAKER_FEE_ALLOWANCE"
	ErrCodeInsufficientMakerFeeBalance     ExchangeContractErr = "INSUFFICIENT_MAKER_FEE_BALANCE"
	ErrCodeInsufficientMakerFeeAllowance   ExchangeContractErr = "INSUFFICIENT_MAKER_FEE_ALLOWANCE"
	ErrCodeInvalidSignature                ExchangeContractErr = "INVALID_SIGNATURE"
	ErrCodeTransferFailed                  ExchangeContractErr = "TRANSFER_FAILED"
	ErrCodeUnknownAssetProxyID             ExchangeContractErr = "UNKNOWN_ASSET_PROXY_ID"
	ErrCodeInvalidAssetData                ExchangeContractErr = "INVALID_ASSET_DATA"
	ErrCodeInsufficientRemainingFillAmount ExchangeContractErr = "INSUFFICIENT_REMAINING_FILL_AMOUNT"
)

// ExchangeError is a deterministic validation failure.
// Given the same chain state it always recurs, so callers must not retry it.
type ExchangeError interface {
	error
	ExchangeContractErr() ExchangeContractErr
}

var (
	_ ExchangeError = InsufficientFundsError{}
	_ ExchangeError = OrderRemainingFillAmountZeroError{}
	_ ExchangeError = OrderFillAmountZeroError{}
	_ ExchangeError = OrderExpiredError{}
	_ ExchangeError = OrderCancelledError{}
	_ ExchangeError = InvalidSignatureError{}
	_ ExchangeError = RoundingError{}
	_ ExchangeError = TransferFailedError{}
)

// FundsKind is the constraint an insufficient funds error violated.
type FundsKind string

const (
	FundsKindBalance   FundsKind = "balance"
	FundsKindAllowance FundsKind = "allowance"
)

var insufficientFundsCodes = map[TradeSide]map[TransferType]map[FundsKind]ExchangeContractErr{
	TradeSideMaker: {
		TransferTypeTrade: {FundsKindBalance: ErrCodeInsufficientMakerBalance, FundsKindAllowance: ErrCodeInsufficientMakerAllowance},
		TransferTypeFee:   {FundsKindBalance: ErrCodeInsufficientMakerFeeBalance, FundsKindAllowance: ErrCodeInsufficientMakerFeeAllowance},
	},
	TradeSideTaker: {
		TransferTypeTrade: {FundsKindBalance: ErrCodeInsufficientTakerBalance, FundsKindAllowance: ErrCodeInsufficientTakerAllowance},
		TransferTypeFee:   {FundsKindBalance: ErrCodeInsufficientTakerFeeBalance, FundsKindAllowance: ErrCodeInsufficientTakerFeeAllowance},
	},
}

// InsufficientFundsError is returned when a simulated transfer lacks balance or proxy allowance.
// The code is selected by the trade side and transfer type the caller labelled the transfer with.
type InsufficientFundsError struct {
	Side     TradeSide
	Transfer TransferType
	Kind     FundsKind
	Address  common.Address
	Required osmomath.Int
	Actual   osmomath.Int
}

func (e InsufficientFundsError) ExchangeContractErr() ExchangeContractErr {
	return insufficientFundsCodes[e.Side][e.Transfer][e.Kind]
}

func (e InsufficientFundsError) Error() string {
	return fmt.Sprintf("%s: %s has %s, needs %s", e.ExchangeContractErr(), e.Address.Hex(), e.Actual, e.Required)
}

// OrderRemainingFillAmountZeroError is returned when nothing of the order is left to fill.
type OrderRemainingFillAmountZeroError struct {
	OrderHash common.Hash
}

func (e OrderRemainingFillAmountZeroError) ExchangeContractErr() ExchangeContractErr {
	return ErrCodeOrderRemainingFillAmountZero
}

func (e OrderRemainingFillAmountZeroError) Error() string {
	return fmt.Sprintf("order %s has no remaining fill amount", e.OrderHash.Hex())
}

// OrderFillAmountZeroError is returned when a fill of zero taker asset is requested.
type OrderFillAmountZeroError struct {
	OrderHash common.Hash
}

func (e OrderFillAmountZeroError) ExchangeContractErr() ExchangeContractErr {
	return ErrCodeOrderFillAmountZero
}

func (e OrderFillAmountZeroError) Error() string {
	return fmt.Sprintf("fill amount for order %s is zero", e.OrderHash.Hex())
}

// OrderExpiredError is returned when the order expiration is not after the current time.
type OrderExpiredError struct {
	OrderHash             common.Hash
	ExpirationTimeSeconds osmomath.Int
	NowSeconds            int64
}

func (e OrderExpiredError) ExchangeContractErr() ExchangeContractErr {
	return ErrCodeOrderFillExpired
}

func (e OrderExpiredError) Error() string {
	return fmt.Sprintf("order %s expired at %s, now %d", e.OrderHash.Hex(), e.ExpirationTimeSeconds, e.NowSeconds)
}

// OrderCancelledError is returned when the order was cancelled on chain.
type OrderCancelledError struct {
	OrderHash common.Hash
}

func (e OrderCancelledError) ExchangeContractErr() ExchangeContractErr {
	return ErrCodeOrderCancelled
}

func (e OrderCancelledError) Error() string {
	return fmt.Sprintf("order %s is cancelled", e.OrderHash.Hex())
}

// InvalidSignatureError is returned when the order signature does not verify for the maker.
type InvalidSignatureError struct {
	OrderHash common.Hash
	Signer    common.Address
}

func (e InvalidSignatureError) ExchangeContractErr() ExchangeContractErr {
	return ErrCodeInvalidSignature
}

func (e InvalidSignatureError) Error() string {
	return fmt.Sprintf("invalid signature for order %s by %s", e.OrderHash.Hex(), e.Signer.Hex())
}

// RoundingError is returned when a fill would introduce more than 0.1% rounding error.
type RoundingError struct {
	Numerator   osmomath.Int
	Denominator osmomath.Int
	Target      osmomath.Int
}

func (e RoundingError) ExchangeContractErr() ExchangeContractErr {
	return ErrCodeOrderFillRoundingError
}

func (e RoundingError) Error() string {
	return fmt.Sprintf("rounding error exceeds 0.1%%: %s * %s / %s", e.Target, e.Numerator, e.Denominator)
}

// TransferFailedError wraps the first failing leg of a simulated fill.
type TransferFailedError struct {
	Err error
}

func (e TransferFailedError) ExchangeContractErr() ExchangeContractErr {
	return ErrCodeTransferFailed
}

func (e TransferFailedError) Error() string {
	return fmt.Sprintf("%s: %v", ErrCodeTransferFailed, e.Err)
}

func (e TransferFailedError) Unwrap() error {
	return e.Err
}
