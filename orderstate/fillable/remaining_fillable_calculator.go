package fillable

import (
	"math/big"

	sdkmath "cosmossdk.io/math"
	"github.com/osmosis-labs/osmosis/osmomath"
)

// RemainingFillableCalculator computes how much more of one side of an order a trader can fill
// given what they can transfer of the traded asset and of the fee asset.
// All inputs are fixed at construction. Results are always floored.
type RemainingFillableCalculator struct {
	orderFee                    osmomath.Int
	orderAssetAmount            osmomath.Int
	isTraderAssetSameAsFeeAsset bool
	transferrableAssetAmount    osmomath.Int
	transferrableFeeAmount      osmomath.Int
	remainingOrderAssetAmount   osmomath.Int
	remainingOrderFeeAmount     osmomath.Int
}

// NewRemainingFillableCalculator creates a calculator for one computation.
func NewRemainingFillableCalculator(
	orderFee osmomath.Int,
	orderAssetAmount osmomath.Int,
	isTraderAssetSameAsFeeAsset bool,
	transferrableAssetAmount osmomath.Int,
	transferrableFeeAmount osmomath.Int,
	remainingOrderAssetAmount osmomath.Int,
) *RemainingFillableCalculator {
	c := &RemainingFillableCalculator{
		orderFee:                    orderFee,
		orderAssetAmount:            orderAssetAmount,
		isTraderAssetSameAsFeeAsset: isTraderAssetSameAsFeeAsset,
		transferrableAssetAmount:    transferrableAssetAmount,
		transferrableFeeAmount:      transferrableFeeAmount,
		remainingOrderAssetAmount:   remainingOrderAssetAmount,
	}
	c.remainingOrderFeeAmount = c.calculateRemainingOrderFeeAmount()
	return c
}

// ComputeRemainingFillable returns the amount of the order asset the trader can still fill.
func (c *RemainingFillableCalculator) ComputeRemainingFillable() osmomath.Int {
	if c.hasSufficientFundsForFeeAndTransferAmount() {
		return c.remainingOrderAssetAmount
	}

	if c.orderFee.IsZero() {
		return sdkmath.MinInt(c.remainingOrderAssetAmount, c.transferrableAssetAmount)
	}

	return c.calculatePartiallyFillableAssetAmount()
}

func (c *RemainingFillableCalculator) hasSufficientFundsForFeeAndTransferAmount() bool {
	if c.isTraderAssetSameAsFeeAsset {
		totalRequired := new(big.Int).Add(c.remainingOrderAssetAmount.BigInt(), c.remainingOrderFeeAmount.BigInt())
		return c.transferrableAssetAmount.BigInt().Cmp(totalRequired) >= 0
	}

	hasSufficientForTransfer := c.transferrableAssetAmount.GTE(c.remainingOrderAssetAmount)
	hasSufficientForFee := c.transferrableFeeAmount.GTE(c.remainingOrderFeeAmount)
	return hasSufficientForTransfer && hasSufficientForFee
}

// calculatePartiallyFillableAssetAmount bounds the fill twice, by what the asset transfer allows and by
// what the fee transfer allows, and returns the smaller bound.
//
// With an order ratio A:F (asset amount to fee), filling x of the asset costs x*F/A of the fee.
// When both come from one pool of T, x + x*F/A <= T so x <= T*A/(A+F).
// Otherwise the asset bound is T itself, and the fee bound converts min(TF, remaining fee) back to asset units.
func (c *RemainingFillableCalculator) calculatePartiallyFillableAssetAmount() osmomath.Int {
	orderAssetAmount := c.orderAssetAmount.BigInt()
	orderFee := c.orderFee.BigInt()

	var partiallyFillableAssetAmount *big.Int
	if c.isTraderAssetSameAsFeeAsset {
		pooled := new(big.Int).Mul(c.transferrableAssetAmount.BigInt(), orderAssetAmount)
		partiallyFillableAssetAmount = pooled.Quo(pooled, new(big.Int).Add(orderAssetAmount, orderFee))
	} else {
		partiallyFillableAssetAmount = c.transferrableAssetAmount.BigInt()
	}

	fillableTimesInFeeBaseUnits := sdkmath.MinInt(c.transferrableFeeAmount, c.remainingOrderFeeAmount)
	partiallyFillableFeeAmount := new(big.Int).Mul(fillableTimesInFeeBaseUnits.BigInt(), orderAssetAmount)
	partiallyFillableFeeAmount.Quo(partiallyFillableFeeAmount, orderFee)

	if partiallyFillableAssetAmount.Cmp(partiallyFillableFeeAmount) < 0 {
		return osmomath.NewIntFromBigInt(partiallyFillableAssetAmount)
	}
	return osmomath.NewIntFromBigInt(partiallyFillableFeeAmount)
}

// calculateRemainingOrderFeeAmount returns the fee owed for the remaining order amount, pro rata.
func (c *RemainingFillableCalculator) calculateRemainingOrderFeeAmount() osmomath.Int {
	if c.orderAssetAmount.IsZero() {
		return osmomath.ZeroInt()
	}

	fee := new(big.Int).Mul(c.remainingOrderAssetAmount.BigInt(), c.orderFee.BigInt())
	return osmomath.NewIntFromBigInt(fee.Quo(fee, c.orderAssetAmount.BigInt()))
}
