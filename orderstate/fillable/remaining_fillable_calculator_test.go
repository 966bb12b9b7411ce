package fillable_test

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/osmosis-labs/osmosis/osmomath"
	"github.com/stretchr/testify/require"

	"github.com/0x-tools/ordersim/orderstate/fillable"
)

func TestComputeRemainingFillable(t *testing.T) {
	tests := []struct {
		name                        string
		orderFee                    int64
		orderAssetAmount            int64
		isTraderAssetSameAsFeeAsset bool
		transferrableAssetAmount    int64
		transferrableFeeAmount      int64
		remainingOrderAssetAmount   int64
		expected                    int64
	}{
		{
			name:                      "no fee, sufficient funds",
			orderAssetAmount:          200,
			transferrableAssetAmount:  500,
			remainingOrderAssetAmount: 200,
			expected:                  200,
		},
		{
			name:                      "no fee, limited by transferrable amount",
			orderAssetAmount:          200,
			transferrableAssetAmount:  150,
			remainingOrderAssetAmount: 200,
			expected:                  150,
		},
		{
			name:                      "fee in separate asset, sufficient funds",
			orderFee:                  2,
			orderAssetAmount:          200,
			transferrableAssetAmount:  200,
			transferrableFeeAmount:    2,
			remainingOrderAssetAmount: 200,
			expected:                  200,
		},
		{
			name:                      "fee in separate asset, limited by fee balance",
			orderFee:                  2,
			orderAssetAmount:          200,
			transferrableAssetAmount:  1000,
			transferrableFeeAmount:    1,
			remainingOrderAssetAmount: 200,
			expected:                  100,
		},
		{
			name:                      "fee in separate asset, limited by asset balance",
			orderFee:                  2,
			orderAssetAmount:          200,
			transferrableAssetAmount:  150,
			transferrableFeeAmount:    2,
			remainingOrderAssetAmount: 200,
			expected:                  150,
		},
		{
			name:                      "fee in separate asset, no fee balance",
			orderFee:                  2,
			orderAssetAmount:          200,
			transferrableAssetAmount:  1000,
			transferrableFeeAmount:    0,
			remainingOrderAssetAmount: 200,
			expected:                  0,
		},
		{
			name:                        "same pool, sufficient for amount and fee",
			orderFee:                    2,
			orderAssetAmount:            200,
			isTraderAssetSameAsFeeAsset: true,
			transferrableAssetAmount:    202,
			transferrableFeeAmount:      202,
			remainingOrderAssetAmount:   200,
			expected:                    200,
		},
		{
			name:                        "same pool, one short of amount plus fee",
			orderFee:                    2,
			orderAssetAmount:            200,
			isTraderAssetSameAsFeeAsset: true,
			transferrableAssetAmount:    201,
			transferrableFeeAmount:      201,
			remainingOrderAssetAmount:   200,
			expected:                    199,
		},
		{
			name:                        "same pool, partial",
			orderFee:                    2,
			orderAssetAmount:            200,
			isTraderAssetSameAsFeeAsset: true,
			transferrableAssetAmount:    150,
			transferrableFeeAmount:      150,
			remainingOrderAssetAmount:   200,
			expected:                    148,
		},
		{
			name:                      "partially filled order with pro rata fee",
			orderFee:                  10,
			orderAssetAmount:          100,
			transferrableAssetAmount:  50,
			transferrableFeeAmount:    3,
			remainingOrderAssetAmount: 50,
			expected:                  30,
		},
		{
			name:                      "zero order asset amount has no remaining fee",
			orderFee:                  10,
			orderAssetAmount:          0,
			transferrableAssetAmount:  0,
			transferrableFeeAmount:    0,
			remainingOrderAssetAmount: 0,
			expected:                  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calculator := fillable.NewRemainingFillableCalculator(
				osmomath.NewInt(tt.orderFee),
				osmomath.NewInt(tt.orderAssetAmount),
				tt.isTraderAssetSameAsFeeAsset,
				osmomath.NewInt(tt.transferrableAssetAmount),
				osmomath.NewInt(tt.transferrableFeeAmount),
				osmomath.NewInt(tt.remainingOrderAssetAmount),
			)

			require.Equal(t, osmomath.NewInt(tt.expected).String(), calculator.ComputeRemainingFillable().String())
		})
	}
}

func TestComputeRemainingFillableZeroFeeIsMin(t *testing.T) {
	for _, remaining := range []int64{0, 1, 7, 100, 1001} {
		for _, transferrable := range []int64{0, 1, 7, 100, 1001} {
			calculator := fillable.NewRemainingFillableCalculator(
				osmomath.ZeroInt(),
				osmomath.NewInt(1001),
				false,
				osmomath.NewInt(transferrable),
				osmomath.ZeroInt(),
				osmomath.NewInt(remaining),
			)

			expected := sdkmath.MinInt(osmomath.NewInt(remaining), osmomath.NewInt(transferrable))
			require.True(t, expected.Equal(calculator.ComputeRemainingFillable()), "remaining %d transferrable %d", remaining, transferrable)
		}
	}
}

func TestComputeRemainingFillableIsMonotonic(t *testing.T) {
	compute := func(sameAsset bool, transferrableAsset, transferrableFee int64) osmomath.Int {
		return fillable.NewRemainingFillableCalculator(
			osmomath.NewInt(7),
			osmomath.NewInt(333),
			sameAsset,
			osmomath.NewInt(transferrableAsset),
			osmomath.NewInt(transferrableFee),
			osmomath.NewInt(300),
		).ComputeRemainingFillable()
	}

	for _, sameAsset := range []bool{false, true} {
		for fee := int64(0); fee <= 10; fee++ {
			previous := compute(sameAsset, 0, fee)
			for asset := int64(1); asset <= 400; asset++ {
				current := compute(sameAsset, asset, fee)
				require.True(t, current.GTE(previous), "asset amount: same %v fee %d asset %d", sameAsset, fee, asset)
				require.True(t, current.LTE(osmomath.NewInt(300)), "over remaining: same %v fee %d asset %d", sameAsset, fee, asset)
				previous = current
			}
		}

		for asset := int64(0); asset <= 400; asset += 40 {
			previous := compute(sameAsset, asset, 0)
			for fee := int64(1); fee <= 10; fee++ {
				current := compute(sameAsset, asset, fee)
				require.True(t, current.GTE(previous), "fee amount: same %v fee %d asset %d", sameAsset, fee, asset)
				previous = current
			}
		}
	}
}
