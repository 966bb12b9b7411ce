package domain_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/osmosis-labs/osmosis/osmomath"
	"github.com/stretchr/testify/require"

	"github.com/0x-tools/ordersim/domain"
)

func TestIsRoundingErrorFloor(t *testing.T) {
	tests := []struct {
		name        string
		numerator   int64
		denominator int64
		target      int64

		expected    bool
		expectedErr error
	}{
		{
			name:        "error of exactly 0.1% is tolerated",
			numerator:   20,
			denominator: 999,
			target:      50,
			expected:    false,
		},
		{
			name:        "error of 0.11% is rejected",
			numerator:   20,
			denominator: 9989,
			target:      500,
			expected:    true,
		},
		{
			name:        "exact division",
			numerator:   1,
			denominator: 2,
			target:      10,
			expected:    false,
		},
		{
			name:        "zero numerator",
			numerator:   0,
			denominator: 7,
			target:      10,
			expected:    false,
		},
		{
			name:        "zero target",
			numerator:   3,
			denominator: 7,
			target:      0,
			expected:    false,
		},
		{
			name:        "remaining 1 of 3 against 1001",
			numerator:   1,
			denominator: 3,
			target:      1001,
			expected:    true,
		},
		{
			name:        "zero denominator",
			numerator:   1,
			denominator: 0,
			target:      10,
			expectedErr: domain.ErrDivisionByZero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := domain.IsRoundingErrorFloor(osmomath.NewInt(tt.numerator), osmomath.NewInt(tt.denominator), osmomath.NewInt(tt.target))
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.expected, actual)
		})
	}
}

func TestGetPartialAmountFloor(t *testing.T) {
	actual, err := domain.GetPartialAmountFloor(osmomath.NewInt(1), osmomath.NewInt(3), osmomath.NewInt(1001))
	require.NoError(t, err)
	require.Equal(t, "333", actual.String())

	_, err = domain.GetPartialAmountFloor(osmomath.NewInt(1), osmomath.ZeroInt(), osmomath.NewInt(1001))
	require.ErrorIs(t, err, domain.ErrDivisionByZero)
}

func TestMulDivFloorOverflow(t *testing.T) {
	// The intermediate product exceeds 256 bits but the result does not.
	actual, err := domain.MulDivFloor(domain.UnlimitedAllowance, osmomath.NewInt(4), osmomath.NewInt(8))
	require.NoError(t, err)
	require.Equal(t, new(big.Int).Rsh(domain.UnlimitedAllowance.BigInt(), 1).String(), actual.String())

	_, err = domain.MulDivFloor(domain.UnlimitedAllowance, osmomath.NewInt(2), osmomath.NewInt(1))
	var overflowErr domain.AmountOverflowError
	require.True(t, errors.As(err, &overflowErr))
}
