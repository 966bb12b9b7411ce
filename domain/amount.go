package domain

import (
	"errors"
	"math/big"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/osmosis-labs/osmosis/osmomath"
)

var (
	// UnlimitedAllowance is the allowance sentinel (2^256 - 1) that is never decremented on transfer.
	UnlimitedAllowance = osmomath.NewIntFromBigInt(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1)))

	// NullAddress is the zero address. Open orders use it as their taker.
	NullAddress = common.Address{}
)

// ErrDivisionByZero is returned when an amount is divided by zero.
var ErrDivisionByZero = errors.New("division by zero")

// MulDivFloor returns floor(a * b / c).
// The intermediate product is computed without bounds so only the result has to fit 256 bits.
func MulDivFloor(a, b, c osmomath.Int) (osmomath.Int, error) {
	if c.IsZero() {
		return osmomath.Int{}, ErrDivisionByZero
	}

	product := new(big.Int).Mul(a.BigInt(), b.BigInt())
	result := product.Quo(product, c.BigInt())
	if result.BitLen() > sdkmath.MaxBitLen {
		return osmomath.Int{}, AmountOverflowError{Value: result.String()}
	}

	return osmomath.NewIntFromBigInt(result), nil
}

// GetPartialAmountFloor returns floor(numerator * target / denominator).
func GetPartialAmountFloor(numerator, denominator, target osmomath.Int) (osmomath.Int, error) {
	return MulDivFloor(numerator, target, denominator)
}

// roundingErrorThresholdPPM is the largest tolerated rounding error, in parts per million.
const roundingErrorThresholdPPM = 1000

var ppmScale = big.NewInt(1_000_000)

// IsRoundingErrorFloor returns true if floor(numerator * target / denominator)
// deviates from the exact quotient by more than 0.1%.
func IsRoundingErrorFloor(numerator, denominator, target osmomath.Int) (bool, error) {
	if denominator.IsZero() {
		return false, ErrDivisionByZero
	}

	product := new(big.Int).Mul(target.BigInt(), numerator.BigInt())
	remainder := new(big.Int).Mod(product, denominator.BigInt())
	if remainder.Sign() == 0 {
		return false, nil
	}

	errorPPM := remainder.Mul(remainder, ppmScale)
	errorPPM.Quo(errorPPM, product)
	return errorPPM.Cmp(big.NewInt(roundingErrorThresholdPPM)) > 0, nil
}

// IsUnlimitedAllowance returns true if the amount is the unlimited allowance sentinel.
func IsUnlimitedAllowance(amount osmomath.Int) bool {
	return amount.Equal(UnlimitedAllowance)
}
