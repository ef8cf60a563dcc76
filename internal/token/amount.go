package token

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrInvalidDecimals = errors.New("token: decimals must be a positive integer")
	ErrPrecisionLoss   = errors.New("token: value has more fractional precision than decimals allow")
	ErrNilValue        = errors.New("token: nil base-unit value")
	ErrNegativeAmount  = errors.New("token: negative amount")
)

// maxDecimals guards against nonsense configuration; SPL mints top out at 9,
// ERC20 at 18.
const maxDecimals = 30

// ToBaseUnits converts a human decimal amount into integer base units by
// shifting the value by decimals places. It fails with ErrPrecisionLoss when
// the shifted value is not exactly an integer: conversions never silently
// truncate or round.
func ToBaseUnits(value decimal.Decimal, decimals uint8) (*big.Int, error) {
	if decimals == 0 || decimals > maxDecimals {
		return nil, ErrInvalidDecimals
	}
	if value.IsNegative() {
		return nil, ErrNegativeAmount
	}

	scaled := value.Shift(int32(decimals))
	if !scaled.Equal(scaled.Truncate(0)) {
		return nil, ErrPrecisionLoss
	}

	return scaled.BigInt(), nil
}

// ToBaseUnitsString converts a decimal string into integer base units.
func ToBaseUnitsString(value string, decimals uint8) (*big.Int, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, err
	}
	return ToBaseUnits(d, decimals)
}

// ToDecimalAmount converts integer base units back into a human decimal
// amount. It is exact and never fails for valid integers.
func ToDecimalAmount(raw *big.Int, decimals uint8) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(raw, -int32(decimals))
}

// CloneInt returns a defensive copy of a base-unit value; nil stays nil.
func CloneInt(raw *big.Int) *big.Int {
	if raw == nil {
		return nil
	}
	return new(big.Int).Set(raw)
}
