package domain

import (
	"math/big"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// RoutePrice computes a live quote's price in the directional convention
// used by order targets. Buy orders compare in-per-out (lower is
// better), sell orders out-per-in (higher is better). Both reduce to
// ratios of human-unit amounts, so the base-unit ratio is shifted by the
// decimals difference.
func RoutePrice(dir Direction, amountIn, amountOut *big.Int, inDecimals, outDecimals uint8) decimal.Decimal {
	in := decimal.NewFromBigInt(amountIn, 0)
	out := decimal.NewFromBigInt(amountOut, 0)

	if dir == Buy {
		return in.Div(out).Shift(int32(outDecimals) - int32(inDecimals))
	}
	return out.Div(in).Shift(int32(inDecimals) - int32(outDecimals))
}

// DesiredOut grows a baseline out-amount by the target profit percent.
// The baseline is in base units of the out token; the result is in human
// units.
func DesiredOut(baseline *big.Int, outDecimals uint8, targetProfitPercent decimal.Decimal) decimal.Decimal {
	base := decimal.NewFromBigInt(baseline, -int32(outDecimals))
	growth := decimal.NewFromInt(1).Add(targetProfitPercent.Div(oneHundred))
	return base.Mul(growth)
}

// TargetPrice derives the price stored on an order from its size and
// desired out-amount. The sell price is desiredOut per unit in; the buy
// price is the inverted ratio, keeping live-vs-target comparisons
// monotonic with "cheaper is better" on the buy side.
func TargetPrice(dir Direction, sizeInt *big.Int, inDecimals uint8, desiredOut decimal.Decimal) decimal.Decimal {
	size := decimal.NewFromBigInt(sizeInt, -int32(inDecimals))

	if dir == Buy {
		return size.Div(desiredOut)
	}
	return desiredOut.Div(size)
}
