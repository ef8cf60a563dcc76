package domain

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// ProfitRecord splits a fill's profit into realized and unrealized
// parts. Amounts are in human units of the out token.
type ProfitRecord struct {
	Realized          decimal.Decimal
	RealizedPercent   decimal.Decimal
	Unrealized        decimal.Decimal
	UnrealizedPercent decimal.Decimal
}

// ExpectedProfitPercent compares a live out-amount against the baseline:
// (live - baseline) / baseline * 100. Both amounts are in human units.
func ExpectedProfitPercent(liveOut, baselineOut decimal.Decimal) decimal.Decimal {
	return liveOut.Sub(baselineOut).Div(baselineOut).Mul(oneHundred)
}

// ComputeProfit builds the profit record for a fill. A buy opens a
// position, so its gain stays unrealized and realized is zero; a sell
// closes the round trip and realizes the gain, zeroing unrealized.
func ComputeProfit(dir Direction, outAmount *big.Int, outDecimals uint8, baselineOut decimal.Decimal) ProfitRecord {
	out := decimal.NewFromBigInt(outAmount, -int32(outDecimals))
	diff := out.Sub(baselineOut)
	percent := diff.Div(baselineOut).Mul(oneHundred)

	if dir == Buy {
		return ProfitRecord{
			Unrealized:        diff,
			UnrealizedPercent: percent,
		}
	}

	return ProfitRecord{
		Realized:        diff,
		RealizedPercent: percent,
	}
}
