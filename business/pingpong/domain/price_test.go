package domain

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
)

// Worked example: token A has 6 decimals, token B has 9, trade amount 10 A,
// target profit 1%. The anchor quote fills 10 A for 95 B.
const (
	decimalsA uint8 = 6
	decimalsB uint8 = 9
)

var (
	sizeA   = big.NewInt(10_000000)    // 10 A in base units
	anchorB = big.NewInt(95_000000000) // 95 B in base units
	onePct  = decimal.NewFromInt(1)
)

func TestDesiredOut(t *testing.T) {
	desired := DesiredOut(anchorB, decimalsB, onePct)

	want := decimal.RequireFromString("95.95")
	if !desired.Equal(want) {
		t.Errorf("DesiredOut = %s, want %s", desired, want)
	}
}

func TestDesiredOutFractionalPercent(t *testing.T) {
	desired := DesiredOut(big.NewInt(200_000000), 6, decimal.RequireFromString("0.5"))

	want := decimal.RequireFromString("201")
	if !desired.Equal(want) {
		t.Errorf("DesiredOut = %s, want %s", desired, want)
	}
}

func TestTargetPrice(t *testing.T) {
	t.Run("sell_is_out_per_in", func(t *testing.T) {
		// Sell 95 B, want 10.1 A back: price 10.1/95.
		sellSize := big.NewInt(95_000000000)
		desired := decimal.RequireFromString("10.1")

		price := TargetPrice(Sell, sellSize, decimalsB, desired)

		want := desired.Div(decimal.NewFromInt(95))
		if !price.Equal(want) {
			t.Errorf("TargetPrice(sell) = %s, want %s", price, want)
		}
	})

	t.Run("buy_is_inverted", func(t *testing.T) {
		// Buy with 10 A, want 95.95 B: price 10/95.95 (in per out).
		desired := decimal.RequireFromString("95.95")

		price := TargetPrice(Buy, sizeA, decimalsA, desired)

		want := decimal.NewFromInt(10).Div(desired)
		if !price.Equal(want) {
			t.Errorf("TargetPrice(buy) = %s, want %s", price, want)
		}
	})
}

func TestRoutePrice(t *testing.T) {
	t.Run("buy_in_per_out", func(t *testing.T) {
		// 10 A buys 95 B: human ratio 10/95 regardless of decimals.
		price := RoutePrice(Buy, sizeA, anchorB, decimalsA, decimalsB)

		want := decimal.NewFromInt(10).Div(decimal.NewFromInt(95))
		if !price.Equal(want) {
			t.Errorf("RoutePrice(buy) = %s, want %s", price, want)
		}
	})

	t.Run("sell_out_per_in", func(t *testing.T) {
		// Selling 95 B for 10.2 A: human ratio 10.2/95.
		in := big.NewInt(95_000000000)
		out := big.NewInt(10_200000)

		price := RoutePrice(Sell, in, out, decimalsB, decimalsA)

		want := decimal.RequireFromString("10.2").Div(decimal.NewFromInt(95))
		if !price.Equal(want) {
			t.Errorf("RoutePrice(sell) = %s, want %s", price, want)
		}
	})

	t.Run("same_decimals_needs_no_shift", func(t *testing.T) {
		price := RoutePrice(Buy, big.NewInt(1000), big.NewInt(2000), 6, 6)

		want := decimal.RequireFromString("0.5")
		if !price.Equal(want) {
			t.Errorf("RoutePrice = %s, want 0.5", price)
		}
	})
}

// The full worked example: the buy target derived from a 95 B anchor at 1%
// profit must trigger on a quote at or above 95.95 B out and stay quiet
// below it.
func TestWorkedExampleBuyThreshold(t *testing.T) {
	desired := DesiredOut(anchorB, decimalsB, onePct)
	target := TargetPrice(Buy, sizeA, decimalsA, desired)

	tests := []struct {
		name        string
		quoteOut    *big.Int
		wantExecute bool
	}{
		{"quote_below_threshold", big.NewInt(95_000000000), false},
		{"quote_just_below", big.NewInt(95_940000000), false},
		{"quote_above_threshold", big.NewInt(96_000000000), true},
		{"quote_well_above", big.NewInt(100_000000000), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			live := RoutePrice(Buy, sizeA, tt.quoteOut, decimalsA, decimalsB)

			decision := Decide(Buy, live, target, false)
			if decision.Execute != tt.wantExecute {
				t.Errorf("Decide(live=%s target=%s) execute = %v, want %v",
					live, target, decision.Execute, tt.wantExecute)
			}
			if tt.wantExecute && decision.Reason != ReasonPriceMatch {
				t.Errorf("reason = %s, want %s", decision.Reason, ReasonPriceMatch)
			}
		})
	}
}
