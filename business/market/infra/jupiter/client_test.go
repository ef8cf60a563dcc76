package jupiter

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/swaploop/pingpong-bot/business/market/domain"
	"github.com/swaploop/pingpong-bot/internal/apperror"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	return decimal.RequireFromString(s)
}

const sampleQuote = `{
  "inputMint": "So11111111111111111111111111111111111111112",
  "inAmount": "100000000",
  "outputMint": "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
  "outAmount": "15250000",
  "otherAmountThreshold": "15173750",
  "swapMode": "ExactIn",
  "slippageBps": 50,
  "priceImpactPct": "0.0012",
  "routePlan": [
    {
      "swapInfo": {
        "ammKey": "5Q544fKrFoe6tsEbD7S8EmxGTJYAKtTVhAW5Q5pge4j1",
        "label": "Raydium",
        "inputMint": "So11111111111111111111111111111111111111112",
        "outputMint": "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
        "inAmount": "100000000",
        "outAmount": "15250000",
        "feeAmount": "25000",
        "feeMint": "So11111111111111111111111111111111111111112"
      },
      "percent": 100
    }
  ],
  "contextSlot": 277191347,
  "timeTaken": 0.024
}`

func TestClientToRoute(t *testing.T) {
	var quote quoteResponse
	if err := json.Unmarshal([]byte(sampleQuote), &quote); err != nil {
		t.Fatalf("unmarshal sample quote: %v", err)
	}

	c := &Client{}
	req := domain.SwapRequest{
		InMint:      solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112"),
		OutMint:     solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"),
		AmountIn:    big.NewInt(100000000),
		SlippageBps: 50,
	}

	route, err := c.toRoute(quote, req)
	if err != nil {
		t.Fatalf("toRoute: %v", err)
	}

	if route.AmountIn.Int64() != 100000000 {
		t.Errorf("AmountIn = %s, want 100000000", route.AmountIn)
	}
	if route.AmountOut.Int64() != 15250000 {
		t.Errorf("AmountOut = %s, want 15250000", route.AmountOut)
	}
	if route.MinAmountOut.Int64() != 15173750 {
		t.Errorf("MinAmountOut = %s, want 15173750", route.MinAmountOut)
	}
	if route.SlippageBps != 50 {
		t.Errorf("SlippageBps = %d, want 50", route.SlippageBps)
	}
	if !route.PriceImpactPct.Equal(mustDecimal(t, "0.0012")) {
		t.Errorf("PriceImpactPct = %s, want 0.0012", route.PriceImpactPct)
	}
	if len(route.Hops) != 1 {
		t.Fatalf("Hops = %d, want 1", len(route.Hops))
	}
	if route.Hops[0].Label != "Raydium" {
		t.Errorf("hop label = %q, want Raydium", route.Hops[0].Label)
	}
	if route.ContextSlot != 277191347 {
		t.Errorf("ContextSlot = %d, want 277191347", route.ContextSlot)
	}
}

func TestClientToRouteMinOutOverride(t *testing.T) {
	var quote quoteResponse
	if err := json.Unmarshal([]byte(sampleQuote), &quote); err != nil {
		t.Fatalf("unmarshal sample quote: %v", err)
	}

	c := &Client{}
	req := domain.SwapRequest{
		InMint:       solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112"),
		OutMint:      solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"),
		AmountIn:     big.NewInt(100000000),
		MinOutAmount: big.NewInt(15200000),
	}

	route, err := c.toRoute(quote, req)
	if err != nil {
		t.Fatalf("toRoute: %v", err)
	}

	// Caller floor (15200000) is stricter than the quote threshold
	// (15173750) and must win.
	if route.MinAmountOut.Int64() != 15200000 {
		t.Errorf("MinAmountOut = %s, want 15200000", route.MinAmountOut)
	}
}

func TestClientToRouteRejectsZeroAmounts(t *testing.T) {
	tests := []struct {
		name  string
		field string
	}{
		{"zero_out_amount", "outAmount"},
		{"zero_in_amount", "inAmount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var quote quoteResponse
			if err := json.Unmarshal([]byte(sampleQuote), &quote); err != nil {
				t.Fatalf("unmarshal sample quote: %v", err)
			}
			if tt.field == "outAmount" {
				quote.OutAmount = "0"
			} else {
				quote.InAmount = "0"
			}

			c := &Client{}
			_, err := c.toRoute(quote, domain.SwapRequest{AmountIn: big.NewInt(100000000)})
			if !apperror.HasCode(err, apperror.CodeQuoteFailed) {
				t.Fatalf("err = %v, want code %s", err, apperror.CodeQuoteFailed)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in     string
		want   int64
		wantOK bool
	}{
		{"0", 0, true},
		{"15250000", 15250000, true},
		{"", 0, false},
		{"-5", 0, false},
		{"abc", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseAmount(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("parseAmount(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if ok && got.Int64() != tt.want {
				t.Errorf("parseAmount(%q) = %s, want %d", tt.in, got, tt.want)
			}
		})
	}
}
