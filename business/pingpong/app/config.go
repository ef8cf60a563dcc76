package app

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"

	"github.com/swaploop/pingpong-bot/internal/token"
)

// Config is the typed strategy configuration. It is immutable after
// startup; the mutable per-run flags live in domain.StrategyStatus.
type Config struct {
	TokenA token.Info
	TokenB token.Info

	// Amount is the buy-side trade size in human units of token A.
	Amount              decimal.Decimal
	SlippageBps         int
	TargetProfitPercent decimal.Decimal

	AutoSlippage             bool
	Compounding              bool
	PriorityFeeMicroLamports uint64
	TickInterval             time.Duration
}

// Anchors are the out-amount baselines captured once at initialization,
// used until a filled order exists in the matching direction. InTokenInitialOut
// is the trade amount in token A base units (sell baseline); OutTokenInitialOut
// is the quoted token B out-amount (buy baseline).
type Anchors struct {
	InTokenInitialOut  *big.Int
	OutTokenInitialOut *big.Int
}
