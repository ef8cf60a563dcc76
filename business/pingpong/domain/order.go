package domain

import (
	"math/big"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// OrderTypeTargetPrice tags orders that execute when the live price
// crosses a target, without resting on any book.
const OrderTypeTargetPrice = "limit-like"

// Order is one leg of the ping-pong cycle. Execution fields (IsExecuted,
// OutAmountInt, ExecutedAt, UpdatedAt) are written exactly once when the
// order fills; everything else is immutable after creation.
type Order struct {
	ID         string
	StrategyID string
	Direction  Direction
	Type       string

	// SizeInt is the input amount in base units of the in token. Size is
	// the same amount in human units, kept for display.
	SizeInt *big.Int
	Size    decimal.Decimal

	InTokenMint      solana.PublicKey
	OutTokenMint     solana.PublicKey
	InTokenSymbol    string
	OutTokenSymbol   string
	InTokenDecimals  uint8
	OutTokenDecimals uint8

	// Price is the target price. For buy orders it is in-per-out so that
	// live <= target means cheap enough; for sell orders out-per-in so
	// that live >= target means dear enough.
	Price            decimal.Decimal
	DesiredOutAmount decimal.Decimal
	SlippageBps      int

	IsExecuted   bool
	OutAmountInt *big.Int

	CreatedAt  time.Time
	UpdatedAt  time.Time
	ExecutedAt time.Time
}

// Clone returns a deep copy. big.Int fields are copied so callers can
// never alias ledger state.
func (o Order) Clone() Order {
	clone := o
	if o.SizeInt != nil {
		clone.SizeInt = new(big.Int).Set(o.SizeInt)
	}
	if o.OutAmountInt != nil {
		clone.OutAmountInt = new(big.Int).Set(o.OutAmountInt)
	}
	return clone
}

// MarkExecuted returns the order stamped as filled. This is the only
// mutation an order ever receives.
func (o Order) MarkExecuted(outAmount *big.Int, at time.Time) Order {
	filled := o.Clone()
	filled.IsExecuted = true
	filled.OutAmountInt = new(big.Int).Set(outAmount)
	filled.ExecutedAt = at
	filled.UpdatedAt = at
	return filled
}
