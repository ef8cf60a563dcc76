// Package domain contains the ping-pong strategy domain model: orders,
// the order ledger, prices, decisions and profit records.
package domain

// Direction is the side of an order.
type Direction string

const (
	Buy  Direction = "buy"
	Sell Direction = "sell"
)

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Buy {
		return Sell
	}
	return Buy
}

// IsValid reports whether the direction is one of the two known sides.
func (d Direction) IsValid() bool {
	return d == Buy || d == Sell
}

func (d Direction) String() string {
	return string(d)
}

// DecisionReason is the closed set of reasons an evaluation can carry.
type DecisionReason string

const (
	ReasonDefault      DecisionReason = "default"
	ReasonPriceMatch   DecisionReason = "price-match"
	ReasonForcedByUser DecisionReason = "forced-by-user"
)

// Decision is the outcome of evaluating an open order against the market.
type Decision struct {
	Execute bool
	Reason  DecisionReason
}
