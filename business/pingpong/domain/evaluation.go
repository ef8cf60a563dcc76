package domain

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Evaluation is the result of checking an open order against the live
// market.
type Evaluation struct {
	Decision              Decision
	LivePrice             decimal.Decimal
	LiveOutAmount         decimal.Decimal
	LiveOutAmountInt      *big.Int
	ExpectedProfitPercent decimal.Decimal
}

// Decide applies the execution rule. A forced flag wins first with
// reason forced-by-user; otherwise the price comparison can upgrade the
// default no to a price-match yes. Buy executes at or below target, sell
// at or above.
func Decide(dir Direction, livePrice, targetPrice decimal.Decimal, forced bool) Decision {
	decision := Decision{Execute: false, Reason: ReasonDefault}
	if forced {
		decision = Decision{Execute: true, Reason: ReasonForcedByUser}
	}

	switch dir {
	case Buy:
		if livePrice.LessThanOrEqual(targetPrice) {
			decision = Decision{Execute: true, Reason: ReasonPriceMatch}
		}
	case Sell:
		if livePrice.GreaterThanOrEqual(targetPrice) {
			decision = Decision{Execute: true, Reason: ReasonPriceMatch}
		}
	}

	return decision
}
