// Package domain contains market context domain types: swap routes,
// execution results and the requests that produce them.
package domain

import (
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// Hop is one AMM traversal inside a route.
type Hop struct {
	AmmKey    string
	Label     string
	InMint    solana.PublicKey
	OutMint   solana.PublicKey
	FeeAmount *big.Int
	Percent   int
}

// Route is a single candidate path quoted by the aggregator. Amounts are
// base units of the respective mints.
type Route struct {
	InMint         solana.PublicKey
	OutMint        solana.PublicKey
	AmountIn       *big.Int
	AmountOut      *big.Int
	MinAmountOut   *big.Int
	SlippageBps    int
	PriceImpactPct decimal.Decimal
	Hops           []Hop
	ContextSlot    uint64
}

// String renders the route for logs.
func (r Route) String() string {
	return fmt.Sprintf("route %s->%s in=%s out=%s hops=%d",
		r.InMint.Short(4), r.OutMint.Short(4), r.AmountIn, r.AmountOut, len(r.Hops))
}

// RouteSet is the full quote response for one swap request.
type RouteSet struct {
	Routes []Route
}

// Best returns the route with the highest out-amount. The second return
// is false when the set is empty.
func (s RouteSet) Best() (Route, bool) {
	if len(s.Routes) == 0 {
		return Route{}, false
	}

	best := s.Routes[0]
	for _, r := range s.Routes[1:] {
		if r.AmountOut != nil && r.AmountOut.Cmp(best.AmountOut) > 0 {
			best = r
		}
	}
	return best, true
}

// IsEmpty reports whether no route was found.
func (s RouteSet) IsEmpty() bool {
	return len(s.Routes) == 0
}
