// Package app contains application services and port definitions for the market context.
package app

import (
	"context"

	"github.com/swaploop/pingpong-bot/business/market/domain"
)

// Aggregator quotes swap routes from a liquidity aggregator.
type Aggregator interface {
	// ComputeRoutes returns candidate routes for an exact-in swap.
	ComputeRoutes(ctx context.Context, req domain.SwapRequest) (domain.RouteSet, error)
}

// TxSender submits a chosen route for execution and reports the fill.
type TxSender interface {
	Execute(ctx context.Context, route domain.Route, req domain.SwapRequest) (domain.ExecutionResult, error)
}
