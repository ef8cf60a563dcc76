// Package app contains the ping-pong strategy application layer: order
// creation, the decision/profit engine and the run loop.
package app

import (
	"context"

	marketDomain "github.com/swaploop/pingpong-bot/business/market/domain"
	"github.com/swaploop/pingpong-bot/business/pingpong/domain"
)

// Market is the slice of the market context the strategy consumes.
type Market interface {
	ComputeRoutes(ctx context.Context, req marketDomain.SwapRequest) (marketDomain.RouteSet, error)
	Execute(ctx context.Context, route marketDomain.Route, req marketDomain.SwapRequest) (marketDomain.ExecutionResult, error)
}

// StateStore holds the strategy state. GetState returns a snapshot;
// SetState applies one atomic, serialized mutation and returns the new
// snapshot.
type StateStore interface {
	GetState() domain.State
	SetState(mutate func(*domain.State)) domain.State
}

// Reporter observes the order lifecycle for display. Implementations
// must not block the run loop.
type Reporter interface {
	Start(ctx context.Context) error
	OrderCreated(order domain.Order)
	OrderEvaluated(order domain.Order, eval domain.Evaluation)
	OrderExecuted(order domain.Order, profit domain.ProfitRecord)
	Stop() error
}

// Telemetry receives fire-and-forget strategy measurements. Calls must
// never fail or block the cycle.
type Telemetry interface {
	ReportExpectedProfitPercent(percent float64)
	ReportUnrealizedProfitPercent(percent float64)
	ReportPriorityFee(microLamports uint64)
	ReportAutoSlippage(baselineOut float64, enabled bool)
	ReportTargetProfitPercent(percent float64)
}
