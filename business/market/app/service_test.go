package app

import (
	"context"
	"errors"
	"io"
	"math/big"
	"testing"

	"github.com/swaploop/pingpong-bot/business/market/domain"
	"github.com/swaploop/pingpong-bot/internal/apperror"
	"github.com/swaploop/pingpong-bot/internal/logger"
	"github.com/swaploop/pingpong-bot/internal/ratelimit"
)

type fakeAggregator struct {
	routes domain.RouteSet
	err    error
	calls  int
}

func (f *fakeAggregator) ComputeRoutes(ctx context.Context, req domain.SwapRequest) (domain.RouteSet, error) {
	f.calls++
	return f.routes, f.err
}

type fakeSender struct {
	result domain.ExecutionResult
	err    error
}

func (f *fakeSender) Execute(ctx context.Context, route domain.Route, req domain.SwapRequest) (domain.ExecutionResult, error) {
	return f.result, f.err
}

func newTestService(agg Aggregator, sender TxSender) *MarketService {
	log := logger.New(io.Discard, logger.LevelError, "test", nil)
	return NewMarketService(agg, sender, ratelimit.New(6000), log)
}

func validRequest() domain.SwapRequest {
	return domain.SwapRequest{AmountIn: big.NewInt(1000), SlippageBps: 50}
}

func TestMarketServiceComputeRoutes(t *testing.T) {
	t.Run("returns_routes", func(t *testing.T) {
		agg := &fakeAggregator{routes: domain.RouteSet{Routes: []domain.Route{
			{AmountIn: big.NewInt(1000), AmountOut: big.NewInt(900)},
		}}}
		svc := newTestService(agg, &fakeSender{})

		routes, err := svc.ComputeRoutes(context.Background(), validRequest())
		if err != nil {
			t.Fatalf("ComputeRoutes: %v", err)
		}
		if len(routes.Routes) != 1 {
			t.Errorf("routes = %d, want 1", len(routes.Routes))
		}
		if agg.calls != 1 {
			t.Errorf("aggregator calls = %d, want 1", agg.calls)
		}
	})

	t.Run("empty_set_is_no_route_found", func(t *testing.T) {
		svc := newTestService(&fakeAggregator{}, &fakeSender{})

		_, err := svc.ComputeRoutes(context.Background(), validRequest())
		if !apperror.HasCode(err, apperror.CodeNoRouteFound) {
			t.Errorf("error code = %s, want %s", apperror.GetCode(err), apperror.CodeNoRouteFound)
		}
	})

	t.Run("aggregator_error_is_quote_failed", func(t *testing.T) {
		agg := &fakeAggregator{err: errors.New("boom")}
		svc := newTestService(agg, &fakeSender{})

		_, err := svc.ComputeRoutes(context.Background(), validRequest())
		if !apperror.HasCode(err, apperror.CodeQuoteFailed) {
			t.Errorf("error code = %s, want %s", apperror.GetCode(err), apperror.CodeQuoteFailed)
		}
	})

	t.Run("rejects_non_positive_amount", func(t *testing.T) {
		svc := newTestService(&fakeAggregator{}, &fakeSender{})

		for _, amount := range []*big.Int{nil, big.NewInt(0), big.NewInt(-5)} {
			req := domain.SwapRequest{AmountIn: amount}
			_, err := svc.ComputeRoutes(context.Background(), req)
			if !apperror.HasCode(err, apperror.CodeInvalidTradeSize) {
				t.Errorf("amount %v: error code = %s, want %s",
					amount, apperror.GetCode(err), apperror.CodeInvalidTradeSize)
			}
		}
	})
}

func TestMarketServiceExecute(t *testing.T) {
	route := domain.Route{AmountIn: big.NewInt(1000), AmountOut: big.NewInt(900)}

	t.Run("returns_fill", func(t *testing.T) {
		sender := &fakeSender{result: domain.ExecutionResult{
			Status:    domain.ExecutionSimulated,
			OutAmount: big.NewInt(900),
			Signature: "sig",
		}}
		svc := newTestService(&fakeAggregator{}, sender)

		result, err := svc.Execute(context.Background(), route, validRequest())
		if err != nil {
			t.Fatalf("Execute: %v", err)
		}
		if result.OutAmount.Int64() != 900 {
			t.Errorf("OutAmount = %s, want 900", result.OutAmount)
		}
	})

	t.Run("sender_error_is_execution_failed", func(t *testing.T) {
		sender := &fakeSender{err: errors.New("boom")}
		svc := newTestService(&fakeAggregator{}, sender)

		_, err := svc.Execute(context.Background(), route, validRequest())
		if !apperror.HasCode(err, apperror.CodeExecutionFailed) {
			t.Errorf("error code = %s, want %s", apperror.GetCode(err), apperror.CodeExecutionFailed)
		}
	})

	t.Run("failed_status_is_rejected", func(t *testing.T) {
		sender := &fakeSender{result: domain.ExecutionResult{Status: domain.ExecutionFailed}}
		svc := newTestService(&fakeAggregator{}, sender)

		_, err := svc.Execute(context.Background(), route, validRequest())
		if !apperror.HasCode(err, apperror.CodeExecutionRejected) {
			t.Errorf("error code = %s, want %s", apperror.GetCode(err), apperror.CodeExecutionRejected)
		}
	})
}
