package app

import (
	"context"
	"errors"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/swaploop/pingpong-bot/business/market/domain"
	"github.com/swaploop/pingpong-bot/internal/apperror"
	"github.com/swaploop/pingpong-bot/internal/circuitbreaker"
	"github.com/swaploop/pingpong-bot/internal/logger"
	"github.com/swaploop/pingpong-bot/internal/ratelimit"
)

// MarketService fronts the aggregator with rate limiting and circuit
// breaking. It is the only way the rest of the app talks to the market.
type MarketService struct {
	aggregator Aggregator
	sender     TxSender
	limiter    *ratelimit.Limiter
	log        logger.LoggerInterface

	quoteCB *circuitbreaker.CircuitBreaker[domain.RouteSet]
	execCB  *circuitbreaker.CircuitBreaker[domain.ExecutionResult]

	quoteCounter metric.Int64Counter
	execCounter  metric.Int64Counter
}

// NewMarketService creates a MarketService.
func NewMarketService(
	aggregator Aggregator,
	sender TxSender,
	limiter *ratelimit.Limiter,
	log logger.LoggerInterface,
) *MarketService {
	meter := otel.GetMeterProvider().Meter("market")

	quoteCounter, _ := meter.Int64Counter("market_quotes_total",
		metric.WithDescription("Total number of route quote requests"))
	execCounter, _ := meter.Int64Counter("market_executions_total",
		metric.WithDescription("Total number of swap executions"))

	return &MarketService{
		aggregator:   aggregator,
		sender:       sender,
		limiter:      limiter,
		log:          log,
		quoteCB:      circuitbreaker.New[domain.RouteSet](circuitbreaker.DefaultConfig("market-quote")),
		execCB:       circuitbreaker.New[domain.ExecutionResult](circuitbreaker.DefaultConfig("market-execute")),
		quoteCounter: quoteCounter,
		execCounter:  execCounter,
	}
}

// ComputeRoutes quotes routes for the request. It waits on the rate
// limiter, so callers should pass a cancellable context.
func (s *MarketService) ComputeRoutes(ctx context.Context, req domain.SwapRequest) (domain.RouteSet, error) {
	if req.AmountIn == nil || req.AmountIn.Sign() <= 0 {
		return domain.RouteSet{}, apperror.Validation(apperror.CodeInvalidTradeSize, "market.ComputeRoutes")
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return domain.RouteSet{}, apperror.Wrap(err, apperror.CodeQuoteFailed, "market.ComputeRoutes: rate limiter")
	}

	routes, err := s.quoteCB.Execute(func() (domain.RouteSet, error) {
		return s.aggregator.ComputeRoutes(ctx, req)
	})
	if err != nil {
		s.quoteCounter.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", false)))

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return domain.RouteSet{}, apperror.Wrap(err, apperror.CodeCircuitOpen, "market.ComputeRoutes")
		}
		return domain.RouteSet{}, apperror.Wrap(err, apperror.CodeQuoteFailed, "market.ComputeRoutes")
	}

	s.quoteCounter.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", true)))

	if routes.IsEmpty() {
		return domain.RouteSet{}, apperror.External(apperror.CodeNoRouteFound, "market.ComputeRoutes", nil)
	}

	return routes, nil
}

// Execute submits the route and returns the fill. The engine computes
// profit from the returned out-amount afterwards.
func (s *MarketService) Execute(ctx context.Context, route domain.Route, req domain.SwapRequest) (domain.ExecutionResult, error) {
	result, err := s.execCB.Execute(func() (domain.ExecutionResult, error) {
		return s.sender.Execute(ctx, route, req)
	})
	if err != nil {
		s.execCounter.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", false)))

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return domain.ExecutionResult{}, apperror.Wrap(err, apperror.CodeCircuitOpen, "market.Execute")
		}
		return domain.ExecutionResult{}, apperror.Wrap(err, apperror.CodeExecutionFailed, "market.Execute")
	}

	s.execCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("success", result.Succeeded()),
		attribute.String("status", string(result.Status)),
	))

	if !result.Succeeded() {
		return result, apperror.External(apperror.CodeExecutionRejected, "market.Execute", nil)
	}

	s.log.Info(ctx, "swap executed",
		"status", string(result.Status),
		"out_amount", result.OutAmount.String(),
		"signature", result.Signature,
	)

	return result, nil
}
