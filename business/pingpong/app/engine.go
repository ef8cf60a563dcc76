package app

import (
	"context"
	"math/big"

	"github.com/shopspring/decimal"

	marketDomain "github.com/swaploop/pingpong-bot/business/market/domain"
	"github.com/swaploop/pingpong-bot/business/pingpong/domain"
	"github.com/swaploop/pingpong-bot/internal/apperror"
	"github.com/swaploop/pingpong-bot/internal/logger"
	"github.com/swaploop/pingpong-bot/internal/token"
)

// Engine evaluates open orders against live routes and turns fills into
// profit records.
type Engine struct {
	market    Market
	telemetry Telemetry
	log       logger.LoggerInterface
}

// NewEngine creates a decision engine.
func NewEngine(market Market, telemetry Telemetry, log logger.LoggerInterface) *Engine {
	return &Engine{market: market, telemetry: telemetry, log: log}
}

// Evaluate quotes the order's pair at its size and decides whether to
// execute. The best route is returned for a subsequent ExecuteOrder call.
// The expected profit percent is reported regardless of the decision.
func (e *Engine) Evaluate(
	ctx context.Context,
	order domain.Order,
	baselineOut decimal.Decimal,
	forced bool,
) (domain.Evaluation, marketDomain.Route, error) {
	routes, err := e.market.ComputeRoutes(ctx, marketDomain.SwapRequest{
		InMint:      order.InTokenMint,
		OutMint:     order.OutTokenMint,
		AmountIn:    order.SizeInt,
		SlippageBps: order.SlippageBps,
	})
	if err != nil {
		return domain.Evaluation{}, marketDomain.Route{}, err
	}

	best, ok := routes.Best()
	if !ok {
		return domain.Evaluation{}, marketDomain.Route{},
			apperror.External(apperror.CodeNoRouteFound, "pingpong.Evaluate", nil)
	}
	// A zero amount on either leg would make the price undefined.
	if best.AmountIn == nil || best.AmountIn.Sign() <= 0 ||
		best.AmountOut == nil || best.AmountOut.Sign() <= 0 {
		return domain.Evaluation{}, marketDomain.Route{},
			apperror.External(apperror.CodeNoRouteFound, "pingpong.Evaluate: degenerate route", nil)
	}

	livePrice := domain.RoutePrice(order.Direction, best.AmountIn, best.AmountOut,
		order.InTokenDecimals, order.OutTokenDecimals)
	liveOut := token.ToDecimalAmount(best.AmountOut, order.OutTokenDecimals)

	expected := domain.ExpectedProfitPercent(liveOut, baselineOut)
	e.telemetry.ReportExpectedProfitPercent(expected.InexactFloat64())

	decision := domain.Decide(order.Direction, livePrice, order.Price, forced)

	e.log.Debug(ctx, "order evaluated",
		"order_id", order.ID,
		"direction", order.Direction.String(),
		"live_price", livePrice.String(),
		"target_price", order.Price.String(),
		"expected_profit_percent", expected.String(),
		"execute", decision.Execute,
		"reason", string(decision.Reason),
	)

	return domain.Evaluation{
		Decision:              decision,
		LivePrice:             livePrice,
		LiveOutAmount:         liveOut,
		LiveOutAmountInt:      new(big.Int).Set(best.AmountOut),
		ExpectedProfitPercent: expected,
	}, best, nil
}

// ExecuteOrder submits the route and computes the fill's profit record.
// With auto-slippage on, the baseline out-amount rides along as the
// minimum acceptable fill.
func (e *Engine) ExecuteOrder(
	ctx context.Context,
	order domain.Order,
	route marketDomain.Route,
	baselineOut decimal.Decimal,
	baselineInt *big.Int,
	cfg Config,
) (*big.Int, domain.ProfitRecord, error) {
	req := marketDomain.SwapRequest{
		InMint:                   order.InTokenMint,
		OutMint:                  order.OutTokenMint,
		AmountIn:                 order.SizeInt,
		SlippageBps:              order.SlippageBps,
		PriorityFeeMicroLamports: cfg.PriorityFeeMicroLamports,
	}

	if cfg.PriorityFeeMicroLamports > 0 {
		e.telemetry.ReportPriorityFee(cfg.PriorityFeeMicroLamports)
	}

	if cfg.AutoSlippage {
		req.MinOutAmount = new(big.Int).Set(baselineInt)
		e.telemetry.ReportAutoSlippage(baselineOut.InexactFloat64(), true)
		e.log.Debug(ctx, "auto slippage floor set", "min_out", req.MinOutAmount.String())
	}

	result, err := e.market.Execute(ctx, route, req)
	if err != nil {
		return nil, domain.ProfitRecord{}, err
	}

	profit := domain.ComputeProfit(order.Direction, result.OutAmount, order.OutTokenDecimals, baselineOut)

	if order.Direction == domain.Buy {
		e.telemetry.ReportUnrealizedProfitPercent(profit.UnrealizedPercent.InexactFloat64())
	} else {
		e.telemetry.ReportUnrealizedProfitPercent(0)
	}

	return new(big.Int).Set(result.OutAmount), profit, nil
}
