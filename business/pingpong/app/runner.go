package app

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	marketDomain "github.com/swaploop/pingpong-bot/business/market/domain"
	"github.com/swaploop/pingpong-bot/business/pingpong/domain"
	"github.com/swaploop/pingpong-bot/internal/apm"
	"github.com/swaploop/pingpong-bot/internal/apperror"
	"github.com/swaploop/pingpong-bot/internal/logger"
	"github.com/swaploop/pingpong-bot/internal/token"
)

// StrategyID tags every order this strategy creates.
const StrategyID = "ping-pong"

// initSlippageBps is the tolerance for the one-off anchor quote.
const initSlippageBps = 50

// Runner drives the strategy: one cycle per tick, never re-entrant. A
// cycle loads state, ensures an open order exists, evaluates it and, on
// a positive decision, executes and persists the fill.
type Runner struct {
	cfg       Config
	anchors   Anchors
	store     StateStore
	engine    *Engine
	market    Market
	reporter  Reporter
	telemetry Telemetry
	log       logger.LoggerInterface
	tracer    apm.Tracer

	cycleCounter   metric.Int64Counter
	orderCounter   metric.Int64Counter
	executeCounter metric.Int64Counter
}

// NewRunner creates a strategy runner.
func NewRunner(
	cfg Config,
	store StateStore,
	engine *Engine,
	market Market,
	reporter Reporter,
	telemetry Telemetry,
	log logger.LoggerInterface,
) *Runner {
	meter := otel.GetMeterProvider().Meter("pingpong")

	cycleCounter, _ := meter.Int64Counter("pingpong_cycles_total",
		metric.WithDescription("Total number of strategy cycles"))
	orderCounter, _ := meter.Int64Counter("pingpong_orders_created_total",
		metric.WithDescription("Total number of orders created"))
	executeCounter, _ := meter.Int64Counter("pingpong_orders_executed_total",
		metric.WithDescription("Total number of orders executed"))

	return &Runner{
		cfg:            cfg,
		store:          store,
		engine:         engine,
		market:         market,
		reporter:       reporter,
		telemetry:      telemetry,
		log:            log,
		tracer:         apm.NewTracer("pingpong"),
		cycleCounter:   cycleCounter,
		orderCounter:   orderCounter,
		executeCounter: executeCounter,
	}
}

// Anchors returns the baselines captured by Init.
func (r *Runner) Anchors() Anchors {
	return r.anchors
}

// Init validates the pair and captures the anchor baselines with a
// single A to B quote at the configured amount. It must run before Start.
func (r *Runner) Init(ctx context.Context) error {
	if r.cfg.TokenA.Mint == r.cfg.TokenB.Mint {
		return apperror.Validation(apperror.CodeMissingTokenInfo, "pingpong.Init: identical mints")
	}
	if !r.cfg.Amount.IsPositive() {
		return apperror.Validation(apperror.CodeInvalidTradeSize, "pingpong.Init")
	}

	amountInt, err := token.ToBaseUnits(r.cfg.Amount, r.cfg.TokenA.Decimals)
	if err != nil {
		return apperror.Wrap(err, apperror.CodeInvalidTradeSize, "pingpong.Init: amount")
	}

	routes, err := r.market.ComputeRoutes(ctx, marketDomain.SwapRequest{
		InMint:      r.cfg.TokenA.Mint,
		OutMint:     r.cfg.TokenB.Mint,
		AmountIn:    amountInt,
		SlippageBps: initSlippageBps,
	})
	if err != nil {
		return apperror.Wrap(err, apperror.CodeMissingAnchor, "pingpong.Init: anchor quote")
	}

	best, ok := routes.Best()
	if !ok || best.AmountOut == nil || best.AmountOut.Sign() <= 0 {
		return apperror.External(apperror.CodeMissingAnchor, "pingpong.Init: empty anchor quote", nil)
	}

	r.anchors = Anchors{
		InTokenInitialOut:  amountInt,
		OutTokenInitialOut: best.AmountOut,
	}

	r.telemetry.ReportTargetProfitPercent(r.cfg.TargetProfitPercent.InexactFloat64())
	r.telemetry.ReportAutoSlippage(0, r.cfg.AutoSlippage)
	if r.cfg.PriorityFeeMicroLamports > 0 {
		r.telemetry.ReportPriorityFee(r.cfg.PriorityFeeMicroLamports)
	}

	r.store.SetState(func(s *domain.State) {
		s.Status.Note = "initialized"
	})

	r.log.Info(ctx, "strategy initialized",
		"pair", r.cfg.TokenA.Symbol+"/"+r.cfg.TokenB.Symbol,
		"amount", r.cfg.Amount.String(),
		"anchor_in", r.anchors.InTokenInitialOut.String(),
		"anchor_out", r.anchors.OutTokenInitialOut.String(),
		"target_profit_percent", r.cfg.TargetProfitPercent.String(),
	)

	return nil
}

// Start runs cycles on the configured tick until the context is done.
// Cycles run synchronously, so a new one never begins before the
// previous terminal callback fired.
func (r *Runner) Start(ctx context.Context) error {
	if err := r.reporter.Start(ctx); err != nil {
		return err
	}
	defer r.reporter.Stop()

	ticker := time.NewTicker(r.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info(ctx, "strategy stopped")
			return nil
		case <-ticker.C:
			r.RunCycle(ctx, uuid.NewString(), func() {})
		}
	}
}

// RunCycle executes one strategy cycle. The done callback fires exactly
// once on every exit path, errors included, so the scheduler always
// learns the instance is ready again. Errors never mutate state; the
// next tick retries from the same open order. A panicking collaborator
// ends the cycle the same way an error does.
func (r *Runner) RunCycle(ctx context.Context, cycleID string, done func()) {
	defer done()
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error(ctx, "cycle panic recovered",
				"cycle_id", cycleID, "panic", rec, "stack", string(debug.Stack()))
		}
	}()

	ctx, span := r.tracer.StartSpanFromContext(ctx, "pingpong.cycle")
	defer span.End()
	span.SetAttributes(attribute.String("cycle.id", cycleID))

	r.cycleCounter.Add(ctx, 1)

	state := r.store.GetState()

	if state.Status.ShouldReset {
		state = r.applyReset(ctx, state)
	}

	ledger := state.LedgerFor(StrategyID)
	open := ledger.Open()

	var order domain.Order
	if len(open) == 0 {
		created, err := CreateOrder(CreateParams{
			ID:         cycleID,
			StrategyID: StrategyID,
			Config:     r.cfg,
			Anchors:    r.anchors,
			Ledger:     ledger,
			Now:        time.Now(),
		})
		if err != nil {
			span.NoticeError(err)
			r.log.Error(ctx, "order creation failed", "cycle_id", cycleID, "error", err)
			return
		}

		r.store.SetState(func(s *domain.State) {
			s.AppendOrder(created)
		})
		r.orderCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("direction", created.Direction.String())))
		r.reporter.OrderCreated(created)

		r.log.Info(ctx, "order created",
			"cycle_id", cycleID,
			"order_id", created.ID,
			"direction", created.Direction.String(),
			"size", created.Size.String(),
			"target_price", created.Price.String(),
			"desired_out", created.DesiredOutAmount.String(),
		)

		order = created
	} else {
		order = open[0]
	}

	baselineInt, err := baselineOutAmount(order.Direction, ledger, r.anchors)
	if err != nil {
		span.NoticeError(err)
		r.log.Error(ctx, "baseline unavailable", "cycle_id", cycleID, "error", err)
		return
	}
	baselineOut := token.ToDecimalAmount(baselineInt, order.OutTokenDecimals)

	forced := state.Status.ForceExecute

	eval, route, err := r.engine.Evaluate(ctx, order, baselineOut, forced)
	if err != nil {
		span.NoticeError(err)
		r.logEvaluateError(ctx, cycleID, err)
		return
	}

	r.reporter.OrderEvaluated(order, eval)

	if !eval.Decision.Execute {
		return
	}

	outAmount, profit, err := r.engine.ExecuteOrder(ctx, order, route, baselineOut, baselineInt, r.cfg)
	if err != nil {
		span.NoticeError(err)
		r.log.Warn(ctx, "execution failed, retrying next cycle",
			"cycle_id", cycleID, "order_id", order.ID, "error", err)
		return
	}

	executedAt := time.Now()
	var executed domain.Order
	r.store.SetState(func(s *domain.State) {
		if o, ok := s.Orders[order.ID]; ok && !o.IsExecuted {
			executed = o.MarkExecuted(outAmount, executedAt)
			s.Orders[order.ID] = executed
		}
		// A forced request is consumed by a completed execution only.
		// A failed send keeps it pending for the next tick.
		if forced {
			s.Status.ForceExecute = false
			s.Status.Note = "execute:forced"
		}
	})
	if forced {
		r.log.Info(ctx, "user forced execution", "cycle_id", cycleID, "order_id", order.ID)
	}

	r.executeCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("direction", order.Direction.String()),
		attribute.String("reason", string(eval.Decision.Reason)),
	))
	r.reporter.OrderExecuted(executed, profit)

	r.log.Info(ctx, "order executed",
		"cycle_id", cycleID,
		"order_id", order.ID,
		"direction", order.Direction.String(),
		"reason", string(eval.Decision.Reason),
		"out_amount", outAmount.String(),
		"realized_profit", profit.Realized.String(),
		"unrealized_profit", profit.Unrealized.String(),
	)
}

// applyReset consumes the reset signal: the open order is discarded so
// the next cycle re-creates it from current config and anchors.
func (r *Runner) applyReset(ctx context.Context, state domain.State) domain.State {
	openIDs := make([]string, 0, 1)
	for _, o := range state.LedgerFor(StrategyID).Open() {
		openIDs = append(openIDs, o.ID)
	}

	next := r.store.SetState(func(s *domain.State) {
		for _, id := range openIDs {
			s.RemoveOrder(id)
		}
		s.Status.ShouldReset = false
		s.Status.Note = "reset"
	})

	r.log.Info(ctx, "reset signal consumed", "dropped_orders", len(openIDs))
	return next
}

func (r *Runner) logEvaluateError(ctx context.Context, cycleID string, err error) {
	switch apperror.GetCode(err) {
	case apperror.CodeNoRouteFound, apperror.CodeQuoteFailed, apperror.CodeCircuitOpen:
		r.log.Warn(ctx, "evaluation skipped, retrying next cycle", "cycle_id", cycleID, "error", err)
	default:
		r.log.Error(ctx, "evaluation failed", "cycle_id", cycleID, "error", err)
	}
}
