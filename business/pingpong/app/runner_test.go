package app

import (
	"context"
	"errors"
	"math/big"
	"testing"

	marketDomain "github.com/swaploop/pingpong-bot/business/market/domain"
	"github.com/swaploop/pingpong-bot/business/pingpong/domain"
	"github.com/swaploop/pingpong-bot/internal/apperror"
	"github.com/swaploop/pingpong-bot/internal/store"
)

type runnerFixture struct {
	runner    *Runner
	market    *fakeMarket
	store     *store.Store[domain.State]
	reporter  *recordingReporter
	telemetry *recordingTelemetry
}

func newRunnerFixture(t *testing.T) *runnerFixture {
	t.Helper()

	market := &fakeMarket{routes: []marketDomain.Route{route(10_000000, 95_000000000)}}
	st := newTestStore()
	reporter := &recordingReporter{}
	telemetry := &recordingTelemetry{}
	log := discardLogger()

	engine := NewEngine(market, telemetry, log)
	runner := NewRunner(testConfig(), st, engine, market, reporter, telemetry, log)

	if err := runner.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	return &runnerFixture{
		runner:    runner,
		market:    market,
		store:     st,
		reporter:  reporter,
		telemetry: telemetry,
	}
}

func (f *runnerFixture) cycle(t *testing.T, cycleID string) {
	t.Helper()

	doneCalls := 0
	f.runner.RunCycle(context.Background(), cycleID, func() { doneCalls++ })
	if doneCalls != 1 {
		t.Fatalf("done fired %d times, want exactly 1", doneCalls)
	}
}

func (f *runnerFixture) quote(in, out int64) {
	f.market.routes = []marketDomain.Route{route(in, out)}
}

func TestRunnerInit(t *testing.T) {
	f := newRunnerFixture(t)

	anchors := f.runner.Anchors()
	if anchors.InTokenInitialOut.Cmp(big.NewInt(10_000000)) != 0 {
		t.Fatalf("InTokenInitialOut = %s, want 10000000", anchors.InTokenInitialOut)
	}
	if anchors.OutTokenInitialOut.Cmp(big.NewInt(95_000000000)) != 0 {
		t.Fatalf("OutTokenInitialOut = %s, want 95000000000", anchors.OutTokenInitialOut)
	}
	if len(f.telemetry.targets) != 1 {
		t.Fatalf("target profit reported %d times, want 1", len(f.telemetry.targets))
	}
}

func TestRunnerInitErrors(t *testing.T) {
	t.Run("identical_mints", func(t *testing.T) {
		cfg := testConfig()
		cfg.TokenB = cfg.TokenA

		market := &fakeMarket{}
		log := discardLogger()
		runner := NewRunner(cfg, newTestStore(), NewEngine(market, &recordingTelemetry{}, log),
			market, &recordingReporter{}, &recordingTelemetry{}, log)

		err := runner.Init(context.Background())
		if !apperror.HasCode(err, apperror.CodeMissingTokenInfo) {
			t.Fatalf("err = %v, want code %s", err, apperror.CodeMissingTokenInfo)
		}
	})

	t.Run("anchor_quote_failure", func(t *testing.T) {
		market := &fakeMarket{routesErr: errors.New("unreachable")}
		log := discardLogger()
		runner := NewRunner(testConfig(), newTestStore(), NewEngine(market, &recordingTelemetry{}, log),
			market, &recordingReporter{}, &recordingTelemetry{}, log)

		err := runner.Init(context.Background())
		if !apperror.HasCode(err, apperror.CodeMissingAnchor) {
			t.Fatalf("err = %v, want code %s", err, apperror.CodeMissingAnchor)
		}
	})
}

func TestRunCycleCreatesAndHolds(t *testing.T) {
	f := newRunnerFixture(t)
	f.quote(10_000000, 95_500000000)

	f.cycle(t, "c1")

	state := f.store.GetState()
	open := state.LedgerFor(StrategyID).Open()
	if len(open) != 1 {
		t.Fatalf("open orders = %d, want 1", len(open))
	}
	if open[0].ID != "c1" || open[0].Direction != domain.Buy {
		t.Fatalf("open order = %s/%s, want c1/buy", open[0].ID, open[0].Direction)
	}

	if len(f.reporter.created) != 1 || len(f.reporter.evaluated) != 1 {
		t.Fatalf("reporter created=%d evaluated=%d, want 1/1",
			len(f.reporter.created), len(f.reporter.evaluated))
	}
	if len(f.reporter.executed) != 0 {
		t.Fatal("a below-target quote must not execute")
	}

	// The next tick reuses the open order instead of creating another.
	f.cycle(t, "c2")
	if got := len(f.store.GetState().LedgerFor(StrategyID).Open()); got != 1 {
		t.Fatalf("open orders after second cycle = %d, want 1", got)
	}
	if len(f.reporter.created) != 1 {
		t.Fatalf("created = %d, want still 1", len(f.reporter.created))
	}
}

func TestRunCycleExecutesOnTarget(t *testing.T) {
	f := newRunnerFixture(t)
	f.quote(10_000000, 96_000000000)

	f.cycle(t, "c1")

	state := f.store.GetState()
	order, ok := state.Orders["c1"]
	if !ok {
		t.Fatal("order c1 missing from state")
	}
	if !order.IsExecuted {
		t.Fatal("order must be marked executed")
	}
	if order.OutAmountInt.Cmp(big.NewInt(96_000000000)) != 0 {
		t.Fatalf("OutAmountInt = %s, want 96000000000", order.OutAmountInt)
	}

	if len(f.reporter.executed) != 1 {
		t.Fatalf("executed reports = %d, want 1", len(f.reporter.executed))
	}
	profit := f.reporter.profits[0]
	if !profit.Realized.IsZero() || profit.Unrealized.Sign() <= 0 {
		t.Fatalf("buy fill profit = realized %s / unrealized %s, want unrealized only",
			profit.Realized, profit.Unrealized)
	}
}

func TestRunCycleFullRoundTrip(t *testing.T) {
	f := newRunnerFixture(t)

	// Buy leg: 10 A fills for 96 B, past the 95.95 desired out.
	f.quote(10_000000, 96_000000000)
	f.cycle(t, "c1")

	// Sell leg: the 96 B position fills for 10.302 A against the 10.1
	// desired out.
	f.quote(96_000000000, 10_302000)
	f.cycle(t, "c2")

	state := f.store.GetState()
	filled := state.LedgerFor(StrategyID).Filled()
	if len(filled) != 2 {
		t.Fatalf("filled orders = %d, want 2", len(filled))
	}
	if filled[0].Direction != domain.Buy || filled[1].Direction != domain.Sell {
		t.Fatalf("fill sequence = %s,%s, want buy,sell", filled[0].Direction, filled[1].Direction)
	}

	sell := filled[1]
	if sell.SizeInt.Cmp(big.NewInt(96_000000000)) != 0 {
		t.Fatalf("sell size = %s, want the buy proceeds", sell.SizeInt)
	}

	realized := f.reporter.profits[1].Realized
	if realized.Sign() <= 0 {
		t.Fatalf("round trip realized = %s, want positive", realized)
	}

	// The pattern keeps alternating.
	f.quote(10_000000, 95_500000000)
	f.cycle(t, "c3")
	open := f.store.GetState().LedgerFor(StrategyID).Open()
	if len(open) != 1 || open[0].Direction != domain.Buy {
		t.Fatalf("third leg = %v, want one open buy", open)
	}
}

func TestRunCycleQuoteErrorLeavesStateAlone(t *testing.T) {
	f := newRunnerFixture(t)
	f.quote(10_000000, 95_500000000)
	f.cycle(t, "c1")

	f.market.routesErr = errors.New("network down")
	f.cycle(t, "c2")

	state := f.store.GetState()
	open := state.LedgerFor(StrategyID).Open()
	if len(open) != 1 || open[0].ID != "c1" {
		t.Fatalf("open orders = %v, want the untouched c1", open)
	}
	if len(f.reporter.executed) != 0 {
		t.Fatal("a failed quote must not execute anything")
	}
}

func TestRunCycleExecuteErrorKeepsOrderOpen(t *testing.T) {
	f := newRunnerFixture(t)
	f.quote(10_000000, 96_000000000)
	f.market.execErr = errors.New("send failed")

	f.cycle(t, "c1")

	open := f.store.GetState().LedgerFor(StrategyID).Open()
	if len(open) != 1 || open[0].IsExecuted {
		t.Fatalf("open orders = %v, want c1 still open for retry", open)
	}

	// Execution recovers on a later tick with the same order.
	f.market.execErr = nil
	f.cycle(t, "c2")

	order := f.store.GetState().Orders["c1"]
	if !order.IsExecuted {
		t.Fatal("order must execute once the sender recovers")
	}
}

func TestRunCycleZeroQuoteKeepsOrderOpen(t *testing.T) {
	f := newRunnerFixture(t)
	f.quote(10_000000, 95_500000000)
	f.cycle(t, "c1")

	// An aggregator echoing a zero out-amount must end the cycle like
	// any other bad quote.
	f.quote(10_000000, 0)
	f.cycle(t, "c2")

	open := f.store.GetState().LedgerFor(StrategyID).Open()
	if len(open) != 1 || open[0].ID != "c1" {
		t.Fatalf("open orders = %v, want the untouched c1", open)
	}
	if len(f.reporter.executed) != 0 {
		t.Fatal("a degenerate quote must not execute anything")
	}
}

func TestRunCycleRecoversFromPanic(t *testing.T) {
	f := newRunnerFixture(t)
	f.quote(10_000000, 95_500000000)
	f.cycle(t, "c1")

	// cycle asserts the terminal callback still fires exactly once.
	f.market.routesPanic = "aggregator client exploded"
	f.cycle(t, "c2")

	open := f.store.GetState().LedgerFor(StrategyID).Open()
	if len(open) != 1 || open[0].ID != "c1" {
		t.Fatalf("open orders = %v, want the untouched c1", open)
	}
	if len(f.reporter.executed) != 0 {
		t.Fatal("a panicking cycle must not execute anything")
	}

	// The loop keeps ticking afterwards.
	f.market.routesPanic = ""
	f.quote(10_000000, 96_000000000)
	f.cycle(t, "c3")

	if !f.store.GetState().Orders["c1"].IsExecuted {
		t.Fatal("cycles must resume once the collaborator recovers")
	}
}

func TestRunCycleForcedFlagSurvivesFailedExecution(t *testing.T) {
	f := newRunnerFixture(t)
	f.quote(10_000000, 90_000000000)
	f.market.execErr = errors.New("send failed")

	f.store.SetState(func(s *domain.State) {
		s.Status.ForceExecute = true
	})

	f.cycle(t, "c1")

	state := f.store.GetState()
	if state.Orders["c1"].IsExecuted {
		t.Fatal("failed execution must leave the order open")
	}
	if !state.Status.ForceExecute {
		t.Fatal("force flag must stay pending when execution fails")
	}

	// The retry still honors the request and consumes the flag.
	f.market.execErr = nil
	f.cycle(t, "c2")

	state = f.store.GetState()
	if !state.Orders["c1"].IsExecuted {
		t.Fatal("forced order must execute once the sender recovers")
	}
	if state.Status.ForceExecute {
		t.Fatal("force flag must clear once the execution lands")
	}
}

func TestRunCycleForcedFlagConsumedOnce(t *testing.T) {
	f := newRunnerFixture(t)
	f.quote(10_000000, 90_000000000)

	f.store.SetState(func(s *domain.State) {
		s.Status.ForceExecute = true
	})

	f.cycle(t, "c1")

	order := f.store.GetState().Orders["c1"]
	if !order.IsExecuted {
		t.Fatal("forced cycle must execute despite the price")
	}
	if len(f.reporter.evaluated) != 1 ||
		f.reporter.evaluated[0].Decision.Reason != domain.ReasonForcedByUser {
		t.Fatalf("reason = %v, want forced-by-user", f.reporter.evaluated)
	}
	if f.store.GetState().Status.ForceExecute {
		t.Fatal("force flag must clear after one use")
	}

	// The follow-up sell is not forced.
	f.quote(96_000000000, 9_000000)
	f.cycle(t, "c2")
	if f.store.GetState().Orders["c2"].IsExecuted {
		t.Fatal("next order must fall back to price comparison")
	}
}

func TestRunCycleResetDropsOpenOrder(t *testing.T) {
	f := newRunnerFixture(t)
	f.quote(10_000000, 95_500000000)
	f.cycle(t, "c1")

	f.store.SetState(func(s *domain.State) {
		s.Status.ShouldReset = true
	})

	f.cycle(t, "c2")

	state := f.store.GetState()
	if _, ok := state.Orders["c1"]; ok {
		t.Fatal("reset must drop the open order")
	}
	if state.Status.ShouldReset {
		t.Fatal("reset flag must clear after one use")
	}

	// The same cycle re-created the order from current config.
	open := state.LedgerFor(StrategyID).Open()
	if len(open) != 1 || open[0].ID != "c2" {
		t.Fatalf("open orders = %v, want a fresh c2", open)
	}
}
