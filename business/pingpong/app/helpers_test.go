package app

import (
	"context"
	"io"
	"math/big"
	"time"

	"github.com/shopspring/decimal"

	marketDomain "github.com/swaploop/pingpong-bot/business/market/domain"
	"github.com/swaploop/pingpong-bot/business/pingpong/domain"
	"github.com/swaploop/pingpong-bot/internal/logger"
	"github.com/swaploop/pingpong-bot/internal/store"
	"github.com/swaploop/pingpong-bot/internal/token"
)

// Test pair: A has 6 decimals, B has 9. The anchor quote fills 10 A for
// 95 B, matching the worked threshold example.
var (
	testTokenA = token.MustInfo("So11111111111111111111111111111111111111112", "AAA", 6)
	testTokenB = token.MustInfo("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", "BBB", 9)
)

func testConfig() Config {
	return Config{
		TokenA:              testTokenA,
		TokenB:              testTokenB,
		Amount:              decimal.NewFromInt(10),
		SlippageBps:         50,
		TargetProfitPercent: decimal.NewFromInt(1),
		TickInterval:        time.Second,
	}
}

func testAnchors() Anchors {
	return Anchors{
		InTokenInitialOut:  big.NewInt(10_000000),
		OutTokenInitialOut: big.NewInt(95_000000000),
	}
}

func discardLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.LevelError, "test", nil)
}

func route(in, out int64) marketDomain.Route {
	return marketDomain.Route{
		InMint:    testTokenA.Mint,
		OutMint:   testTokenB.Mint,
		AmountIn:  big.NewInt(in),
		AmountOut: big.NewInt(out),
	}
}

type fakeMarket struct {
	routes      []marketDomain.Route
	routesErr   error
	routesPanic string

	execResult  marketDomain.ExecutionResult
	execErr     error
	execCalls   int
	lastExecReq marketDomain.SwapRequest
}

func (f *fakeMarket) ComputeRoutes(ctx context.Context, req marketDomain.SwapRequest) (marketDomain.RouteSet, error) {
	if f.routesPanic != "" {
		panic(f.routesPanic)
	}
	if f.routesErr != nil {
		return marketDomain.RouteSet{}, f.routesErr
	}
	return marketDomain.RouteSet{Routes: f.routes}, nil
}

func (f *fakeMarket) Execute(ctx context.Context, r marketDomain.Route, req marketDomain.SwapRequest) (marketDomain.ExecutionResult, error) {
	f.execCalls++
	f.lastExecReq = req
	if f.execErr != nil {
		return marketDomain.ExecutionResult{}, f.execErr
	}
	if f.execResult.OutAmount == nil {
		// Default to a perfect fill at the quoted amount.
		return marketDomain.ExecutionResult{
			Status:    marketDomain.ExecutionSimulated,
			OutAmount: new(big.Int).Set(r.AmountOut),
		}, nil
	}
	return f.execResult, nil
}

type recordingReporter struct {
	created   []domain.Order
	evaluated []domain.Evaluation
	executed  []domain.Order
	profits   []domain.ProfitRecord
}

func (r *recordingReporter) Start(ctx context.Context) error { return nil }
func (r *recordingReporter) Stop() error                     { return nil }

func (r *recordingReporter) OrderCreated(o domain.Order) {
	r.created = append(r.created, o)
}

func (r *recordingReporter) OrderEvaluated(o domain.Order, eval domain.Evaluation) {
	r.evaluated = append(r.evaluated, eval)
}

func (r *recordingReporter) OrderExecuted(o domain.Order, p domain.ProfitRecord) {
	r.executed = append(r.executed, o)
	r.profits = append(r.profits, p)
}

type recordingTelemetry struct {
	expected     []float64
	unrealized   []float64
	priorityFees []uint64
	autoSlippage []float64
	targets      []float64
}

func (t *recordingTelemetry) ReportExpectedProfitPercent(p float64) {
	t.expected = append(t.expected, p)
}

func (t *recordingTelemetry) ReportUnrealizedProfitPercent(p float64) {
	t.unrealized = append(t.unrealized, p)
}

func (t *recordingTelemetry) ReportPriorityFee(fee uint64) {
	t.priorityFees = append(t.priorityFees, fee)
}

func (t *recordingTelemetry) ReportAutoSlippage(baseline float64, enabled bool) {
	t.autoSlippage = append(t.autoSlippage, baseline)
}

func (t *recordingTelemetry) ReportTargetProfitPercent(p float64) {
	t.targets = append(t.targets, p)
}

func newTestStore() *store.Store[domain.State] {
	return store.New(domain.NewState(), domain.State.Clone)
}
