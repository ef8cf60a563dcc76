// Package pingpong implements the ping-pong bounded context: the
// alternating buy/sell strategy over one token pair.
package pingpong

import (
	"context"
	"sync"

	marketDI "github.com/swaploop/pingpong-bot/business/market/di"
	"github.com/swaploop/pingpong-bot/business/pingpong/app"
	pingpongDI "github.com/swaploop/pingpong-bot/business/pingpong/di"
	"github.com/swaploop/pingpong-bot/business/pingpong/domain"
	"github.com/swaploop/pingpong-bot/business/pingpong/infra"
	"github.com/swaploop/pingpong-bot/internal/config"
	"github.com/swaploop/pingpong-bot/internal/di"
	"github.com/swaploop/pingpong-bot/internal/logger"
	"github.com/swaploop/pingpong-bot/internal/monolith"
	"github.com/swaploop/pingpong-bot/internal/store"
	"github.com/swaploop/pingpong-bot/internal/token"
)

// Module implements the ping-pong bounded context.
type Module struct{}

// RegisterServices registers all ping-pong services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, pingpongDI.StateStore, func(sr di.ServiceRegistry) *store.Store[domain.State] {
		return store.New(domain.NewState(), domain.State.Clone)
	})

	di.RegisterToken(c, pingpongDI.Journal, func(sr di.ServiceRegistry) *infra.Journal {
		cfg := sr.Get("config").(*config.Config)

		journal, err := infra.NewJournal(cfg.Journal.Path)
		if err != nil {
			panic("failed to open order journal: " + err.Error())
		}
		return journal
	})

	di.RegisterToken(c, pingpongDI.Telemetry, func(sr di.ServiceRegistry) app.Telemetry {
		cfg := sr.Get("config").(*config.Config)

		if !cfg.Telemetry.Enabled {
			return infra.NoopTelemetry{}
		}
		return infra.NewOtelTelemetry()
	})

	di.RegisterToken(c, pingpongDI.Reporter, func(sr di.ServiceRegistry) app.Reporter {
		cfg := sr.Get("config").(*config.Config)

		if cfg.Strategy.TUIMode {
			return infra.NewTUIReporter()
		}
		return infra.NewConsoleReporter()
	})

	di.RegisterToken(c, pingpongDI.Engine, func(sr di.ServiceRegistry) *app.Engine {
		log := sr.Get("logger").(logger.LoggerInterface)

		return app.NewEngine(
			marketDI.GetMarketService(sr),
			pingpongDI.GetTelemetry(sr),
			log,
		)
	})

	di.RegisterToken(c, pingpongDI.Runner, func(sr di.ServiceRegistry) *app.Runner {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		tokenA := sr.Get("tokenA").(token.Info)
		tokenB := sr.Get("tokenB").(token.Info)

		appCfg := app.Config{
			TokenA:                   tokenA,
			TokenB:                   tokenB,
			Amount:                   cfg.Strategy.AmountDecimal(),
			SlippageBps:              cfg.Strategy.SlippageBps,
			TargetProfitPercent:      cfg.Strategy.TargetProfitPercentDecimal(),
			AutoSlippage:             cfg.Strategy.AutoSlippage,
			Compounding:              cfg.Strategy.Compounding,
			PriorityFeeMicroLamports: cfg.Strategy.PriorityFeeMicroLamports,
			TickInterval:             cfg.Strategy.TickInterval,
		}

		return app.NewRunner(
			appCfg,
			pingpongDI.GetStateStore(sr),
			pingpongDI.GetEngine(sr),
			marketDI.GetMarketService(sr),
			pingpongDI.GetReporter(sr),
			pingpongDI.GetTelemetry(sr),
			log,
		)
	})

	return nil
}

// Startup restores the journal into the state store, wires journal
// persistence and captures the strategy anchors.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()
	sr := mono.Services()

	journal := pingpongDI.GetJournal(sr)
	stateStore := pingpongDI.GetStateStore(sr)

	orders, err := journal.Load(ctx)
	if err != nil {
		return err
	}
	if len(orders) > 0 {
		stateStore.SetState(func(s *domain.State) {
			for _, o := range orders {
				s.AppendOrder(o)
			}
		})
		log.Info(ctx, "journal restored", "orders", len(orders))
	}

	// Mirror every committed snapshot back into the journal. Known rows
	// are upserted, rows dropped by a reset are deleted.
	var mu sync.Mutex
	known := make(map[string]struct{}, len(orders))
	for _, o := range orders {
		known[o.ID] = struct{}{}
	}
	stateStore.Subscribe(func(s domain.State) {
		mu.Lock()
		defer mu.Unlock()

		next := make(map[string]struct{}, len(s.OrderSeq))
		for _, o := range s.OrdersInOrder() {
			next[o.ID] = struct{}{}
			if err := journal.Upsert(context.Background(), o); err != nil {
				log.Error(context.Background(), "journal write failed", "order_id", o.ID, "error", err)
			}
		}
		for id := range known {
			if _, ok := next[id]; !ok {
				if err := journal.Delete(context.Background(), id); err != nil {
					log.Error(context.Background(), "journal delete failed", "order_id", id, "error", err)
				}
			}
		}
		known = next
	})

	runner := pingpongDI.GetRunner(sr)
	if err := runner.Init(ctx); err != nil {
		return err
	}

	log.Info(ctx, "pingpong module started",
		"restored_orders", len(orders),
		"tick_interval", mono.Config().Strategy.TickInterval.String(),
	)
	return nil
}
