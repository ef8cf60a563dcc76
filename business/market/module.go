// Package market implements the market bounded context: quoting and
// executing swaps through the Jupiter aggregator.
package market

import (
	"context"

	"github.com/swaploop/pingpong-bot/business/market/app"
	marketDI "github.com/swaploop/pingpong-bot/business/market/di"
	"github.com/swaploop/pingpong-bot/business/market/infra/jupiter"
	"github.com/swaploop/pingpong-bot/internal/config"
	"github.com/swaploop/pingpong-bot/internal/di"
	"github.com/swaploop/pingpong-bot/internal/logger"
	"github.com/swaploop/pingpong-bot/internal/monolith"
	"github.com/swaploop/pingpong-bot/internal/ratelimit"
)

// Module implements the market bounded context.
type Module struct{}

// RegisterServices registers all market services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register Aggregator (Jupiter) - private dependency
	di.RegisterToken(c, marketDI.Aggregator, func(sr di.ServiceRegistry) app.Aggregator {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		client, err := jupiter.NewClient(cfg.Jupiter.BaseURL, cfg.Jupiter.Timeout, log)
		if err != nil {
			panic("failed to create jupiter client: " + err.Error())
		}
		return client
	})

	// Register TxSender - private dependency
	di.RegisterToken(c, marketDI.TxSender, func(sr di.ServiceRegistry) app.TxSender {
		log := sr.Get("logger").(logger.LoggerInterface)
		return jupiter.NewDryRunSender(log)
	})

	// Register MarketService (public - exposed to other modules)
	di.RegisterToken(c, marketDI.MarketService, func(sr di.ServiceRegistry) *app.MarketService {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		return app.NewMarketService(
			marketDI.GetAggregator(sr),
			marketDI.GetTxSender(sr),
			ratelimit.New(cfg.Jupiter.RequestsPerMinute),
			log,
		)
	})

	return nil
}

// Startup initializes the market module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()
	cfg := mono.Config()

	if !cfg.Jupiter.DryRun {
		// Live sending needs a configured signer, which this build does
		// not carry. Fills stay simulated either way.
		log.Warn(ctx, "live execution not available, falling back to dry run")
	}

	log.Info(ctx, "market module started",
		"aggregator", cfg.Jupiter.BaseURL,
		"rpm", cfg.Jupiter.RequestsPerMinute,
		"dry_run", true,
	)
	return nil
}
