// Package di contains dependency injection tokens for the market context.
package di

import (
	"github.com/swaploop/pingpong-bot/business/market/app"
	"github.com/swaploop/pingpong-bot/internal/di"
)

// Public service tokens - exposed to other modules
var (
	MarketService = di.NewToken[*app.MarketService]("market.MarketService")
)

// Private dependency tokens - internal to market module
var (
	Aggregator = di.NewToken[app.Aggregator]("market:aggregator")
	TxSender   = di.NewToken[app.TxSender]("market:txSender")
)

// Helper functions for type-safe access
func GetMarketService(c di.ServiceRegistry) *app.MarketService {
	return di.GetToken(c, MarketService)
}

func GetAggregator(c di.ServiceRegistry) app.Aggregator {
	return di.GetToken(c, Aggregator)
}

func GetTxSender(c di.ServiceRegistry) app.TxSender {
	return di.GetToken(c, TxSender)
}
