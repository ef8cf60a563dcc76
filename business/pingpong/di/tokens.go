// Package di contains dependency injection tokens for the ping-pong context.
package di

import (
	"github.com/swaploop/pingpong-bot/business/pingpong/app"
	"github.com/swaploop/pingpong-bot/business/pingpong/domain"
	"github.com/swaploop/pingpong-bot/business/pingpong/infra"
	"github.com/swaploop/pingpong-bot/internal/di"
	"github.com/swaploop/pingpong-bot/internal/store"
)

// Public service tokens - exposed to other modules and main
var (
	Runner     = di.NewToken[*app.Runner]("pingpong.Runner")
	StateStore = di.NewToken[*store.Store[domain.State]]("pingpong.StateStore")
)

// Private dependency tokens - internal to the ping-pong module
var (
	Engine    = di.NewToken[*app.Engine]("pingpong:engine")
	Reporter  = di.NewToken[app.Reporter]("pingpong:reporter")
	Telemetry = di.NewToken[app.Telemetry]("pingpong:telemetry")
	Journal   = di.NewToken[*infra.Journal]("pingpong:journal")
)

// Helper functions for type-safe access
func GetRunner(c di.ServiceRegistry) *app.Runner {
	return di.GetToken(c, Runner)
}

func GetStateStore(c di.ServiceRegistry) *store.Store[domain.State] {
	return di.GetToken(c, StateStore)
}

func GetEngine(c di.ServiceRegistry) *app.Engine {
	return di.GetToken(c, Engine)
}

func GetReporter(c di.ServiceRegistry) app.Reporter {
	return di.GetToken(c, Reporter)
}

func GetTelemetry(c di.ServiceRegistry) app.Telemetry {
	return di.GetToken(c, Telemetry)
}

func GetJournal(c di.ServiceRegistry) *infra.Journal {
	return di.GetToken(c, Journal)
}
