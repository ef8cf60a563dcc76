// Package monolith provides the application container and module interface.
package monolith

import (
	"context"

	"github.com/swaploop/pingpong-bot/internal/config"
	"github.com/swaploop/pingpong-bot/internal/di"
	"github.com/swaploop/pingpong-bot/internal/logger"
	"github.com/swaploop/pingpong-bot/internal/token"
)

// Monolith is the main application container providing access to shared infrastructure.
type Monolith interface {
	Config() *config.Config
	Logger() logger.LoggerInterface
	TokenA() token.Info
	TokenB() token.Info
	Services() di.ServiceRegistry
}

// Module represents a bounded context module that can register services and start up.
type Module interface {
	RegisterServices(di.Container) error
	Startup(context.Context, Monolith) error
}

// app implements the Monolith interface.
type app struct {
	config    *config.Config
	logger    logger.LoggerInterface
	tokenA    token.Info
	tokenB    token.Info
	container di.Container
}

// New creates a new Monolith instance.
func New(cfg *config.Config, log logger.LoggerInterface) (*app, error) {
	tokenA, err := token.NewInfo(cfg.Tokens.A.Mint, cfg.Tokens.A.Symbol, cfg.Tokens.A.Decimals)
	if err != nil {
		return nil, err
	}

	tokenB, err := token.NewInfo(cfg.Tokens.B.Mint, cfg.Tokens.B.Symbol, cfg.Tokens.B.Decimals)
	if err != nil {
		return nil, err
	}

	container := di.NewContainer()

	// Register global services
	container.Register("config", cfg)
	container.Register("logger", log)
	container.Register("tokenA", tokenA)
	container.Register("tokenB", tokenB)

	return &app{
		config:    cfg,
		logger:    log,
		tokenA:    tokenA,
		tokenB:    tokenB,
		container: container,
	}, nil
}

func (a *app) Config() *config.Config {
	return a.config
}

func (a *app) Logger() logger.LoggerInterface {
	return a.logger
}

func (a *app) TokenA() token.Info {
	return a.tokenA
}

func (a *app) TokenB() token.Info {
	return a.tokenB
}

func (a *app) Services() di.ServiceRegistry {
	return a.container
}

// Container returns the DI container for module registration.
func (a *app) Container() di.Container {
	return a.container
}

// RegisterModules registers all provided modules.
func (a *app) RegisterModules(modules ...Module) error {
	for _, m := range modules {
		if err := m.RegisterServices(a.container); err != nil {
			return err
		}
	}
	return nil
}

// StartModules starts all provided modules.
func (a *app) StartModules(ctx context.Context, modules ...Module) error {
	for _, m := range modules {
		if err := m.Startup(ctx, a); err != nil {
			return err
		}
	}
	return nil
}
