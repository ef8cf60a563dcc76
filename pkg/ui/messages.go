// Package ui provides the Bubble Tea TUI for the ping-pong bot.
package ui

import (
	"github.com/swaploop/pingpong-bot/business/pingpong/domain"
)

// Message types for TUI updates

// OrderCreatedMsg is sent when the strategy opens a new order.
type OrderCreatedMsg struct {
	Order domain.Order
}

// OrderEvaluatedMsg is sent after each tick's evaluation.
type OrderEvaluatedMsg struct {
	Order      domain.Order
	Evaluation domain.Evaluation
}

// OrderExecutedMsg is sent when an order fills.
type OrderExecutedMsg struct {
	Order  domain.Order
	Profit domain.ProfitRecord
}

// ErrorMsg is sent when an error occurs.
type ErrorMsg struct {
	Error error
}

// LogMsg is sent to display a log message in the UI.
type LogMsg struct {
	Level   string // "info", "warn", "error"
	Message string
}

// TickMsg is sent periodically for UI updates.
type TickMsg struct{}

// StartModulesMsg signals that modules should start loading.
type StartModulesMsg struct{}
