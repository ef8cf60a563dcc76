// Package infra contains infrastructure adapters for the ping-pong context.
package infra

import (
	"context"

	"github.com/swaploop/pingpong-bot/business/pingpong/domain"
	"github.com/swaploop/pingpong-bot/pkg/ui"
)

// TUIReporter implements Reporter for the Bubble Tea dashboard. Events
// are forwarded as messages; the program itself is owned by main.
type TUIReporter struct{}

// NewTUIReporter creates a new TUIReporter.
func NewTUIReporter() *TUIReporter {
	return &TUIReporter{}
}

// Start is a no-op; the TUI program starts before the strategy does.
func (r *TUIReporter) Start(ctx context.Context) error {
	return nil
}

// OrderCreated forwards the new order to the dashboard.
func (r *TUIReporter) OrderCreated(o domain.Order) {
	ui.Send(ui.OrderCreatedMsg{Order: o})
}

// OrderEvaluated forwards the latest evaluation to the dashboard.
func (r *TUIReporter) OrderEvaluated(o domain.Order, eval domain.Evaluation) {
	ui.Send(ui.OrderEvaluatedMsg{Order: o, Evaluation: eval})
}

// OrderExecuted forwards the fill and its profit to the dashboard.
func (r *TUIReporter) OrderExecuted(o domain.Order, profit domain.ProfitRecord) {
	ui.Send(ui.OrderExecutedMsg{Order: o, Profit: profit})
}

// Stop is a no-op; main tears the program down.
func (r *TUIReporter) Stop() error {
	return nil
}
