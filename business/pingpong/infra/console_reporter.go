// Package infra contains infrastructure adapters for the ping-pong context.
package infra

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/swaploop/pingpong-bot/business/pingpong/domain"
)

// ConsoleReporter implements Reporter for CLI output.
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter creates a new ConsoleReporter writing to stdout.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{
		out: os.Stdout,
	}
}

// Start prints the startup banner.
func (r *ConsoleReporter) Start(ctx context.Context) error {
	fmt.Fprintln(r.out, "Ping-Pong Bot Started")
	fmt.Fprintln(r.out, "=====================")
	return nil
}

// OrderCreated outputs the freshly created order.
func (r *ConsoleReporter) OrderCreated(o domain.Order) {
	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	fmt.Fprintf(r.out, "NEW %s ORDER\n", o.Direction)
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	fmt.Fprintf(r.out, "Order:          %s\n", o.ID)
	fmt.Fprintf(r.out, "Created:        %s\n", o.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(r.out, "Pair:           %s -> %s\n", o.InTokenSymbol, o.OutTokenSymbol)
	fmt.Fprintf(r.out, "Size:           %s %s\n", o.Size.String(), o.InTokenSymbol)
	fmt.Fprintf(r.out, "Desired Out:    %s %s\n", o.DesiredOutAmount.String(), o.OutTokenSymbol)
	fmt.Fprintf(r.out, "Target Price:   %s\n", o.Price.String())
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
}

// OrderEvaluated outputs one evaluation line per tick.
func (r *ConsoleReporter) OrderEvaluated(o domain.Order, eval domain.Evaluation) {
	verdict := "hold"
	if eval.Decision.Execute {
		verdict = fmt.Sprintf("EXECUTE (%s)", eval.Decision.Reason)
	}
	fmt.Fprintf(r.out, "[%s] %s %s: live %s vs target %s | expected %s%% | %s\n",
		time.Now().Format("15:04:05"),
		o.Direction,
		o.ID,
		eval.LivePrice.StringFixed(8),
		o.Price.StringFixed(8),
		eval.ExpectedProfitPercent.StringFixed(2),
		verdict,
	)
}

// OrderExecuted outputs the fill and its profit record.
func (r *ConsoleReporter) OrderExecuted(o domain.Order, profit domain.ProfitRecord) {
	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "================================================================================")
	fmt.Fprintf(r.out, "%s ORDER EXECUTED\n", o.Direction)
	fmt.Fprintln(r.out, "================================================================================")
	fmt.Fprintf(r.out, "Order:          %s\n", o.ID)
	fmt.Fprintf(r.out, "Executed:       %s\n", o.ExecutedAt.Format(time.RFC3339))
	fmt.Fprintf(r.out, "Spent:          %s %s\n", o.Size.String(), o.InTokenSymbol)
	if o.OutAmountInt != nil {
		fmt.Fprintf(r.out, "Received:       %s %s (base units)\n", o.OutAmountInt.String(), o.OutTokenSymbol)
	}
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	fmt.Fprintln(r.out, "PROFIT")
	if o.Direction == domain.Sell {
		fmt.Fprintf(r.out, "  Realized:     %s %s (%s%%)\n",
			profit.Realized.StringFixed(6), o.OutTokenSymbol, profit.RealizedPercent.StringFixed(2))
	} else {
		fmt.Fprintf(r.out, "  Unrealized:   %s %s (%s%%)\n",
			profit.Unrealized.StringFixed(6), o.OutTokenSymbol, profit.UnrealizedPercent.StringFixed(2))
	}
	fmt.Fprintln(r.out, "================================================================================")
}

// Stop prints the shutdown line.
func (r *ConsoleReporter) Stop() error {
	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "Ping-Pong Bot Stopped")
	return nil
}
