// Package infra contains infrastructure adapters for the ping-pong context.
package infra

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OtelTelemetry publishes strategy gauges through the global meter
// provider. Values land on whatever exporter the process configured,
// Prometheus in the default setup.
type OtelTelemetry struct {
	expectedProfit   metric.Float64Gauge
	unrealizedProfit metric.Float64Gauge
	targetProfit     metric.Float64Gauge
	priorityFee      metric.Int64Gauge
	autoSlippage     metric.Float64Gauge
}

// NewOtelTelemetry creates the strategy gauge set.
func NewOtelTelemetry() *OtelTelemetry {
	meter := otel.GetMeterProvider().Meter("pingpong")

	expectedProfit, _ := meter.Float64Gauge("pingpong_expected_profit_percent",
		metric.WithDescription("Expected profit percent of the latest evaluation"))
	unrealizedProfit, _ := meter.Float64Gauge("pingpong_unrealized_profit_percent",
		metric.WithDescription("Unrealized profit percent of the open position"))
	targetProfit, _ := meter.Float64Gauge("pingpong_target_profit_percent",
		metric.WithDescription("Configured profit target percent"))
	priorityFee, _ := meter.Int64Gauge("pingpong_priority_fee_micro_lamports",
		metric.WithDescription("Priority fee attached to executions"))
	autoSlippage, _ := meter.Float64Gauge("pingpong_auto_slippage_baseline",
		metric.WithDescription("Baseline out-amount used as the auto slippage floor"))

	return &OtelTelemetry{
		expectedProfit:   expectedProfit,
		unrealizedProfit: unrealizedProfit,
		targetProfit:     targetProfit,
		priorityFee:      priorityFee,
		autoSlippage:     autoSlippage,
	}
}

func (t *OtelTelemetry) ReportExpectedProfitPercent(p float64) {
	t.expectedProfit.Record(context.Background(), p)
}

func (t *OtelTelemetry) ReportUnrealizedProfitPercent(p float64) {
	t.unrealizedProfit.Record(context.Background(), p)
}

func (t *OtelTelemetry) ReportTargetProfitPercent(p float64) {
	t.targetProfit.Record(context.Background(), p)
}

func (t *OtelTelemetry) ReportPriorityFee(fee uint64) {
	t.priorityFee.Record(context.Background(), int64(fee))
}

func (t *OtelTelemetry) ReportAutoSlippage(baselineOut float64, enabled bool) {
	t.autoSlippage.Record(context.Background(), baselineOut,
		metric.WithAttributes(attribute.Bool("enabled", enabled)))
}

// NoopTelemetry drops every sample. Used when telemetry is disabled.
type NoopTelemetry struct{}

func (NoopTelemetry) ReportExpectedProfitPercent(float64)   {}
func (NoopTelemetry) ReportUnrealizedProfitPercent(float64) {}
func (NoopTelemetry) ReportTargetProfitPercent(float64)     {}
func (NoopTelemetry) ReportPriorityFee(uint64)              {}
func (NoopTelemetry) ReportAutoSlippage(float64, bool)      {}
