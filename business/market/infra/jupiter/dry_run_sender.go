package jupiter

import (
	"context"
	"math/big"

	"github.com/google/uuid"

	"github.com/swaploop/pingpong-bot/business/market/domain"
	"github.com/swaploop/pingpong-bot/internal/apperror"
	"github.com/swaploop/pingpong-bot/internal/logger"
)

// DryRunSender simulates swap execution without touching the chain. The
// fill is the route's quoted out-amount, so downstream accounting behaves
// exactly as it would against real fills.
type DryRunSender struct {
	log logger.LoggerInterface
}

// NewDryRunSender creates a simulated execution sender.
func NewDryRunSender(log logger.LoggerInterface) *DryRunSender {
	return &DryRunSender{log: log}
}

// Execute reports a simulated fill at the quoted out-amount.
func (s *DryRunSender) Execute(ctx context.Context, route domain.Route, req domain.SwapRequest) (domain.ExecutionResult, error) {
	if route.AmountOut == nil || route.AmountOut.Sign() <= 0 {
		return domain.ExecutionResult{Status: domain.ExecutionFailed},
			apperror.Validation(apperror.CodeExecutionRejected, "jupiter.DryRunSender: empty route")
	}

	if route.MinAmountOut != nil && route.AmountOut.Cmp(route.MinAmountOut) < 0 {
		s.log.Warn(ctx, "dry run fill below min out threshold",
			"out_amount", route.AmountOut.String(),
			"min_out", route.MinAmountOut.String(),
		)
		return domain.ExecutionResult{Status: domain.ExecutionFailed},
			apperror.External(apperror.CodeExecutionRejected, "jupiter.DryRunSender: below min out", nil)
	}

	result := domain.ExecutionResult{
		Status:    domain.ExecutionSimulated,
		OutAmount: new(big.Int).Set(route.AmountOut),
		Signature: "dry-" + uuid.NewString(),
		Slot:      route.ContextSlot,
	}

	s.log.Info(ctx, "dry run swap simulated",
		"in_amount", route.AmountIn.String(),
		"out_amount", result.OutAmount.String(),
		"signature", result.Signature,
	)

	return result, nil
}
