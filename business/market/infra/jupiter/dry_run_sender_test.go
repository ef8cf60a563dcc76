package jupiter

import (
	"context"
	"io"
	"math/big"
	"strings"
	"testing"

	"github.com/swaploop/pingpong-bot/business/market/domain"
	"github.com/swaploop/pingpong-bot/internal/apperror"
	"github.com/swaploop/pingpong-bot/internal/logger"
)

func testLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.LevelError, "test", nil)
}

func TestDryRunSenderExecute(t *testing.T) {
	sender := NewDryRunSender(testLogger())

	route := domain.Route{
		AmountIn:     big.NewInt(100000000),
		AmountOut:    big.NewInt(15250000),
		MinAmountOut: big.NewInt(15173750),
		ContextSlot:  42,
	}

	result, err := sender.Execute(context.Background(), route, domain.SwapRequest{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Status != domain.ExecutionSimulated {
		t.Errorf("Status = %s, want %s", result.Status, domain.ExecutionSimulated)
	}
	if result.OutAmount.Cmp(route.AmountOut) != 0 {
		t.Errorf("OutAmount = %s, want %s", result.OutAmount, route.AmountOut)
	}
	// Fill amount must be a copy, not an alias of the route's value.
	result.OutAmount.SetInt64(1)
	if route.AmountOut.Int64() != 15250000 {
		t.Error("Execute aliased the route's out amount")
	}
	if !strings.HasPrefix(result.Signature, "dry-") {
		t.Errorf("Signature = %q, want dry- prefix", result.Signature)
	}
	if result.Slot != 42 {
		t.Errorf("Slot = %d, want 42", result.Slot)
	}
}

func TestDryRunSenderRejectsBelowMinOut(t *testing.T) {
	sender := NewDryRunSender(testLogger())

	route := domain.Route{
		AmountIn:     big.NewInt(100000000),
		AmountOut:    big.NewInt(15000000),
		MinAmountOut: big.NewInt(15173750),
	}

	result, err := sender.Execute(context.Background(), route, domain.SwapRequest{})
	if err == nil {
		t.Fatal("Execute should fail below min out")
	}
	if !apperror.HasCode(err, apperror.CodeExecutionRejected) {
		t.Errorf("error code = %s, want %s", apperror.GetCode(err), apperror.CodeExecutionRejected)
	}
	if result.Status != domain.ExecutionFailed {
		t.Errorf("Status = %s, want %s", result.Status, domain.ExecutionFailed)
	}
}

func TestDryRunSenderRejectsEmptyRoute(t *testing.T) {
	sender := NewDryRunSender(testLogger())

	_, err := sender.Execute(context.Background(), domain.Route{}, domain.SwapRequest{})
	if err == nil {
		t.Fatal("Execute should fail on empty route")
	}
}
