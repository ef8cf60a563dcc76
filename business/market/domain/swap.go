package domain

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
)

// SwapRequest describes one desired exact-in swap. AmountIn is in base
// units of InMint. MinOutAmount, when set, overrides the slippage derived
// threshold.
type SwapRequest struct {
	InMint                   solana.PublicKey
	OutMint                  solana.PublicKey
	AmountIn                 *big.Int
	SlippageBps              int
	MinOutAmount             *big.Int
	PriorityFeeMicroLamports uint64
}

// ExecutionStatus is the terminal state of a swap execution.
type ExecutionStatus string

const (
	ExecutionConfirmed ExecutionStatus = "confirmed"
	ExecutionSimulated ExecutionStatus = "simulated"
	ExecutionFailed    ExecutionStatus = "failed"
)

// ExecutionResult reports the outcome of executing a route. OutAmount is
// the filled amount in base units of the route's out mint.
type ExecutionResult struct {
	Status    ExecutionStatus
	OutAmount *big.Int
	Signature string
	Slot      uint64
}

// Succeeded reports whether the execution produced a fill.
func (r ExecutionResult) Succeeded() bool {
	return r.Status == ExecutionConfirmed || r.Status == ExecutionSimulated
}
