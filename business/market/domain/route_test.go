package domain

import (
	"math/big"
	"testing"
)

func TestRouteSet_Best(t *testing.T) {
	mk := func(out int64) Route {
		return Route{AmountIn: big.NewInt(1000), AmountOut: big.NewInt(out)}
	}

	tests := []struct {
		name    string
		routes  []Route
		wantOut int64
		wantOK  bool
	}{
		{
			name:   "empty_set",
			routes: nil,
			wantOK: false,
		},
		{
			name:    "single_route",
			routes:  []Route{mk(500)},
			wantOut: 500,
			wantOK:  true,
		},
		{
			name:    "picks_highest_out_amount",
			routes:  []Route{mk(500), mk(900), mk(700)},
			wantOut: 900,
			wantOK:  true,
		},
		{
			name:    "first_wins_on_tie",
			routes:  []Route{mk(800), mk(800)},
			wantOut: 800,
			wantOK:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := RouteSet{Routes: tt.routes}

			best, ok := set.Best()
			if ok != tt.wantOK {
				t.Fatalf("Best() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if best.AmountOut.Int64() != tt.wantOut {
				t.Errorf("Best() out = %s, want %d", best.AmountOut, tt.wantOut)
			}
		})
	}
}

func TestExecutionResult_Succeeded(t *testing.T) {
	tests := []struct {
		status ExecutionStatus
		want   bool
	}{
		{ExecutionConfirmed, true},
		{ExecutionSimulated, true},
		{ExecutionFailed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			r := ExecutionResult{Status: tt.status}
			if r.Succeeded() != tt.want {
				t.Errorf("Succeeded() = %v, want %v", r.Succeeded(), tt.want)
			}
		})
	}
}
