package domain

import (
	"math/big"
	"testing"
)

func TestStateCloneIsolation(t *testing.T) {
	state := NewState()
	state.AppendOrder(mkOrder("1", Buy, true))

	clone := state.Clone()
	clone.Orders["1"].OutAmountInt.SetInt64(1)
	clone.AppendOrder(mkOrder("2", Sell, false))
	clone.Status.ForceExecute = true

	if state.Orders["1"].OutAmountInt.Int64() != 900 {
		t.Error("clone aliased an order's big.Int")
	}
	if len(state.OrderSeq) != 1 {
		t.Errorf("clone mutation leaked into source OrderSeq: %v", state.OrderSeq)
	}
	if state.Status.ForceExecute {
		t.Error("clone mutation leaked into source Status")
	}
}

func TestStateRemoveOrder(t *testing.T) {
	state := NewState()
	state.AppendOrder(mkOrder("1", Buy, true))
	state.AppendOrder(mkOrder("2", Sell, false))

	state.RemoveOrder("2")

	if _, ok := state.Orders["2"]; ok {
		t.Error("order 2 still present after RemoveOrder")
	}
	if len(state.OrderSeq) != 1 || state.OrderSeq[0] != "1" {
		t.Errorf("OrderSeq = %v, want [1]", state.OrderSeq)
	}

	// Removing an unknown id is a no-op.
	state.RemoveOrder("missing")
	if len(state.OrderSeq) != 1 {
		t.Errorf("OrderSeq = %v after removing unknown id", state.OrderSeq)
	}
}

func TestStateOrdersInOrder(t *testing.T) {
	state := NewState()
	for _, id := range []string{"c", "a", "b"} {
		state.AppendOrder(Order{ID: id, StrategyID: "ping-pong", SizeInt: big.NewInt(1)})
	}

	got := state.OrdersInOrder()
	want := []string{"c", "a", "b"}
	for i, o := range got {
		if o.ID != want[i] {
			t.Fatalf("OrdersInOrder() = %v, want %v", ids(got), want)
		}
	}
}

func TestStateLedgerForFiltersStrategy(t *testing.T) {
	state := NewState()
	state.AppendOrder(Order{ID: "1", StrategyID: "ping-pong", SizeInt: big.NewInt(1), IsExecuted: true, OutAmountInt: big.NewInt(2)})
	state.AppendOrder(Order{ID: "2", StrategyID: "other", SizeInt: big.NewInt(1)})

	ledger := state.LedgerFor("ping-pong")
	if ledger.Len() != 1 {
		t.Errorf("LedgerFor(ping-pong).Len() = %d, want 1", ledger.Len())
	}
}
