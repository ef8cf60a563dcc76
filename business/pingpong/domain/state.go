package domain

// StrategyStatus carries the externally mutable flags and a short status
// note for display. Flags are consumed at the next evaluation only.
type StrategyStatus struct {
	ForceExecute bool
	ShouldReset  bool
	Note         string
}

// State is the persisted strategy state: the order history plus status.
// OrderSeq preserves insertion order over the Orders map.
type State struct {
	Orders   map[string]Order
	OrderSeq []string
	Status   StrategyStatus
}

// NewState returns an empty state.
func NewState() State {
	return State{Orders: make(map[string]Order)}
}

// Clone deep-copies the state so snapshots never alias live data.
func (s State) Clone() State {
	clone := State{
		Orders:   make(map[string]Order, len(s.Orders)),
		OrderSeq: make([]string, len(s.OrderSeq)),
		Status:   s.Status,
	}
	for id, o := range s.Orders {
		clone.Orders[id] = o.Clone()
	}
	copy(clone.OrderSeq, s.OrderSeq)
	return clone
}

// AppendOrder adds a new order to the history.
func (s *State) AppendOrder(o Order) {
	if s.Orders == nil {
		s.Orders = make(map[string]Order)
	}
	s.Orders[o.ID] = o
	s.OrderSeq = append(s.OrderSeq, o.ID)
}

// RemoveOrder drops an order from the history. Used only by the reset
// signal to discard the open order.
func (s *State) RemoveOrder(id string) {
	if _, ok := s.Orders[id]; !ok {
		return
	}
	delete(s.Orders, id)
	for i, seqID := range s.OrderSeq {
		if seqID == id {
			s.OrderSeq = append(s.OrderSeq[:i], s.OrderSeq[i+1:]...)
			break
		}
	}
}

// OrdersInOrder returns the history in insertion order.
func (s State) OrdersInOrder() []Order {
	orders := make([]Order, 0, len(s.OrderSeq))
	for _, id := range s.OrderSeq {
		if o, ok := s.Orders[id]; ok {
			orders = append(orders, o)
		}
	}
	return orders
}

// LedgerFor builds the ledger view for one strategy.
func (s State) LedgerFor(strategyID string) Ledger {
	var orders []Order
	for _, o := range s.OrdersInOrder() {
		if o.StrategyID == strategyID {
			orders = append(orders, o)
		}
	}
	return NewLedger(orders)
}
