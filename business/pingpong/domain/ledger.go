package domain

// Ledger is a point-in-time view over a strategy's order history. All
// queries are pure functions over the snapshot slice, which preserves
// insertion order.
type Ledger struct {
	orders []Order
}

// NewLedger builds a ledger from orders in insertion order.
func NewLedger(orders []Order) Ledger {
	return Ledger{orders: orders}
}

// Open returns the non-executed orders, oldest first.
func (l Ledger) Open() []Order {
	var open []Order
	for _, o := range l.orders {
		if !o.IsExecuted {
			open = append(open, o)
		}
	}
	return open
}

// Filled returns the executed orders, oldest first.
func (l Ledger) Filled() []Order {
	var filled []Order
	for _, o := range l.orders {
		if o.IsExecuted {
			filled = append(filled, o)
		}
	}
	return filled
}

// LastFilled returns the most recently filled order.
func (l Ledger) LastFilled() (Order, bool) {
	for i := len(l.orders) - 1; i >= 0; i-- {
		if l.orders[i].IsExecuted {
			return l.orders[i], true
		}
	}
	return Order{}, false
}

// LastFilledByDirection returns the most recently filled order on the
// given side.
func (l Ledger) LastFilledByDirection(dir Direction) (Order, bool) {
	for i := len(l.orders) - 1; i >= 0; i-- {
		if l.orders[i].IsExecuted && l.orders[i].Direction == dir {
			return l.orders[i], true
		}
	}
	return Order{}, false
}

// Len returns the total number of orders in the snapshot.
func (l Ledger) Len() int {
	return len(l.orders)
}
