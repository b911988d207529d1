package pea

import "fmt"

// Ledger is the state of a simulated account: the cash balance, the current
// simulated date and the lots bought so far.
//
// The ledger is only mutated by the Engine. Its date moves forward one month
// at a time, lots are only appended and their quantity only decreases.
type Ledger struct {
	date    Date
	balance Money
	lots    lots
}

// NewLedger creates an account opened on start with an initial cash balance.
func NewLedger(start Date, cash Money) *Ledger {
	return &Ledger{
		date:    start,
		balance: cash,
		lots:    make(lots, 0),
	}
}

// Date returns the current simulated date.
func (l *Ledger) Date() Date { return l.date }

// Balance returns the cash balance. It can be negative when overdraft is allowed.
func (l *Ledger) Balance() Money { return l.balance }

// Len returns the number of lots, including the fully sold ones.
func (l *Ledger) Len() int { return len(l.lots) }

// Lot returns the lot at index i.
func (l *Ledger) Lot(i int) (Lot, bool) {
	if i < 0 || i >= len(l.lots) {
		return Lot{}, false
	}
	return l.lots[i], true
}

// Lots returns a copy of all lots in index order.
func (l *Ledger) Lots() []Lot {
	return append([]Lot(nil), l.lots...)
}

// Open returns the quantity of a reference still held across all lots.
func (l *Ledger) Open(reference string) Quantity { return l.lots.open(reference) }

// Equal reports whether two ledgers hold the same state.
func (l *Ledger) Equal(m *Ledger) bool {
	if l.date != m.date || !l.balance.Equal(m.balance) || len(l.lots) != len(m.lots) {
		return false
	}
	for i, lot := range l.lots {
		o := m.lots[i]
		if lot.Reference != o.Reference || lot.Date != o.Date || !lot.Quantity.Equal(o.Quantity) {
			return false
		}
	}
	return true
}

func (l *Ledger) credit(amount Money) { l.balance = l.balance.Add(amount) }
func (l *Ledger) debit(amount Money)  { l.balance = l.balance.Sub(amount) }

// acquire appends a new lot bought on the current date and returns its index.
func (l *Ledger) acquire(reference string, quantity Quantity) int {
	l.lots = append(l.lots, Lot{Reference: reference, Date: l.date, Quantity: quantity})
	return len(l.lots) - 1
}

// dispose removes quantity from lot i.
func (l *Ledger) dispose(i int, quantity Quantity) error {
	lot, ok := l.Lot(i)
	if !ok {
		return fmt.Errorf("lot %d does not exist: %w", i, ErrInvalidSell)
	}
	if lot.Quantity.LessThan(quantity) {
		return fmt.Errorf("lot %d holds %v shares, cannot sell %v: %w", i, lot.Quantity, quantity, ErrInvalidSell)
	}
	l.lots[i].Quantity = lot.Quantity.Sub(quantity)
	return nil
}

// advance moves the current date one month forward.
func (l *Ledger) advance() Date {
	l.date = l.date.AddMonth(1)
	return l.date
}
