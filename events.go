package pea

// EventKind identifies a committed operation.
type EventKind string

const (
	EventBuy      EventKind = "buy"
	EventSell     EventKind = "sell"
	EventDividend EventKind = "dividend"
	EventAdvance  EventKind = "advance"
	EventGainsTax EventKind = "gains-tax"
	EventClose    EventKind = "close"
)

// Event is the record of an operation committed on the ledger.
type Event struct {
	Kind      EventKind
	Date      Date     // simulated date of the operation
	Reference string   // empty for advance and close
	Lot       int      // -1 when the event is not about a lot
	Quantity  Quantity // shares traded or held
	Amount    Money    // notional, dividend or taxable gain
	Tax       Money    // transaction tax or social contributions
	Balance   Money    // cash balance after the operation
}

// Recorder receives every event committed by an Engine.
type Recorder interface {
	Record(Event) error
}
