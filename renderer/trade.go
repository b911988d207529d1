package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/pea"
)

// Trade renders a buy or a sell to a single line.
func Trade(kind pea.EventKind, t pea.Trade) string {
	switch kind {
	case pea.EventBuy:
		return fmt.Sprintf("Bought %v x %s at %v in lot %d: %v, fee %v, balance %v",
			t.Quantity, t.Reference, t.Price, t.Lot, t.Notional, t.Tax, t.Balance)
	case pea.EventSell:
		return fmt.Sprintf("Sold %v x %s at %v from lot %d: %v, fee %v, balance %v",
			t.Quantity, t.Reference, t.Price, t.Lot, t.Notional, t.Tax, t.Balance)
	default:
		return fmt.Sprintf("%s %v x %s", kind, t.Quantity, t.Reference)
	}
}

// Event renders a journal event to a single line.
func Event(ev pea.Event) string {
	switch ev.Kind {
	case pea.EventBuy:
		return fmt.Sprintf("Bought %v x %s (lot %d) for %v, fee %v", ev.Quantity, ev.Reference, ev.Lot, ev.Amount, ev.Tax)
	case pea.EventSell:
		return fmt.Sprintf("Sold %v x %s (lot %d) for %v, fee %v", ev.Quantity, ev.Reference, ev.Lot, ev.Amount, ev.Tax)
	case pea.EventDividend:
		return fmt.Sprintf("Dividend of %v on %v x %s (lot %d)", ev.Amount, ev.Quantity, ev.Reference, ev.Lot)
	case pea.EventGainsTax:
		return fmt.Sprintf("Social contributions of %v on a gain of %v (lot %d)", ev.Tax, ev.Amount, ev.Lot)
	case pea.EventAdvance:
		return "Moved to the next month"
	case pea.EventClose:
		return "Closed the account"
	default:
		return string(ev.Kind)
	}
}

// History renders journal events as a markdown table.
func History(events []pea.Event) string {
	var b strings.Builder
	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprintln(w, "| Date | Operation | Balance |")
		fmt.Fprintln(w, "|:---|:---|---:|")
		for _, ev := range events {
			fmt.Fprintf(w, "| %s | %s | %v |\n", ev.Date, Event(ev), ev.Balance)
		}
		return len(events) > 0
	})
	if b.Len() == 0 {
		return "No operation recorded.\n"
	}
	return b.String()
}
