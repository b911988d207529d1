package pea

import "math"

// Lot represents a single purchase of a security.
//
// Lots are addressed by their index in the ledger. A lot that has been
// completely sold keeps its index with a zero quantity.
type Lot struct {
	Reference string
	Date      Date // acquisition date
	Quantity  Quantity
}

// IsOpen reports whether some shares of the lot are still held.
func (l Lot) IsOpen() bool { return l.Quantity.IsPositive() }

// monthsHeld returns the age of the lot on a date in months of 30 days,
// negative when the lot was bought before on.
func (l Lot) monthsHeld(on Date) int {
	return int(math.RoundToEven(float64(l.Date.DaysSince(on)) / 30))
}

type lots []Lot

// open returns the total quantity still held for a reference.
func (l lots) open(reference string) Quantity {
	var total Quantity
	for _, lot := range l {
		if lot.Reference == reference {
			total = total.Add(lot.Quantity)
		}
	}
	return total
}
