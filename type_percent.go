package pea

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Percent is a ratio expressed in percent, already rounded for display.
type Percent float64

// percentOf returns 100 × a / b rounded to two decimals, or 0 when b is zero.
func percentOf(a, b decimal.Decimal) Percent {
	if b.IsZero() {
		return 0
	}
	return Percent(a.Mul(hundred).Div(b).Round(2).InexactFloat64())
}

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", p)
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", p)
	if res == "+0.00%" {
		return "-"
	}
	return res
}
