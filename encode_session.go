package pea

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
)

// jsession is the persisted form of a Ledger.
type jsession struct {
	Date     Date            `json:"date"`
	Currency string          `json:"currency"`
	Balance  decimal.Decimal `json:"balance"`
	Lots     []jlot          `json:"lots"`
}

type jlot struct {
	Reference string   `json:"reference"`
	Date      Date     `json:"date"`
	Quantity  Quantity `json:"quantity"`
}

// EncodeLedger writes the whole ledger as a single JSON document with exact amounts.
func EncodeLedger(w io.Writer, l *Ledger) error {
	js := jsession{
		Date:     l.date,
		Currency: l.balance.Currency(),
		Balance:  l.balance.Decimal(),
		Lots:     make([]jlot, 0, len(l.lots)),
	}
	for _, lot := range l.lots {
		js.Lots = append(js.Lots, jlot{Reference: lot.Reference, Date: lot.Date, Quantity: lot.Quantity})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(js)
}

// DecodeLedger reads a ledger written by EncodeLedger.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	var js jsession
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&js); err != nil {
		return nil, fmt.Errorf("invalid session: %w", err)
	}
	if js.Date.IsZero() {
		return nil, fmt.Errorf("invalid session: date is missing")
	}
	if js.Currency == "" {
		js.Currency = Currency
	}
	l := NewLedger(js.Date, M(js.Balance, js.Currency))
	for i, lot := range js.Lots {
		if lot.Quantity.IsNegative() {
			return nil, fmt.Errorf("invalid session: lot %d has a negative quantity %v", i, lot.Quantity)
		}
		l.lots = append(l.lots, Lot{Reference: lot.Reference, Date: lot.Date, Quantity: lot.Quantity})
	}
	return l, nil
}

// SaveLedger writes the ledger to a file, creating or replacing it.
func SaveLedger(name string, l *Ledger) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("cannot save session to %q: %w: %w", name, ErrPersistence, err)
	}
	if err := EncodeLedger(f, l); err != nil {
		f.Close()
		return fmt.Errorf("cannot save session to %q: %w: %w", name, ErrPersistence, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("cannot save session to %q: %w: %w", name, ErrPersistence, err)
	}
	return nil
}

// LoadLedger reads a ledger saved by SaveLedger.
func LoadLedger(name string) (*Ledger, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("cannot load session %q: %w: %w", name, ErrPersistence, err)
	}
	defer f.Close()
	l, err := DecodeLedger(f)
	if err != nil {
		return nil, fmt.Errorf("cannot load session %q: %w: %w", name, ErrPersistence, err)
	}
	return l, nil
}
