package pea

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var jan2019 = NewDate(2019, time.January, 1)

// memoryMarket is an in-memory MarketDataSource for tests.
type memoryMarket struct {
	prices    map[string]map[string]Money // month -> ref -> price
	order     map[string][]string         // month -> refs in insertion order
	dividends map[string]map[string]Money // month -> ref -> dividend
	refs      map[string]Reference
}

func newMemoryMarket() *memoryMarket {
	return &memoryMarket{
		prices:    make(map[string]map[string]Money),
		order:     make(map[string][]string),
		dividends: make(map[string]map[string]Money),
		refs:      make(map[string]Reference),
	}
}

func monthKey(on Date) string { return on.Format("2006-01") }

// quote sets the price of ref in the month of on.
func (m *memoryMarket) quote(ref string, on Date, price float64) *memoryMarket {
	k := monthKey(on)
	if m.prices[k] == nil {
		m.prices[k] = make(map[string]Money)
	}
	if _, ok := m.prices[k][ref]; !ok {
		m.order[k] = append(m.order[k], ref)
	}
	m.prices[k][ref] = EUR(price)
	return m
}

func (m *memoryMarket) dividend(ref string, on Date, perShare float64) *memoryMarket {
	k := monthKey(on)
	if m.dividends[k] == nil {
		m.dividends[k] = make(map[string]Money)
	}
	m.dividends[k][ref] = EUR(perShare)
	return m
}

func (m *memoryMarket) describe(ref, name, sector, industry string) *memoryMarket {
	m.refs[ref] = Reference{Ticker: ref, Name: name, Sector: sector, Industry: industry}
	return m
}

func (m *memoryMarket) PriceAt(ref string, on Date) (Money, error) {
	month, ok := m.prices[monthKey(on)]
	if !ok {
		return Money{}, fmt.Errorf("month %s: %w", monthKey(on), ErrDataUnavailable)
	}
	p, ok := month[ref]
	if !ok {
		return Money{}, fmt.Errorf("%s: %w", ref, ErrNotFound)
	}
	return p, nil
}

func (m *memoryMarket) Metadata(ref string) (Reference, error) {
	r, ok := m.refs[ref]
	if !ok {
		return unknownReference(ref), ErrNotFound
	}
	return r, nil
}

func (m *memoryMarket) DividendFor(ref string, on Date) (Money, bool, error) {
	month, ok := m.dividends[monthKey(on)]
	if !ok {
		return Money{}, false, ErrDataUnavailable
	}
	d, ok := month[ref]
	return d, ok, nil
}

func (m *memoryMarket) Quotes(on Date) ([]Quote, error) {
	k := monthKey(on)
	if _, ok := m.prices[k]; !ok {
		return nil, ErrDataUnavailable
	}
	var quotes []Quote
	for _, ref := range m.order[k] {
		quotes = append(quotes, Quote{Ticker: ref, Price: m.prices[k][ref]})
	}
	return quotes, nil
}

// recorder keeps events in memory.
type recorder struct {
	events []Event
	err    error
}

func (r *recorder) Record(e Event) error {
	r.events = append(r.events, e)
	return r.err
}

// noTax is a tax policy that never taxes anything.
var noTax = TaxPolicy{SocialContributions: decimal.Zero}

// flatTax is a tax policy with a single flat fee for trades below 1000.
var flatTax = TaxPolicy{
	Transaction:         TaxTable{{Limit: decimal.NewFromInt(1000), Fee: EUR(1.95)}},
	SocialContributions: DefaultSocialContributions,
}

func assertMoney(t *testing.T, name string, got, want Money) {
	t.Helper()
	if !got.Decimal().Equal(want.Decimal()) {
		t.Errorf("%s = %v, want %v", name, got.Decimal(), want.Decimal())
	}
}
