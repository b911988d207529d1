package pea

import (
	"errors"
	"testing"
	"time"
)

func TestEngine_Buy(t *testing.T) {
	market := newMemoryMarket().quote("REF1", jan2019, 50)
	ledger := NewLedger(jan2019, EUR(1000))
	e := NewEngine(ledger, market, WithTaxPolicy(flatTax))

	trade, err := e.Buy("REF1", Q(10))
	if err != nil {
		t.Fatalf("Buy() error = %v", err)
	}
	assertMoney(t, "Notional", trade.Notional, EUR(500))
	assertMoney(t, "Tax", trade.Tax, EUR(1.95))
	assertMoney(t, "Balance", ledger.Balance(), EUR(498.05))

	if ledger.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", ledger.Len())
	}
	lot, _ := ledger.Lot(0)
	if lot.Reference != "REF1" || lot.Date != jan2019 || !lot.Quantity.Equal(Q(10)) {
		t.Errorf("Lot(0) = %+v, want {REF1 %v 10}", lot, jan2019)
	}
}

func TestEngine_Buy_MissingPrice(t *testing.T) {
	market := newMemoryMarket().quote("REF1", jan2019, 50)
	ledger := NewLedger(jan2019, EUR(1000))
	e := NewEngine(ledger, market, WithTaxPolicy(flatTax))

	trade, err := e.Buy("UNKNOWN", Q(3))
	if err != nil {
		t.Fatalf("Buy() error = %v", err)
	}
	assertMoney(t, "Price", trade.Price, EUR(0))
	// the lot is recorded at price zero, only the flat fee is paid.
	assertMoney(t, "Balance", ledger.Balance(), EUR(998.05))
	if ledger.Len() != 1 {
		t.Errorf("Len() = %d, want 1", ledger.Len())
	}
}

func TestEngine_Buy_Invalid(t *testing.T) {
	market := newMemoryMarket().quote("REF1", jan2019, 50)
	ledger := NewLedger(jan2019, EUR(1000))
	e := NewEngine(ledger, market)

	for _, q := range []Quantity{Q(0), Q(-1), Q(1.5)} {
		if _, err := e.Buy("REF1", q); !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("Buy(%v) error = %v, want %v", q, err, ErrInvalidQuantity)
		}
	}
	if ledger.Len() != 0 {
		t.Errorf("Len() = %d, want 0", ledger.Len())
	}
	assertMoney(t, "Balance", ledger.Balance(), EUR(1000))
}

func TestEngine_Buy_Overdraft(t *testing.T) {
	market := newMemoryMarket().quote("REF1", jan2019, 50)

	allowed := NewLedger(jan2019, EUR(100))
	if _, err := NewEngine(allowed, market, WithTaxPolicy(noTax)).Buy("REF1", Q(10)); err != nil {
		t.Fatalf("Buy() with overdraft error = %v", err)
	}
	assertMoney(t, "Balance", allowed.Balance(), EUR(-400))

	forbidden := NewLedger(jan2019, EUR(100))
	_, err := NewEngine(forbidden, market, WithTaxPolicy(noTax), WithOverdraft(false)).Buy("REF1", Q(10))
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("Buy() without overdraft error = %v, want %v", err, ErrInsufficientFunds)
	}
	assertMoney(t, "Balance", forbidden.Balance(), EUR(100))
	if forbidden.Len() != 0 {
		t.Errorf("Len() = %d, want 0", forbidden.Len())
	}
}

func TestEngine_Sell(t *testing.T) {
	market := newMemoryMarket().quote("REF1", jan2019, 50).quote("REF2", jan2019, 20)
	ledger := NewLedger(jan2019, EUR(1000))
	e := NewEngine(ledger, market, WithTaxPolicy(flatTax))
	if _, err := e.Buy("REF1", Q(10)); err != nil {
		t.Fatal(err)
	}

	trade, err := e.Sell(0, "REF1", Q(4))
	if err != nil {
		t.Fatalf("Sell() error = %v", err)
	}
	assertMoney(t, "Notional", trade.Notional, EUR(200))
	assertMoney(t, "Balance", ledger.Balance(), EUR(498.05+200-1.95))
	lot, _ := ledger.Lot(0)
	if !lot.Quantity.Equal(Q(6)) {
		t.Errorf("Quantity = %v, want 6", lot.Quantity)
	}

	// selling everything keeps the lot in place.
	if _, err := e.Sell(0, "REF1", Q(6)); err != nil {
		t.Fatalf("Sell() error = %v", err)
	}
	lot, _ = ledger.Lot(0)
	if ledger.Len() != 1 || !lot.Quantity.IsZero() {
		t.Errorf("Lot(0) = %+v, Len() = %d, want a zeroed lot", lot, ledger.Len())
	}
}

func TestEngine_Sell_Invalid(t *testing.T) {
	market := newMemoryMarket().quote("REF1", jan2019, 50).quote("REF2", jan2019, 20)
	ledger := NewLedger(jan2019, EUR(1000))
	e := NewEngine(ledger, market, WithTaxPolicy(flatTax))
	if _, err := e.Buy("REF1", Q(10)); err != nil {
		t.Fatal(err)
	}
	balance := ledger.Balance()

	testCases := []struct {
		name string
		lot  int
		ref  string
		qty  Quantity
	}{
		{"too many shares", 0, "REF1", Q(11)},
		{"wrong reference", 0, "REF2", Q(1)},
		{"unknown lot", 1, "REF1", Q(1)},
		{"negative lot", -1, "REF1", Q(1)},
		{"zero quantity", 0, "REF1", Q(0)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.Sell(tc.lot, tc.ref, tc.qty)
			if !errors.Is(err, ErrInvalidSell) {
				t.Errorf("Sell() error = %v, want %v", err, ErrInvalidSell)
			}
			assertMoney(t, "Balance", ledger.Balance(), balance)
			lot, _ := ledger.Lot(0)
			if !lot.Quantity.Equal(Q(10)) {
				t.Errorf("Quantity = %v, want 10", lot.Quantity)
			}
		})
	}
}

func TestEngine_ConservesValue(t *testing.T) {
	// At a fixed price and without taxes, trading only moves value between
	// cash and shares.
	market := newMemoryMarket().quote("A", jan2019, 12.5).quote("B", jan2019, 7)
	ledger := NewLedger(jan2019, EUR(1000))
	e := NewEngine(ledger, market, WithTaxPolicy(noTax))

	steps := []func() error{
		func() error { _, err := e.Buy("A", Q(10)); return err },
		func() error { _, err := e.Buy("B", Q(30)); return err },
		func() error { _, err := e.Sell(0, "A", Q(4)); return err },
		func() error { _, err := e.Buy("A", Q(100)); return err }, // overdraft
		func() error { _, err := e.Sell(1, "B", Q(30)); return err },
		func() error { _, err := e.Sell(2, "A", Q(50)); return err },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d error = %v", i, err)
		}
		assertMoney(t, "Total", e.Valuation().Total, EUR(1000))
	}
}

func TestEngine_AdvanceMonth(t *testing.T) {
	feb := jan2019.AddMonth(1)
	market := newMemoryMarket().
		quote("REF1", jan2019, 50).
		quote("REF2", jan2019, 20).
		dividend("REF1", jan2019, 2).
		describe("REF1", "Ref One", "Tech", "Software")
	ledger := NewLedger(jan2019, EUR(1000))
	e := NewEngine(ledger, market, WithTaxPolicy(noTax))
	e.Buy("REF1", Q(10))
	e.Buy("REF2", Q(5))
	e.Buy("REF1", Q(1))
	e.Sell(2, "REF1", Q(1)) // a closed lot does not receive dividends

	report, err := e.AdvanceMonth()
	if err != nil {
		t.Fatalf("AdvanceMonth() error = %v", err)
	}
	if report.Date != feb || ledger.Date() != feb {
		t.Errorf("Date = %v, want %v", ledger.Date(), feb)
	}
	if len(report.Dividends) != 1 {
		t.Fatalf("len(Dividends) = %d, want 1", len(report.Dividends))
	}
	d := report.Dividends[0]
	if d.Name != "Ref One" || d.Lot != 0 {
		t.Errorf("Dividend = %+v, want Ref One on lot 0", d)
	}
	assertMoney(t, "Amount", d.Amount, EUR(20))
	if !d.Yield.Equal(4) {
		t.Errorf("Yield = %v, want 4%%", d.Yield)
	}
	assertMoney(t, "Balance", ledger.Balance(), EUR(1000-500-100+20))
}

func TestEngine_AdvanceMonth_Steps(t *testing.T) {
	// no dividend dataset at all: advancing never fails and never skips.
	ledger := NewLedger(jan2019, EUR(1000))
	e := NewEngine(ledger, newMemoryMarket())
	for i := 1; i <= 25; i++ {
		if _, err := e.AdvanceMonth(); err != nil {
			t.Fatalf("AdvanceMonth() error = %v", err)
		}
		if want := jan2019.AddMonth(i); ledger.Date() != want {
			t.Fatalf("after %d advances Date = %v, want %v", i, ledger.Date(), want)
		}
	}
	if want := NewDate(2021, time.February, 1); ledger.Date() != want {
		t.Errorf("Date = %v, want %v", ledger.Date(), want)
	}
}

func TestEngine_Valuation(t *testing.T) {
	market := newMemoryMarket()
	for i, price := range []float64{40, 42, 41, 43, 45, 44, 48, 50} {
		market.quote("REF1", jan2019.AddMonth(i), price)
	}
	ledger := NewLedger(jan2019, EUR(1000))
	e := NewEngine(ledger, market, WithTaxPolicy(noTax))
	e.Buy("REF1", Q(10)) // at 40
	for range 7 {
		e.AdvanceMonth()
	}
	e.Buy("REF1", Q(2)) // at 50

	v := e.Valuation()
	assertMoney(t, "Cash", v.Cash, EUR(1000-400-100))
	assertMoney(t, "Securities", v.Securities, EUR(600))
	assertMoney(t, "Total", v.Total, EUR(1100))
	if len(v.Lots) != 2 {
		t.Fatalf("len(Lots) = %d, want 2", len(v.Lots))
	}

	old := v.Lots[0]
	if old.MonthsHeld != -7 {
		t.Errorf("MonthsHeld = %d, want -7", old.MonthsHeld)
	}
	if old.Name != "Unknown" {
		t.Errorf("Name = %q, want Unknown", old.Name)
	}
	if old.Gain1M == nil || old.Gain6M == nil {
		t.Fatalf("Gain1M = %v, Gain6M = %v, want both set", old.Gain1M, old.Gain6M)
	}
	assertMoney(t, "Gain1M", *old.Gain1M, EUR(20)) // (50-48)*10
	assertMoney(t, "Gain6M", *old.Gain6M, EUR(80)) // (50-42)*10
	assertMoney(t, "Gain", old.Gain, EUR(100))     // (50-40)*10

	young := v.Lots[1]
	if young.MonthsHeld != 0 || young.Gain1M != nil || young.Gain6M != nil {
		t.Errorf("young lot = %+v, want no 1 and 6 month gains", young)
	}
	assertMoney(t, "Gain", young.Gain, EUR(0))
}

func TestEngine_ListMarket(t *testing.T) {
	market := newMemoryMarket().
		quote("FR0000120073", jan2019.AddMonth(-1), 100).
		quote("FR0000120073", jan2019, 110).
		quote("FR0000131104", jan2019, 50).
		describe("FR0000120073", "Air Liquide", "Basic Materials", "Chemicals").
		describe("FR0000131104", "BNP Paribas", "Financials", "Banks")
	e := NewEngine(NewLedger(jan2019, EUR(1000)), market)

	all, err := e.ListMarket("")
	if err != nil {
		t.Fatalf("ListMarket() error = %v", err)
	}
	if len(all.Quotes) != 2 {
		t.Fatalf("len(Quotes) = %d, want 2", len(all.Quotes))
	}
	if got := all.Quotes[0].Var1M; !got.Equal(9.09) {
		t.Errorf("Var1M = %v, want 9.09%%", got)
	}
	if got := all.Quotes[0].Var6M; !got.Equal(0) {
		t.Errorf("Var6M = %v, want 0 for a missing month", got)
	}

	banks, err := e.ListMarket("BANK")
	if err != nil {
		t.Fatalf("ListMarket() error = %v", err)
	}
	if len(banks.Quotes) != 1 || banks.Quotes[0].Name != "BNP Paribas" {
		t.Errorf("ListMarket(BANK) = %+v, want BNP Paribas only", banks.Quotes)
	}

	e.AdvanceMonth()
	if _, err := e.ListMarket(""); !errors.Is(err, ErrMissingMarketData) {
		t.Errorf("ListMarket() error = %v, want %v", err, ErrMissingMarketData)
	}
}

func TestEngine_Close(t *testing.T) {
	market := newMemoryMarket()
	for i, price := range []float64{40, 40, 40, 50} {
		market.quote("REF1", jan2019.AddMonth(i), price)
		market.quote("REF2", jan2019.AddMonth(i), 100-10*float64(i))
	}
	ledger := NewLedger(jan2019, EUR(10000))
	rec := &recorder{}
	e := NewEngine(ledger, market, WithRecorder(rec))
	e.Buy("REF1", Q(10)) // 400 at 40
	e.Buy("REF2", Q(5))  // 500 at 100
	for range 3 {
		e.AdvanceMonth()
	}
	before := ledger.Balance()

	c, err := e.Close()
	if err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if len(c.Lots) != 2 {
		t.Fatalf("len(Lots) = %d, want 2", len(c.Lots))
	}
	// REF1 moved from 40 to 50: +20% per share, ten shares.
	assertMoney(t, "Gain", c.Lots[0].Gain, EUR(200))
	assertMoney(t, "GainsTax", c.Lots[0].GainsTax, EUR(34.4))
	// REF2 lost value: no social contributions.
	if !c.Lots[1].Gain.IsNegative() || !c.Lots[1].GainsTax.IsZero() {
		t.Errorf("REF2 closing = %+v, want a taxless loss", c.Lots[1])
	}
	// 500 and 350 sold, paying the 3.9 and 1.95 flat fees.
	want := before.Sub(EUR(34.4)).Add(EUR(500 - 3.9)).Add(EUR(350 - 1.95))
	assertMoney(t, "Balance", c.Balance, want)
	assertMoney(t, "Balance", ledger.Balance(), want)

	for _, ref := range []string{"REF1", "REF2"} {
		if q := ledger.Open(ref); !q.IsZero() {
			t.Errorf("Open(%s) = %v, want 0", ref, q)
		}
	}

	if !e.Closed() {
		t.Error("Closed() = false, want true")
	}
	if _, err := e.Buy("REF1", Q(1)); !errors.Is(err, ErrClosed) {
		t.Errorf("Buy() after close error = %v, want %v", err, ErrClosed)
	}
	if _, err := e.AdvanceMonth(); !errors.Is(err, ErrClosed) {
		t.Errorf("AdvanceMonth() after close error = %v, want %v", err, ErrClosed)
	}
	if _, err := e.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("Close() twice error = %v, want %v", err, ErrClosed)
	}

	last := rec.events[len(rec.events)-1]
	if last.Kind != EventClose {
		t.Errorf("last event = %v, want %v", last.Kind, EventClose)
	}
}

func TestEngine_Close_SkipsSoldLots(t *testing.T) {
	market := newMemoryMarket().quote("REF1", jan2019, 50)
	ledger := NewLedger(jan2019, EUR(1000))
	e := NewEngine(ledger, market, WithTaxPolicy(flatTax))
	e.Buy("REF1", Q(2))
	e.Sell(0, "REF1", Q(2))
	before := ledger.Balance()

	c, err := e.Close()
	if err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if len(c.Lots) != 0 {
		t.Errorf("len(Lots) = %d, want 0", len(c.Lots))
	}
	assertMoney(t, "Balance", ledger.Balance(), before)
}

func TestEngine_Recorder(t *testing.T) {
	market := newMemoryMarket().quote("REF1", jan2019, 50).dividend("REF1", jan2019, 1)
	rec := &recorder{err: errors.New("disk full")}
	e := NewEngine(NewLedger(jan2019, EUR(1000)), market, WithTaxPolicy(noTax), WithRecorder(rec))

	// recorder failures never stop the simulation.
	if _, err := e.Buy("REF1", Q(3)); err != nil {
		t.Fatalf("Buy() error = %v", err)
	}
	if _, err := e.Sell(0, "REF1", Q(1)); err != nil {
		t.Fatalf("Sell() error = %v", err)
	}
	if _, err := e.AdvanceMonth(); err != nil {
		t.Fatalf("AdvanceMonth() error = %v", err)
	}

	want := []EventKind{EventBuy, EventSell, EventDividend, EventAdvance}
	if len(rec.events) != len(want) {
		t.Fatalf("len(events) = %d, want %d", len(rec.events), len(want))
	}
	for i, k := range want {
		if rec.events[i].Kind != k {
			t.Errorf("events[%d].Kind = %v, want %v", i, rec.events[i].Kind, k)
		}
	}
	assertMoney(t, "dividend", rec.events[2].Amount, EUR(2))
	assertMoney(t, "balance", rec.events[3].Balance, EUR(1000-150+50+2))
}
