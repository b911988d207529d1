package pea

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Engine runs the simulation on a Ledger.
//
// Prices and dividends come from a MarketDataSource and are always looked up
// for the ledger's current month. Missing market data never stops the
// simulation: the engine logs a warning and uses zero instead.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	ledger    *Ledger
	market    MarketDataSource
	tax       TaxPolicy
	overdraft bool
	log       *zap.Logger
	recorder  Recorder
	closed    bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithTaxPolicy sets the tax policy, DefaultTaxPolicy otherwise.
func WithTaxPolicy(p TaxPolicy) Option { return func(e *Engine) { e.tax = p } }

// WithOverdraft allows or forbids buying more than the cash balance. Overdraft is allowed by default.
func WithOverdraft(allowed bool) Option { return func(e *Engine) { e.overdraft = allowed } }

// WithLogger sets the logger used to report missing market data.
func WithLogger(l *zap.Logger) Option { return func(e *Engine) { e.log = l } }

// WithRecorder sets a recorder receiving every committed event.
func WithRecorder(r Recorder) Option { return func(e *Engine) { e.recorder = r } }

// NewEngine returns an engine operating on ledger.
func NewEngine(ledger *Ledger, market MarketDataSource, opts ...Option) *Engine {
	e := &Engine{
		ledger:    ledger,
		market:    market,
		tax:       DefaultTaxPolicy(),
		overdraft: true,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Ledger returns the state of the simulation.
func (e *Engine) Ledger() *Ledger { return e.ledger }

// Closed reports whether the account has been closed.
func (e *Engine) Closed() bool { return e.closed }

// Buy buys quantity shares of ref at the current month's price and records a new lot.
func (e *Engine) Buy(ref string, quantity Quantity) (Trade, error) {
	if e.closed {
		return Trade{}, ErrClosed
	}
	if ref == "" {
		return Trade{}, errors.New("reference is missing")
	}
	if !quantity.IsPositive() || !quantity.IsWhole() {
		return Trade{}, fmt.Errorf("cannot buy %v %s: %w", quantity, ref, ErrInvalidQuantity)
	}

	price := e.price(ref)
	notional := price.Mul(quantity)
	tax := e.tax.TransactionTax(notional)
	cost := notional.Add(tax)
	if !e.overdraft && e.ledger.Balance().LessThan(cost) {
		return Trade{}, fmt.Errorf("buying %v %s costs %v, balance is %v: %w", quantity, ref, cost, e.ledger.Balance(), ErrInsufficientFunds)
	}

	e.ledger.debit(cost)
	lot := e.ledger.acquire(ref, quantity)
	t := Trade{
		Lot:       lot,
		Reference: ref,
		Date:      e.ledger.Date(),
		Quantity:  quantity,
		Price:     price,
		Notional:  notional,
		Tax:       tax,
		Balance:   e.ledger.Balance(),
	}
	e.record(Event{Kind: EventBuy, Date: t.Date, Reference: ref, Lot: lot, Quantity: quantity, Amount: notional, Tax: tax, Balance: t.Balance})
	return t, nil
}

// Sell sells quantity shares from the lot at index lot.
//
// It fails with ErrInvalidSell, leaving the ledger unchanged, when the lot
// does not exist, holds another reference or not enough shares.
func (e *Engine) Sell(lot int, ref string, quantity Quantity) (Trade, error) {
	if e.closed {
		return Trade{}, ErrClosed
	}
	if !quantity.IsPositive() || !quantity.IsWhole() {
		return Trade{}, fmt.Errorf("cannot sell %v %s: %w", quantity, ref, ErrInvalidSell)
	}
	l, ok := e.ledger.Lot(lot)
	if !ok {
		return Trade{}, fmt.Errorf("lot %d does not exist: %w", lot, ErrInvalidSell)
	}
	if l.Reference != ref {
		return Trade{}, fmt.Errorf("lot %d holds %s not %s: %w", lot, l.Reference, ref, ErrInvalidSell)
	}
	return e.sell(lot, ref, quantity)
}

// sell executes a validated sell.
func (e *Engine) sell(lot int, ref string, quantity Quantity) (Trade, error) {
	price := e.price(ref)
	notional := price.Mul(quantity)
	tax := e.tax.TransactionTax(notional)
	if err := e.ledger.dispose(lot, quantity); err != nil {
		return Trade{}, err
	}
	e.ledger.credit(notional.Sub(tax))
	t := Trade{
		Lot:       lot,
		Reference: ref,
		Date:      e.ledger.Date(),
		Quantity:  quantity,
		Price:     price,
		Notional:  notional,
		Tax:       tax,
		Balance:   e.ledger.Balance(),
	}
	e.record(Event{Kind: EventSell, Date: t.Date, Reference: ref, Lot: lot, Quantity: quantity, Amount: notional, Tax: tax, Balance: t.Balance})
	return t, nil
}

// AdvanceMonth pays the dividends declared on the current month for every
// lot held, then moves the simulation one month forward.
func (e *Engine) AdvanceMonth() (MonthReport, error) {
	if e.closed {
		return MonthReport{}, ErrClosed
	}
	on := e.ledger.Date()
	report := MonthReport{From: on}

	for i, lot := range e.ledger.Lots() {
		if !lot.IsOpen() {
			continue
		}
		perShare, ok, err := e.market.DividendFor(lot.Reference, on)
		if errors.Is(err, ErrDataUnavailable) {
			e.log.Debug("no dividends this month", zap.Stringer("month", on), zap.Error(err))
			break
		}
		if err != nil {
			e.log.Warn("cannot read dividend", zap.String("reference", lot.Reference), zap.Stringer("month", on), zap.Error(err))
			continue
		}
		if !ok {
			continue
		}
		amount := perShare.Mul(lot.Quantity)
		e.ledger.credit(amount)
		p := DividendPayment{
			Lot:       i,
			Reference: lot.Reference,
			Name:      e.describe(lot.Reference).Name,
			Quantity:  lot.Quantity,
			PerShare:  perShare,
			Amount:    amount,
			Yield:     percentOf(perShare.Decimal(), e.price(lot.Reference).Decimal()),
		}
		report.Dividends = append(report.Dividends, p)
		e.record(Event{Kind: EventDividend, Date: on, Reference: lot.Reference, Lot: i, Quantity: lot.Quantity, Amount: amount, Balance: e.ledger.Balance()})
	}

	report.Date = e.ledger.advance()
	report.Balance = e.ledger.Balance()
	e.record(Event{Kind: EventAdvance, Date: report.Date, Lot: -1, Balance: report.Balance})
	return report, nil
}

// Valuation values every lot at the current month's prices.
func (e *Engine) Valuation() Valuation {
	on := e.ledger.Date()
	v := Valuation{
		Date:       on,
		Cash:       e.ledger.Balance(),
		Securities: EUR(0),
	}
	for i, lot := range e.ledger.Lots() {
		price := e.price(lot.Reference)
		months := lot.monthsHeld(on)
		lv := LotValuation{
			Lot:        i,
			Reference:  lot.Reference,
			Name:       e.describe(lot.Reference).Name,
			Date:       lot.Date,
			Quantity:   lot.Quantity,
			Price:      price,
			Value:      price.Mul(lot.Quantity),
			MonthsHeld: months,
			Gain:       e.gain(lot, price, months, AbsoluteVariance),
		}
		if months <= -1 {
			g := e.gain(lot, price, -1, AbsoluteVariance)
			lv.Gain1M = &g
		}
		if months <= -6 {
			g := e.gain(lot, price, -6, AbsoluteVariance)
			lv.Gain6M = &g
		}
		v.Lots = append(v.Lots, lv)
		v.Securities = v.Securities.Add(lv.Value)
	}
	v.Total = v.Cash.Add(v.Securities)
	return v
}

// ListMarket lists the securities quoted this month whose name, reference,
// price, sector or industry contains filter (case insensitive).
func (e *Engine) ListMarket(filter string) (MarketListing, error) {
	on := e.ledger.Date()
	quotes, err := e.market.Quotes(on)
	if err != nil {
		return MarketListing{}, fmt.Errorf("cannot list market on %v: %w", on, err)
	}
	listing := MarketListing{Date: on, Filter: filter}
	needle := strings.ToLower(filter)
	for _, q := range quotes {
		ref := e.describe(q.Ticker)
		fields := []string{ref.Name, q.Ticker, q.Price.Decimal().String(), ref.Sector, ref.Industry}
		if !containsAny(fields, needle) {
			continue
		}
		listing.Quotes = append(listing.Quotes, ListedQuote{
			Reference: ref,
			Price:     q.Price,
			Var1M:     e.listedVariance(q, on, -1),
			Var6M:     e.listedVariance(q, on, -6),
			Var12M:    e.listedVariance(q, on, -12),
		})
	}
	return listing, nil
}

func containsAny(fields []string, needle string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// listedVariance is quiet: young securities miss past quotes all the time.
func (e *Engine) listedVariance(q Quote, on Date, offset int) Percent {
	v, err := Variance(e.market, q.Ticker, q.Price, on, offset, PercentVariance)
	if err != nil {
		e.log.Debug("no past quote", zap.String("reference", q.Ticker), zap.Int("offset", offset), zap.Error(err))
	}
	return Percent(v.InexactFloat64())
}

// Close liquidates the account: every lot still held pays the social
// contributions on its gain and is sold at the current month's price. No
// operation is possible afterwards.
func (e *Engine) Close() (Closing, error) {
	if e.closed {
		return Closing{}, ErrClosed
	}
	on := e.ledger.Date()
	c := Closing{Date: on, GainsTax: EUR(0)}

	for i, lot := range e.ledger.Lots() {
		if !lot.IsOpen() {
			continue
		}
		price := e.price(lot.Reference)
		months := lot.monthsHeld(on)
		gain := e.gain(lot, price, months, PercentVariance)
		tax := e.tax.GainsTax(gain)
		if tax.IsPositive() {
			e.ledger.debit(tax)
			c.GainsTax = c.GainsTax.Add(tax)
			e.record(Event{Kind: EventGainsTax, Date: on, Reference: lot.Reference, Lot: i, Quantity: lot.Quantity, Amount: gain, Tax: tax, Balance: e.ledger.Balance()})
		}
		sale, err := e.sell(i, lot.Reference, lot.Quantity)
		if err != nil {
			// cannot happen: the lot holds exactly this quantity.
			return c, fmt.Errorf("cannot liquidate lot %d: %w", i, err)
		}
		c.Lots = append(c.Lots, LotClosing{
			Lot:        i,
			Reference:  lot.Reference,
			Name:       e.describe(lot.Reference).Name,
			Quantity:   lot.Quantity,
			MonthsHeld: months,
			Gain:       gain,
			GainsTax:   tax,
			Sale:       sale,
		})
	}
	e.closed = true
	c.Balance = e.ledger.Balance()
	e.record(Event{Kind: EventClose, Date: on, Lot: -1, Balance: c.Balance})
	return c, nil
}

// price returns the price of ref on the current month, zero if unknown.
func (e *Engine) price(ref string) Money {
	p, err := e.market.PriceAt(ref, e.ledger.Date())
	if err != nil {
		e.log.Warn("missing price, using zero", zap.String("reference", ref), zap.Stringer("month", e.ledger.Date()), zap.Error(err))
		return EUR(0)
	}
	return p
}

// gain returns the variance of a lot price over offset months, multiplied by the lot quantity.
func (e *Engine) gain(lot Lot, price Money, offset int, mode VarianceMode) Money {
	v, err := Variance(e.market, lot.Reference, price, e.ledger.Date(), offset, mode)
	if err != nil {
		e.log.Warn("missing past price, using zero", zap.String("reference", lot.Reference), zap.Int("offset", offset), zap.Error(err))
		v = decimal.Zero
	}
	return EUR(v).Mul(lot.Quantity)
}

// describe returns the metadata of ref, Unknown if missing.
func (e *Engine) describe(ref string) Reference {
	r, err := e.market.Metadata(ref)
	if err != nil {
		e.log.Warn("missing reference data", zap.String("reference", ref), zap.Error(err))
		return unknownReference(ref)
	}
	return r
}

func (e *Engine) record(ev Event) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.Record(ev); err != nil {
		e.log.Warn("cannot record event", zap.String("kind", string(ev.Kind)), zap.Error(err))
	}
}
