package pea

import "github.com/shopspring/decimal"

// Reference describes a listed security.
type Reference struct {
	Ticker   string
	Name     string
	Sector   string
	Industry string
}

// unknownReference is used when a ticker has no metadata.
func unknownReference(ticker string) Reference {
	return Reference{Ticker: ticker, Name: "Unknown", Sector: "Unknown", Industry: "Unknown"}
}

// Quote is the price of a reference for a month.
type Quote struct {
	Ticker string
	Price  Money
}

// MarketDataSource resolves market data for a simulated month.
//
// Lookups fail with an error wrapping ErrDataUnavailable when the month
// dataset does not exist, and ErrNotFound when the reference is not in it.
type MarketDataSource interface {
	// PriceAt returns the price of one share of ref in the month of on.
	PriceAt(ref string, on Date) (Money, error)
	// Metadata returns the name, sector and industry of ref.
	Metadata(ref string) (Reference, error)
	// DividendFor returns the dividend per share declared for ref in the month
	// of on. ok is false when no dividend is declared.
	DividendFor(ref string, on Date) (dividend Money, ok bool, err error)
	// Quotes returns every quote of the month of on, in dataset order.
	Quotes(on Date) ([]Quote, error)
}

// VarianceMode selects how a price variance is expressed.
type VarianceMode int

const (
	// PercentVariance expresses the variance as a percentage of the current price.
	PercentVariance VarianceMode = iota
	// AbsoluteVariance expresses the variance in currency.
	AbsoluteVariance
)

func (m VarianceMode) String() string {
	switch m {
	case PercentVariance:
		return "percent"
	case AbsoluteVariance:
		return "absolute"
	default:
		return "unknown"
	}
}

// Variance returns the difference between price and the price of ref offset
// months from on (offset is negative for past months), rounded to two
// decimals. In AbsoluteVariance mode the result is in currency, otherwise it is
// a percentage of price. It returns zero along with the lookup error when the
// past price is missing.
func Variance(m MarketDataSource, ref string, price Money, on Date, offset int, mode VarianceMode) (decimal.Decimal, error) {
	past, err := m.PriceAt(ref, on.AddMonth(offset))
	if err != nil {
		return decimal.Zero, err
	}
	diff := price.Decimal().Sub(past.Decimal())
	if mode == AbsoluteVariance {
		return diff.Round(2), nil
	}
	if price.IsZero() {
		return decimal.Zero, nil
	}
	return diff.Mul(hundred).Div(price.Decimal()).Round(2), nil
}
