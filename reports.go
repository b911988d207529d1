package pea

// Trade is the result of a buy or a sell.
type Trade struct {
	Lot       int
	Reference string
	Date      Date
	Quantity  Quantity
	Price     Money // per share
	Notional  Money // Quantity × Price
	Tax       Money
	Balance   Money // after the trade
}

// DividendPayment is a dividend received on a lot.
type DividendPayment struct {
	Lot       int
	Reference string
	Name      string
	Quantity  Quantity
	PerShare  Money
	Amount    Money
	Yield     Percent // dividend per share over share price
}

// MonthReport is the outcome of moving to the next month.
type MonthReport struct {
	From      Date // month the dividends were paid for
	Date      Date // new current date
	Dividends []DividendPayment
	Balance   Money
}

// Total returns the sum of dividends received.
func (r MonthReport) Total() Money {
	total := EUR(0)
	for _, d := range r.Dividends {
		total = total.Add(d.Amount)
	}
	return total
}

// LotValuation values a single lot on the current date.
type LotValuation struct {
	Lot        int
	Reference  string
	Name       string
	Date       Date // acquisition date
	Quantity   Quantity
	Price      Money
	Value      Money
	MonthsHeld int    // negative for lots bought in the past
	Gain1M     *Money // nil when the lot is less than a month old
	Gain6M     *Money // nil when the lot is less than six months old
	Gain       Money  // since acquisition
}

// Valuation is the dashboard of the account.
type Valuation struct {
	Date       Date
	Cash       Money
	Lots       []LotValuation
	Securities Money // market value of all lots
	Total      Money // Cash + Securities
}

// ListedQuote is a line of the market listing.
type ListedQuote struct {
	Reference
	Price  Money
	Var1M  Percent
	Var6M  Percent
	Var12M Percent
}

// MarketListing lists the securities quoted on the current month.
type MarketListing struct {
	Date   Date
	Filter string
	Quotes []ListedQuote
}

// LotClosing details the liquidation of one lot at closing.
type LotClosing struct {
	Lot        int
	Reference  string
	Name       string
	Quantity   Quantity
	MonthsHeld int
	Gain       Money // taxable basis
	GainsTax   Money // social contributions paid
	Sale       Trade
}

// Closing is the final statement of the account.
type Closing struct {
	Date     Date
	Lots     []LotClosing
	GainsTax Money
	Balance  Money // final cash balance
}
