package pea

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TaxTier is one line of the broker fee table: trades strictly below Limit pay
// either a flat Fee or a Rate percent of the traded amount.
type TaxTier struct {
	Limit decimal.Decimal
	Fee   Money           // flat fee, used when Rate is zero
	Rate  decimal.Decimal // in percent
}

// IsRate reports whether the tier is expressed as a percentage.
func (t TaxTier) IsRate() bool { return !t.Rate.IsZero() }

// String returns the tier value as written in configuration: "1.95" or "0.2%".
func (t TaxTier) String() string {
	if t.IsRate() {
		return t.Rate.String() + "%"
	}
	return t.Fee.Decimal().String()
}

// ParseTaxTier parses a tier value, either a flat fee ("1.95") or a rate ("0.2%").
func ParseTaxTier(limit decimal.Decimal, value string) (TaxTier, error) {
	value = strings.TrimSpace(value)
	if rate, ok := strings.CutSuffix(value, "%"); ok {
		r, err := decimal.NewFromString(strings.TrimSpace(rate))
		if err != nil {
			return TaxTier{}, fmt.Errorf("invalid rate %q for limit %v: %w", value, limit, err)
		}
		return TaxTier{Limit: limit, Rate: r}, nil
	}
	fee, err := ParseMoney(value, Currency)
	if err != nil {
		return TaxTier{}, fmt.Errorf("invalid fee for limit %v: %w", limit, err)
	}
	return TaxTier{Limit: limit, Fee: fee}, nil
}

// TaxTable is an ordered list of tiers. The first tier whose Limit is strictly
// greater than the traded amount applies.
type TaxTable []TaxTier

// DefaultTaxTable returns the broker fees of a common online broker.
func DefaultTaxTable() TaxTable {
	flat := func(limit int64, fee float64) TaxTier {
		return TaxTier{Limit: decimal.NewFromInt(limit), Fee: EUR(fee)}
	}
	rate := func(limit int64, r string) TaxTier {
		return TaxTier{Limit: decimal.NewFromInt(limit), Rate: decimal.RequireFromString(r)}
	}
	return TaxTable{
		flat(500, 1.95),
		flat(2000, 3.9),
		rate(3250, "0.2"),
		rate(10000, "0.2"),
		rate(100000, "0.2"),
		rate(150000, "0.2"),
	}
}

// DefaultSocialContributions is the rate in percent of the social contributions on PEA gains.
var DefaultSocialContributions = decimal.RequireFromString("17.2")

// TaxPolicy computes the taxes applied by the simulation.
type TaxPolicy struct {
	Transaction         TaxTable
	SocialContributions decimal.Decimal // in percent
}

// DefaultTaxPolicy returns the default broker fees and social contributions.
func DefaultTaxPolicy() TaxPolicy {
	return TaxPolicy{Transaction: DefaultTaxTable(), SocialContributions: DefaultSocialContributions}
}

// TransactionTax returns the fee paid to trade the given notional.
//
// A notional above every limit pays nothing.
// TODO: decide with the product owner whether the last tier should be open-ended.
func (p TaxPolicy) TransactionTax(notional Money) Money {
	for _, tier := range p.Transaction {
		if !notional.Decimal().LessThan(tier.Limit) {
			continue
		}
		if tier.IsRate() {
			return notional.Rate(tier.Rate)
		}
		return tier.Fee
	}
	return M(0, notional.Currency())
}

// GainsTax returns the social contributions due on a capital gain. Losses are
// not taxed and are not carried over.
func (p TaxPolicy) GainsTax(gain Money) Money {
	if !gain.IsPositive() {
		return M(0, gain.Currency())
	}
	return gain.Rate(p.SocialContributions)
}
