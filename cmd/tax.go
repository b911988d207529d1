package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"github.com/etnz/pea"
)

type taxCmd struct {
	gain bool
}

func (*taxCmd) Name() string     { return "tax" }
func (*taxCmd) Synopsis() string { return "display the configured taxes" }
func (*taxCmd) Usage() string {
	return `pea tax [-gain] [amount...]

  Without amount, displays the transaction tax table and the social
  contributions rate. Otherwise displays the fee paid to trade each amount,
  or with -gain, the social contributions due on each capital gain.
`
}

func (c *taxCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.gain, "gain", false, "amounts are capital gains")
}

func (c *taxCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig()
	if err != nil {
		return fail("Error loading configuration: %v", err)
	}
	policy := cfg.Tax

	var b strings.Builder
	if f.NArg() == 0 {
		fmt.Fprintln(&b, "| Traded amount below | Fee |")
		fmt.Fprintln(&b, "|---:|---:|")
		for _, tier := range policy.Transaction {
			fmt.Fprintf(&b, "| %s | %s |\n", tier.Limit, tier)
		}
		fmt.Fprintf(&b, "\nSocial contributions on gains: %s%%\n", policy.SocialContributions)
		printMarkdown(b.String())
		return subcommands.ExitSuccess
	}

	fmt.Fprintln(&b, "| Amount | Tax |")
	fmt.Fprintln(&b, "|---:|---:|")
	for _, arg := range f.Args() {
		amount, err := pea.ParseMoney(arg, pea.Currency)
		if err != nil {
			return fail("Error: %v", err)
		}
		tax := policy.TransactionTax(amount)
		if c.gain {
			tax = policy.GainsTax(amount)
		}
		fmt.Fprintf(&b, "| %v | %v |\n", amount, tax)
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
