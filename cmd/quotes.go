package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/etnz/pea"
	"github.com/etnz/pea/renderer"
)

type quotesCmd struct {
	date string
}

func (*quotesCmd) Name() string     { return "quotes" }
func (*quotesCmd) Synopsis() string { return "list the securities quoted on a month" }
func (*quotesCmd) Usage() string {
	return `pea quotes [-d <date>] [filter]

  Lists the securities quoted on the month of the date, with their 1, 6 and
  12 months variations. The filter keeps the lines containing it.
`
}

func (c *quotesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "month to list, defaults to the configured start date")
}

func (c *quotesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 1 {
		return subcommands.ExitUsageError
	}
	cfg, err := LoadConfig()
	if err != nil {
		return fail("Error loading configuration: %v", err)
	}
	on := cfg.StartDate
	if c.date != "" {
		if on, err = pea.ParseDate(c.date); err != nil {
			return fail("Error parsing date: %v", err)
		}
	}

	sim, err := openSimulation(cfg, pea.NewLedger(on, cfg.StartMoney))
	if err != nil {
		return fail("Error: %v", err)
	}
	defer sim.Close()

	listing, err := sim.engine.ListMarket(f.Arg(0))
	if err != nil {
		return fail("Error: %v", err)
	}
	printMarkdown(renderer.Listing(listing))
	return subcommands.ExitSuccess
}
