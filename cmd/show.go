package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/etnz/pea"
	"github.com/etnz/pea/renderer"
)

type showCmd struct {
	html bool
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "display the dashboard of a saved session" }
func (*showCmd) Usage() string {
	return `pea show [-html] <save.json>

  Values the lots of a saved session at its current month.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.html, "html", false, "print HTML instead of terminal markdown")
}

func (c *showCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return subcommands.ExitUsageError
	}
	cfg, err := LoadConfig()
	if err != nil {
		return fail("Error loading configuration: %v", err)
	}
	ledger, err := pea.LoadLedger(f.Arg(0))
	if err != nil {
		return fail("Error: %v", err)
	}
	// showing must not journal anything.
	cfg.Journal = ""
	sim, err := openSimulation(cfg, ledger)
	if err != nil {
		return fail("Error: %v", err)
	}
	defer sim.Close()

	md := renderer.Valuation(sim.engine.Valuation())
	if !c.html {
		printMarkdown(md)
		return subcommands.ExitSuccess
	}
	html, err := markdownToHTML(md)
	if err != nil {
		return fail("Error converting to HTML: %v", err)
	}
	fmt.Print(html)
	return subcommands.ExitSuccess
}
