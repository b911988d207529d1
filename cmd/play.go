package cmd

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/pea"
	"github.com/etnz/pea/repl"
)

type playCmd struct {
	load string
}

func (*playCmd) Name() string     { return "play" }
func (*playCmd) Synopsis() string { return "run the interactive simulator" }
func (*playCmd) Usage() string {
	return `pea play [-load <save.json>]

  Starts the interactive simulator. Without -load, a new account is opened
  with the configured start date and cash.

Usage Examples:
# Start a new simulation.
$ pea play

# Resume a saved one.
$ pea play -load save.json
`
}

func (c *playCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.load, "load", "", "saved session to resume")
}

func (c *playCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig()
	if err != nil {
		return fail("Error loading configuration: %v", err)
	}

	ledger := cfg.Ledger()
	if c.load != "" {
		if ledger, err = pea.LoadLedger(c.load); err != nil {
			return fail("Error: %v", err)
		}
	}

	sim, err := openSimulation(cfg, ledger)
	if err != nil {
		return fail("Error: %v", err)
	}
	defer sim.Close()

	session := repl.New(sim.engine, os.Stdin, os.Stdout,
		repl.WithMarkdown(renderMarkdown),
		repl.WithLogger(sim.log),
	)
	if err := session.Run(); err != nil {
		return fail("Error: %v", err)
	}
	return subcommands.ExitSuccess
}
