package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/etnz/pea/journal"
	"github.com/etnz/pea/renderer"
)

type historyCmd struct {
	journal string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the operations recorded in the journal" }
func (*historyCmd) Usage() string {
	return `pea history [-j <journal.db>]

  Displays every operation recorded in the journal, in order.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.journal, "j", "", "journal to read, defaults to the configured one")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	path := c.journal
	if path == "" {
		cfg, err := LoadConfig()
		if err != nil {
			return fail("Error loading configuration: %v", err)
		}
		path = cfg.Journal
	}
	if path == "" {
		return fail("Error: no journal configured, use -j or set journal in %s", *configFile)
	}

	j, err := journal.Open(path)
	if err != nil {
		return fail("Error: %v", err)
	}
	defer j.Close()

	events, err := j.Events(ctx)
	if err != nil {
		return fail("Error reading journal: %v", err)
	}
	printMarkdown(renderer.History(events))
	return subcommands.ExitSuccess
}
