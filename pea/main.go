// Command pea simulates a French PEA equity savings account.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/etnz/pea/cmd"
)

// completion describes the command line for shell completion.
var completion = &complete.Command{
	Flags: map[string]complete.Predictor{
		"config": predict.Files("*.yaml"),
	},
	Sub: map[string]*complete.Command{
		"play": {
			Flags: map[string]complete.Predictor{"load": predict.Files("*.json")},
		},
		"show": {
			Flags: map[string]complete.Predictor{"html": predict.Nothing},
			Args:  predict.Files("*.json"),
		},
		"inspect": {
			Flags: map[string]complete.Predictor{"q": predict.Set{"$", "$.date", "$.balance", "$.lots[*]"}},
			Args:  predict.Files("*.json"),
		},
		"history": {
			Flags: map[string]complete.Predictor{"j": predict.Files("*.db")},
		},
		"quotes": {
			Flags: map[string]complete.Predictor{"d": predict.Something},
		},
		"tax": {
			Flags: map[string]complete.Predictor{"gain": predict.Nothing},
		},
		"topic": {
			Args: predict.Set{"commands", "taxes", "market-data", "configuration", "closing", "*"},
		},
		"help":     {},
		"commands": {},
		"flags":    {},
	},
}

func main() {
	// exits when the shell asks for completions.
	completion.Complete(path.Base(os.Args[0]))

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
