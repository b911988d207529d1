package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/PaesslerAG/jsonpath"
	"github.com/google/subcommands"
)

type inspectCmd struct {
	query string
}

func (*inspectCmd) Name() string     { return "inspect" }
func (*inspectCmd) Synopsis() string { return "query a saved session" }
func (*inspectCmd) Usage() string {
	return `pea inspect -q <jsonpath> <save.json>

  Evaluates a JSONPath expression on a saved session.

Usage Examples:
# References of every lot.
$ pea inspect -q '$.lots[*].reference' save.json
`
}

func (c *inspectCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.query, "q", "$", "JSONPath expression")
}

func (c *inspectCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return subcommands.ExitUsageError
	}
	out, err := inspect(f.Arg(0), c.query)
	if err != nil {
		return fail("Error: %v", err)
	}
	fmt.Println(out)
	return subcommands.ExitSuccess
}

// inspect evaluates query on the JSON file and returns the result as indented JSON.
func inspect(name, query string) (string, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return "", err
	}
	var jobj any
	if err := json.Unmarshal(data, &jobj); err != nil {
		return "", fmt.Errorf("invalid session %q: %w", name, err)
	}
	jval, err := jsonpath.Get(query, jobj)
	if err != nil {
		return "", fmt.Errorf("error evaluating %q: %w", query, err)
	}
	res, err := json.MarshalIndent(jval, "", "  ")
	if err != nil {
		return "", err
	}
	return string(res), nil
}
