// Package repl reads simulator commands and runs them against an engine.
package repl

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/etnz/pea"
)

// ErrMalformedCommand is returned by Parse when a known command has the wrong arguments.
var ErrMalformedCommand = errors.New("malformed command")

// Command is one of Buy, Sell, List, Dashboard, Advance, Close, Save, Exit or Help.
type Command interface {
	command()
}

// Buy buys Qty shares of Ref.
type Buy struct {
	Ref string
	Qty pea.Quantity
}

// Sell sells Qty shares of Ref from lot Lot.
type Sell struct {
	Ref string
	Qty pea.Quantity
	Lot int
}

// List lists the quoted securities matching Filter.
type List struct{ Filter string }

// Dashboard values the account.
type Dashboard struct{}

// Advance moves to the next month.
type Advance struct{}

// Close liquidates the account.
type Close struct{}

// Save writes the session to a file.
type Save struct{}

// Exit leaves the simulator.
type Exit struct{}

// Help prints the available commands.
type Help struct{}

func (Buy) command()       {}
func (Sell) command()      {}
func (List) command()      {}
func (Dashboard) command() {}
func (Advance) command()   {}
func (Close) command()     {}
func (Save) command()      {}
func (Exit) command()      {}
func (Help) command()      {}

// aliases maps every accepted keyword to its canonical name.
var aliases = map[string]string{
	"buy": "buy", "b": "buy", "a": "buy", "achat": "buy",
	"sell": "sell", "v": "sell", "vente": "sell",
	"list": "list", "l": "list",
	"dashboard": "dashboard", "d": "dashboard",
	"advance": "advance", "next": "advance", "n": "advance", "s": "advance", "suivant": "advance",
	"close": "close", "c": "close", "cloture": "close",
	"save": "save", "sauvegarder": "save",
	"exit": "exit", "quit": "exit", "q": "exit", "e": "exit",
	"help": "help", "h": "help", "?": "help",
}

// Parse reads a command line. Unknown commands, and empty lines, parse as Help.
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Help{}, nil
	}
	name, ok := aliases[strings.ToLower(fields[0])]
	if !ok {
		return Help{}, nil
	}
	args := fields[1:]

	switch name {
	case "buy":
		if len(args) != 2 {
			return nil, fmt.Errorf("usage: buy <ref> <qty>: %w", ErrMalformedCommand)
		}
		qty, err := pea.ParseQuantity(args[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedCommand, err)
		}
		return Buy{Ref: args[0], Qty: qty}, nil

	case "sell":
		if len(args) != 3 {
			return nil, fmt.Errorf("usage: sell <ref> <qty> <lot>: %w", ErrMalformedCommand)
		}
		qty, err := pea.ParseQuantity(args[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedCommand, err)
		}
		lot, err := strconv.Atoi(args[2])
		if err != nil {
			return nil, fmt.Errorf("invalid lot %q: %w", args[2], ErrMalformedCommand)
		}
		return Sell{Ref: args[0], Qty: qty, Lot: lot}, nil

	case "list":
		if len(args) > 1 {
			return nil, fmt.Errorf("usage: list [filter]: %w", ErrMalformedCommand)
		}
		if len(args) == 1 {
			return List{Filter: args[0]}, nil
		}
		return List{}, nil
	}

	if len(args) != 0 {
		return nil, fmt.Errorf("%s takes no argument: %w", name, ErrMalformedCommand)
	}
	switch name {
	case "dashboard":
		return Dashboard{}, nil
	case "advance":
		return Advance{}, nil
	case "close":
		return Close{}, nil
	case "save":
		return Save{}, nil
	case "exit":
		return Exit{}, nil
	default:
		return Help{}, nil
	}
}

// Usage lists the available commands.
const Usage = `Commands:

* buy <ref> <qty> (b, a, achat): buy shares at the current price
* sell <ref> <qty> <lot> (v, vente): sell shares from a lot
* list [filter] (l): list the securities quoted this month
* dashboard (d): value the account
* advance (next, n, s, suivant): receive dividends and move to the next month
* close (c, cloture): sell everything, pay social contributions and stop
* save (sauvegarder): save the session
* exit (quit, q, e): leave the simulator
`
