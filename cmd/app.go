// Package cmd implements the command line simulator of a PEA account.
package cmd

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"

	"github.com/etnz/pea"
	"github.com/etnz/pea/config"
	"github.com/etnz/pea/journal"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&playCmd{}, "simulation")
	c.Register(&showCmd{}, "simulation")
	c.Register(&inspectCmd{}, "simulation")
	c.Register(&historyCmd{}, "simulation")
	c.Register(&topicCmd{}, "simulation")

	c.Register(&quotesCmd{}, "market")
	c.Register(&taxCmd{}, "market")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", config.DefaultFile, "Path to the simulation configuration file (YAML)")

// LoadConfig reads the app configuration.
func LoadConfig() (*config.Config, error) {
	return config.Load(*configFile)
}

// NewLogger returns a development logger writing to stderr at the configured level.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	zc.DisableStacktrace = true
	return zc.Build()
}

// simulation bundles everything a command needs to run the engine.
type simulation struct {
	cfg     *config.Config
	log     *zap.Logger
	engine  *pea.Engine
	journal *journal.SQLite
}

// openSimulation builds an engine on the ledger, reading quotes from the
// configured data directory. The journal is opened when configured.
func openSimulation(cfg *config.Config, ledger *pea.Ledger) (*simulation, error) {
	log, err := NewLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("cannot create logger: %w", err)
	}
	s := &simulation{cfg: cfg, log: log}
	opts := []pea.Option{
		pea.WithTaxPolicy(cfg.Tax),
		pea.WithOverdraft(cfg.AllowOverdraft),
		pea.WithLogger(log),
	}
	if cfg.Journal != "" {
		j, err := journal.Open(cfg.Journal)
		if err != nil {
			return nil, err
		}
		s.journal = j
		opts = append(opts, pea.WithRecorder(j))
	}
	market := pea.NewFileMarket(cfg.DataDir, cfg.Market, log)
	s.engine = pea.NewEngine(ledger, market, opts...)
	return s, nil
}

func (s *simulation) Close() {
	if s.journal != nil {
		if err := s.journal.Close(); err != nil {
			s.log.Warn("cannot close journal", zap.Error(err))
		}
	}
	_ = s.log.Sync()
}

// renderMarkdown renders markdown for the terminal, or returns it as is if it cannot.
func renderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func printMarkdown(md string) {
	fmt.Print(renderMarkdown(md))
}

// markdownToHTML converts markdown, tables included, to HTML.
func markdownToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.New(goldmark.WithExtensions(extension.GFM)).Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func fail(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	return subcommands.ExitFailure
}
