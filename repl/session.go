package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/etnz/pea"
	"github.com/etnz/pea/renderer"
)

// DefaultSaveFile is proposed when saving the session.
const DefaultSaveFile = "save.json"

var (
	dateStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00E5FF"))
	balanceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#2AFFAA")).Bold(true)
	debtStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555")).Bold(true)
)

// Session runs commands read from an input against an engine.
type Session struct {
	engine   *pea.Engine
	in       *bufio.Scanner
	out      io.Writer
	markdown func(string) string
	log      *zap.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithMarkdown sets the function used to display markdown reports.
func WithMarkdown(f func(string) string) Option { return func(s *Session) { s.markdown = f } }

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option { return func(s *Session) { s.log = l } }

// New returns a session reading commands from in and printing to out.
func New(engine *pea.Engine, in io.Reader, out io.Writer, opts ...Option) *Session {
	s := &Session{
		engine:   engine,
		in:       bufio.NewScanner(in),
		out:      out,
		markdown: func(md string) string { return md },
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run prints the help then processes commands until exit, close or the end of the input.
func (s *Session) Run() error {
	s.print(Usage)
	for {
		line, ok := s.ask(s.prompt())
		if !ok {
			return s.in.Err()
		}
		cmd, err := Parse(line)
		if errors.Is(err, ErrMalformedCommand) {
			fmt.Fprintln(s.out, err)
			s.print(Usage)
			continue
		}
		if err != nil {
			return err
		}
		done, err := s.Execute(cmd)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// Execute runs a single command. It reports whether the session is over.
func (s *Session) Execute(cmd Command) (done bool, err error) {
	s.log.Debug("command", zap.String("type", fmt.Sprintf("%T", cmd)))
	switch c := cmd.(type) {
	case Buy:
		t, err := s.engine.Buy(c.Ref, c.Qty)
		if err != nil {
			if errors.Is(err, pea.ErrInsufficientFunds) || errors.Is(err, pea.ErrInvalidQuantity) {
				fmt.Fprintln(s.out, err)
				return false, nil
			}
			return false, err
		}
		fmt.Fprintln(s.out, renderer.Trade(pea.EventBuy, t))

	case Sell:
		t, err := s.engine.Sell(c.Lot, c.Ref, c.Qty)
		if errors.Is(err, pea.ErrInvalidSell) {
			s.log.Debug("sell ignored", zap.Error(err))
			return false, nil
		}
		if err != nil {
			return false, err
		}
		fmt.Fprintln(s.out, renderer.Trade(pea.EventSell, t))

	case List:
		l, err := s.engine.ListMarket(c.Filter)
		if errors.Is(err, pea.ErrMissingMarketData) {
			fmt.Fprintln(s.out, err)
			return false, nil
		}
		if err != nil {
			return false, err
		}
		s.print(renderer.Listing(l))

	case Dashboard:
		s.print(renderer.Valuation(s.engine.Valuation()))

	case Advance:
		r, err := s.engine.AdvanceMonth()
		if err != nil {
			return false, err
		}
		s.print(renderer.Month(r))

	case Close:
		closing, err := s.engine.Close()
		if err != nil {
			return false, err
		}
		s.print(renderer.Closing(closing))
		return true, nil

	case Save:
		if !s.confirm("Are you sure you want to save?") {
			return false, nil
		}
		name, ok := s.ask(fmt.Sprintf("Save as? [%s] ", DefaultSaveFile))
		if !ok {
			return true, s.in.Err()
		}
		if name == "" {
			name = DefaultSaveFile
		}
		if err := pea.SaveLedger(name, s.engine.Ledger()); err != nil {
			fmt.Fprintln(s.out, err)
			return false, nil
		}
		fmt.Fprintf(s.out, "Session saved to %s\n", name)

	case Exit:
		return s.confirm("Are you sure you want to quit?"), nil

	default:
		s.print(Usage)
	}
	return false, nil
}

// prompt returns "[date][balance€] > ".
func (s *Session) prompt() string {
	l := s.engine.Ledger()
	style := balanceStyle
	if l.Balance().IsNegative() {
		style = debtStyle
	}
	return fmt.Sprintf("[%s][%s] > ",
		dateStyle.Render(l.Date().String()),
		style.Render(l.Balance().Decimal().StringFixed(2)+"€"))
}

// ask prints a question and reads the trimmed answer.
func (s *Session) ask(question string) (string, bool) {
	fmt.Fprint(s.out, question)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

// confirm asks a [y/N] question. Only y or Y confirms.
func (s *Session) confirm(question string) bool {
	answer, ok := s.ask(question + " [y/N] ")
	return ok && strings.EqualFold(answer, "y")
}

func (s *Session) print(md string) {
	fmt.Fprint(s.out, s.markdown(md))
}
