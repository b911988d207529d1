package pea

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// This file reads market data from a folder of semicolon separated text files,
// as published by abcbourse.com:
//
//	cotations/<market>/CotationsYYYYMM.txt   ref;date;open;high;low;close;volume
//	references/<market>.txt                  ref;name;sector;industry
//	dividendes/DividendesYYYYMM.txt          ref;date;dividend
//
// Each file is parsed once and kept in memory.

const (
	quotesDir     = "cotations"
	referencesDir = "references"
	dividendsDir  = "dividendes"
)

// FileMarket is a MarketDataSource backed by monthly text files.
type FileMarket struct {
	dir    string
	market string
	log    *zap.Logger
	files  *cache.Cache
}

// NewFileMarket returns a market reading files of the given market (e.g.
// "cac40" or "generated") under dir.
func NewFileMarket(dir, market string, logger *zap.Logger) *FileMarket {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileMarket{
		dir:    dir,
		market: market,
		log:    logger,
		files:  cache.New(cache.NoExpiration, 0),
	}
}

// Market returns the market name.
func (m *FileMarket) Market() string { return m.market }

func (m *FileMarket) quotesFile(on Date) string {
	return filepath.Join(m.dir, quotesDir, m.market, fmt.Sprintf("Cotations%d%02d.txt", on.Year(), on.Month()))
}

func (m *FileMarket) referencesFile() string {
	return filepath.Join(m.dir, referencesDir, m.market+".txt")
}

func (m *FileMarket) dividendsFile(on Date) string {
	return filepath.Join(m.dir, dividendsDir, fmt.Sprintf("Dividendes%d%02d.txt", on.Year(), on.Month()))
}

// monthQuotes is a parsed quotes file.
type monthQuotes struct {
	quotes []Quote
	index  map[string]int
}

// PriceAt implements MarketDataSource.
func (m *FileMarket) PriceAt(ref string, on Date) (Money, error) {
	q, err := m.readQuotes(on)
	if err != nil {
		return Money{}, err
	}
	i, ok := q.index[ref]
	if !ok {
		return Money{}, fmt.Errorf("no quote for %q in %s: %w", ref, on.Format("2006-01"), ErrNotFound)
	}
	return q.quotes[i].Price, nil
}

// Quotes implements MarketDataSource.
func (m *FileMarket) Quotes(on Date) ([]Quote, error) {
	q, err := m.readQuotes(on)
	if err != nil {
		return nil, err
	}
	return append([]Quote(nil), q.quotes...), nil
}

// Metadata implements MarketDataSource.
func (m *FileMarket) Metadata(ref string) (Reference, error) {
	v, err := m.read(m.referencesFile(), func(name string, lines []string) (any, error) {
		refs := make(map[string]Reference)
		for i, line := range lines {
			f := strings.Split(line, ";")
			if len(f) < 4 {
				m.log.Warn("skipping malformed reference line", zap.String("file", name), zap.Int("line", i+1))
				continue
			}
			if _, exists := refs[f[0]]; exists {
				continue // first definition wins
			}
			refs[f[0]] = Reference{Ticker: f[0], Name: f[1], Sector: f[2], Industry: f[3]}
		}
		return refs, nil
	})
	if err != nil {
		return unknownReference(ref), err
	}
	r, ok := v.(map[string]Reference)[ref]
	if !ok {
		return unknownReference(ref), fmt.Errorf("no reference data for %q: %w", ref, ErrNotFound)
	}
	return r, nil
}

// DividendFor implements MarketDataSource.
func (m *FileMarket) DividendFor(ref string, on Date) (Money, bool, error) {
	v, err := m.read(m.dividendsFile(on), func(name string, lines []string) (any, error) {
		divs := make(map[string]Money)
		for i, line := range lines {
			f := strings.Split(line, ";")
			if len(f) < 3 {
				m.log.Warn("skipping malformed dividend line", zap.String("file", name), zap.Int("line", i+1))
				continue
			}
			amount, err := ParseMoney(strings.TrimSpace(f[2]), Currency)
			if err != nil {
				m.log.Warn("skipping malformed dividend line", zap.String("file", name), zap.Int("line", i+1), zap.Error(err))
				continue
			}
			// a reference listed twice receives both dividends.
			divs[f[0]] = divs[f[0]].Add(amount)
		}
		return divs, nil
	})
	if err != nil {
		return Money{}, false, err
	}
	d, ok := v.(map[string]Money)[ref]
	return d, ok, nil
}

func (m *FileMarket) readQuotes(on Date) (*monthQuotes, error) {
	v, err := m.read(m.quotesFile(on), func(name string, lines []string) (any, error) {
		q := &monthQuotes{index: make(map[string]int)}
		for i, line := range lines {
			f := strings.Split(line, ";")
			if len(f) < 6 {
				m.log.Warn("skipping malformed quote line", zap.String("file", name), zap.Int("line", i+1))
				continue
			}
			price, err := decimal.NewFromString(strings.TrimSpace(f[5]))
			if err != nil {
				m.log.Warn("skipping malformed quote line", zap.String("file", name), zap.Int("line", i+1), zap.Error(err))
				continue
			}
			if _, exists := q.index[f[0]]; exists {
				continue // first quote wins
			}
			q.index[f[0]] = len(q.quotes)
			q.quotes = append(q.quotes, Quote{Ticker: f[0], Price: EUR(price)})
		}
		return q, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*monthQuotes), nil
}

// read returns the parsed content of a file, parsing it on first access.
func (m *FileMarket) read(name string, parse func(name string, lines []string) (any, error)) (any, error) {
	if v, ok := m.files.Get(name); ok {
		return v, nil
	}
	lines, err := readLines(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("missing file %q: %w", name, ErrDataUnavailable)
	}
	if err != nil {
		return nil, err
	}
	v, err := parse(name, lines)
	if err != nil {
		return nil, err
	}
	m.files.Set(name, v, cache.NoExpiration)
	return v, nil
}

// readLines returns the non empty lines of a file.
func readLines(name string) ([]string, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		txt := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(txt) == "" {
			continue
		}
		lines = append(lines, txt)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read %q: %w", name, err)
	}
	return lines, nil
}
