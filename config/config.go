// Package config loads the simulation settings from a .env file, an optional
// YAML file and PEA_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/etnz/pea"
)

// DefaultFile is the configuration file read when none is given.
const DefaultFile = "pea.yaml"

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "PEA"

// Config holds the simulation settings, converted to simulator values.
type Config struct {
	StartDate      pea.Date
	StartMoney     pea.Money
	Market         string // name of the quote files folder
	DataDir        string
	Tax            pea.TaxPolicy
	AllowOverdraft bool
	LogLevel       zapcore.Level
	Journal        string // SQLite journal path, empty to disable
}

// tier is a transaction tax line as written in the file.
type tier struct {
	Limit string `mapstructure:"limit"`
	Tax   string `mapstructure:"tax"`
}

// settings is the raw form of Config.
type settings struct {
	StartMoney          string `mapstructure:"start_money"`
	Market              string `mapstructure:"market"`
	DataDir             string `mapstructure:"data_dir"`
	SocialContributions string `mapstructure:"social_contributions"`
	TransactionTax      []tier `mapstructure:"transaction_tax"`
	AllowOverdraft      bool   `mapstructure:"allow_overdraft"`
	LogLevel            string `mapstructure:"log_level"`
	Journal             string `mapstructure:"journal"`
}

var defaults = map[string]any{
	"start_date":           "2019-01-01",
	"start_money":          "1000",
	"market":               "cac40",
	"data_dir":             ".",
	"social_contributions": "17.2",
	"transaction_tax": []map[string]any{
		{"limit": "500", "tax": "1.95"},
		{"limit": "2000", "tax": "3.9"},
		{"limit": "3250", "tax": "0.2%"},
		{"limit": "10000", "tax": "0.2%"},
		{"limit": "100000", "tax": "0.2%"},
		{"limit": "150000", "tax": "0.2%"},
	},
	"allow_overdraft": true,
	"log_level":       "info",
	"journal":         "",
}

// Load reads the configuration file at path, if it exists, on top of the defaults.
// A .env file in the working directory is loaded into the environment first.
func Load(path string) (*Config, error) {
	// .env is optional.
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("cannot read configuration %q: %w", path, err)
		}
	}

	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	start, err := startDate(v.Get("start_date"))
	if err != nil {
		return nil, err
	}
	return s.convert(start)
}

// startDate accepts a YAML date or a string.
func startDate(raw any) (pea.Date, error) {
	switch d := raw.(type) {
	case time.Time:
		return pea.NewDate(d.Year(), d.Month(), d.Day()), nil
	case string:
		date, err := pea.ParseDate(d)
		if err != nil {
			return pea.Date{}, fmt.Errorf("invalid start_date: %w", err)
		}
		return date, nil
	default:
		return pea.Date{}, fmt.Errorf("invalid start_date %v", raw)
	}
}

func (s settings) convert(start pea.Date) (*Config, error) {
	money, err := pea.ParseMoney(s.StartMoney, pea.Currency)
	if err != nil {
		return nil, fmt.Errorf("invalid start_money: %w", err)
	}
	social, err := decimal.NewFromString(s.SocialContributions)
	if err != nil {
		return nil, fmt.Errorf("invalid social_contributions %q: %w", s.SocialContributions, err)
	}
	table := make(pea.TaxTable, 0, len(s.TransactionTax))
	for i, t := range s.TransactionTax {
		limit, err := decimal.NewFromString(t.Limit)
		if err != nil {
			return nil, fmt.Errorf("invalid transaction_tax[%d] limit %q: %w", i, t.Limit, err)
		}
		tt, err := pea.ParseTaxTier(limit, t.Tax)
		if err != nil {
			return nil, fmt.Errorf("invalid transaction_tax[%d]: %w", i, err)
		}
		table = append(table, tt)
	}
	level, err := zapcore.ParseLevel(s.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log_level: %w", err)
	}
	if s.Market == "" {
		return nil, errors.New("market is missing")
	}
	return &Config{
		StartDate:      start,
		StartMoney:     money,
		Market:         s.Market,
		DataDir:        s.DataDir,
		Tax:            pea.TaxPolicy{Transaction: table, SocialContributions: social},
		AllowOverdraft: s.AllowOverdraft,
		LogLevel:       level,
		Journal:        s.Journal,
	}, nil
}

// Ledger returns a new ledger at the configured start.
func (c *Config) Ledger() *pea.Ledger {
	return pea.NewLedger(c.StartDate, c.StartMoney)
}
