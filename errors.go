package pea

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingMarketData is wrapped by every market data lookup failure.
	// The engine never stops on it: it logs a warning and uses zero instead.
	ErrMissingMarketData = errors.New("missing market data")
	// ErrDataUnavailable means the dataset for the requested month does not exist.
	ErrDataUnavailable = fmt.Errorf("dataset unavailable: %w", ErrMissingMarketData)
	// ErrNotFound means the dataset exists but has no entry for the reference.
	ErrNotFound = fmt.Errorf("reference not found: %w", ErrMissingMarketData)

	// ErrInvalidSell is returned when a sell does not match its lot. The ledger is left unchanged.
	ErrInvalidSell = errors.New("invalid sell")
	// ErrInvalidQuantity is returned for a non positive or fractional number of shares.
	ErrInvalidQuantity = errors.New("quantity must be a positive whole number")
	// ErrInsufficientFunds is returned by Buy when overdraft is disabled.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrClosed is returned by every operation once the account has been closed.
	ErrClosed = errors.New("account is closed")
	// ErrPersistence is wrapped by session load and save failures.
	ErrPersistence = errors.New("persistence failure")
)
