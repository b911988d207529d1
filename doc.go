// Package pea simulates a French "Plan d'Épargne en Actions", a tax-advantaged
// equity savings account, against historical or generated monthly prices.
//
// The core functionalities include:
//   - Ledger: the cash balance, the simulated date and the lots of shares
//     bought, addressed by their index.
//   - Tax policy: broker fees by tiers of traded amount, and social
//     contributions on capital gains when the account is closed.
//   - Market data: a contract to look up monthly prices, dividends and
//     security descriptions, and a FileMarket reading them from text files.
//   - Engine: buys, sells, month advance with dividends, valuation and
//     closing of the account.
//   - Persistence: the ledger is saved and loaded as a single JSON document.
//
// This package serves as the foundational logic for the `pea` command-line
// tool.
package pea
