// Package journal keeps every operation of a simulation in a SQLite database.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/etnz/pea"
	_ "modernc.org/sqlite"
)

// SQLite is a pea.Recorder writing events to a SQLite database.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

var _ pea.Recorder = (*SQLite)(nil)

// Open opens, or creates, the journal at path.
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cannot open journal %q: %w", path, err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot create journal schema in %q: %w", path, err)
	}
	return &SQLite{db: db, now: time.Now}, nil
}

// Record appends an event to the journal.
func (j *SQLite) Record(ev pea.Event) error {
	at := j.now().UTC()
	_, err := j.db.Exec(`
		INSERT INTO events
		(id, kind, date, reference, lot, quantity, amount, tax, balance, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		newID(at), string(ev.Kind), ev.Date.String(), ev.Reference, ev.Lot,
		ev.Quantity.String(), ev.Amount.Decimal().String(), ev.Tax.Decimal().String(), ev.Balance.Decimal().String(),
		at,
	)
	if err != nil {
		return fmt.Errorf("cannot record %s event: %w", ev.Kind, err)
	}
	return nil
}

// Events returns every recorded event in recording order.
func (j *SQLite) Events(ctx context.Context) ([]pea.Event, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT kind, date, reference, lot, quantity, amount, tax, balance
		FROM events
		ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []pea.Event
	for rows.Next() {
		var (
			kind, date, ref                string
			lot                            int
			quantity, amount, tax, balance string
		)
		if err := rows.Scan(&kind, &date, &ref, &lot, &quantity, &amount, &tax, &balance); err != nil {
			return nil, err
		}
		ev, err := decode(kind, date, ref, lot, quantity, amount, tax, balance)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func decode(kind, date, ref string, lot int, quantity, amount, tax, balance string) (pea.Event, error) {
	ev := pea.Event{Kind: pea.EventKind(kind), Reference: ref, Lot: lot}
	var err error
	if ev.Date, err = pea.ParseDate(date); err != nil {
		return ev, fmt.Errorf("corrupted journal: %w", err)
	}
	if err = ev.Quantity.UnmarshalJSON([]byte(quantity)); err != nil {
		return ev, fmt.Errorf("corrupted journal: invalid quantity %q: %w", quantity, err)
	}
	if ev.Amount, err = pea.ParseMoney(amount, pea.Currency); err != nil {
		return ev, fmt.Errorf("corrupted journal: %w", err)
	}
	if ev.Tax, err = pea.ParseMoney(tax, pea.Currency); err != nil {
		return ev, fmt.Errorf("corrupted journal: %w", err)
	}
	if ev.Balance, err = pea.ParseMoney(balance, pea.Currency); err != nil {
		return ev, fmt.Errorf("corrupted journal: %w", err)
	}
	return ev, nil
}

// Close closes the database.
func (j *SQLite) Close() error {
	return j.db.Close()
}
