package journal

// Schema creates the journal tables.
const Schema = `
CREATE TABLE IF NOT EXISTS events (
	id          TEXT PRIMARY KEY,
	kind        TEXT NOT NULL,
	date        TEXT NOT NULL,
	reference   TEXT NOT NULL DEFAULT '',
	lot         INTEGER NOT NULL DEFAULT -1,
	quantity    TEXT NOT NULL DEFAULT '0',
	amount      TEXT NOT NULL DEFAULT '0',
	tax         TEXT NOT NULL DEFAULT '0',
	balance     TEXT NOT NULL,
	recorded_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_date ON events(date);
`
