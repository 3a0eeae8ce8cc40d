package store

// embeddedSchema is applied to a fresh database on open, the same way
// ninesl/scryball applies its embedded schema to an in-memory sqlite
// handle before any query runs. The teacher's schema file itself was
// not present in the retrieval pack, so these statements are
// hand-written for this domain's tables rather than carried over.
const embeddedSchema = `
CREATE TABLE IF NOT EXISTS products (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	product_code TEXT NOT NULL UNIQUE,
	name         TEXT NOT NULL,
	product_type TEXT NOT NULL,
	sort_asc     INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS klasses (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	cat1     TEXT NOT NULL,
	cat2     TEXT NOT NULL DEFAULT '',
	cat3     TEXT NOT NULL DEFAULT '',
	sort_asc INTEGER NOT NULL,
	UNIQUE (cat1, cat2, cat3)
);

CREATE TABLE IF NOT EXISTS raw_cards (
	id                    INTEGER PRIMARY KEY AUTOINCREMENT,
	code                  TEXT NOT NULL UNIQUE,
	product_id            INTEGER NOT NULL REFERENCES products(id),
	source_url            TEXT NOT NULL,
	raw_html              TEXT NOT NULL,
	skill_text_extracted  TEXT NOT NULL DEFAULT '',
	burst_text_extracted  TEXT NOT NULL DEFAULT '',
	scraped_at            TEXT NOT NULL,
	is_analyzed           INTEGER NOT NULL DEFAULT 0,
	last_analyzed_at      TEXT,
	analysis_error        TEXT
);

CREATE TABLE IF NOT EXISTS cards (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	code           TEXT NOT NULL UNIQUE,
	pronunciation  TEXT NOT NULL DEFAULT '',
	name           TEXT NOT NULL DEFAULT '',
	artist         TEXT NOT NULL DEFAULT '',
	rarity         TEXT NOT NULL DEFAULT '',
	story          TEXT NOT NULL DEFAULT '',
	card_type      INTEGER NOT NULL,
	color          INTEGER NOT NULL DEFAULT 0,
	klass_bits     INTEGER NOT NULL DEFAULT 0,
	level          INTEGER,
	limit_count    INTEGER,
	limit_ex       INTEGER,
	power          TEXT NOT NULL DEFAULT '',
	cost           TEXT NOT NULL DEFAULT '',
	timing_bits    INTEGER NOT NULL DEFAULT 0,
	user_text      TEXT NOT NULL DEFAULT '',
	format         INTEGER NOT NULL DEFAULT 0,
	has_burst      INTEGER NOT NULL DEFAULT 0,
	skill_text     TEXT NOT NULL DEFAULT '',
	burst_text     TEXT NOT NULL DEFAULT '',
	feature_bits1  INTEGER NOT NULL DEFAULT 0,
	feature_bits2  INTEGER NOT NULL DEFAULT 0,
	burst_bits     INTEGER NOT NULL DEFAULT 0,
	product_id     INTEGER NOT NULL REFERENCES products(id)
);

CREATE TABLE IF NOT EXISTS card_klasses (
	card_id  INTEGER NOT NULL REFERENCES cards(id),
	klass_id INTEGER NOT NULL REFERENCES klasses(id),
	PRIMARY KEY (card_id, klass_id)
);

CREATE TABLE IF NOT EXISTS feature_overrides (
	pronunciation     TEXT PRIMARY KEY,
	fixed_bits1       INTEGER NOT NULL DEFAULT 0,
	fixed_bits2       INTEGER NOT NULL DEFAULT 0,
	fixed_burst_bits  INTEGER NOT NULL DEFAULT 0,
	note              TEXT NOT NULL DEFAULT '',
	updated_at        TEXT NOT NULL
);
`
