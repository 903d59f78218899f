package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of SQLite schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS period_records (
	id           TEXT PRIMARY KEY,
	kind         TEXT NOT NULL,
	owner        TEXT NOT NULL,
	period_key   TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'draft',
	items        TEXT NOT NULL DEFAULT '[]',
	week_end     TEXT,
	week_number  INTEGER,
	week_year    INTEGER,
	created_at   INTEGER NOT NULL,
	last_updated INTEGER,
	UNIQUE (kind, owner, period_key)
);

CREATE INDEX IF NOT EXISTS idx_period_records_owner
	ON period_records(kind, owner, period_key DESC);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}

// postgresMigrations mirrors migrations for the Postgres backend.
var postgresMigrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS period_records (
	id           TEXT PRIMARY KEY,
	kind         TEXT NOT NULL,
	owner        TEXT NOT NULL,
	period_key   TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'draft',
	items        JSONB NOT NULL DEFAULT '[]',
	week_end     TEXT,
	week_number  INTEGER,
	week_year    INTEGER,
	created_at   TIMESTAMPTZ NOT NULL,
	last_updated TIMESTAMPTZ,
	UNIQUE (kind, owner, period_key)
);

CREATE INDEX IF NOT EXISTS idx_period_records_owner
	ON period_records(kind, owner, period_key DESC);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
