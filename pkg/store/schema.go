package store

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

// Metadata maps are stored as JSON text so both backends use one
// schema shape. Column names avoid the bare "metadata" keyword.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS honeytokens (
	token_id       TEXT PRIMARY KEY,
	token_type     TEXT NOT NULL,
	token_value    TEXT NOT NULL,
	honeypot_id    TEXT NOT NULL DEFAULT '',
	file_path      TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMP NOT NULL,
	accessed_at    TIMESTAMP,
	access_count   INTEGER NOT NULL DEFAULT 0,
	is_active      BOOLEAN NOT NULL DEFAULT TRUE,
	token_metadata TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_honeytokens_value ON honeytokens(token_value);
CREATE INDEX IF NOT EXISTS idx_honeytokens_honeypot ON honeytokens(honeypot_id);

CREATE TABLE IF NOT EXISTS generation_log (
	generation_id      TEXT PRIMARY KEY,
	content_type       TEXT NOT NULL,
	file_type          TEXT NOT NULL DEFAULT '',
	honeypot_id        TEXT NOT NULL DEFAULT '',
	prompt_hash        TEXT NOT NULL DEFAULT '',
	validation_score   REAL NOT NULL DEFAULT 0,
	is_valid           BOOLEAN NOT NULL DEFAULT FALSE,
	created_at         TIMESTAMP NOT NULL,
	generation_time_ms INTEGER NOT NULL DEFAULT 0,
	entry_metadata     TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_generation_log_honeypot ON generation_log(honeypot_id);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS honeytokens (
	token_id       TEXT PRIMARY KEY,
	token_type     TEXT NOT NULL,
	token_value    TEXT NOT NULL,
	honeypot_id    TEXT NOT NULL DEFAULT '',
	file_path      TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL,
	accessed_at    TIMESTAMPTZ,
	access_count   INTEGER NOT NULL DEFAULT 0,
	is_active      BOOLEAN NOT NULL DEFAULT TRUE,
	token_metadata TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_honeytokens_value ON honeytokens(token_value);
CREATE INDEX IF NOT EXISTS idx_honeytokens_honeypot ON honeytokens(honeypot_id);

CREATE TABLE IF NOT EXISTS generation_log (
	generation_id      TEXT PRIMARY KEY,
	content_type       TEXT NOT NULL,
	file_type          TEXT NOT NULL DEFAULT '',
	honeypot_id        TEXT NOT NULL DEFAULT '',
	prompt_hash        TEXT NOT NULL DEFAULT '',
	validation_score   DOUBLE PRECISION NOT NULL DEFAULT 0,
	is_valid           BOOLEAN NOT NULL DEFAULT FALSE,
	created_at         TIMESTAMPTZ NOT NULL,
	generation_time_ms BIGINT NOT NULL DEFAULT 0,
	entry_metadata     TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_generation_log_honeypot ON generation_log(honeypot_id);
`

func (d dialect) schema() string {
	if d == dialectPostgres {
		return postgresSchema
	}
	return sqliteSchema
}
