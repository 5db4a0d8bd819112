// ABOUTME: Schema definitions for the local SQLite store
// ABOUTME: Competitor intel, marketing tasks, and key-value settings

package localstore

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS competitors (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	swot_analysis TEXT,
	recent_news TEXT,
	notes TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_competitors_name ON competitors(name);

CREATE TABLE IF NOT EXISTS marketing_tasks (
	id TEXT PRIMARY KEY,
	type TEXT NOT NULL,
	title TEXT NOT NULL,
	topic TEXT,
	content TEXT,
	full_draft TEXT,
	date TEXT,
	status TEXT NOT NULL,
	priority TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_marketing_tasks_date ON marketing_tasks(date);
CREATE INDEX IF NOT EXISTS idx_marketing_tasks_status ON marketing_tasks(status);

CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);
`

// InitSchema creates all tables and indexes if they don't exist.
func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
