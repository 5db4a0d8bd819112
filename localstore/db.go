// ABOUTME: Local SQLite database for device-only records
// ABOUTME: Opens with WAL mode at the XDG data path, single connection

package localstore

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultPath returns the XDG location of the local database.
func DefaultPath() string {
	return filepath.Join(xdg.DataHome, "salesdesk", "local.db")
}

// OpenDatabase opens (creating if needed) the local store. Competitors,
// marketing tasks, and settings live here only; nothing in this database
// syncs to the remote documents.
func OpenDatabase(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	// Single connection avoids database-locked errors under WAL
	db.SetMaxOpenConns(1)

	if err := InitSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
