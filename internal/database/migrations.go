package database

import (
	"database/sql"
	"fmt"
	"time"
)

// Migration represents a database schema migration
type Migration struct {
	Version     int
	Description string
	Up          func(*sql.Tx) error
}

// migrations is the ordered list of all database migrations
var migrations = []Migration{
	{
		Version:     1,
		Description: "Create schema_version table",
		Up:          migration001Up,
	},
	{
		Version:     2,
		Description: "Create puppets table",
		Up:          migration002Up,
	},
	{
		Version:     3,
		Description: "Create action_log table",
		Up:          migration003Up,
	},
}

// RunMigrations runs all pending database migrations
func (db *DB) RunMigrations() error {
	currentVersion, err := db.getCurrentVersion()
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		err := db.ExecTx(func(tx *sql.Tx) error {
			if err := migration.Up(tx); err != nil {
				return fmt.Errorf("migration %d failed: %w", migration.Version, err)
			}

			_, err := tx.Exec(`
				INSERT INTO schema_version (version, description, applied_at)
				VALUES (?, ?, ?)
			`, migration.Version, migration.Description, time.Now())

			return err
		})

		if err != nil {
			return err
		}
	}

	return nil
}

// getCurrentVersion returns the current schema version
func (db *DB) getCurrentVersion() (int, error) {
	var tableExists bool
	err := db.conn.QueryRow(`
		SELECT COUNT(*) > 0
		FROM sqlite_master
		WHERE type='table' AND name='schema_version'
	`).Scan(&tableExists)
	if err != nil {
		return 0, err
	}
	if !tableExists {
		return 0, nil
	}

	return db.GetVersion()
}

func migration001Up(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at DATETIME NOT NULL
		)
	`)
	return err
}

func migration002Up(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS puppets (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			region TEXT,
			wa_member INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			founded_by_us INTEGER NOT NULL DEFAULT 0,
			last_seen_at DATETIME,
			last_action_at DATETIME,
			notes TEXT
		)
	`)
	return err
}

func migration003Up(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS action_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			puppet_id INTEGER NOT NULL,
			action_type TEXT NOT NULL,
			started_at DATETIME NOT NULL,
			completed_at DATETIME,
			duration_seconds INTEGER,
			status TEXT NOT NULL,
			error_message TEXT,
			tool_version TEXT,
			FOREIGN KEY (puppet_id) REFERENCES puppets(id)
		)
	`)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		CREATE INDEX IF NOT EXISTS idx_action_log_puppet
		ON action_log(puppet_id, started_at)
	`)
	return err
}
