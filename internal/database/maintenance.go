package database

import (
	"fmt"
	"strings"
)

// QuickCheck runs PRAGMA quick_check and fails unless SQLite reports "ok".
func (db *DB) QuickCheck() error {
	return db.withExclusive("check", func() error {
		rows, err := db.query("PRAGMA quick_check")
		if err != nil {
			return err
		}
		defer rows.Close()

		var problems []string
		for rows.Next() {
			var line string
			if err := rows.Scan(&line); err != nil {
				return err
			}
			if line != "ok" {
				problems = append(problems, line)
			}
		}
		if err := rows.Err(); err != nil {
			return err
		}
		if len(problems) > 0 {
			return fmt.Errorf("integrity problems: %s", strings.Join(problems, "; "))
		}
		return nil
	})
}

// Optimize refreshes planner statistics.
func (db *DB) Optimize() error {
	return db.withExclusive("optimize", func() error {
		_, err := db.exec("PRAGMA optimize")
		return err
	})
}

// Vacuum rebuilds the database file to reclaim unused space.
func (db *DB) Vacuum() error {
	return db.withExclusive("vacuum", func() error {
		_, err := db.exec("VACUUM")
		return err
	})
}

// withExclusive runs fn while no transaction of ours is open.
func (db *DB) withExclusive(what string, fn func() error) error {
	if db == nil || db.conn == nil {
		return fmt.Errorf("database not initialized")
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if err := fn(); err != nil {
		return fmt.Errorf("failed to %s database: %w", what, err)
	}
	return nil
}
