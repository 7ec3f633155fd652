package database

import (
	"database/sql"
	"fmt"
)

const questionsSchema = `
	CREATE TABLE IF NOT EXISTS questions (
		question_id INTEGER PRIMARY KEY,
		question_text TEXT NOT NULL,
		answer TEXT NOT NULL,
		score INTEGER NOT NULL DEFAULT 0,
		level INTEGER NOT NULL DEFAULT 1 CHECK (level >= 1),
		key TEXT NOT NULL DEFAULT ''
	);

	-- One row per (question, team); duplicates are ignored on insert
	CREATE TABLE IF NOT EXISTS answers (
		question_id INTEGER NOT NULL REFERENCES questions(question_id),
		team_id INTEGER NOT NULL REFERENCES teams(team_id),
		UNIQUE (question_id, team_id)
	);

	CREATE INDEX IF NOT EXISTS idx_answers_team ON answers(team_id);
`

const usersSchema = `
	CREATE TABLE IF NOT EXISTS teams (
		team_id INTEGER PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		score INTEGER NOT NULL DEFAULT 0,
		level INTEGER NOT NULL DEFAULT 1
	);

	-- question_id is the pointer to the next question for the user
	CREATE TABLE IF NOT EXISTS users (
		user_id INTEGER PRIMARY KEY,
		team_id INTEGER NOT NULL REFERENCES teams(team_id),
		question_id INTEGER NOT NULL DEFAULT 1
	);

	CREATE INDEX IF NOT EXISTS idx_users_team ON users(team_id);
`

// CreateQuestionsTables creates the questions and answers tables if missing.
func (db *DB) CreateQuestionsTables() error {
	if err := db.applySchema(questionsSchema); err != nil {
		return fmt.Errorf("failed to create questions tables: %w", err)
	}
	return nil
}

// CreateUsersTable creates the teams and users tables if missing.
func (db *DB) CreateUsersTable() error {
	if err := db.applySchema(usersSchema); err != nil {
		return fmt.Errorf("failed to create users tables: %w", err)
	}
	return nil
}

func (db *DB) applySchema(schema string) error {
	return db.Transaction(func(tx *sql.Tx) error {
		for _, stmt := range splitSQLStatements(schema) {
			if _, err := tx.Exec(stmt); err != nil {
				return err
			}
		}
		return nil
	})
}
