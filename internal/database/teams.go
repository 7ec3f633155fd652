package database

import (
	"fmt"
	"strings"
)

// TeamScore is one rating row
type TeamScore struct {
	Name  string
	Score int
}

// TeamName pairs a team id with its display name
type TeamName struct {
	ID   int64
	Name string
}

// InsertTeam registers a team by name and returns its id. Registering an
// existing name returns the existing id; the upsert and the id lookup are a
// single statement, so concurrent callers cannot create duplicates.
func (db *DB) InsertTeam(name string) (int64, error) {
	var id int64
	err := db.queryRow(`
		INSERT INTO teams (name) VALUES (?)
		ON CONFLICT(name) DO UPDATE SET name = excluded.name
		RETURNING team_id
	`, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert team %q: %w", name, err)
	}
	return id, nil
}

// GetRating returns all teams ordered by score, highest first.
// Order among equal scores is left to SQLite.
func (db *DB) GetRating() ([]TeamScore, error) {
	rows, err := db.query("SELECT name, score FROM teams ORDER BY score DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}
	defer rows.Close()

	var rating []TeamScore
	for rows.Next() {
		var t TeamScore
		if err := rows.Scan(&t.Name, &t.Score); err != nil {
			return nil, fmt.Errorf("failed to scan rating row: %w", err)
		}
		rating = append(rating, t)
	}
	return rating, rows.Err()
}

// GetTeamsNames returns every team id and name.
func (db *DB) GetTeamsNames() ([]TeamName, error) {
	rows, err := db.query("SELECT team_id, name FROM teams ORDER BY team_id")
	if err != nil {
		return nil, fmt.Errorf("failed to get teams: %w", err)
	}
	defer rows.Close()

	var teams []TeamName
	for rows.Next() {
		var t TeamName
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// FormatRating renders a rating as numbered lines, e.g. "1. Owls - 30".
func FormatRating(rating []TeamScore) string {
	var b strings.Builder
	for i, t := range rating {
		fmt.Fprintf(&b, "%d. %s - %d\n", i+1, t.Name, t.Score)
	}
	return b.String()
}
