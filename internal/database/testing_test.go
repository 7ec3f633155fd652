package database

import (
	"path/filepath"
	"testing"

	"github.com/Onimbus/proz/internal/config"
)

// testGame has two levels: ids 1-4 (5 points each, bonus 10) and ids 5-6
// (10 points each, bonus 20).
func testGame(t *testing.T) *config.Game {
	t.Helper()
	game, err := config.NewGame([]config.LevelSpec{
		{
			Bonus: 10,
			Key:   "FIRST",
			Questions: []config.QuestionSpec{
				{Text: "q1", Answer: "a1", Score: 5, Key: "k1"},
				{Text: "q2", Answer: "a2", Score: 5},
				{Text: "q3", Answer: "a3", Score: 5},
				{Text: "q4", Answer: "a4", Score: 5},
			},
		},
		{
			Bonus: 20,
			Key:   "SECOND",
			Questions: []config.QuestionSpec{
				{Text: "q5", Answer: "a5", Score: 10},
				{Text: "q6", Answer: "a6", Score: 10},
			},
		},
	})
	if err != nil {
		t.Fatalf("failed to build game: %v", err)
	}
	return game
}

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(newTestDB(t), testGame(t))
	if err := m.Seed(); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}
	return m
}

// registerUser creates the team if needed and adds the user to it.
func registerUser(t *testing.T, m *Manager, userID int64, team string) int64 {
	t.Helper()
	teamID, err := m.InsertTeam(team)
	if err != nil {
		t.Fatalf("InsertTeam returned error: %v", err)
	}
	if err := m.InsertUser(userID, teamID); err != nil {
		t.Fatalf("InsertUser returned error: %v", err)
	}
	return teamID
}

// solve points the user at questionID and records it as answered.
func solve(t *testing.T, m *Manager, userID, questionID int64) bool {
	t.Helper()
	if err := m.UpdateQuestionPointer(userID, questionID); err != nil {
		t.Fatalf("UpdateQuestionPointer returned error: %v", err)
	}
	finished, err := m.AddPoints(userID)
	if err != nil {
		t.Fatalf("AddPoints returned error: %v", err)
	}
	return finished
}

func teamScore(t *testing.T, m *Manager, teamID int64) int {
	t.Helper()
	var score int
	if err := m.queryRow("SELECT score FROM teams WHERE team_id = ?", teamID).Scan(&score); err != nil {
		t.Fatalf("failed to read team score: %v", err)
	}
	return score
}
