package database

import (
	"database/sql"
	"fmt"
)

// User is a participant; TeamID is fixed at registration and QuestionID is
// the pointer to the next question to answer.
type User struct {
	ID         int64
	TeamID     int64
	QuestionID int64
}

// InsertUser registers a user in a team. Re-registering an existing user id
// changes nothing, including the team.
func (db *DB) InsertUser(userID, teamID int64) error {
	_, err := db.exec("INSERT OR IGNORE INTO users (user_id, team_id) VALUES (?, ?)", userID, teamID)
	if err != nil {
		return fmt.Errorf("failed to insert user %d: %w", userID, err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (db *DB) GetUser(userID int64) (*User, error) {
	u := &User{}
	err := db.queryRow(`
		SELECT user_id, team_id, question_id FROM users WHERE user_id = ?
	`, userID).Scan(&u.ID, &u.TeamID, &u.QuestionID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}
	return u, nil
}

// UpdateQuestionPointer moves the user's pointer to questionID.
func (db *DB) UpdateQuestionPointer(userID, questionID int64) error {
	_, err := db.exec("UPDATE users SET question_id = ? WHERE user_id = ?", questionID, userID)
	if err != nil {
		return fmt.Errorf("failed to update question pointer of user %d: %w", userID, err)
	}
	return nil
}
