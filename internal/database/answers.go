package database

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
)

// GetAnswers returns the ids of every question the user's team has solved.
func (db *DB) GetAnswers(userID int64) ([]int64, error) {
	return answeredQuestions(db.conn, userID)
}

// CheckAnswer returns the user's current question id if the team already
// has an answer for it, so a caller can tell that a teammate solved it first.
func (db *DB) CheckAnswer(userID int64) ([]int64, error) {
	rows, err := db.query(`
		SELECT answers.question_id FROM answers
		INNER JOIN users ON users.team_id = answers.team_id
		WHERE users.user_id = ? AND answers.question_id = users.question_id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check answer of user %d: %w", userID, err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

// AddPoints records the user's current question as solved by the team and
// reports whether the team has now finished its current level.
func (m *Manager) AddPoints(userID int64) (bool, error) {
	_, finished, err := m.RecordAnswer(userID)
	return finished, err
}

// RecordAnswer is AddPoints with the insert outcome exposed. The question
// score is only added when the answer row is new, so a resubmitted or
// concurrently solved question is never scored twice.
func (m *Manager) RecordAnswer(userID int64) (recorded, finished bool, err error) {
	err = m.Transaction(func(tx *sql.Tx) error {
		var score int
		var questionID, teamID int64
		err := tx.QueryRow(`
			SELECT questions.score, questions.question_id, users.team_id FROM users
			INNER JOIN questions ON users.question_id = questions.question_id
			WHERE users.user_id = ?
		`, userID).Scan(&score, &questionID, &teamID)
		if err == sql.ErrNoRows {
			return fmt.Errorf("current question of user %d: %w", userID, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to get current question of user %d: %w", userID, err)
		}

		result, err := tx.Exec("INSERT OR IGNORE INTO answers (question_id, team_id) VALUES (?, ?)", questionID, teamID)
		if err != nil {
			return fmt.Errorf("failed to record answer: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to record answer: %w", err)
		}

		if n > 0 {
			recorded = true
			if _, err := tx.Exec("UPDATE teams SET score = score + ? WHERE team_id = ?", score, teamID); err != nil {
				return fmt.Errorf("failed to add points to team %d: %w", teamID, err)
			}
			log.Debug().
				Int64("user_id", userID).
				Int64("team_id", teamID).
				Int64("question_id", questionID).
				Int("points", score).
				Msg("Answer recorded")
		} else {
			log.Debug().
				Int64("team_id", teamID).
				Int64("question_id", questionID).
				Msg("Question already solved by team, no points awarded")
		}

		finished, err = m.levelFinished(tx, userID)
		return err
	})
	if err != nil {
		return false, false, err
	}
	return recorded, finished, nil
}

func answeredQuestions(q querier, userID int64) ([]int64, error) {
	rows, err := q.Query(`
		SELECT answers.question_id FROM answers
		INNER JOIN users ON users.team_id = answers.team_id
		WHERE users.user_id = ?
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get answers of user %d: %w", userID, err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

func scanIDs(rows *sql.Rows) ([]int64, error) {
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan question id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
