package database

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Question represents a stored quiz question
type Question struct {
	ID     int64
	Text   string
	Answer string
	Score  int
	Level  int
	Key    string
}

// InsertQuestions inserts seed questions. Ids are primary keys, so ids that
// already exist are skipped and re-seeding is a no-op.
func (db *DB) InsertQuestions(rows []Question) error {
	return db.Transaction(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT OR IGNORE INTO questions (question_id, question_text, answer, score, level, key)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare question insert: %w", err)
		}
		defer stmt.Close()

		for _, row := range rows {
			if _, err := stmt.Exec(row.ID, row.Text, row.Answer, row.Score, row.Level, row.Key); err != nil {
				return fmt.Errorf("failed to insert question %d: %w", row.ID, err)
			}
		}
		return nil
	})
}

// UpdateQuestionKey sets the bonus key of a question. Unknown ids change nothing.
func (db *DB) UpdateQuestionKey(key string, questionID int64) error {
	_, err := db.exec("UPDATE questions SET key = ? WHERE question_id = ?", key, questionID)
	if err != nil {
		return fmt.Errorf("failed to update key of question %d: %w", questionID, err)
	}
	return nil
}

// GetQuestion returns the question the user's pointer refers to, or nil when
// the user is unknown or the pointer dangles.
func (db *DB) GetQuestion(userID int64) (*Question, error) {
	q := &Question{}
	var key sql.NullString
	err := db.queryRow(`
		SELECT questions.question_id, questions.question_text, questions.answer,
			questions.score, questions.level, questions.key
		FROM users
		INNER JOIN questions ON users.question_id = questions.question_id
		WHERE users.user_id = ?
	`, userID).Scan(&q.ID, &q.Text, &q.Answer, &q.Score, &q.Level, &key)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get question for user %d: %w", userID, err)
	}
	q.Key = nullStringValue(key)
	return q, nil
}

// GetKeyByID returns the bonus key of a question. Returns ErrNotFound when
// the question does not exist.
func (db *DB) GetKeyByID(questionID int64) (string, error) {
	var key sql.NullString
	err := db.queryRow("SELECT key FROM questions WHERE question_id = ?", questionID).Scan(&key)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("question %d: %w", questionID, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get key of question %d: %w", questionID, err)
	}
	return nullStringValue(key), nil
}

// CountQuestions returns the number of stored questions.
func (db *DB) CountQuestions() (int, error) {
	var count int
	if err := db.queryRow("SELECT COUNT(*) FROM questions").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return count, nil
}

// Seed creates the quiz tables, inserts every configured question and
// back-fills configured keys onto questions stored before the key was set.
func (m *Manager) Seed() error {
	if err := m.CreateQuestionsTables(); err != nil {
		return err
	}
	if err := m.CreateUsersTable(); err != nil {
		return err
	}

	questions := m.game.Questions()
	rows := make([]Question, 0, len(questions))
	for _, q := range questions {
		rows = append(rows, Question{
			ID:     q.ID,
			Text:   q.Text,
			Answer: q.Answer,
			Score:  q.Score,
			Level:  q.Level,
			Key:    q.Key,
		})
	}
	if err := m.InsertQuestions(rows); err != nil {
		return err
	}

	for _, q := range questions {
		if q.Key == "" {
			continue
		}
		if err := m.UpdateQuestionKey(q.Key, q.ID); err != nil {
			return err
		}
	}

	log.Info().
		Int("questions", len(rows)).
		Int("levels", m.game.LevelCount()).
		Msg("Quiz seeded")
	return nil
}
