package database

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
)

// GetLevel returns the current level of the user's team.
func (db *DB) GetLevel(userID int64) (int, error) {
	_, level, err := teamProgress(db.conn, userID)
	return level, err
}

// CheckAccess reports whether questionID is open to the user: it must not be
// past the last question of the team's current level. Question ids are
// contiguous per level, so this is a range check.
func (m *Manager) CheckAccess(questionID, userID int64) (bool, error) {
	level, err := m.GetLevel(userID)
	if err != nil {
		return false, err
	}
	last, err := m.game.LastQuestionID(level)
	if err != nil {
		return false, err
	}
	return questionID <= last, nil
}

// UpdateLevel moves the user's team to the next level. It returns true and
// changes nothing when the team is already on the last configured level.
func (m *Manager) UpdateLevel(userID int64) (bool, error) {
	var atMax bool
	err := m.Transaction(func(tx *sql.Tx) error {
		teamID, level, err := teamProgress(tx, userID)
		if err != nil {
			return err
		}
		if level >= m.game.LevelCount() {
			atMax = true
			return nil
		}
		if _, err := tx.Exec("UPDATE teams SET level = level + 1 WHERE team_id = ?", teamID); err != nil {
			return fmt.Errorf("failed to update level of team %d: %w", teamID, err)
		}
		log.Info().Int64("team_id", teamID).Int("level", level+1).Msg("Team advanced to next level")
		return nil
	})
	if err != nil {
		return false, err
	}
	return atMax, nil
}

// GetLevelKey returns the completion key of the team's current level.
func (m *Manager) GetLevelKey(userID int64) (string, error) {
	level, err := m.GetLevel(userID)
	if err != nil {
		return "", err
	}
	lvl, err := m.game.Level(level)
	if err != nil {
		return "", err
	}
	return lvl.Key, nil
}

// AddBonus adds the bonus of the team's current level to its score. Nothing
// marks the bonus as claimed: call it once per level transition.
func (m *Manager) AddBonus(userID int64) error {
	return m.Transaction(func(tx *sql.Tx) error {
		teamID, level, err := teamProgress(tx, userID)
		if err != nil {
			return err
		}
		lvl, err := m.game.Level(level)
		if err != nil {
			return err
		}
		if _, err := tx.Exec("UPDATE teams SET score = score + ? WHERE team_id = ?", lvl.Bonus, teamID); err != nil {
			return fmt.Errorf("failed to add bonus to team %d: %w", teamID, err)
		}
		log.Info().Int64("team_id", teamID).Int("level", level).Int("bonus", lvl.Bonus).Msg("Level bonus awarded")
		return nil
	})
}

// CheckFinishLevel reports whether the team has solved every question of
// every level up to and including its current one.
func (m *Manager) CheckFinishLevel(userID int64) (bool, error) {
	return m.levelFinished(m.conn, userID)
}

func (m *Manager) levelFinished(q querier, userID int64) (bool, error) {
	_, level, err := teamProgress(q, userID)
	if err != nil {
		return false, err
	}
	required, err := m.game.QuestionIDsThrough(level)
	if err != nil {
		return false, err
	}
	answered, err := answeredQuestions(q, userID)
	if err != nil {
		return false, err
	}

	solved := make(map[int64]struct{}, len(answered))
	for _, id := range answered {
		solved[id] = struct{}{}
	}
	for _, id := range required {
		if _, ok := solved[id]; !ok {
			return false, nil
		}
	}
	return true, nil
}

func teamProgress(q querier, userID int64) (teamID int64, level int, err error) {
	err = q.QueryRow(`
		SELECT teams.team_id, teams.level FROM users
		INNER JOIN teams ON users.team_id = teams.team_id
		WHERE users.user_id = ?
	`, userID).Scan(&teamID, &level)
	if err == sql.ErrNoRows {
		return 0, 0, fmt.Errorf("team of user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get team of user %d: %w", userID, err)
	}
	return teamID, level, nil
}
