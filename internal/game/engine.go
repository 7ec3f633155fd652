// Package game runs answer submissions against the quiz store in the order
// the store expects: access check, duplicate guard, scoring, pointer
// advance and level transition.
package game

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Onimbus/proz/internal/database"
)

// ErrUnknownUser is returned when the user is not registered or has no
// current question.
var ErrUnknownUser = errors.New("unknown user")

// Result describes the outcome of one submission
type Result struct {
	QuestionID int64
	// Locked means the question belongs to a level the team has not reached.
	Locked bool
	Correct bool
	// AlreadySolved means a teammate solved the question first; no points.
	AlreadySolved bool
	Points        int
	QuestionKey   string
	// NextQuestionID is zero when the user stays on the current question.
	NextQuestionID int64
	LevelFinished  bool
	LevelKey       string
	LevelBonus     int
	// MaxLevel is set when the finished level was the last one.
	MaxLevel bool
}

// Engine drives submissions for every user of one store.
type Engine struct {
	db *database.Manager
}

// New creates an engine over a data manager.
func New(db *database.Manager) *Engine {
	return &Engine{db: db}
}

// Register adds the user to the named team, creating the team if needed,
// and returns the team id. A user that is already registered keeps its team.
func (e *Engine) Register(userID int64, teamName string) (int64, error) {
	teamID, err := e.db.InsertTeam(teamName)
	if err != nil {
		return 0, err
	}
	if err := e.db.InsertUser(userID, teamID); err != nil {
		return 0, err
	}
	user, err := e.db.GetUser(userID)
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, fmt.Errorf("user %d: %w", userID, ErrUnknownUser)
	}
	return user.TeamID, nil
}

// Current returns the question the user should answer next.
func (e *Engine) Current(userID int64) (*database.Question, error) {
	q, err := e.db.GetQuestion(userID)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, fmt.Errorf("user %d: %w", userID, ErrUnknownUser)
	}
	return q, nil
}

// Submit checks answer against the user's current question and applies
// the consequences. Answers must match exactly.
func (e *Engine) Submit(userID int64, answer string) (Result, error) {
	q, err := e.Current(userID)
	if err != nil {
		return Result{}, err
	}
	res := Result{QuestionID: q.ID}

	open, err := e.db.CheckAccess(q.ID, userID)
	if err != nil {
		return res, err
	}
	if !open {
		res.Locked = true
		return res, nil
	}

	if answer != q.Answer {
		return res, nil
	}
	res.Correct = true

	solved, err := e.db.CheckAnswer(userID)
	if err != nil {
		return res, err
	}
	if len(solved) > 0 {
		res.AlreadySolved = true
		err := e.advance(userID, q.ID, &res)
		return res, err
	}

	recorded, finished, err := e.db.RecordAnswer(userID)
	if err != nil {
		return res, err
	}
	if !recorded {
		// a teammate recorded it between the check and the insert
		res.AlreadySolved = true
		err := e.advance(userID, q.ID, &res)
		return res, err
	}
	res.Points = q.Score

	key, err := e.db.GetKeyByID(q.ID)
	if err != nil {
		return res, err
	}
	res.QuestionKey = key

	if err := e.advance(userID, q.ID, &res); err != nil {
		return res, err
	}

	if finished {
		if err := e.finishLevel(userID, &res); err != nil {
			return res, err
		}
	}

	log.Debug().
		Int64("user_id", userID).
		Int64("question_id", q.ID).
		Bool("level_finished", res.LevelFinished).
		Msg("Answer accepted")

	return res, nil
}

func (e *Engine) advance(userID, questionID int64, res *Result) error {
	next, ok := e.db.Game().NextQuestionID(questionID)
	if !ok {
		return nil
	}
	if err := e.db.UpdateQuestionPointer(userID, next); err != nil {
		return err
	}
	res.NextQuestionID = next
	return nil
}

// finishLevel awards the bonus of the level just completed, hands out its
// key and moves the team on. The bonus is read before the level changes.
func (e *Engine) finishLevel(userID int64, res *Result) error {
	level, err := e.db.GetLevel(userID)
	if err != nil {
		return err
	}
	lvl, err := e.db.Game().Level(level)
	if err != nil {
		return err
	}
	if err := e.db.AddBonus(userID); err != nil {
		return err
	}
	key, err := e.db.GetLevelKey(userID)
	if err != nil {
		return err
	}
	atMax, err := e.db.UpdateLevel(userID)
	if err != nil {
		return err
	}

	res.LevelFinished = true
	res.LevelBonus = lvl.Bonus
	res.LevelKey = key
	res.MaxLevel = atMax
	return nil
}
