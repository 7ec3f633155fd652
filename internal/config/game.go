package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

//go:embed default_game.yaml
var defaultGameYAML []byte

// ErrUnknownLevel is returned for a level number outside the configuration.
var ErrUnknownLevel = errors.New("unknown level")

// QuestionSpec is one question as written in the game file
type QuestionSpec struct {
	Text   string `mapstructure:"text"`
	Answer string `mapstructure:"answer"`
	Score  int    `mapstructure:"score"`
	Key    string `mapstructure:"key"`
}

// LevelSpec is one level as written in the game file
type LevelSpec struct {
	Bonus     int            `mapstructure:"bonus"`
	Key       string         `mapstructure:"key"`
	Questions []QuestionSpec `mapstructure:"questions"`
}

type gameFile struct {
	Levels []LevelSpec `mapstructure:"levels"`
}

// Question is a question with its assigned id and level
type Question struct {
	ID     int64
	Text   string
	Answer string
	Score  int
	Level  int
	Key    string
}

// Level describes one level: its question ids in order, the bonus awarded
// on completion and the completion key.
type Level struct {
	Number      int
	QuestionIDs []int64
	Bonus       int
	Key         string
}

// Game is the level configuration. It is built once and never mutated.
type Game struct {
	levels    []Level
	questions []Question
}

// NewGame builds a game from level specs. Question ids are assigned from 1
// in order, so each level owns a contiguous ascending block of ids.
func NewGame(specs []LevelSpec) (*Game, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("game has no levels")
	}

	g := &Game{}
	var nextID int64 = 1
	for i, spec := range specs {
		number := i + 1
		if len(spec.Questions) == 0 {
			return nil, fmt.Errorf("level %d has no questions", number)
		}
		if spec.Bonus < 0 {
			return nil, fmt.Errorf("level %d has negative bonus %d", number, spec.Bonus)
		}

		level := Level{
			Number:      number,
			QuestionIDs: make([]int64, 0, len(spec.Questions)),
			Bonus:       spec.Bonus,
			Key:         spec.Key,
		}
		for j, qs := range spec.Questions {
			if qs.Text == "" || qs.Answer == "" {
				return nil, fmt.Errorf("level %d question %d: text and answer are required", number, j+1)
			}
			if qs.Score < 0 {
				return nil, fmt.Errorf("level %d question %d: negative score %d", number, j+1, qs.Score)
			}
			g.questions = append(g.questions, Question{
				ID:     nextID,
				Text:   qs.Text,
				Answer: qs.Answer,
				Score:  qs.Score,
				Level:  number,
				Key:    qs.Key,
			})
			level.QuestionIDs = append(level.QuestionIDs, nextID)
			nextID++
		}
		g.levels = append(g.levels, level)
	}

	return g, nil
}

// LoadGame reads a game file. The format follows the file extension
// (yaml, json or toml).
func LoadGame(path string) (*Game, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read game file %s: %w", path, err)
	}
	return decodeGame(v)
}

// DefaultGame returns the built-in game.
func DefaultGame() (*Game, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaultGameYAML)); err != nil {
		return nil, fmt.Errorf("failed to read default game: %w", err)
	}
	return decodeGame(v)
}

func decodeGame(v *viper.Viper) (*Game, error) {
	var file gameFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("failed to decode game: %w", err)
	}
	return NewGame(file.Levels)
}

// LevelCount returns the number of configured levels.
func (g *Game) LevelCount() int {
	return len(g.levels)
}

// Level returns level n, counting from 1.
func (g *Game) Level(n int) (Level, error) {
	if n < 1 || n > len(g.levels) {
		return Level{}, fmt.Errorf("level %d: %w", n, ErrUnknownLevel)
	}
	return g.levels[n-1], nil
}

// Levels returns all levels in order.
func (g *Game) Levels() []Level {
	return g.levels
}

// Questions returns all questions in id order.
func (g *Game) Questions() []Question {
	return g.questions
}

// LastQuestionID returns the highest question id of level n.
func (g *Game) LastQuestionID(n int) (int64, error) {
	level, err := g.Level(n)
	if err != nil {
		return 0, err
	}
	return level.QuestionIDs[len(level.QuestionIDs)-1], nil
}

// QuestionIDsThrough returns the ids of every question in levels 1..n.
func (g *Game) QuestionIDsThrough(n int) ([]int64, error) {
	if _, err := g.Level(n); err != nil {
		return nil, err
	}
	var ids []int64
	for _, level := range g.levels[:n] {
		ids = append(ids, level.QuestionIDs...)
	}
	return ids, nil
}

// NextQuestionID returns the id following id, or false when id is the last
// question of the game.
func (g *Game) NextQuestionID(id int64) (int64, bool) {
	if id < 1 || id >= int64(len(g.questions)) {
		return 0, false
	}
	return id + 1, true
}
