package database

import "github.com/Onimbus/proz/internal/config"

// Manager is the data manager for the quiz: every question, team, user and
// answer operation goes through it. The level configuration is supplied at
// construction and only ever read.
type Manager struct {
	*DB
	game *config.Game
}

// NewManager binds a database to a game configuration.
func NewManager(db *DB, game *config.Game) *Manager {
	return &Manager{DB: db, game: game}
}

// Game returns the level configuration the manager was built with.
func (m *Manager) Game() *config.Game {
	return m.game
}
