package repository

import (
	"fmt"

	"github.com/ChrisJamesShevlin/snooker/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Player     PlayerRepository
	Match      MatchRepository
	Evaluation EvaluationRepository
	Tip        TipRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Player:     NewPostgresPlayerRepository(db),
		Match:      NewPostgresMatchRepository(db),
		Evaluation: NewPostgresEvaluationRepository(db),
		Tip:        NewPostgresTipRepository(db),
	}, nil
}
