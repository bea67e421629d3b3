package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ChrisJamesShevlin/snooker/internal/engine"
)

// MatchStatus represents the lifecycle state of a match
type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusLive      MatchStatus = "live"
	MatchStatusFinished  MatchStatus = "finished"
)

// Match represents a best-of-N frames match between two players
type Match struct {
	ID            uuid.UUID   `db:"id" json:"id" validate:"required,uuid4"`
	PlayerAID     uuid.UUID   `db:"player_a_id" json:"player_a_id" validate:"required,uuid4"`
	PlayerBID     uuid.UUID   `db:"player_b_id" json:"player_b_id" validate:"required,uuid4"`
	BestOf        int         `db:"best_of" json:"best_of" validate:"required,gt=0"`
	TargetFrames  int         `db:"target_frames" json:"target_frames" validate:"required,gt=0"`
	FramesA       int         `db:"frames_a" json:"frames_a" validate:"gte=0"`
	FramesB       int         `db:"frames_b" json:"frames_b" validate:"gte=0"`
	Status        MatchStatus `db:"status" json:"status" validate:"required,oneof=scheduled live finished"`
	PreMatchOddsA *float64    `db:"pre_match_odds_a" json:"pre_match_odds_a"`
	PreMatchOddsB *float64    `db:"pre_match_odds_b" json:"pre_match_odds_b"`
	StartedAt     *time.Time  `db:"started_at" json:"started_at"`
	FinishedAt    *time.Time  `db:"finished_at" json:"finished_at"`
	CreatedAt     time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updated_at"`
}

// Score converts the stored frame score to engine input
func (m *Match) Score() engine.ScoreState {
	return engine.ScoreState{
		FramesA:      m.FramesA,
		FramesB:      m.FramesB,
		TargetFrames: m.TargetFrames,
	}
}

// IsLive checks if the match is in play
func (m *Match) IsLive() bool {
	return m.Status == MatchStatusLive
}

// IsFinished checks if the match has completed
func (m *Match) IsFinished() bool {
	return m.Status == MatchStatusFinished
}

// Decided checks if either player has reached the frame target
func (m *Match) Decided() bool {
	return m.FramesA >= m.TargetFrames || m.FramesB >= m.TargetFrames
}

// Validate performs basic validation on the match
func (m *Match) Validate() error {
	if m.PlayerAID == uuid.Nil || m.PlayerBID == uuid.Nil {
		return ErrPlayersRequired
	}
	if m.PlayerAID == m.PlayerBID {
		return ErrPlayersDistinct
	}
	return nil
}
