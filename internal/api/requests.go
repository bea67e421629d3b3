// Package api exposes the pricing service over HTTP.
package api

import (
	"github.com/google/uuid"

	"github.com/ChrisJamesShevlin/snooker/internal/engine"
	"github.com/ChrisJamesShevlin/snooker/internal/models"
	"github.com/ChrisJamesShevlin/snooker/internal/service"
)

// CreatePlayerRequest is the payload for registering a player
type CreatePlayerRequest struct {
	Name          string  `json:"name" validate:"required,min=1,max=255"`
	SeasonPoints  float64 `json:"season_points" validate:"gte=0"`
	MatchesPlayed int     `json:"matches_played" validate:"gte=0"`
	WinRate       float64 `json:"win_rate" validate:"gte=0,lte=1"`
	AvgShotTime   float64 `json:"avg_shot_time" validate:"gte=0"`
	Breaks50Plus  int     `json:"breaks_50_plus" validate:"gte=0"`
	Breaks100Plus int     `json:"breaks_100_plus" validate:"gte=0"`
}

// ToPlayer converts the request to a player record
func (r CreatePlayerRequest) ToPlayer() *models.Player {
	return &models.Player{
		ID:            uuid.New(),
		Name:          r.Name,
		SeasonPoints:  r.SeasonPoints,
		MatchesPlayed: r.MatchesPlayed,
		WinRate:       r.WinRate,
		AvgShotTime:   r.AvgShotTime,
		Breaks50Plus:  r.Breaks50Plus,
		Breaks100Plus: r.Breaks100Plus,
	}
}

// SeasonStatsRequest carries a player's season form, either to update a
// stored player or inline in a quote
type SeasonStatsRequest struct {
	SeasonPoints  float64 `json:"season_points" validate:"gte=0"`
	MatchesPlayed int     `json:"matches_played" validate:"gte=0"`
	WinRate       float64 `json:"win_rate" validate:"gte=0,lte=1"`
	AvgShotTime   float64 `json:"avg_shot_time" validate:"gte=0"`
	Breaks50Plus  int     `json:"breaks_50_plus" validate:"gte=0"`
	Breaks100Plus int     `json:"breaks_100_plus" validate:"gte=0"`
}

// ApplyTo copies the season form onto a stored player
func (r SeasonStatsRequest) ApplyTo(player *models.Player) {
	player.SeasonPoints = r.SeasonPoints
	player.MatchesPlayed = r.MatchesPlayed
	player.WinRate = r.WinRate
	player.AvgShotTime = r.AvgShotTime
	player.Breaks50Plus = r.Breaks50Plus
	player.Breaks100Plus = r.Breaks100Plus
}

// ToEngine converts the season form to engine input
func (r SeasonStatsRequest) ToEngine() engine.PlayerSeasonStats {
	return engine.PlayerSeasonStats{
		Points:        r.SeasonPoints,
		MatchesPlayed: r.MatchesPlayed,
		WinRate:       r.WinRate,
		AvgShotTime:   r.AvgShotTime,
		Breaks50Plus:  r.Breaks50Plus,
		Breaks100Plus: r.Breaks100Plus,
	}
}

// CreateMatchRequest is the payload for scheduling a match
type CreateMatchRequest struct {
	PlayerAID     string   `json:"player_a_id" validate:"required,uuid4"`
	PlayerBID     string   `json:"player_b_id" validate:"required,uuid4"`
	BestOf        int      `json:"best_of" validate:"required,gt=0"`
	PreMatchOddsA *float64 `json:"pre_match_odds_a" validate:"omitempty,gt=1"`
	PreMatchOddsB *float64 `json:"pre_match_odds_b" validate:"omitempty,gt=1"`
}

// ToMatch converts the request to a match record
func (r CreateMatchRequest) ToMatch() (*models.Match, error) {
	playerAID, err := uuid.Parse(r.PlayerAID)
	if err != nil {
		return nil, models.ErrInvalidID
	}
	playerBID, err := uuid.Parse(r.PlayerBID)
	if err != nil {
		return nil, models.ErrInvalidID
	}

	return &models.Match{
		PlayerAID:     playerAID,
		PlayerBID:     playerBID,
		BestOf:        r.BestOf,
		PreMatchOddsA: r.PreMatchOddsA,
		PreMatchOddsB: r.PreMatchOddsB,
	}, nil
}

// ScoreRequest is the payload for a frame score update
type ScoreRequest struct {
	FramesA int `json:"frames_a" validate:"gte=0"`
	FramesB int `json:"frames_b" validate:"gte=0"`
}

// LiveStatsRequest carries one player's in-play reading. Percentage
// fields arrive as 0-100 and convert to fractions at this boundary. A
// zero time-on-table reads as unreported and defaults to an even split.
type LiveStatsRequest struct {
	PotPct         float64 `json:"pot_pct" validate:"gte=0,lte=100"`
	AvgShotTime    float64 `json:"avg_shot_time" validate:"gte=0"`
	Breaks50Plus   int     `json:"breaks_50_plus" validate:"gte=0"`
	Breaks100Plus  int     `json:"breaks_100_plus" validate:"gte=0"`
	HighestBreak   int     `json:"highest_break" validate:"gte=0,lte=155"`
	Points         float64 `json:"points" validate:"gte=0"`
	ShotsTaken     int     `json:"shots_taken" validate:"gte=0"`
	TimeOnTablePct float64 `json:"time_on_table_pct" validate:"gte=0,lte=100"`
}

// ToEngine converts the reading to engine input
func (r LiveStatsRequest) ToEngine() engine.PlayerLiveStats {
	tableShare := r.TimeOnTablePct / 100.0
	if r.TimeOnTablePct == 0 {
		tableShare = 0.5
	}

	return engine.PlayerLiveStats{
		PotPct:           r.PotPct / 100.0,
		AvgShotTime:      r.AvgShotTime,
		Breaks50Plus:     r.Breaks50Plus,
		Breaks100Plus:    r.Breaks100Plus,
		HighestBreak:     r.HighestBreak,
		Points:           r.Points,
		ShotsTaken:       r.ShotsTaken,
		TimeOnTableShare: tableShare,
	}
}

// EvaluateRequest is one live snapshot for a stored match
type EvaluateRequest struct {
	LiveA     LiveStatsRequest `json:"live_a"`
	LiveB     LiveStatsRequest `json:"live_b"`
	BookOddsA float64          `json:"book_odds_a" validate:"omitempty,gt=1"`
	BookOddsB float64          `json:"book_odds_b" validate:"omitempty,gt=1"`
}

// ToSnapshot converts the request to a pricing snapshot
func (r EvaluateRequest) ToSnapshot() service.LiveSnapshot {
	return service.LiveSnapshot{
		LiveA:     r.LiveA.ToEngine(),
		LiveB:     r.LiveB.ToEngine(),
		BookOddsA: r.BookOddsA,
		BookOddsB: r.BookOddsB,
	}
}

// TipStatusRequest is the payload for settling a tip
type TipStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=settled void"`
}

// QuoteRequest is a full standalone evaluation payload
type QuoteRequest struct {
	SeasonA       SeasonStatsRequest `json:"season_a"`
	SeasonB       SeasonStatsRequest `json:"season_b"`
	LiveA         LiveStatsRequest   `json:"live_a"`
	LiveB         LiveStatsRequest   `json:"live_b"`
	FramesA       int                `json:"frames_a" validate:"gte=0"`
	FramesB       int                `json:"frames_b" validate:"gte=0"`
	BestOf        int                `json:"best_of" validate:"required,gt=0"`
	PreMatchOddsA float64            `json:"pre_match_odds_a" validate:"omitempty,gt=1"`
	PreMatchOddsB float64            `json:"pre_match_odds_b" validate:"omitempty,gt=1"`
	BookOddsA     float64            `json:"book_odds_a" validate:"omitempty,gt=1"`
	BookOddsB     float64            `json:"book_odds_b" validate:"omitempty,gt=1"`
}

// ToInput converts the request to engine input
func (r QuoteRequest) ToInput() engine.EvaluationInput {
	return engine.EvaluationInput{
		SeasonA: r.SeasonA.ToEngine(),
		SeasonB: r.SeasonB.ToEngine(),
		LiveA:   r.LiveA.ToEngine(),
		LiveB:   r.LiveB.ToEngine(),
		Score: engine.ScoreState{
			FramesA:      r.FramesA,
			FramesB:      r.FramesB,
			TargetFrames: engine.TargetFromBestOf(r.BestOf),
		},
		PreMatchOddsA: r.PreMatchOddsA,
		PreMatchOddsB: r.PreMatchOddsB,
		BookOddsA:     r.BookOddsA,
		BookOddsB:     r.BookOddsB,
	}
}
