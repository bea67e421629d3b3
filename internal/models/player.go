package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ChrisJamesShevlin/snooker/internal/engine"
)

// Player represents a tour player with their season-to-date form
type Player struct {
	ID            uuid.UUID `db:"id" json:"id" validate:"required,uuid4"`
	Name          string    `db:"name" json:"name" validate:"required,min=1,max=255"`
	SeasonPoints  float64   `db:"season_points" json:"season_points" validate:"gte=0"`
	MatchesPlayed int       `db:"matches_played" json:"matches_played" validate:"gte=0"`
	WinRate       float64   `db:"win_rate" json:"win_rate" validate:"gte=0,lte=1"`
	AvgShotTime   float64   `db:"avg_shot_time" json:"avg_shot_time" validate:"gte=0"`
	Breaks50Plus  int       `db:"breaks_50_plus" json:"breaks_50_plus" validate:"gte=0"`
	Breaks100Plus int       `db:"breaks_100_plus" json:"breaks_100_plus" validate:"gte=0"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// SeasonStats converts the stored season form to engine input
func (p *Player) SeasonStats() engine.PlayerSeasonStats {
	return engine.PlayerSeasonStats{
		Points:        p.SeasonPoints,
		MatchesPlayed: p.MatchesPlayed,
		WinRate:       p.WinRate,
		AvgShotTime:   p.AvgShotTime,
		Breaks50Plus:  p.Breaks50Plus,
		Breaks100Plus: p.Breaks100Plus,
	}
}

// Validate performs basic validation on the player
func (p *Player) Validate() error {
	if p.Name == "" {
		return ErrPlayerNameRequired
	}
	return nil
}
