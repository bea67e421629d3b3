package models

import (
	"time"

	"github.com/google/uuid"
)

// TipSide represents the side of the match a tip backs
type TipSide string

const (
	TipSidePlayerA TipSide = "PLAYER_A"
	TipSidePlayerB TipSide = "PLAYER_B"
)

// TipStatus represents the settlement state of a tip
type TipStatus string

const (
	TipStatusOpen    TipStatus = "open"
	TipStatusVoid    TipStatus = "void"
	TipStatusSettled TipStatus = "settled"
)

// Tip represents a flagged price worth backing, issued from one evaluation
type Tip struct {
	ID             uuid.UUID  `db:"id" json:"id" validate:"required,uuid4"`
	MatchID        uuid.UUID  `db:"match_id" json:"match_id" validate:"required,uuid4"`
	EvaluationID   uuid.UUID  `db:"evaluation_id" json:"evaluation_id" validate:"required,uuid4"`
	Side           TipSide    `db:"side" json:"side" validate:"required,oneof=PLAYER_A PLAYER_B"`
	BookOdds       float64    `db:"book_odds" json:"book_odds" validate:"required,gt=1"`
	FairOdds       float64    `db:"fair_odds" json:"fair_odds" validate:"required,gt=0"`
	Edge           float64    `db:"edge" json:"edge"`
	Classification string     `db:"classification" json:"classification" validate:"required,oneof=VALUE MARGINAL"`
	SuggestedStake float64    `db:"suggested_stake" json:"suggested_stake" validate:"gte=0"`
	Status         TipStatus  `db:"status" json:"status" validate:"required,oneof=open void settled"`
	NotifiedAt     *time.Time `db:"notified_at" json:"notified_at"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

// IsNotified checks if the tip has been pushed to the webhook
func (t *Tip) IsNotified() bool {
	return t.NotifiedAt != nil
}

// IsOpen checks if the tip is still awaiting settlement
func (t *Tip) IsOpen() bool {
	return t.Status == TipStatusOpen
}
