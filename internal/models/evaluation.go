package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ChrisJamesShevlin/snooker/internal/engine"
)

// Evaluation represents one persisted pricing cycle for a live match
type Evaluation struct {
	ID      uuid.UUID `db:"id" json:"id" validate:"required,uuid4"`
	MatchID uuid.UUID `db:"match_id" json:"match_id" validate:"required,uuid4"`

	SeasonStrengthA float64 `db:"season_strength_a" json:"season_strength_a"`
	SeasonStrengthB float64 `db:"season_strength_b" json:"season_strength_b"`
	LiveBoost       float64 `db:"live_boost" json:"live_boost"`
	PriorProb       float64 `db:"prior_prob" json:"prior_prob"`
	FrameProb       float64 `db:"frame_prob" json:"frame_prob"`
	MatchProb       float64 `db:"match_prob" json:"match_prob"`
	FairOddsA       float64 `db:"fair_odds_a" json:"fair_odds_a"`
	FairOddsB       float64 `db:"fair_odds_b" json:"fair_odds_b"`

	EdgeA           *float64 `db:"edge_a" json:"edge_a"`
	EdgeB           *float64 `db:"edge_b" json:"edge_b"`
	ClassificationA *string  `db:"classification_a" json:"classification_a"`
	ClassificationB *string  `db:"classification_b" json:"classification_b"`

	// Snapshot holds the full live input the cycle priced, for replay
	Snapshot  json.RawMessage `db:"snapshot" json:"snapshot"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// NewEvaluation builds an evaluation record from an engine price sheet
func NewEvaluation(matchID uuid.UUID, input engine.EvaluationInput, sheet *engine.PriceSheet) (*Evaluation, error) {
	snapshot, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}

	eval := &Evaluation{
		ID:              uuid.New(),
		MatchID:         matchID,
		SeasonStrengthA: sheet.SeasonStrengthA,
		SeasonStrengthB: sheet.SeasonStrengthB,
		LiveBoost:       sheet.LiveBoost,
		PriorProb:       sheet.PriorProb,
		FrameProb:       sheet.FrameProb,
		MatchProb:       sheet.MatchProb,
		FairOddsA:       sheet.FairOddsA,
		FairOddsB:       sheet.FairOddsB,
		Snapshot:        snapshot,
		CreatedAt:       time.Now().UTC(),
	}
	if sheet.ValueA != nil {
		edge := sheet.ValueA.Edge
		class := string(sheet.ValueA.Classification)
		eval.EdgeA = &edge
		eval.ClassificationA = &class
	}
	if sheet.ValueB != nil {
		edge := sheet.ValueB.Edge
		class := string(sheet.ValueB.Classification)
		eval.EdgeB = &edge
		eval.ClassificationB = &class
	}
	return eval, nil
}

// HasValue checks if either side was classified as a value price
func (e *Evaluation) HasValue() bool {
	value := string(engine.ClassificationValue)
	if e.ClassificationA != nil && *e.ClassificationA == value {
		return true
	}
	if e.ClassificationB != nil && *e.ClassificationB == value {
		return true
	}
	return false
}
