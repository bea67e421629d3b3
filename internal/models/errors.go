package models

import "errors"

// Custom errors
var (
	ErrPlayerNameRequired = errors.New("player name is required")
	ErrPlayersRequired    = errors.New("both players are required")
	ErrPlayersDistinct    = errors.New("a match needs two distinct players")
	ErrMatchFinished      = errors.New("match has already finished")
	ErrTipNotOpen         = errors.New("tip has already been settled")
	ErrNotFound           = errors.New("record not found")
	ErrDuplicateKey       = errors.New("duplicate key violation")
	ErrInvalidID          = errors.New("invalid ID format")
)
