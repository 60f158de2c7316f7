package models

import "errors"

// Errors surfaced to players. All of them are recoverable at the command boundary.
var (
	ErrInvalidBet        = errors.New("invalid bet")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnknownItem       = errors.New("unknown item")
	ErrAlreadyPicked     = errors.New("cell already picked")
	ErrEmptyInventory    = errors.New("inventory is empty")
	ErrInvalidCell       = errors.New("invalid cell")
	ErrSessionOver       = errors.New("game is already over")
	ErrGameInProgress    = errors.New("game already in progress")

	// ErrTimedOut marks an expired wait window. It is a terminal outcome, not a failure.
	ErrTimedOut = errors.New("timed out")
)
