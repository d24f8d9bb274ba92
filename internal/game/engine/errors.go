package engine

import "errors"

var (
	ErrNotStarted      = errors.New("game not started")
	ErrStopped         = errors.New("engine stopped")
	ErrWrongPhase      = errors.New("action not allowed in current phase")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrInvalidBid      = errors.New("invalid bid")
	ErrCardNotInHand   = errors.New("card not in hand")
	ErrCardNotPlayable = errors.New("card not playable")
	ErrTrickFull       = errors.New("trick is waiting for evaluation")
)
