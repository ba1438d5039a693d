package game

import "errors"

// Rule violations are ordinary failure results, never panics. The only fatal
// condition in this package is a malformed board topology at construction.
var (
	ErrNotYourTurn     = errors.New("not your turn")
	ErrWrongPhase      = errors.New("action not allowed in this phase")
	ErrCannotAfford    = errors.New("insufficient resources")
	ErrNotConnected    = errors.New("placement not connected to your network")
	ErrTooClose        = errors.New("adjacent plot already occupied")
	ErrNoPiecesLeft    = errors.New("no building pieces of that kind left")
	ErrOccupied        = errors.New("target already occupied")
	ErrBankShort       = errors.New("bank cannot cover the exchange")
	ErrDeckExhausted   = errors.New("development deck is empty")
	ErrCardNotPlayable = errors.New("card cannot be played this turn")
	ErrBadTrade        = errors.New("trade offer is invalid")
	ErrNoSuchTarget    = errors.New("no such plot, path, hexagon or player")
	ErrRobberStays     = errors.New("robber must move to a different hexagon")
	ErrNotASettlement  = errors.New("plot does not hold your settlement")
)
