package game

import "errors"

// Define errors
var (
	ErrLobbyExists      = errors.New("lobby already exists")
	ErrLobbyNotFound    = errors.New("no lobby has been created")
	ErrLobbyEmpty       = errors.New("lobby has no games yet")
	ErrGameNotFound     = errors.New("game not found")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrGameExpired      = errors.New("bidding window has closed")
	ErrGameNotExpired   = errors.New("bidding window is still open")
	ErrAlreadySettled   = errors.New("game has already been settled")
	ErrBidTooLow        = errors.New("bid must strictly exceed the highest bid")
	ErrSameLeader       = errors.New("caller already leads this game")
)
