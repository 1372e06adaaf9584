package game

import "github.com/hillking/richgetricher/internal/models"

type NextIDInput struct {
}

type SaveInput struct {
	Game *models.Game
}

type GetInput struct {
	GameID uint64
}

type GetManyInput struct {
	GameIDs []uint64
}

type ListExpiredInput struct {
	// Height is the current block height; games with ExpiresAt <= Height
	// are expired
	Height uint64
}
