package game

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/hillking/richgetricher/internal/repositories/game Repository

import (
	"context"

	"github.com/hillking/richgetricher/internal/models"
)

// Repository defines the interface for game data persistence
type Repository interface {
	// NextID allocates the next sequential game id; ids are never reused
	NextID(ctx context.Context, input *NextIDInput) (uint64, error)

	// Save persists a game
	Save(ctx context.Context, input *SaveInput) error

	// Get retrieves a game by id
	Get(ctx context.Context, input *GetInput) (*models.Game, error)

	// GetMany retrieves games by id, preserving input order
	GetMany(ctx context.Context, input *GetManyInput) ([]*models.Game, error)

	// ListExpired retrieves the unsettled games whose window has elapsed
	ListExpired(ctx context.Context, input *ListExpiredInput) ([]*models.Game, error)
}
