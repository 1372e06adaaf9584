package lobby

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/hillking/richgetricher/internal/repositories/lobby Repository

import (
	"context"

	"github.com/hillking/richgetricher/internal/models"
)

// Repository defines the interface for lobby data persistence. A deployment
// holds at most one lobby.
type Repository interface {
	// Create stores the lobby if and only if none exists yet
	Create(ctx context.Context, input *CreateInput) error

	// Get retrieves the lobby
	Get(ctx context.Context, input *GetInput) (*models.Lobby, error)

	// Save persists lobby mutations (game-id appends)
	Save(ctx context.Context, input *SaveInput) error
}
