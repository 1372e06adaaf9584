package game

import "context"

// Service defines the interface for lobby and game operations
type Service interface {
	// CreateLobby creates the deployment's single lobby
	CreateLobby(ctx context.Context, input *CreateLobbyInput) (*CreateLobbyOutput, error)

	// GetLobby lists every game ever created in the lobby, oldest first
	GetLobby(ctx context.Context, input *GetLobbyInput) (*GetLobbyOutput, error)

	// CreateGame opens a new game, escrowing the creator's entry amount
	CreateGame(ctx context.Context, input *CreateGameInput) (*CreateGameOutput, error)

	// GetGame returns a read-only snapshot of a game
	GetGame(ctx context.Context, input *GetGameInput) (*GetGameOutput, error)

	// Participate places a bid on a game
	Participate(ctx context.Context, input *ParticipateInput) (*ParticipateOutput, error)

	// Settle pays an expired game's pot to its leader
	Settle(ctx context.Context, input *SettleInput) (*SettleOutput, error)

	// SweepExpired settles every expired, unsettled game
	SweepExpired(ctx context.Context, input *SweepExpiredInput) (*SweepExpiredOutput, error)
}
