package game

import (
	"github.com/hillking/richgetricher/internal/common/clock"
	"github.com/hillking/richgetricher/internal/ledger"
	"github.com/hillking/richgetricher/internal/models"
	lobbyRepo "github.com/hillking/richgetricher/internal/repositories/lobby"
	gameRepo "github.com/hillking/richgetricher/internal/repositories/game"
)

// Config holds configuration for the game service
type Config struct {
	// Maximum length of lobby and game names
	MaxNameLength int

	// Maximum length of a leader message
	MaxMessageLength int

	// AllowLeaderRebid permits the current leader to out-bid themselves
	AllowLeaderRebid bool

	// Repository dependencies
	LobbyRepo lobbyRepo.Repository
	GameRepo  gameRepo.Repository

	// Collaborator dependencies
	Ledger ledger.Adapter
	Clock  clock.Clock
}

// CreateLobbyInput contains parameters for creating the lobby
type CreateLobbyInput struct {
	// Name is the lobby's identifier
	Name string

	// EntryFee is the fee associated with opening a game in the lobby
	EntryFee uint64

	// CallerID is the identity creating the lobby
	CallerID string
}

// CreateLobbyOutput contains the result of creating the lobby
type CreateLobbyOutput struct {
	// Name echoes the created lobby's name
	Name string
}

// GetLobbyInput contains parameters for listing the lobby's games
type GetLobbyInput struct {
}

// GetLobbyOutput contains the lobby listing
type GetLobbyOutput struct {
	// LobbyName is the lobby's identifier
	LobbyName string

	// Games holds one summary per game ever created, oldest first
	Games []*models.GameSummary
}

// CreateGameInput contains parameters for opening a game
type CreateGameInput struct {
	// Name is the game's descriptive label
	Name string

	// EntryAmount is the creator's initial commitment and opening bid
	EntryAmount uint64

	// Duration is the number of blocks the game stays open
	Duration uint64

	// CallerID is the identity opening the game
	CallerID string
}

// CreateGameOutput contains the result of opening a game
type CreateGameOutput struct {
	// GameID is the new game's id
	GameID uint64
}

// GetGameInput contains parameters for reading a game
type GetGameInput struct {
	// GameID is the game to read
	GameID uint64
}

// GetGameOutput contains a read-only game snapshot
type GetGameOutput struct {
	Game *models.Game
}

// ParticipateInput contains parameters for placing a bid
type ParticipateInput struct {
	// GameID is the game to bid on
	GameID uint64

	// Bid is the amount offered; it must strictly exceed the highest bid
	Bid uint64

	// Message is the taunt attached to the bid
	Message string

	// CallerID is the identity placing the bid
	CallerID string
}

// ParticipateOutput contains the result of placing a bid
type ParticipateOutput struct {
	// Accepted indicates the bid was accepted and the caller now leads
	Accepted bool
}

// SettleInput contains parameters for settling a game
type SettleInput struct {
	// GameID is the game to settle
	GameID uint64
}

// SettleOutput contains the result of settling a game
type SettleOutput struct {
	// Winner is the leader the pot was paid to
	Winner string

	// Amount is the pot that was paid out
	Amount uint64
}

// SweepExpiredInput contains parameters for a settlement sweep
type SweepExpiredInput struct {
}

// SweepExpiredOutput contains the result of a settlement sweep
type SweepExpiredOutput struct {
	// SettledGameIDs holds the ids of the games the sweep settled
	SettledGameIDs []uint64
}
