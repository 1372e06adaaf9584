package game

import (
	"context"
	"errors"
	"sync"

	"github.com/hillking/richgetricher/internal/ledger"
	"github.com/hillking/richgetricher/internal/models"
	gameRepo "github.com/hillking/richgetricher/internal/repositories/game"
	lobbyRepo "github.com/hillking/richgetricher/internal/repositories/lobby"
)

const (
	defaultMaxNameLength    = 32
	defaultMaxMessageLength = 128
)

// service implements the Service interface
type service struct {
	config    *Config
	lobbyRepo lobbyRepo.Repository
	gameRepo  gameRepo.Repository
	ledger    ledger.Adapter

	// mu serializes mutating operations. Bids are arbitrated purely by the
	// order in which they acquire the lock against the then-current highest
	// bid; no operation ever observes a partially applied one.
	mu sync.Mutex
}

// New creates a new game service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.LobbyRepo == nil {
		return nil, errors.New("lobby repository cannot be nil")
	}

	if cfg.GameRepo == nil {
		return nil, errors.New("game repository cannot be nil")
	}

	if cfg.Ledger == nil {
		return nil, errors.New("ledger cannot be nil")
	}

	if cfg.Clock == nil {
		return nil, errors.New("clock cannot be nil")
	}

	// Set default values if not provided
	if cfg.MaxNameLength == 0 {
		cfg.MaxNameLength = defaultMaxNameLength
	}

	if cfg.MaxMessageLength == 0 {
		cfg.MaxMessageLength = defaultMaxMessageLength
	}

	return &service{
		config:    cfg,
		lobbyRepo: cfg.LobbyRepo,
		gameRepo:  cfg.GameRepo,
		ledger:    cfg.Ledger,
	}, nil
}

// CreateLobby creates the deployment's single lobby
func (s *service) CreateLobby(ctx context.Context, input *CreateLobbyInput) (*CreateLobbyOutput, error) {
	if input.Name == "" || len(input.Name) > s.config.MaxNameLength {
		return nil, ErrInvalidParameter
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lobby := &models.Lobby{
		Name:      input.Name,
		EntryFee:  input.EntryFee,
		GameIDs:   []uint64{},
		CreatedAt: s.config.Clock.Height(),
	}

	err := s.lobbyRepo.Create(ctx, &lobbyRepo.CreateInput{
		Lobby: lobby,
	})
	if err != nil {
		if errors.Is(err, lobbyRepo.ErrLobbyExists) {
			return nil, ErrLobbyExists
		}
		return nil, err
	}

	return &CreateLobbyOutput{
		Name: lobby.Name,
	}, nil
}

// GetLobby lists every game ever created in the lobby, oldest first
func (s *service) GetLobby(ctx context.Context, input *GetLobbyInput) (*GetLobbyOutput, error) {
	lobby, err := s.lobbyRepo.Get(ctx, &lobbyRepo.GetInput{})
	if err != nil {
		if errors.Is(err, lobbyRepo.ErrLobbyNotFound) {
			return nil, ErrLobbyNotFound
		}
		return nil, err
	}

	if len(lobby.GameIDs) == 0 {
		return nil, ErrLobbyEmpty
	}

	games, err := s.gameRepo.GetMany(ctx, &gameRepo.GetManyInput{
		GameIDs: lobby.GameIDs,
	})
	if err != nil {
		return nil, err
	}

	summaries := make([]*models.GameSummary, 0, len(games))
	for _, game := range games {
		summaries = append(summaries, game.Summary())
	}

	return &GetLobbyOutput{
		LobbyName: lobby.Name,
		Games:     summaries,
	}, nil
}

// CreateGame opens a new game, escrowing the creator's entry amount
func (s *service) CreateGame(ctx context.Context, input *CreateGameInput) (*CreateGameOutput, error) {
	if input.Name == "" || len(input.Name) > s.config.MaxNameLength {
		return nil, ErrInvalidParameter
	}

	if input.EntryAmount == 0 || input.Duration == 0 {
		return nil, ErrInvalidParameter
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A lobby must exist before any game can be opened
	lobby, err := s.lobbyRepo.Get(ctx, &lobbyRepo.GetInput{})
	if err != nil {
		if errors.Is(err, lobbyRepo.ErrLobbyNotFound) {
			return nil, ErrLobbyNotFound
		}
		return nil, err
	}

	gameID, err := s.gameRepo.NextID(ctx, &gameRepo.NextIDInput{})
	if err != nil {
		return nil, err
	}

	// Escrow the creator's entry amount before any state is written; a
	// failed debit leaves everything untouched
	_, err = s.ledger.Transfer(ctx, &ledger.TransferInput{
		FromAccount: input.CallerID,
		ToAccount:   ledger.GameAccount(gameID),
		Amount:      input.EntryAmount,
	})
	if err != nil {
		return nil, err
	}

	now := s.config.Clock.Height()
	game := &models.Game{
		ID:          gameID,
		Name:        input.Name,
		CreatorID:   input.CallerID,
		EntryAmount: input.EntryAmount,
		Leader:      input.CallerID,
		HighestBid:  input.EntryAmount,
		Pot:         input.EntryAmount,
		Duration:    input.Duration,
		CreatedAt:   now,
		ExpiresAt:   now + input.Duration,
		Settled:     false,
	}

	err = s.gameRepo.Save(ctx, &gameRepo.SaveInput{
		Game: game,
	})
	if err != nil {
		return nil, err
	}

	// Append the game to the lobby's ordered list
	lobby.GameIDs = append(lobby.GameIDs, gameID)
	err = s.lobbyRepo.Save(ctx, &lobbyRepo.SaveInput{
		Lobby: lobby,
	})
	if err != nil {
		return nil, err
	}

	return &CreateGameOutput{
		GameID: gameID,
	}, nil
}

// GetGame returns a read-only snapshot of a game. Settlement is lazy: a
// snapshot past expiry still reports Settled false until Settle runs.
func (s *service) GetGame(ctx context.Context, input *GetGameInput) (*GetGameOutput, error) {
	game, err := s.gameRepo.Get(ctx, &gameRepo.GetInput{
		GameID: input.GameID,
	})
	if err != nil {
		if errors.Is(err, gameRepo.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	return &GetGameOutput{
		Game: game,
	}, nil
}

// Participate places a bid on a game
func (s *service) Participate(ctx context.Context, input *ParticipateInput) (*ParticipateOutput, error) {
	if len(input.Message) > s.config.MaxMessageLength {
		return nil, ErrInvalidParameter
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	game, err := s.gameRepo.Get(ctx, &gameRepo.GetInput{
		GameID: input.GameID,
	})
	if err != nil {
		if errors.Is(err, gameRepo.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	// The window is strictly closed at the expiry height
	if game.Expired(s.config.Clock.Height()) {
		return nil, ErrGameExpired
	}

	// The arbitration rule: a bid must strictly exceed the incumbent
	if input.Bid <= game.HighestBid {
		return nil, ErrBidTooLow
	}

	if input.CallerID == game.Leader && !s.config.AllowLeaderRebid {
		return nil, ErrSameLeader
	}

	// Escrow the bid; a failed debit aborts with no state change, and once
	// the debit succeeds the mutation below is committed
	_, err = s.ledger.Transfer(ctx, &ledger.TransferInput{
		FromAccount: input.CallerID,
		ToAccount:   ledger.GameAccount(game.ID),
		Amount:      input.Bid,
	})
	if err != nil {
		return nil, err
	}

	game.Pot += input.Bid
	game.HighestBid = input.Bid
	game.Leader = input.CallerID
	game.Message = input.Message

	err = s.gameRepo.Save(ctx, &gameRepo.SaveInput{
		Game: game,
	})
	if err != nil {
		return nil, err
	}

	return &ParticipateOutput{
		Accepted: true,
	}, nil
}

// Settle pays an expired game's pot to its leader
func (s *service) Settle(ctx context.Context, input *SettleInput) (*SettleOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	game, err := s.gameRepo.Get(ctx, &gameRepo.GetInput{
		GameID: input.GameID,
	})
	if err != nil {
		if errors.Is(err, gameRepo.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	return s.settleLocked(ctx, game)
}

// settleLocked executes the terminal payout transition. The caller must
// hold s.mu.
func (s *service) settleLocked(ctx context.Context, game *models.Game) (*SettleOutput, error) {
	if !game.Expired(s.config.Clock.Height()) {
		return nil, ErrGameNotExpired
	}

	if game.Settled {
		return nil, ErrAlreadySettled
	}

	// Pay the pot out of escrow to the last leader
	amount := game.Pot
	_, err := s.ledger.Transfer(ctx, &ledger.TransferInput{
		FromAccount: ledger.GameAccount(game.ID),
		ToAccount:   game.Leader,
		Amount:      amount,
	})
	if err != nil {
		return nil, err
	}

	game.Settled = true
	game.Pot = 0

	err = s.gameRepo.Save(ctx, &gameRepo.SaveInput{
		Game: game,
	})
	if err != nil {
		return nil, err
	}

	return &SettleOutput{
		Winner: game.Leader,
		Amount: amount,
	}, nil
}

// SweepExpired settles every expired, unsettled game. It reuses the same
// terminal transition as Settle, so a sweep racing a manual settle loses
// cleanly with ErrAlreadySettled.
func (s *service) SweepExpired(ctx context.Context, input *SweepExpiredInput) (*SweepExpiredOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expired, err := s.gameRepo.ListExpired(ctx, &gameRepo.ListExpiredInput{
		Height: s.config.Clock.Height(),
	})
	if err != nil {
		return nil, err
	}

	settled := make([]uint64, 0, len(expired))
	for _, game := range expired {
		if _, err := s.settleLocked(ctx, game); err != nil {
			if errors.Is(err, ErrAlreadySettled) {
				continue
			}
			return nil, err
		}
		settled = append(settled, game.ID)
	}

	return &SweepExpiredOutput{
		SettledGameIDs: settled,
	}, nil
}
