package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"github.com/hillking/richgetricher/internal/common/clock"
	"github.com/hillking/richgetricher/internal/ledger"
	"github.com/hillking/richgetricher/internal/services/game"
)

// RichGetRicherCommand handles the /richgetricher command
type RichGetRicherCommand struct {
	BaseCommand
	gameService game.Service
	ledger      ledger.Adapter
	clock       clock.Clock
}

// NewRichGetRicherCommand creates a new richgetricher command handler
func NewRichGetRicherCommand(gameService game.Service, ledgerAdapter ledger.Adapter, blockClock clock.Clock) *RichGetRicherCommand {
	return &RichGetRicherCommand{
		BaseCommand: BaseCommand{
			Name:        "richgetricher",
			Description: "King-of-the-hill bidding game commands",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "createlobby",
					Description: "Create the lobby",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "name",
							Description: "Lobby name",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "entryfee",
							Description: "Suggested entry fee for new games",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "lobby",
					Description: "List the games in the lobby",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "creategame",
					Description: "Open a new game with your opening bid",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "name",
							Description: "Game name",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "entry",
							Description: "Opening bid, escrowed into the pot",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "duration",
							Description: "Game length in blocks",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "game",
					Description: "Show a game's current state",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "id",
							Description: "Game id",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "bid",
					Description: "Bid on a game to take the lead",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "id",
							Description: "Game id",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "amount",
							Description: "Bid amount, must beat the current highest",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "message",
							Description: "Message displayed while you lead",
							Required:    false,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "settle",
					Description: "Pay out an expired game to its leader",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "id",
							Description: "Game id",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "balance",
					Description: "Show your balance and recent transfers",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "faucet",
					Description: "Grant yourself play tokens",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "amount",
							Description: "Amount to grant",
							Required:    true,
						},
					},
				},
			},
		},
		gameService: gameService,
		ledger:      ledgerAdapter,
		clock:       blockClock,
	}
}

// Handle processes a Discord interaction for the richgetricher command
func (c *RichGetRicherCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	data := i.ApplicationCommandData()
	if data.Name != c.Name {
		return nil
	}

	// Get the user information
	userID := i.Member.User.ID
	username := i.Member.User.Username
	if i.Member.Nick != "" {
		username = i.Member.Nick
	}

	sub := data.Options[0]
	opts := optionMap(sub.Options)

	// Handle the appropriate subcommand
	var err error
	switch sub.Name {
	case "createlobby":
		err = c.handleCreateLobby(s, i, userID, opts)
	case "lobby":
		err = c.handleLobby(s, i)
	case "creategame":
		err = c.handleCreateGame(s, i, userID, username, opts)
	case "game":
		err = c.handleGame(s, i, opts)
	case "bid":
		err = c.handleBid(s, i, userID, username, opts)
	case "settle":
		err = c.handleSettle(s, i, opts)
	case "balance":
		err = c.handleBalance(s, i, userID, username)
	case "faucet":
		err = c.handleFaucet(s, i, userID, opts)
	default:
		err = errors.New("unknown subcommand")
	}

	return err
}

// optionMap indexes a subcommand's options by name
func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

// uintOption reads an integer option, rejecting negatives
func uintOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) (uint64, error) {
	opt, ok := opts[name]
	if !ok {
		return 0, fmt.Errorf("missing option %s", name)
	}

	value := opt.IntValue()
	if value < 0 {
		return 0, fmt.Errorf("option %s cannot be negative", name)
	}

	return uint64(value), nil
}

// handleCreateLobby handles the createlobby subcommand
func (c *RichGetRicherCommand) handleCreateLobby(s *discordgo.Session, i *discordgo.InteractionCreate, userID string, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()

	name := opts["name"].StringValue()
	entryFee, err := uintOption(opts, "entryfee")
	if err != nil {
		return RespondWithError(s, i, err.Error())
	}

	output, err := c.gameService.CreateLobby(ctx, &game.CreateLobbyInput{
		Name:     name,
		EntryFee: entryFee,
		CallerID: userID,
	})
	if err != nil {
		if errors.Is(err, game.ErrLobbyExists) {
			return RespondWithError(s, i, "The lobby already exists. Use `/richgetricher lobby` to see its games.")
		}
		if errors.Is(err, game.ErrInvalidParameter) {
			return RespondWithError(s, i, "Invalid lobby name.")
		}
		log.Printf("Error creating lobby: %v", err)
		return RespondWithError(s, i, fmt.Sprintf("Failed to create lobby: %v", err))
	}

	return RespondWithEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "Lobby Created",
		Description: fmt.Sprintf("Lobby **%s** is open. Use `/richgetricher creategame` to open the first game.", output.Name),
		Color:       0x00ff00, // Green color
	})
}

// handleLobby handles the lobby subcommand
func (c *RichGetRicherCommand) handleLobby(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	output, err := c.gameService.GetLobby(ctx, &game.GetLobbyInput{})
	if err != nil {
		if errors.Is(err, game.ErrLobbyNotFound) {
			return RespondWithError(s, i, "No lobby yet. Use `/richgetricher createlobby` to create one.")
		}
		if errors.Is(err, game.ErrLobbyEmpty) {
			return RespondWithError(s, i, "The lobby has no games yet. Use `/richgetricher creategame` to open one.")
		}
		log.Printf("Error getting lobby: %v", err)
		return RespondWithError(s, i, fmt.Sprintf("Failed to get lobby: %v", err))
	}

	return RespondWithEmbed(s, i, renderLobby(output, c.clock.Height()))
}

// handleCreateGame handles the creategame subcommand
func (c *RichGetRicherCommand) handleCreateGame(s *discordgo.Session, i *discordgo.InteractionCreate, userID, username string, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()

	name := opts["name"].StringValue()
	entry, err := uintOption(opts, "entry")
	if err != nil {
		return RespondWithError(s, i, err.Error())
	}
	duration, err := uintOption(opts, "duration")
	if err != nil {
		return RespondWithError(s, i, err.Error())
	}

	output, err := c.gameService.CreateGame(ctx, &game.CreateGameInput{
		Name:        name,
		EntryAmount: entry,
		Duration:    duration,
		CallerID:    userID,
	})
	if err != nil {
		if errors.Is(err, game.ErrLobbyNotFound) {
			return RespondWithError(s, i, "No lobby yet. Use `/richgetricher createlobby` first.")
		}
		if errors.Is(err, game.ErrInvalidParameter) {
			return RespondWithError(s, i, "Invalid game parameters. Entry and duration must be positive.")
		}
		if errors.Is(err, ledger.ErrInsufficientFunds) {
			return RespondWithError(s, i, "You can't cover the opening bid. Use `/richgetricher faucet` to top up.")
		}
		log.Printf("Error creating game: %v", err)
		return RespondWithError(s, i, fmt.Sprintf("Failed to create game: %v", err))
	}

	return RespondWithEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "Game Opened",
		Description: fmt.Sprintf("**%s** opened game #%d with a %d token bid. It runs for %d blocks.", username, output.GameID, entry, duration),
		Color:       0x00ff00, // Green color
	})
}

// handleGame handles the game subcommand
func (c *RichGetRicherCommand) handleGame(s *discordgo.Session, i *discordgo.InteractionCreate, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()

	gameID, err := uintOption(opts, "id")
	if err != nil {
		return RespondWithError(s, i, err.Error())
	}

	output, err := c.gameService.GetGame(ctx, &game.GetGameInput{
		GameID: gameID,
	})
	if err != nil {
		if errors.Is(err, game.ErrGameNotFound) {
			return RespondWithError(s, i, fmt.Sprintf("Game #%d does not exist.", gameID))
		}
		log.Printf("Error getting game: %v", err)
		return RespondWithError(s, i, fmt.Sprintf("Failed to get game: %v", err))
	}

	return RespondWithEmbed(s, i, renderGame(output.Game, c.clock.Height()))
}

// handleBid handles the bid subcommand
func (c *RichGetRicherCommand) handleBid(s *discordgo.Session, i *discordgo.InteractionCreate, userID, username string, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()

	gameID, err := uintOption(opts, "id")
	if err != nil {
		return RespondWithError(s, i, err.Error())
	}
	amount, err := uintOption(opts, "amount")
	if err != nil {
		return RespondWithError(s, i, err.Error())
	}

	message := ""
	if opt, ok := opts["message"]; ok {
		message = opt.StringValue()
	}

	_, err = c.gameService.Participate(ctx, &game.ParticipateInput{
		GameID:   gameID,
		Bid:      amount,
		Message:  message,
		CallerID: userID,
	})
	if err != nil {
		switch {
		case errors.Is(err, game.ErrGameNotFound):
			return RespondWithError(s, i, fmt.Sprintf("Game #%d does not exist.", gameID))
		case errors.Is(err, game.ErrGameExpired):
			return RespondWithError(s, i, fmt.Sprintf("Game #%d has ended. Use `/richgetricher settle` to pay out the winner.", gameID))
		case errors.Is(err, game.ErrBidTooLow):
			return RespondWithError(s, i, "Your bid must beat the current highest bid.")
		case errors.Is(err, game.ErrSameLeader):
			return RespondWithError(s, i, "You already lead this game.")
		case errors.Is(err, game.ErrInvalidParameter):
			return RespondWithError(s, i, "Your message is too long.")
		case errors.Is(err, ledger.ErrInsufficientFunds):
			return RespondWithError(s, i, "You can't cover that bid. Use `/richgetricher faucet` to top up.")
		}
		log.Printf("Error placing bid: %v", err)
		return RespondWithError(s, i, fmt.Sprintf("Failed to place bid: %v", err))
	}

	return RespondWithEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "New Leader",
		Description: fmt.Sprintf("**%s** takes the lead on game #%d with a bid of %d.", username, gameID, amount),
		Color:       0x00ff00, // Green color
	})
}

// handleSettle handles the settle subcommand
func (c *RichGetRicherCommand) handleSettle(s *discordgo.Session, i *discordgo.InteractionCreate, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()

	gameID, err := uintOption(opts, "id")
	if err != nil {
		return RespondWithError(s, i, err.Error())
	}

	output, err := c.gameService.Settle(ctx, &game.SettleInput{
		GameID: gameID,
	})
	if err != nil {
		switch {
		case errors.Is(err, game.ErrGameNotFound):
			return RespondWithError(s, i, fmt.Sprintf("Game #%d does not exist.", gameID))
		case errors.Is(err, game.ErrGameNotExpired):
			return RespondWithError(s, i, fmt.Sprintf("Game #%d is still running.", gameID))
		case errors.Is(err, game.ErrAlreadySettled):
			return RespondWithError(s, i, fmt.Sprintf("Game #%d has already been paid out.", gameID))
		}
		log.Printf("Error settling game: %v", err)
		return RespondWithError(s, i, fmt.Sprintf("Failed to settle game: %v", err))
	}

	return RespondWithEmbed(s, i, renderSettlement(gameID, output))
}

// handleBalance handles the balance subcommand
func (c *RichGetRicherCommand) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate, userID, username string) error {
	ctx := context.Background()

	balanceOutput, err := c.ledger.GetBalance(ctx, &ledger.GetBalanceInput{
		Account: userID,
	})
	if err != nil {
		log.Printf("Error getting balance: %v", err)
		return RespondWithError(s, i, fmt.Sprintf("Failed to get balance: %v", err))
	}

	historyOutput, err := c.ledger.GetHistory(ctx, &ledger.GetHistoryInput{
		Account: userID,
		Limit:   balanceHistoryLimit,
	})
	if err != nil {
		log.Printf("Error getting transfer history: %v", err)
		return RespondWithError(s, i, fmt.Sprintf("Failed to get transfer history: %v", err))
	}

	return RespondWithEphemeralEmbed(s, i, renderBalance(username, userID, balanceOutput.Balance, historyOutput.Records))
}

// handleFaucet handles the faucet subcommand
func (c *RichGetRicherCommand) handleFaucet(s *discordgo.Session, i *discordgo.InteractionCreate, userID string, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()

	amount, err := uintOption(opts, "amount")
	if err != nil {
		return RespondWithError(s, i, err.Error())
	}

	if amount == 0 || amount > faucetMaxAmount {
		return RespondWithError(s, i, fmt.Sprintf("Faucet grants must be between 1 and %d tokens.", faucetMaxAmount))
	}

	if err := c.ledger.Deposit(ctx, &ledger.DepositInput{
		Account: userID,
		Amount:  amount,
	}); err != nil {
		log.Printf("Error granting faucet tokens: %v", err)
		return RespondWithError(s, i, fmt.Sprintf("Failed to grant tokens: %v", err))
	}

	return RespondWithEphemeralMessage(s, i, fmt.Sprintf("Granted %d tokens. Check `/richgetricher balance`.", amount))
}
