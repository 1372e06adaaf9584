package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/hillking/richgetricher/internal/models"
	"github.com/hillking/richgetricher/internal/services/game"
)

const (
	// balanceHistoryLimit caps the transfers shown under a balance
	balanceHistoryLimit = 10

	// faucetMaxAmount caps a single faucet grant
	faucetMaxAmount = 1_000_000
)

// remainingBlocks formats how long a game has left at the given height
func remainingBlocks(expiresAt, height uint64) string {
	if height >= expiresAt {
		return "ended"
	}
	return fmt.Sprintf("%d blocks left", expiresAt-height)
}

// renderLobby builds the embed listing every game in the lobby, oldest first
func renderLobby(output *game.GetLobbyOutput, height uint64) *discordgo.MessageEmbed {
	var listing strings.Builder
	for _, summary := range output.Games {
		fmt.Fprintf(&listing, "**#%d %s** — leader <@%s> at %d (%s)\n",
			summary.ID, summary.Name, summary.Leader, summary.HighestBid,
			remainingBlocks(summary.ExpiresAt, height))
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Lobby: %s", output.LobbyName),
		Description: listing.String(),
		Color:       0x00ff00, // Green color
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Games",
				Value:  fmt.Sprintf("%d", len(output.Games)),
				Inline: true,
			},
			{
				Name:   "Block Height",
				Value:  fmt.Sprintf("%d", height),
				Inline: true,
			},
		},
	}
}

// renderGame builds the embed showing a single game's current state
func renderGame(g *models.Game, height uint64) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{
			Name:   "Leader",
			Value:  fmt.Sprintf("<@%s>", g.Leader),
			Inline: true,
		},
		{
			Name:   "Highest Bid",
			Value:  fmt.Sprintf("%d", g.HighestBid),
			Inline: true,
		},
		{
			Name:   "Pot",
			Value:  fmt.Sprintf("%d", g.Pot),
			Inline: true,
		},
	}

	if g.Message != "" {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "Leader's Message",
			Value:  g.Message,
			Inline: false,
		})
	}

	status := remainingBlocks(g.ExpiresAt, height)
	if g.Settled {
		status = "settled"
	}

	fields = append(fields, &discordgo.MessageEmbedField{
		Name:   "Status",
		Value:  status,
		Inline: true,
	})

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Game #%d: %s", g.ID, g.Name),
		Description: fmt.Sprintf("Opened by <@%s> at height %d, ends at height %d.", g.CreatorID, g.CreatedAt, g.ExpiresAt),
		Color:       0x00ff00, // Green color
		Fields:      fields,
	}
}

// renderSettlement builds the embed announcing a payout
func renderSettlement(gameID uint64, output *game.SettleOutput) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Game Settled",
		Description: fmt.Sprintf("Game #%d paid its pot of **%d** tokens to <@%s>.", gameID, output.Amount, output.Winner),
		Color:       0x00ff00, // Green color
	}
}

// renderBalance builds the ephemeral embed showing an account's balance and
// its most recent transfers, newest first
func renderBalance(username, userID string, balance uint64, records []*models.TransferRecord) *discordgo.MessageEmbed {
	var history strings.Builder
	for _, record := range records {
		if record.FromAccount == userID {
			fmt.Fprintf(&history, "−%d to %s at height %d\n", record.Amount, record.ToAccount, record.Height)
		} else {
			fmt.Fprintf(&history, "+%d from %s at height %d\n", record.Amount, record.FromAccount, record.Height)
		}
	}

	fields := []*discordgo.MessageEmbedField{
		{
			Name:   "Balance",
			Value:  fmt.Sprintf("%d", balance),
			Inline: true,
		},
	}

	if history.Len() > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "Recent Transfers",
			Value:  history.String(),
			Inline: false,
		})
	}

	return &discordgo.MessageEmbed{
		Title:  fmt.Sprintf("%s's Account", username),
		Color:  0x00ff00, // Green color
		Fields: fields,
	}
}
